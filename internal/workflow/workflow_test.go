package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newsdesk-ai/newsdesk/internal/config"
	"github.com/newsdesk-ai/newsdesk/internal/history"
	"github.com/newsdesk-ai/newsdesk/internal/research"
	"github.com/newsdesk-ai/newsdesk/internal/review"
	"github.com/newsdesk-ai/newsdesk/internal/writer"
)

type scriptedEditor struct {
	verdicts []*review.EditorVerdict
	priors   []*review.FactCheckVerdict
	calls    int
}

func (e *scriptedEditor) Review(_ context.Context, _, _ string, prior *review.FactCheckVerdict) (*review.EditorVerdict, error) {
	e.priors = append(e.priors, prior)
	v := e.verdicts[min(e.calls, len(e.verdicts)-1)]
	e.calls++
	return v, nil
}

type scriptedFactChecker struct {
	verdicts []*review.FactCheckVerdict
	calls    int
}

func (f *scriptedFactChecker) Review(_ context.Context, _, _ string) (*review.FactCheckVerdict, error) {
	v := f.verdicts[min(f.calls, len(f.verdicts)-1)]
	f.calls++
	return v, nil
}

type scriptedAuthenticity struct {
	verdicts []*review.AuthenticityVerdict
	calls    int
}

func (a *scriptedAuthenticity) Review(_ context.Context, _, _ string) (*review.AuthenticityVerdict, error) {
	v := a.verdicts[min(a.calls, len(a.verdicts)-1)]
	a.calls++
	return v, nil
}

type countingRewriter struct {
	calls    int
	feedback []*writer.Feedback
}

func (r *countingRewriter) Revise(_ context.Context, _ string, feedback *writer.Feedback, _ string) (string, error) {
	r.calls++
	r.feedback = append(r.feedback, feedback)
	return fmt.Sprintf("revised draft %d", r.calls), nil
}

type countingResearcher struct {
	calls    int
	requests [][]research.Request
	findings []research.Finding
}

func (r *countingResearcher) TargetedResearch(_ context.Context, requests []research.Request) []research.Finding {
	r.calls++
	r.requests = append(r.requests, requests)
	return r.findings
}

func editorVerdict(grade string) *review.EditorVerdict {
	return &review.EditorVerdict{Grade: grade, Ready: config.GateGrades[grade]}
}

func factVerdict(score int, issues ...review.Issue) *review.FactCheckVerdict {
	v := &review.FactCheckVerdict{Score: score, Issues: issues}
	v.Ready = score >= 60 && v.CriticalIssues() == 0
	return v
}

func authVerdict(score int, ready bool) *review.AuthenticityVerdict {
	return &review.AuthenticityVerdict{Score: score, Ready: ready}
}

func newTestStore(t *testing.T, topic string) *RunStore {
	t.Helper()
	store, err := NewRunDir(t.TempDir(), topic)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestGateRequiresAllThreeReviewers(t *testing.T) {
	tests := []struct {
		name   string
		editor *review.EditorVerdict
		fact   *review.FactCheckVerdict
		auth   *review.AuthenticityVerdict
		pass   bool
	}{
		{"all ready", editorVerdict("A"), factVerdict(92), authVerdict(90, true), true},
		{"editor not ready", editorVerdict("B"), factVerdict(92), authVerdict(90, true), false},
		{"fact-check not ready", editorVerdict("A"), factVerdict(55), authVerdict(90, true), false},
		{"authenticity not ready", editorVerdict("A"), factVerdict(92), authVerdict(40, false), false},
		{"degraded fact-check blocks", editorVerdict("A+"), &review.FactCheckVerdict{ParseError: "bad json"}, authVerdict(90, true), false},
		{"none ready", editorVerdict("C"), factVerdict(30), authVerdict(20, false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rewriter := &countingRewriter{}
			ctrl := NewController(Options{
				Editor:       &scriptedEditor{verdicts: []*review.EditorVerdict{tt.editor}},
				FactChecker:  &scriptedFactChecker{verdicts: []*review.FactCheckVerdict{tt.fact}},
				Authenticity: &scriptedAuthenticity{verdicts: []*review.AuthenticityVerdict{tt.auth}},
				Drafter:      rewriter,
				Store:        newTestStore(t, "Gate Topic"),
				Config:       config.RevisionConfig{SafetyCap: 2, ResearchScoreThreshold: 80},
			})

			result, err := ctrl.Run(context.Background(), "draft", "Gate Topic", nil)
			if err != nil {
				t.Fatal(err)
			}
			// A passed gate stops the loop before any rewrite; a failed
			// gate rewrites once and then caps out.
			passed := rewriter.calls == 0
			if passed != tt.pass {
				t.Errorf("gate passed = %v, want %v", passed, tt.pass)
			}
			wantRevisions := 2
			if tt.pass {
				wantRevisions = 1
			}
			if result.TotalRevisions != wantRevisions {
				t.Errorf("total revisions = %d, want %d", result.TotalRevisions, wantRevisions)
			}
		})
	}
}

func TestMergeIssuesOrdering(t *testing.T) {
	ed := &review.EditorVerdict{CriticalIssues: []string{"buried lede"}}
	fc := &review.FactCheckVerdict{Issues: []review.Issue{
		{Severity: review.SeverityHigh, Issue: "weak citation"},
		{Severity: review.SeverityCritical, Issue: "wrong statistic", Correction: "use the 2025 figure"},
		{Severity: review.SeverityLow, Issue: "stale link"},
	}}
	auth := &review.AuthenticityVerdict{Patterns: []review.Pattern{
		{Severity: review.SeverityMedium, Pattern: "hedging"},
		{Severity: review.SeverityHigh, Pattern: "formulaic transitions"},
		{Severity: review.SeverityLow, Pattern: "intensifiers"},
	}}

	merged := mergeIssues(ed, fc, auth)
	var got []string
	for _, m := range merged {
		got = append(got, m.Reviewer+"/"+m.Description)
	}
	want := []string{
		"fact_checker/wrong statistic",
		"authenticity/formulaic transitions",
		"editor/buried lede",
		"fact_checker/weak citation",
		"authenticity/hedging",
	}
	if len(got) != len(want) {
		t.Fatalf("merged = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, got[i], want[i])
		}
	}
	if merged[0].Correction != "use the 2025 figure" {
		t.Errorf("correction not carried: %+v", merged[0])
	}
}

func TestSafetyCapTerminatesUnconvergedRun(t *testing.T) {
	rewriter := &countingRewriter{}
	ctrl := NewController(Options{
		Editor:       &scriptedEditor{verdicts: []*review.EditorVerdict{editorVerdict("B")}},
		FactChecker:  &scriptedFactChecker{verdicts: []*review.FactCheckVerdict{factVerdict(85)}},
		Authenticity: &scriptedAuthenticity{verdicts: []*review.AuthenticityVerdict{authVerdict(50, false)}},
		Drafter:      rewriter,
		Store:        newTestStore(t, "Stubborn Topic"),
		Config:       config.RevisionConfig{SafetyCap: 3, ResearchScoreThreshold: 80},
	})

	result, err := ctrl.Run(context.Background(), "draft", "Stubborn Topic", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalRevisions != 3 {
		t.Errorf("total revisions = %d, want 3", result.TotalRevisions)
	}
	if rewriter.calls != 2 {
		t.Errorf("rewrites = %d, want 2", rewriter.calls)
	}
	if result.ReadyToPublish {
		t.Error("run with an unready reviewer must not be ready to publish")
	}
	if !result.Capped {
		t.Error("capped run must be flagged as capped")
	}
	if result.FinalArticle == "" {
		t.Error("capped run must still produce a final article")
	}
}

func TestResearchTriggerMatrix(t *testing.T) {
	sourcingIssue := review.Issue{Severity: review.SeverityCritical, Type: "unverified_source", Issue: "no source for the claim"}
	toneIssue := review.Issue{Severity: review.SeverityCritical, Type: "tone", Issue: "overstated"}

	tests := []struct {
		name string
		fc   *review.FactCheckVerdict
		want bool
	}{
		{"score 79 no issues", factVerdict(79), true},
		{"score 85 with sourcing critical", factVerdict(85, sourcingIssue), true},
		{"score 90 no issues", factVerdict(90), false},
		{"score 90 critical but not sourcing", factVerdict(90, toneIssue), false},
		{"sourcing word in issue text", factVerdict(85, review.Issue{Severity: review.SeverityHigh, Type: "claim", Issue: "citation needed here"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsResearch(tt.fc, 80); got != tt.want {
				t.Errorf("needsResearch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoopRunsTargetedResearchOnWeakSourcing(t *testing.T) {
	researcher := &countingResearcher{
		findings: []research.Finding{{Source: research.SourceTargeted, Title: "new evidence"}},
	}
	ctrl := NewController(Options{
		Editor: &scriptedEditor{verdicts: []*review.EditorVerdict{editorVerdict("B"), editorVerdict("A")}},
		FactChecker: &scriptedFactChecker{verdicts: []*review.FactCheckVerdict{
			factVerdict(70, review.Issue{Severity: review.SeverityHigh, Type: "unverified_source", Location: "paragraph 2", Issue: "source not found"}),
			factVerdict(92),
		}},
		Authenticity: &scriptedAuthenticity{verdicts: []*review.AuthenticityVerdict{authVerdict(90, true)}},
		Drafter:      &countingRewriter{},
		Researcher:   researcher,
		Store:        newTestStore(t, "Sourcing Topic"),
		Config:       config.RevisionConfig{SafetyCap: 5, ResearchScoreThreshold: 80},
	})

	if _, err := ctrl.Run(context.Background(), "draft", "Sourcing Topic", nil); err != nil {
		t.Fatal(err)
	}
	if researcher.calls != 1 {
		t.Fatalf("targeted research calls = %d, want 1", researcher.calls)
	}
	if len(researcher.requests[0]) == 0 {
		t.Error("no research requests extracted from the sourcing issue")
	}
}

func TestTwoCycleConvergence(t *testing.T) {
	db, err := history.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	historyStore := history.NewStore(db)

	editor := &scriptedEditor{verdicts: []*review.EditorVerdict{editorVerdict("B"), editorVerdict("A")}}
	cycle1Fact := factVerdict(70, review.Issue{Severity: review.SeverityHigh, Type: "unverified_source", Issue: "one HIGH sourcing issue"})
	factChecker := &scriptedFactChecker{verdicts: []*review.FactCheckVerdict{cycle1Fact, factVerdict(92)}}
	authenticity := &scriptedAuthenticity{verdicts: []*review.AuthenticityVerdict{
		authVerdict(85, false),
		authVerdict(90, true),
	}}
	rewriter := &countingRewriter{}
	store := newTestStore(t, "Renewable Energy Storage")

	ctrl := NewController(Options{
		Editor:       editor,
		FactChecker:  factChecker,
		Authenticity: authenticity,
		Drafter:      rewriter,
		Researcher:   &countingResearcher{},
		Store:        store,
		History:      historyStore,
		Config:       config.RevisionConfig{SafetyCap: 999, ResearchScoreThreshold: 80},
	})

	findings := []research.Finding{
		{Source: research.SourceWeb, Title: "finding one"},
		{Source: research.SourceWeb, Title: "finding two"},
	}
	result, err := ctrl.Run(context.Background(), "placeholder draft", "Renewable Energy Storage", findings)
	if err != nil {
		t.Fatal(err)
	}

	if !result.ReadyToPublish {
		t.Error("ready_to_publish = false, want true")
	}
	if result.Capped {
		t.Error("converged run must not be flagged as capped")
	}
	if result.TotalRevisions != 2 {
		t.Errorf("total_revisions = %d, want 2", result.TotalRevisions)
	}
	if result.EditorGrade != "A" || result.FactCheckScore != 92 || result.AuthenticityScore != 90 {
		t.Errorf("result = %+v", result)
	}
	if rewriter.calls != 1 {
		t.Errorf("rewrites = %d, want 1", rewriter.calls)
	}

	// The editor sees the previous cycle's fact-check, never the current one.
	if editor.priors[0] != nil {
		t.Error("cycle 1 editor received a prior fact-check")
	}
	if editor.priors[1] != cycle1Fact {
		t.Error("cycle 2 editor did not receive cycle 1's fact-check")
	}

	// Durable layout: every intermediate artifact by deterministic name.
	for _, name := range []string{
		"article_v1.md", "article_v2.md", "article_final.md",
		"editor_feedback_v1.json", "fact_check_v1.json", "authenticity_check_v1.json",
		"editor_feedback_v2.json", "fact_check_v2.json", "authenticity_check_v2.json",
		"revision_history.json",
	} {
		if _, err := os.Stat(filepath.Join(store.Dir(), name)); err != nil {
			t.Errorf("missing artifact %s", name)
		}
	}

	records, err := historyStore.ListByRun(context.Background(), store.RunID())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("history rows = %d, want 2", len(records))
	}
	if records[0].FactCheckScore != 70 || records[1].FactCheckScore != 92 {
		t.Errorf("history = %+v", records)
	}
}

func TestFinalGradeSetIsLenient(t *testing.T) {
	// A- fails the in-loop gate, so the run caps out, but the final report
	// counts A- as editor-ready. With fact-check and authenticity both
	// ready, the capped run is still ready to publish; the cap surfaces
	// only through the Capped flag.
	ctrl := NewController(Options{
		Editor:       &scriptedEditor{verdicts: []*review.EditorVerdict{editorVerdict("A-")}},
		FactChecker:  &scriptedFactChecker{verdicts: []*review.FactCheckVerdict{factVerdict(92)}},
		Authenticity: &scriptedAuthenticity{verdicts: []*review.AuthenticityVerdict{authVerdict(90, true)}},
		Drafter:      &countingRewriter{},
		Store:        newTestStore(t, "Borderline Topic"),
		Config:       config.RevisionConfig{SafetyCap: 1, ResearchScoreThreshold: 80},
	})

	result, err := ctrl.Run(context.Background(), "draft", "Borderline Topic", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !result.EditorReady || !result.FactCheckReady || !result.AuthenticityReady {
		t.Fatalf("reviewer flags = %v/%v/%v, want all true",
			result.EditorReady, result.FactCheckReady, result.AuthenticityReady)
	}
	if !result.ReadyToPublish {
		t.Error("ready_to_publish must be the AND of the three reviewer flags, cap aside")
	}
	if !result.Capped {
		t.Error("run stopped by the safety cap must be flagged as capped")
	}
}

func TestResumeAppliesUserFeedbackFirst(t *testing.T) {
	store := newTestStore(t, "Resumable Topic")
	if err := store.SaveArticle(2, "persisted draft v2"); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveVerdicts(2, editorVerdict("B"), factVerdict(70), authVerdict(80, false)); err != nil {
		t.Fatal(err)
	}

	rewriter := &countingRewriter{}
	editor := &scriptedEditor{verdicts: []*review.EditorVerdict{editorVerdict("A")}}
	ctrl := NewController(Options{
		Editor:       editor,
		FactChecker:  &scriptedFactChecker{verdicts: []*review.FactCheckVerdict{factVerdict(92)}},
		Authenticity: &scriptedAuthenticity{verdicts: []*review.AuthenticityVerdict{authVerdict(90, true)}},
		Drafter:      rewriter,
		Store:        store,
		Config:       config.RevisionConfig{SafetyCap: 999, ResearchScoreThreshold: 80},
	})

	result, err := ctrl.Resume(context.Background(), store.ArticlePath(2), "shorten the intro")
	if err != nil {
		t.Fatal(err)
	}
	if rewriter.calls != 1 {
		t.Fatalf("rewrites = %d, want exactly 1 before re-review", rewriter.calls)
	}
	if rewriter.feedback[0].UserFeedback != "shorten the intro" {
		t.Errorf("user feedback not passed: %+v", rewriter.feedback[0])
	}
	if rewriter.feedback[0].FactCheck == nil || rewriter.feedback[0].FactCheck.Score != 70 {
		t.Error("persisted fact-check verdict not loaded on resume")
	}
	// The post-resume editor sees the resumed version's fact-check as its
	// prior, the same as a rewrite produced inside the loop.
	if len(editor.priors) == 0 || editor.priors[0] == nil || editor.priors[0].Score != 70 {
		t.Errorf("post-resume editor prior = %+v, want the loaded fact-check", editor.priors)
	}
	if result.TotalRevisions != 3 {
		t.Errorf("total revisions = %d, want 3", result.TotalRevisions)
	}
	if !result.ReadyToPublish {
		t.Error("resumed run should converge")
	}
	if _, err := os.Stat(store.ArticlePath(3)); err != nil {
		t.Error("resumed rewrite not persisted as v3")
	}
}

func TestInitialDraftSaveFailureDoesNotAbortRun(t *testing.T) {
	store := newTestStore(t, "Unwritable Topic")
	// A directory squatting on the v1 path makes the write fail regardless
	// of permissions.
	if err := os.Mkdir(store.ArticlePath(1), 0o755); err != nil {
		t.Fatal(err)
	}

	ctrl := NewController(Options{
		Editor:       &scriptedEditor{verdicts: []*review.EditorVerdict{editorVerdict("A")}},
		FactChecker:  &scriptedFactChecker{verdicts: []*review.FactCheckVerdict{factVerdict(92)}},
		Authenticity: &scriptedAuthenticity{verdicts: []*review.AuthenticityVerdict{authVerdict(90, true)}},
		Drafter:      &countingRewriter{},
		Store:        store,
		Config:       config.RevisionConfig{SafetyCap: 2, ResearchScoreThreshold: 80},
	})

	result, err := ctrl.Run(context.Background(), "draft", "Unwritable Topic", nil)
	if err != nil {
		t.Fatalf("version write failure aborted the run: %v", err)
	}
	if !result.ReadyToPublish {
		t.Error("run should still converge without the v1 file")
	}
	if _, err := os.Stat(store.FinalPath()); err != nil {
		t.Error("final article not persisted")
	}
}

func TestSaveVerdictsSkipsNilVerdicts(t *testing.T) {
	store := newTestStore(t, "Partial Verdicts")
	if err := store.SaveVerdicts(1, editorVerdict("B"), nil, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(store.Dir(), "editor_feedback_v1.json")); err != nil {
		t.Error("editor verdict not written")
	}
	for _, name := range []string{"fact_check_v1.json", "authenticity_check_v1.json"} {
		if _, err := os.Stat(filepath.Join(store.Dir(), name)); err == nil {
			t.Errorf("%s written for a nil verdict", name)
		}
	}

	ed, fc, auth := store.LoadVerdicts(1)
	if ed == nil || ed.Grade != "B" {
		t.Errorf("editor verdict round trip = %+v", ed)
	}
	if fc != nil || auth != nil {
		t.Errorf("nil verdicts resurrected on load: %+v %+v", fc, auth)
	}
}

func TestTopicRecoveryFromRunDir(t *testing.T) {
	store := OpenRunDir("/tmp/output/Renewable_Energy_Storage_20260826_104500")
	if got := store.Topic(); got != "Renewable Energy Storage" {
		t.Errorf("topic = %q", got)
	}
	if got := store.RunID(); got != "Renewable_Energy_Storage_20260826_104500" {
		t.Errorf("run id = %q", got)
	}
}

func TestVersionFromPath(t *testing.T) {
	if v, err := VersionFromPath("/out/run/article_v7.md"); err != nil || v != 7 {
		t.Errorf("got %d, %v", v, err)
	}
	if _, err := VersionFromPath("/out/run/article_final.md"); err == nil {
		t.Error("expected error for non-version filename")
	}
}

func TestLatestVersion(t *testing.T) {
	store := newTestStore(t, "Scan Topic")
	for _, v := range []int{1, 2, 10} {
		if err := store.SaveArticle(v, "x"); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "article_final.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	latest, err := store.LatestVersion()
	if err != nil {
		t.Fatal(err)
	}
	if latest != 10 {
		t.Errorf("latest = %d, want 10", latest)
	}
}

func TestRunDirNaming(t *testing.T) {
	store := newTestStore(t, "Grid Storage 2026")
	base := filepath.Base(store.Dir())
	if !strings.HasPrefix(base, "Grid_Storage_2026_") {
		t.Errorf("run dir = %q", base)
	}
	if m := runDirPattern.FindStringSubmatch(base); m == nil {
		t.Errorf("run dir %q does not match the resume pattern", base)
	}
}

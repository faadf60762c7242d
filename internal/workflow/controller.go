// Package workflow drives the revision convergence loop: review the draft
// with three independent roles, check the joint approval gate, research
// weakly sourced claims, rewrite, and repeat until every reviewer approves
// or the safety cap stops the run. Every intermediate artifact is
// persisted so a run can resume from any revision.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/newsdesk-ai/newsdesk/internal/config"
	"github.com/newsdesk-ai/newsdesk/internal/history"
	"github.com/newsdesk-ai/newsdesk/internal/logging"
	"github.com/newsdesk-ai/newsdesk/internal/research"
	"github.com/newsdesk-ai/newsdesk/internal/review"
	"github.com/newsdesk-ai/newsdesk/internal/writer"
)

// The controller consumes each collaborator through the narrowest
// interface it needs; production wiring passes the concrete types from
// review, writer, research and humanize.

type EditorReviewer interface {
	Review(ctx context.Context, article, topic string, prior *review.FactCheckVerdict) (*review.EditorVerdict, error)
}

type FactCheckReviewer interface {
	Review(ctx context.Context, article, topic string) (*review.FactCheckVerdict, error)
}

type AuthenticityReviewer interface {
	Review(ctx context.Context, article, topic string) (*review.AuthenticityVerdict, error)
}

type Rewriter interface {
	Revise(ctx context.Context, article string, feedback *writer.Feedback, topic string) (string, error)
}

type Researcher interface {
	TargetedResearch(ctx context.Context, requests []research.Request) []research.Finding
}

type Finalizer interface {
	Humanize(ctx context.Context, article, topic string) (string, error)
}

// Controller runs the revision loop for one article-production run.
type Controller struct {
	editor       EditorReviewer
	factChecker  FactCheckReviewer
	authenticity AuthenticityReviewer
	drafter      Rewriter
	researcher   Researcher
	humanizer    Finalizer
	store        *RunStore
	history      *history.Store
	cfg          config.RevisionConfig
	logger       *slog.Logger
}

// Options wires a Controller. Researcher, Humanizer and History are
// optional; when absent the corresponding step is skipped.
type Options struct {
	Editor       EditorReviewer
	FactChecker  FactCheckReviewer
	Authenticity AuthenticityReviewer
	Drafter      Rewriter
	Researcher   Researcher
	Humanizer    Finalizer
	Store        *RunStore
	History      *history.Store
	Config       config.RevisionConfig
	Logger       *slog.Logger
}

// NewController creates a Controller.
func NewController(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Controller{
		editor:       opts.Editor,
		factChecker:  opts.FactChecker,
		authenticity: opts.Authenticity,
		drafter:      opts.Drafter,
		researcher:   opts.Researcher,
		humanizer:    opts.Humanizer,
		store:        opts.Store,
		history:      opts.History,
		cfg:          opts.Config,
		logger:       opts.Logger,
	}
}

// Result is the outcome of a completed (or capped) run. EditorReady here
// uses the lenient final grade set, which is looser than the in-loop gate,
// and ReadyToPublish is the plain conjunction of the three reviewer flags.
// Capped marks a run the safety cap stopped; such a run can still be
// ready to publish, it just needs a human look first.
type Result struct {
	RunID             string                   `json:"run_id"`
	Topic             string                   `json:"topic"`
	FinalArticle      string                   `json:"-"`
	FinalArticlePath  string                   `json:"final_article_path"`
	EditorGrade       string                   `json:"editor_grade"`
	EditorReady       bool                     `json:"editor_ready"`
	FactCheckScore    int                      `json:"fact_check_score"`
	FactCheckReady    bool                     `json:"fact_check_ready"`
	AuthenticityScore int                      `json:"authenticity_score"`
	AuthenticityReady bool                     `json:"authenticity_ready"`
	ReadyToPublish    bool                     `json:"ready_to_publish"`
	Capped            bool                     `json:"capped"`
	TotalRevisions    int                      `json:"total_revisions"`
	History           []history.RevisionRecord `json:"history"`
}

// Run starts the loop on a freshly drafted article. Version writes are
// best-effort; a failed write costs resumability, not the run.
func (c *Controller) Run(ctx context.Context, article, topic string, findings []research.Finding) (*Result, error) {
	if err := c.store.SaveArticle(1, article); err != nil {
		c.logger.Warn("persisting initial draft failed", "version", 1, "error", err)
	}
	return c.loop(ctx, article, topic, findings, 1, "", nil)
}

// Resume continues a run from a persisted article version. If reviewer
// feedback for that version survived on disk, or the caller supplies user
// feedback, one rewrite is applied before the loop re-reviews; otherwise
// the loop picks up with a fresh review of the persisted article.
func (c *Controller) Resume(ctx context.Context, articlePath, userFeedback string) (*Result, error) {
	version, err := VersionFromPath(articlePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(articlePath)
	if err != nil {
		return nil, fmt.Errorf("reading article: %w", err)
	}
	article := string(data)
	topic := OpenRunDir(filepath.Dir(articlePath)).Topic()

	ed, fc, auth := c.store.LoadVerdicts(version)
	c.logger.Info("resuming run", "topic", topic, "version", version,
		"editor_feedback", ed != nil, "fact_check", fc != nil, "authenticity", auth != nil,
		"user_feedback", userFeedback != "")

	if ed == nil && fc == nil && auth == nil && userFeedback == "" {
		return c.loop(ctx, article, topic, nil, version, "", nil)
	}

	revised, err := c.drafter.Revise(ctx, article, &writer.Feedback{
		Editor:       ed,
		FactCheck:    fc,
		Authenticity: auth,
		Combined:     mergeIssues(ed, fc, auth),
		UserFeedback: userFeedback,
	}, topic)
	if err != nil {
		return nil, err
	}
	version++
	if err := c.store.SaveArticle(version, revised); err != nil {
		c.logger.Warn("persisting revised article failed", "version", version, "error", err)
	}
	// The loaded fact-check stays the editor's prior context, the same as
	// if the loop had produced the rewrite itself.
	return c.loop(ctx, revised, topic, nil, version, "", fc)
}

func (c *Controller) loop(ctx context.Context, article, topic string, findings []research.Finding, version int, userFeedback string, prior *review.FactCheckVerdict) (*Result, error) {
	var (
		ed      *review.EditorVerdict
		fc      *review.FactCheckVerdict
		auth    *review.AuthenticityVerdict
		records []history.RevisionRecord
	)

	capped := false
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.logger.Info("review cycle", "topic", topic, "version", version)

		var err error
		fc, err = c.factChecker.Review(ctx, article, topic)
		if err != nil {
			return nil, fmt.Errorf("fact-check of v%d: %w", version, err)
		}
		auth, err = c.authenticity.Review(ctx, article, topic)
		if err != nil {
			return nil, fmt.Errorf("authenticity review of v%d: %w", version, err)
		}
		// The editor sees the previous cycle's fact-check, not this one.
		ed, err = c.editor.Review(ctx, article, topic, prior)
		if err != nil {
			return nil, fmt.Errorf("editor review of v%d: %w", version, err)
		}
		prior = fc

		if err := c.store.SaveVerdicts(version, ed, fc, auth); err != nil {
			c.logger.Warn("persisting reviewer verdicts failed", "version", version, "error", err)
		}
		records = append(records, history.RevisionRecord{
			RunID:             c.store.RunID(),
			Topic:             topic,
			Revision:          version,
			EditorGrade:       ed.Grade,
			EditorReady:       ed.Ready,
			FactCheckScore:    fc.Score,
			FactCheckReady:    fc.Ready,
			AuthenticityScore: auth.Score,
			AuthenticityReady: auth.Ready,
			CriticalIssues:    fc.CriticalIssues(),
			AIPatterns:        len(auth.Patterns),
		})

		// The gate is a strict conjunction; a degraded verdict from any
		// reviewer holds the article back like a real rejection.
		if ed.Ready && fc.Ready && auth.Ready {
			c.logger.Info("approval gate passed", "version", version, "grade", ed.Grade,
				"fact_check_score", fc.Score, "authenticity_score", auth.Score)
			break
		}
		if version >= c.cfg.SafetyCap {
			c.logger.Warn("safety cap reached without approval", "version", version, "cap", c.cfg.SafetyCap)
			capped = true
			break
		}

		if c.researcher != nil && needsResearch(fc, c.cfg.ResearchScoreThreshold) {
			requests := research.ExtractRequests(fc, ed)
			c.logger.Info("targeted research triggered", "score", fc.Score, "requests", len(requests))
			if len(requests) > 0 {
				findings = append(findings, c.researcher.TargetedResearch(ctx, requests)...)
			}
		}

		article, err = c.drafter.Revise(ctx, article, &writer.Feedback{
			Editor:       ed,
			FactCheck:    fc,
			Authenticity: auth,
			Combined:     mergeIssues(ed, fc, auth),
			UserFeedback: userFeedback,
		}, topic)
		if err != nil {
			return nil, fmt.Errorf("rewriting v%d: %w", version, err)
		}
		userFeedback = ""

		version++
		if err := c.store.SaveArticle(version, article); err != nil {
			c.logger.Warn("persisting revised article failed", "version", version, "error", err)
		}
	}

	return c.finalize(ctx, article, topic, version, capped, ed, fc, auth, records)
}

func (c *Controller) finalize(ctx context.Context, article, topic string, version int, capped bool, ed *review.EditorVerdict, fc *review.FactCheckVerdict, auth *review.AuthenticityVerdict, records []history.RevisionRecord) (*Result, error) {
	final := article
	if c.humanizer != nil {
		polished, err := c.humanizer.Humanize(ctx, article, topic)
		if err != nil {
			c.logger.Warn("final style pass failed, publishing unpolished text", "error", err)
		} else {
			final = polished
		}
	}

	if err := c.store.SaveFinal(final); err != nil {
		return nil, fmt.Errorf("persisting final article: %w", err)
	}
	if err := c.store.SaveHistory(records); err != nil {
		c.logger.Warn("persisting revision history summary failed", "error", err)
	}
	if c.history != nil {
		for _, r := range records {
			if err := c.history.Append(ctx, r); err != nil {
				c.logger.Warn("recording revision in history database failed",
					"revision", r.Revision, "error", err)
			}
		}
	}

	editorReady := config.FinalGrades[ed.Grade]
	result := &Result{
		RunID:             c.store.RunID(),
		Topic:             topic,
		FinalArticle:      final,
		FinalArticlePath:  c.store.FinalPath(),
		EditorGrade:       ed.Grade,
		EditorReady:       editorReady,
		FactCheckScore:    fc.Score,
		FactCheckReady:    fc.Ready,
		AuthenticityScore: auth.Score,
		AuthenticityReady: auth.Ready,
		ReadyToPublish:    editorReady && fc.Ready && auth.Ready,
		Capped:            capped,
		TotalRevisions:    version,
		History:           records,
	}
	c.logger.Info("run complete", "run_id", result.RunID, "revisions", result.TotalRevisions,
		"ready_to_publish", result.ReadyToPublish, "capped", capped)
	return result, nil
}

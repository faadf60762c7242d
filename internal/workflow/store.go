package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/newsdesk-ai/newsdesk/internal/history"
	"github.com/newsdesk-ai/newsdesk/internal/review"
)

// Durable file layout for one run. Resume reads exactly these names.
const (
	articleFile      = "article_v%d.md"
	editorFile       = "editor_feedback_v%d.json"
	factCheckFile    = "fact_check_v%d.json"
	authenticityFile = "authenticity_check_v%d.json"
	finalFile        = "article_final.md"
	historyFile      = "revision_history.json"
)

var (
	articlePattern = regexp.MustCompile(`^article_v(\d+)\.md$`)
	runDirPattern  = regexp.MustCompile(`^(.+)_\d{8}_\d{6}$`)
)

// RunStore persists every intermediate artifact of one run under a single
// directory so the run can resume from any revision.
type RunStore struct {
	dir string
}

// NewRunDir creates a fresh run directory under baseDir, named from the
// topic and the current time.
func NewRunDir(baseDir, topic string) (*RunStore, error) {
	name := slugTopic(topic) + "_" + time.Now().Format("20060102_150405")
	dir := filepath.Join(baseDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}
	return &RunStore{dir: dir}, nil
}

// OpenRunDir wraps an existing run directory.
func OpenRunDir(dir string) *RunStore {
	return &RunStore{dir: dir}
}

// Dir returns the run directory path.
func (s *RunStore) Dir() string { return s.dir }

// RunID returns the run's identifier, the directory base name.
func (s *RunStore) RunID() string { return filepath.Base(s.dir) }

// Topic recovers the topic from the run directory name, with underscores
// restored to spaces.
func (s *RunStore) Topic() string {
	base := filepath.Base(s.dir)
	if m := runDirPattern.FindStringSubmatch(base); m != nil {
		return strings.ReplaceAll(m[1], "_", " ")
	}
	return strings.ReplaceAll(base, "_", " ")
}

func slugTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	var b strings.Builder
	for _, r := range topic {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// VersionFromPath parses the revision number out of an article filename.
func VersionFromPath(path string) (int, error) {
	m := articlePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, fmt.Errorf("%s is not an article version file", path)
	}
	return strconv.Atoi(m[1])
}

// LatestVersion scans the run directory for the highest article version.
func (s *RunStore) LatestVersion() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading run directory: %w", err)
	}
	latest := 0
	for _, e := range entries {
		if m := articlePattern.FindStringSubmatch(e.Name()); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil && v > latest {
				latest = v
			}
		}
	}
	if latest == 0 {
		return 0, fmt.Errorf("no article versions in %s", s.dir)
	}
	return latest, nil
}

// ArticlePath returns the path of one article version.
func (s *RunStore) ArticlePath(version int) string {
	return filepath.Join(s.dir, fmt.Sprintf(articleFile, version))
}

// FinalPath returns the path of the finalized article.
func (s *RunStore) FinalPath() string {
	return filepath.Join(s.dir, finalFile)
}

// SaveArticle writes one article version.
func (s *RunStore) SaveArticle(version int, text string) error {
	return os.WriteFile(s.ArticlePath(version), []byte(text), 0o644)
}

// LoadArticle reads one article version.
func (s *RunStore) LoadArticle(version int) (string, error) {
	data, err := os.ReadFile(s.ArticlePath(version))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveFinal writes the finalized article.
func (s *RunStore) SaveFinal(text string) error {
	return os.WriteFile(s.FinalPath(), []byte(text), 0o644)
}

// SaveVerdicts writes one feedback file per reviewer for the version.
// Each file is written independently; the first failure is returned but
// does not stop the others.
func (s *RunStore) SaveVerdicts(version int, ed *review.EditorVerdict, fc *review.FactCheckVerdict, auth *review.AuthenticityVerdict) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	// Nil checks happen on the typed pointers; a typed nil boxed in any
	// would slip past an interface comparison and serialize as "null".
	if ed != nil {
		keep(s.writeJSON(fmt.Sprintf(editorFile, version), ed))
	}
	if fc != nil {
		keep(s.writeJSON(fmt.Sprintf(factCheckFile, version), fc))
	}
	if auth != nil {
		keep(s.writeJSON(fmt.Sprintf(authenticityFile, version), auth))
	}
	return firstErr
}

// LoadVerdicts reads the persisted feedback files for a version. Missing
// or unreadable files yield nil verdicts, not errors; resume works with
// whatever survived.
func (s *RunStore) LoadVerdicts(version int) (*review.EditorVerdict, *review.FactCheckVerdict, *review.AuthenticityVerdict) {
	var (
		ed   review.EditorVerdict
		fc   review.FactCheckVerdict
		auth review.AuthenticityVerdict
	)
	edOK := s.readJSON(fmt.Sprintf(editorFile, version), &ed) == nil
	fcOK := s.readJSON(fmt.Sprintf(factCheckFile, version), &fc) == nil
	authOK := s.readJSON(fmt.Sprintf(authenticityFile, version), &auth) == nil

	var edPtr *review.EditorVerdict
	var fcPtr *review.FactCheckVerdict
	var authPtr *review.AuthenticityVerdict
	if edOK {
		edPtr = &ed
	}
	if fcOK {
		fcPtr = &fc
	}
	if authOK {
		authPtr = &auth
	}
	return edPtr, fcPtr, authPtr
}

// SaveHistory writes the run's revision-history summary.
func (s *RunStore) SaveHistory(records []history.RevisionRecord) error {
	return s.writeJSON(historyFile, records)
}

func (s *RunStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

func (s *RunStore) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

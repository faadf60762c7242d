package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RevisionRecord is one revision cycle's outcome.
type RevisionRecord struct {
	ID                string    `json:"id"`
	RunID             string    `json:"run_id"`
	Topic             string    `json:"topic"`
	Revision          int       `json:"revision"`
	EditorGrade       string    `json:"editor_grade"`
	EditorReady       bool      `json:"editor_ready"`
	FactCheckScore    int       `json:"fact_check_score"`
	FactCheckReady    bool      `json:"fact_check_ready"`
	AuthenticityScore int       `json:"authenticity_score"`
	AuthenticityReady bool      `json:"authenticity_ready"`
	CriticalIssues    int       `json:"critical_issues"`
	AIPatterns        int       `json:"ai_patterns"`
	CreatedAt         time.Time `json:"created_at"`
}

// RunSummary describes one article-production run.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	Topic     string    `json:"topic"`
	Revisions int       `json:"revisions"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store provides access to the revision history.
type Store struct {
	db *DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *DB) *Store {
	return &Store{db: database}
}

// Append inserts one revision record. If record.ID is empty a UUID is
// generated. Re-appending the same (run, revision) pair is an error; the
// history is append-only.
func (s *Store) Append(ctx context.Context, record RevisionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revisions (
			id, run_id, topic, revision,
			editor_grade, editor_ready,
			fact_check_score, fact_check_ready,
			authenticity_score, authenticity_ready,
			critical_issues, ai_patterns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.RunID,
		record.Topic,
		record.Revision,
		record.EditorGrade,
		boolInt(record.EditorReady),
		record.FactCheckScore,
		boolInt(record.FactCheckReady),
		record.AuthenticityScore,
		boolInt(record.AuthenticityReady),
		record.CriticalIssues,
		record.AIPatterns,
	)
	if err != nil {
		return fmt.Errorf("inserting revision record: %w", err)
	}
	return nil
}

// ListByRun returns a run's revision records ordered by revision number.
func (s *Store) ListByRun(ctx context.Context, runID string) ([]RevisionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, topic, revision,
			   editor_grade, editor_ready,
			   fact_check_score, fact_check_ready,
			   authenticity_score, authenticity_ready,
			   critical_issues, ai_patterns, created_at
		FROM revisions WHERE run_id = ? ORDER BY revision`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying revision records: %w", err)
	}
	defer rows.Close()

	var records []RevisionRecord
	for rows.Next() {
		var (
			r                                 RevisionRecord
			editorReady, factReady, authReady int
			ts                                string
		)
		err := rows.Scan(
			&r.ID, &r.RunID, &r.Topic, &r.Revision,
			&r.EditorGrade, &editorReady,
			&r.FactCheckScore, &factReady,
			&r.AuthenticityScore, &authReady,
			&r.CriticalIssues, &r.AIPatterns, &ts,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning revision record: %w", err)
		}
		r.EditorReady = editorReady != 0
		r.FactCheckReady = factReady != 0
		r.AuthenticityReady = authReady != 0
		r.CreatedAt, _ = time.Parse(time.DateTime, ts)
		records = append(records, r)
	}
	return records, rows.Err()
}

// ListRuns summarizes all runs, most recently updated first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, topic, COUNT(*), MAX(created_at)
		FROM revisions GROUP BY run_id, topic ORDER BY MAX(created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r  RunSummary
			ts string
		)
		if err := rows.Scan(&r.RunID, &r.Topic, &r.Revisions, &ts); err != nil {
			return nil, fmt.Errorf("scanning run summary: %w", err)
		}
		r.UpdatedAt, _ = time.Parse(time.DateTime, ts)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newsdesk-ai/newsdesk/internal/config"
	"github.com/newsdesk-ai/newsdesk/internal/history"
)

func newTestServer(t *testing.T) (*Server, *history.Store, string) {
	t.Helper()
	db, err := history.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	store := history.NewStore(db)

	outputDir := t.TempDir()
	srv, err := New(config.ServerConfig{Port: 0}, outputDir, store, nil)
	if err != nil {
		t.Fatal(err)
	}
	return srv, store, outputDir
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListRuns(t *testing.T) {
	srv, store, _ := newTestServer(t)
	ctx := context.Background()

	if err := store.Append(ctx, history.RevisionRecord{RunID: "run-1", Topic: "Grid Storage", Revision: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(ctx, history.RevisionRecord{RunID: "run-1", Topic: "Grid Storage", Revision: 2}); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var runs []history.RunSummary
	if err := json.NewDecoder(rec.Body).Decode(&runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "run-1" || runs[0].Revisions != 2 {
		t.Errorf("runs = %+v", runs)
	}
}

func TestListRunsEmpty(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestRunHistory(t *testing.T) {
	srv, store, _ := newTestServer(t)

	if err := store.Append(context.Background(), history.RevisionRecord{
		RunID: "run-1", Topic: "Grid Storage", Revision: 1, EditorGrade: "B", FactCheckScore: 70,
	}); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/run-1/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var records []history.RevisionRecord
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].EditorGrade != "B" {
		t.Errorf("records = %+v", records)
	}
}

func TestRunHistoryNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/missing/history", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRunArticle(t *testing.T) {
	srv, _, outputDir := newTestServer(t)

	runID := "Grid_Storage_20260826_104500"
	runDir := filepath.Join(outputDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		t.Fatal(err)
	}
	article := "# Grid Storage\n\nBatteries [Source: https://example.com/r].\n"
	if err := os.WriteFile(filepath.Join(runDir, "article_final.md"), []byte(article), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/"+runID+"/article", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Grid Storage</title>") || !strings.Contains(body, "https://example.com/r") {
		t.Errorf("unexpected page:\n%s", body)
	}
}

func TestRunArticleNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/nope/article", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

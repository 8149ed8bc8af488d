package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gridfall/desktop-organizer/internal/domain"
	"github.com/gridfall/desktop-organizer/internal/snapshot"
	"go.uber.org/zap"
)

func testSnapshot() *snapshot.DesktopSnapshot {
	return &snapshot.DesktopSnapshot{
		TakenAt:    time.Now(),
		Directory:  "/home/user/Desktop",
		TotalFiles: 1,
		Files: []snapshot.FileEntry{
			{Filename: "report.pdf", Extension: ".pdf", Type: domain.TypeDocument},
		},
	}
}

func testRuleSet() *domain.RuleSet {
	return &domain.RuleSet{
		Version:         "gen-1",
		ConfidenceScore: 0.85,
		Rules: []domain.Rule{
			{ID: "r1", Name: "Documents", Conditions: map[string]any{"file_type": "document"}, TargetRegion: "top_left", Priority: 80, Enabled: true},
		},
	}
}

func TestClient_Generate(t *testing.T) {
	var gotReq GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(testRuleSet())
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, 0, zap.NewNop())
	corrections := []domain.Correction{*domain.NewCorrection("a.pdf", "top_left", "top_right")}

	rs, err := client.Generate(context.Background(), testSnapshot(), corrections)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if rs.Version != "gen-1" || len(rs.Rules) != 1 {
		t.Errorf("rule set = %+v", rs)
	}
	if gotReq.Snapshot == nil || gotReq.Snapshot.TotalFiles != 1 {
		t.Errorf("request snapshot = %+v", gotReq.Snapshot)
	}
	if len(gotReq.Corrections) != 1 || gotReq.Corrections[0].Filename != "a.pdf" {
		t.Errorf("request corrections = %+v", gotReq.Corrections)
	}
}

func TestClient_GenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, 0, zap.NewNop())
	_, err := client.Generate(context.Background(), testSnapshot(), nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Generate() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", apiErr.StatusCode)
	}
}

func TestClient_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(testRuleSet())
	}))
	defer srv.Close()

	// One request per hour: the burst token covers the first call, the second
	// must block until the context expires.
	client := NewClient(srv.URL, 5*time.Second, time.Hour, zap.NewNop())

	if _, err := client.Generate(context.Background(), testSnapshot(), nil); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.Generate(ctx, testSnapshot(), nil); err == nil {
		t.Error("second Generate() succeeded despite rate limit")
	}
}

func TestRuleSetFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	want := testRuleSet()

	if err := SaveRuleSetFile(path, want); err != nil {
		t.Fatalf("SaveRuleSetFile() error = %v", err)
	}

	got, err := LoadRuleSetFile(path)
	if err != nil {
		t.Fatalf("LoadRuleSetFile() error = %v", err)
	}
	if got.Version != want.Version || len(got.Rules) != len(want.Rules) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if got.Rules[0].TargetRegion != "top_left" {
		t.Errorf("rule region = %q", got.Rules[0].TargetRegion)
	}
}

func TestLoadRuleSetFile_Missing(t *testing.T) {
	if _, err := LoadRuleSetFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadRuleSetFile() on missing file succeeded, want error")
	}
}

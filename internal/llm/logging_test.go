package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/vitals/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"headline":"ok","tips":["a"]}`), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithLogging(mock, ProviderMock, repo)
	ctx := WithPurpose(context.Background(), "coach")

	req := Request{
		System:   "be kind",
		Messages: []Message{{Role: RoleUser, Content: "score 20/30"}},
		Schema:   insightSchema(),
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	// Newest first.
	failed, succeeded := events[0], events[1]
	if succeeded.Provider != "mock" || succeeded.Purpose != "coach" || !succeeded.Success {
		t.Fatalf("unexpected success event: %+v", succeeded)
	}
	if succeeded.InputTokens != 12 || succeeded.OutputTokens != 7 {
		t.Fatalf("unexpected token counts: %+v", succeeded)
	}
	if !strings.Contains(succeeded.RequestBody, "[system]\nbe kind") ||
		!strings.Contains(succeeded.RequestBody, "[schema: test-insight]") {
		t.Fatalf("unexpected request body: %q", succeeded.RequestBody)
	}
	if succeeded.ResponseBody != `{"headline":"ok","tips":["a"]}` {
		t.Fatalf("unexpected response body: %q", succeeded.ResponseBody)
	}
	if failed.Success || failed.ErrorMessage != "boom" {
		t.Fatalf("unexpected failure event: %+v", failed)
	}
}

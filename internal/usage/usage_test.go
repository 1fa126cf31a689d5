package usage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"poster-server/internal/domain"
)

type stubExecutor struct {
	queries []string
	args    [][]any
	err     error
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.queries = append(s.queries, query)
	s.args = append(s.args, args)
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return nil
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type recordingSink struct {
	got [][]domain.GenerationUsage
	err error
}

func (r *recordingSink) Record(ctx context.Context, owner string, records []domain.GenerationUsage) error {
	r.got = append(r.got, records)
	return r.err
}

func TestNewRecordFailure(t *testing.T) {
	rec := NewRecord(Params{Route: domain.RouteTranslate, Model: "m", Err: errors.New("boom")})
	if rec.Success {
		t.Fatal("record with error marked successful")
	}
	if rec.Error != "boom" {
		t.Fatalf("Error = %q, want %q", rec.Error, "boom")
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("record missing identity: %+v", rec)
	}
	if rec.InputTokens != 0 || rec.OutputTokens != 0 {
		t.Fatalf("failed record carries tokens: %+v", rec)
	}
}

func TestTimerRecord(t *testing.T) {
	timer := Start("req-1", domain.RouteGeneratePrimary, "image-model")
	rec := timer.Record(domain.TokenUsage{InputTokens: 10, OutputTokens: 20}, 1, nil)
	if !rec.Success || rec.RequestID != "req-1" || rec.Model != "image-model" || rec.ImageCount != 1 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Duration < 0 {
		t.Fatalf("Duration = %v", rec.Duration)
	}
}

func TestSum(t *testing.T) {
	got := Sum([]domain.GenerationUsage{
		{Success: true, InputTokens: 3, OutputTokens: 4, ImageCount: 1},
		{Success: false, InputTokens: 2},
	})
	want := Totals{Calls: 2, Failures: 1, InputTokens: 5, OutputTokens: 4, Images: 1}
	if got != want {
		t.Fatalf("Sum = %+v, want %+v", got, want)
	}
}

func TestStoreRecordInsertsEveryRecord(t *testing.T) {
	exec := &stubExecutor{}
	store := NewStore(exec)
	recs := []domain.GenerationUsage{
		NewRecord(Params{Route: domain.RouteTranslate, Model: "a", Duration: 1500 * time.Millisecond}),
		NewRecord(Params{Route: domain.RouteGeneratePrimary, Model: "b", Err: errors.New("rate limit")}),
	}
	if err := store.Record(context.Background(), "", recs); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if len(exec.queries) != 2 {
		t.Fatalf("Exec calls = %d, want 2", len(exec.queries))
	}
	if !strings.Contains(exec.queries[0], "insert into generation_usage") {
		t.Fatalf("query = %q", exec.queries[0])
	}
	if exec.args[0][8] != 1500 {
		t.Fatalf("duration_ms = %v, want 1500", exec.args[0][8])
	}
	if exec.args[1][10] != "rate limit" {
		t.Fatalf("error arg = %v", exec.args[1][10])
	}
}

func TestMetricsSinkCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewMetricsSink(reg)
	recs := []domain.GenerationUsage{
		{Route: domain.RouteGeneratePrimary, Model: "p", Success: false},
		{Route: domain.RouteGenerateFallback, Model: "f", Success: true, InputTokens: 7, ImageCount: 1},
	}
	if err := sink.Record(context.Background(), "", recs); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if got := testutil.ToFloat64(sink.calls.WithLabelValues("generate_primary", "p", "false")); got != 1 {
		t.Fatalf("failed primary calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(sink.tokens.WithLabelValues("generate_fallback", "f", "input")); got != 7 {
		t.Fatalf("fallback input tokens = %v, want 7", got)
	}
	if got := testutil.ToFloat64(sink.images.WithLabelValues("f")); got != 1 {
		t.Fatalf("images = %v, want 1", got)
	}
}

func TestFanoutJoinsErrors(t *testing.T) {
	ok := &recordingSink{}
	bad := &recordingSink{err: errors.New("db down")}
	f := Fanout{ok, nil, bad}
	err := f.Record(context.Background(), "u", []domain.GenerationUsage{{ID: "1"}})
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("err = %v", err)
	}
	if len(ok.got) != 1 || len(bad.got) != 1 {
		t.Fatal("fanout skipped a sink")
	}
	if err := f.Record(context.Background(), "u", nil); err != nil {
		t.Fatalf("empty record err = %v", err)
	}
}

package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"poster-server/internal/domain"
)

type call struct {
	query string
	args  []any
}

type stubExecutor struct {
	calls []call
	row   func(query string, args []any) pgx.Row
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.calls = append(s.calls, call{query: query, args: args})
	if s.row == nil {
		return stubRow{err: pgx.ErrNoRows}
	}
	return s.row(query, args)
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	err  error
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return r.scan(dest...)
}

func TestJobEnqueueEncodesForm(t *testing.T) {
	exec := &stubExecutor{row: func(query string, args []any) pgx.Row {
		return stubRow{scan: func(dest ...any) error {
			*dest[0].(*string) = "job-1"
			*dest[1].(*domain.JobStatus) = domain.JobStatusQueued
			*dest[2].(*bool) = false
			return nil
		}}
	}}
	jobs := NewJobRepository(exec)
	job := &domain.PosterJob{
		UserID:         "user-1",
		IdempotencyKey: "key-1",
		Variants:       3,
		Form:           domain.FormData{Category: domain.CategoryRetail, CTA: "shop_now"},
	}

	existing, err := jobs.Enqueue(context.Background(), job)
	if err != nil {
		t.Fatalf("Enqueue error: %v", err)
	}
	if existing {
		t.Fatalf("existing = true, want false")
	}
	if job.ID != "job-1" || job.Status != domain.JobStatusQueued {
		t.Fatalf("job = %+v", job)
	}
	args := exec.calls[0].args
	if args[0] != "user-1" || args[1] != "key-1" || args[3] != 3 {
		t.Fatalf("args = %v", args)
	}
	var form domain.FormData
	if err := json.Unmarshal(args[2].([]byte), &form); err != nil {
		t.Fatalf("form arg is not json: %v", err)
	}
	if form.Category != domain.CategoryRetail {
		t.Fatalf("form category = %q", form.Category)
	}
}

func TestJobClaimEmptyQueue(t *testing.T) {
	jobs := NewJobRepository(&stubExecutor{})
	if _, err := jobs.Claim(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Claim error = %v, want ErrNotFound", err)
	}
}

func TestJobClaimDecodesForm(t *testing.T) {
	exec := &stubExecutor{row: func(query string, args []any) pgx.Row {
		return stubRow{scan: func(dest ...any) error {
			*dest[0].(*string) = "job-2"
			*dest[1].(*string) = "user-2"
			*dest[2].(*string) = "key-2"
			*dest[3].(*[]byte) = []byte(`{"category":"beauty","cta":"book_now","fields":{"business_name":"Glow"}}`)
			*dest[4].(*int) = 2
			return nil
		}}
	}}
	job, err := NewJobRepository(exec).Claim(context.Background())
	if err != nil {
		t.Fatalf("Claim error: %v", err)
	}
	if job.Status != domain.JobStatusRunning || job.Variants != 2 {
		t.Fatalf("job = %+v", job)
	}
	if job.Form.Field(domain.FieldBusinessName) != "Glow" {
		t.Fatalf("form = %+v", job.Form)
	}
}

func TestJobFindByKey(t *testing.T) {
	exec := &stubExecutor{row: func(query string, args []any) pgx.Row {
		return stubRow{scan: func(dest ...any) error {
			*dest[0].(*string) = "job-4"
			*dest[1].(*string) = "user-4"
			*dest[2].(*string) = "key-4"
			*dest[3].(*domain.JobStatus) = domain.JobStatusQueued
			*dest[4].(*int) = 3
			*dest[5].(*[]byte) = []byte(`[]`)
			return nil
		}}
	}}
	job, err := NewJobRepository(exec).FindByKey(context.Background(), "user-4", "key-4")
	if err != nil {
		t.Fatalf("FindByKey error: %v", err)
	}
	if job.ID != "job-4" || job.Variants != 3 {
		t.Fatalf("job = %+v", job)
	}
	if args := exec.calls[0].args; args[0] != "user-4" || args[1] != "key-4" {
		t.Fatalf("args = %v", args)
	}
}

func TestJobFindByKeyMissing(t *testing.T) {
	if _, err := NewJobRepository(&stubExecutor{}).FindByKey(context.Background(), "u", "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindByKey error = %v, want ErrNotFound", err)
	}
}

func TestJobCompleteWritesResults(t *testing.T) {
	exec := &stubExecutor{}
	jobs := NewJobRepository(exec)
	results := []domain.VariantResult{{Index: 0, AssetID: "a-1"}, {Index: 1, Error: "boom"}}
	if err := jobs.Complete(context.Background(), "job-3", domain.JobStatusPartial, results, ""); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	c := exec.calls[0]
	if !strings.Contains(c.query, "update poster_jobs") {
		t.Fatalf("unexpected query %q", c.query)
	}
	if c.args[1] != "partial" {
		t.Fatalf("status arg = %v", c.args[1])
	}
	var decoded []domain.VariantResult
	if err := json.Unmarshal(c.args[2].([]byte), &decoded); err != nil || len(decoded) != 2 {
		t.Fatalf("results arg = %s (%v)", c.args[2], err)
	}
}

func TestAssetGetByIDNotFound(t *testing.T) {
	assets := NewAssetRepository(&stubExecutor{})
	if _, err := assets.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID error = %v, want ErrNotFound", err)
	}
}

func TestAssetSaveAssignsID(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	exec := &stubExecutor{row: func(query string, args []any) pgx.Row {
		return stubRow{scan: func(dest ...any) error {
			*dest[0].(*time.Time) = created
			return nil
		}}
	}}
	asset := &domain.PosterAsset{UserID: "user-1", Format: domain.FormatStory, Language: domain.LanguageArabic}
	if err := NewAssetRepository(exec).Save(context.Background(), asset); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if asset.ID == "" {
		t.Fatalf("expected generated ID")
	}
	if !asset.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt = %s", asset.CreatedAt)
	}
	args := exec.calls[0].args
	if args[11] != "story" || args[12] != "ar" {
		t.Fatalf("format/language args = %v %v", args[11], args[12])
	}
}

func TestJobRequeueStalePassesSeconds(t *testing.T) {
	exec := &stubExecutor{}
	n, err := NewJobRepository(exec).RequeueStale(context.Background(), 10*time.Minute)
	if err != nil {
		t.Fatalf("requeue: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
	if got := exec.calls[0].args[0]; got != 600 {
		t.Fatalf("expected 600 seconds, got %v", got)
	}
}

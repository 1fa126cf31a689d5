// Package usage builds and persists the per-call usage records produced by
// every external call of the poster pipeline.
package usage

import (
	"time"

	"github.com/google/uuid"

	"poster-server/internal/domain"
)

// Timer measures one external call.
type Timer struct {
	requestID string
	route     domain.UsageRoute
	model     string
	started   time.Time
}

// Start begins timing a call on route against model.
func Start(requestID string, route domain.UsageRoute, model string) Timer {
	return Timer{requestID: requestID, route: route, model: model, started: time.Now()}
}

// Record closes the call. A non-nil err marks the record as failed.
func (t Timer) Record(tokens domain.TokenUsage, images int, err error) domain.GenerationUsage {
	return NewRecord(Params{
		RequestID:    t.requestID,
		Route:        t.route,
		Model:        t.model,
		InputTokens:  tokens.InputTokens,
		OutputTokens: tokens.OutputTokens,
		ImageCount:   images,
		Duration:     time.Since(t.started),
		Err:          err,
	})
}

// Params are the inputs of NewRecord.
type Params struct {
	RequestID    string
	Route        domain.UsageRoute
	Model        string
	InputTokens  int
	OutputTokens int
	ImageCount   int
	Duration     time.Duration
	Err          error
}

// NewRecord builds an immutable usage record.
func NewRecord(p Params) domain.GenerationUsage {
	rec := domain.GenerationUsage{
		ID:           uuid.NewString(),
		RequestID:    p.RequestID,
		Route:        p.Route,
		Model:        p.Model,
		InputTokens:  max(p.InputTokens, 0),
		OutputTokens: max(p.OutputTokens, 0),
		ImageCount:   max(p.ImageCount, 0),
		Duration:     p.Duration,
		Success:      p.Err == nil,
		CreatedAt:    time.Now().UTC(),
	}
	if p.Err != nil {
		rec.Error = p.Err.Error()
	}
	return rec
}

// Totals sums token and image counts over records.
type Totals struct {
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	Images       int
}

// Sum aggregates records.
func Sum(records []domain.GenerationUsage) Totals {
	var t Totals
	for _, r := range records {
		t.Calls++
		if !r.Success {
			t.Failures++
		}
		t.InputTokens += r.InputTokens
		t.OutputTokens += r.OutputTokens
		t.Images += r.ImageCount
	}
	return t
}

package usage

import (
	"context"
	"fmt"
	"time"

	"poster-server/internal/domain"
	"poster-server/internal/infra"
	"poster-server/internal/sqlinline"
)

// Store persists usage records to Postgres.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

func (s *Store) Record(ctx context.Context, ownerID string, records []domain.GenerationUsage) error {
	for _, r := range records {
		_, err := s.sql.Exec(ctx, sqlinline.QInsertGenerationUsage,
			r.ID,
			ownerID,
			r.RequestID,
			string(r.Route),
			r.Model,
			r.InputTokens,
			r.OutputTokens,
			r.ImageCount,
			int(r.Duration/time.Millisecond),
			r.Success,
			r.Error,
			r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert usage %s: %w", r.ID, err)
		}
	}
	return nil
}

// RouteSummary aggregates a user's usage for one route and model.
type RouteSummary struct {
	Route        domain.UsageRoute `json:"route"`
	Model        string            `json:"model"`
	Calls        int               `json:"calls"`
	InputTokens  int64             `json:"input_tokens"`
	OutputTokens int64             `json:"output_tokens"`
	Failures     int               `json:"failures"`
}

// Summary returns per-route totals for ownerID since the given time.
func (s *Store) Summary(ctx context.Context, ownerID string, since time.Time) ([]RouteSummary, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QSumGenerationUsageByUser, ownerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RouteSummary
	for rows.Next() {
		var rs RouteSummary
		var route string
		if err := rows.Scan(&route, &rs.Model, &rs.Calls, &rs.InputTokens, &rs.OutputTokens, &rs.Failures); err != nil {
			return nil, err
		}
		rs.Route = domain.UsageRoute(route)
		out = append(out, rs)
	}
	return out, rows.Err()
}

var _ Sink = (*Store)(nil)

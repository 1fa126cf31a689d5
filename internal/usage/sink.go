package usage

import (
	"context"
	"errors"

	"poster-server/internal/domain"
)

// Sink persists usage records. ownerID identifies the account charged for
// the calls and may be empty.
type Sink interface {
	Record(ctx context.Context, ownerID string, records []domain.GenerationUsage) error
}

// Fanout writes records to every sink and joins their errors.
type Fanout []Sink

func (f Fanout) Record(ctx context.Context, ownerID string, records []domain.GenerationUsage) error {
	if len(records) == 0 {
		return nil
	}
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ownerID, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Sink = Fanout(nil)

package events

import (
	"context"
	"errors"

	"github.com/pkordes/medtransport/internal/domain"
)

// Publisher is satisfied by Hub and AMQPPublisher.
type Publisher interface {
	Publish(ctx context.Context, ev domain.TripEvent) error
}

// Multi publishes to every publisher in order. One failing publisher does not
// stop the others; all errors are joined.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev domain.TripEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

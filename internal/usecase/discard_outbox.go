package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/rentledger/internal/domain"
)

// DiscardOutbox is the OutboxRepository used when publishing is disabled. Events are dropped
// instead of stored, so nothing piles up waiting for a publisher that never runs.
type DiscardOutbox struct{}

var _ OutboxRepository = DiscardOutbox{}

func (DiscardOutbox) Create(ctx context.Context, _ Transaction, event *domain.OutboxEvent) error {
	zerolog.Ctx(ctx).Debug().
		Str("event_type", event.EventType).
		Str("aggregate_id", event.AggregateID).
		Msg("outbox disabled, event dropped")
	return nil
}

func (DiscardOutbox) GetUnpublished(context.Context, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (DiscardOutbox) MarkPublished(context.Context, string, time.Time) error {
	return nil
}

func (DiscardOutbox) GetByAggregate(context.Context, string, string, int, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (DiscardOutbox) DeletePublished(context.Context, time.Time) error {
	return nil
}

package usecase

import (
	"context"
	"time"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// auditTx records a successful mutation inside tx. A nil repo disables auditing.
func auditTx(
	ctx context.Context,
	tx Transaction,
	repo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
	action domain.AuditAction,
	resourceType, resourceID string,
	before, after any,
) error {
	if repo == nil {
		return nil
	}

	log := &domain.AuditLog{
		ID:           idGen.Generate(),
		Actor:        ActorFromContext(ctx),
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    requestIDFromContext(ctx),
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateTx(ctx, tx, log); err != nil {
		return err
	}

	if m != nil {
		m.AuditLogsCreated.WithLabelValues(log.Action, log.Status).Inc()
	}
	return nil
}

// newEvent builds an outbox event whose payload is the JSON form of v.
func newEvent(idGen IDGenerator, aggregateType, aggregateID, eventType string, v any, at time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       domain.MarshalState(v),
		CreatedAt:     at,
	}
}

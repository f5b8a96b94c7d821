// Package advancesweep periodically applies unused advance credit to pending payments.
package advancesweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/rentledger/internal/infrastructure/metrics"
	"github.com/iho/rentledger/internal/usecase"
)

// LeaseLister lists leases that still hold ACTIVE advances.
type LeaseLister interface {
	ListLeaseIDsWithActive(ctx context.Context) ([]string, error)
}

// Sweeper runs ApplyAdvanceToAllPendingPayments for every lease with advance credit.
type Sweeper struct {
	leases   LeaseLister
	applier  usecase.AdvanceApplier
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	interval time.Duration
}

// Config for Sweeper.
type Config struct {
	Leases   LeaseLister
	Applier  usecase.AdvanceApplier
	Metrics  *metrics.Metrics
	Logger   *zerolog.Logger
	Interval time.Duration
}

// New creates a Sweeper. The interval defaults to one hour.
func New(cfg Config) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Sweeper{
		leases:   cfg.Leases,
		applier:  cfg.Applier,
		metrics:  cfg.Metrics,
		logger:   logger.With().Str("component", "advance_sweep").Logger(),
		interval: cfg.Interval,
	}
}

// Start sweeps once immediately and then on every tick until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("advance sweep started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.record(s.Sweep(ctx))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("advance sweep shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.record(s.Sweep(ctx))
		}
	}
}

// Result summarizes one sweep.
type Result struct {
	Leases    int
	Processed int
	FullyPaid int
	Failed    int
}

// Sweep runs a single pass. A lease that fails is logged and skipped.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	var res Result

	leaseIDs, err := s.leases.ListLeaseIDsWithActive(ctx)
	if err != nil {
		return res, err
	}

	ctx = s.logger.WithContext(ctx)
	for _, leaseID := range leaseIDs {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Leases++

		stats, err := s.applier.ApplyAdvanceToAllPendingPayments(ctx, leaseID)
		if err != nil {
			res.Failed++
			s.logger.Error().Err(err).Str("lease_id", leaseID).Msg("advance sweep failed for lease")
			continue
		}
		res.Processed += stats.Processed
		res.FullyPaid += stats.FullyPaid
	}

	if res.Processed > 0 {
		s.logger.Info().
			Int("leases", res.Leases).
			Int("processed", res.Processed).
			Int("fully_paid", res.FullyPaid).
			Msg("advance sweep applied credit")
	}
	return res, nil
}

func (s *Sweeper) record(res Result, err error) {
	result := "ok"
	switch {
	case err != nil:
		result = "error"
		s.logger.Error().Err(err).Msg("advance sweep failed")
	case res.Failed > 0:
		result = "partial"
	}
	if s.metrics != nil {
		s.metrics.SweepRuns.WithLabelValues(result).Inc()
	}
}

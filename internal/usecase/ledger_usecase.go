package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// LedgerUseCase builds read-only period reports over the ledger.
type LedgerUseCase struct {
	entryRepo EntryRepository
	cache     Cache
	cacheTTL  time.Duration
	metrics   *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. A nil cache disables report caching.
func NewLedgerUseCase(entryRepo EntryRepository, cache Cache, cacheTTL time.Duration, metrics *metrics.Metrics) *LedgerUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultReportCacheTTL
	}
	return &LedgerUseCase{
		entryRepo: entryRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
	}
}

// BuildReport totals credits and debits, overall and per category, for entries dated within
// [start, end].
func (uc *LedgerUseCase) BuildReport(ctx context.Context, start, end time.Time) (*domain.Report, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	if err := domain.ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	var key string
	if uc.cache != nil {
		revision, err := uc.entryRepo.Revision(ctx)
		if err != nil {
			return nil, err
		}
		key = reportCacheKey(start, end, revision)
		if report, ok := uc.cached(ctx, key); ok {
			return report, nil
		}
	}

	entries, err := uc.entryRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	report, err := domain.BuildReport(start, end, entries)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.store(ctx, key, report)
	}
	return report, nil
}

func (uc *LedgerUseCase) cached(ctx context.Context, key string) (*domain.Report, bool) {
	data, err := uc.cache.Get(ctx, key)
	if err != nil || data == nil {
		uc.countLookup("miss")
		return nil, false
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("discarding unreadable cached report")
		uc.countLookup("miss")
		return nil, false
	}
	uc.countLookup("hit")
	return &report, true
}

func (uc *LedgerUseCase) store(ctx context.Context, key string, report *domain.Report) {
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
}

func (uc *LedgerUseCase) countLookup(result string) {
	if uc.metrics != nil {
		uc.metrics.ReportCacheLookups.WithLabelValues(result).Inc()
	}
}

func reportCacheKey(start, end time.Time, revision int64) string {
	return fmt.Sprintf("report:%s:%s:%d", start.Format("2006-01-02"), end.Format("2006-01-02"), revision)
}

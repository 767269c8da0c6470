package history

import (
	"context"
	"time"

	"evm-bridge/internal/model"
	"evm-bridge/pkg/cache"
	"evm-bridge/pkg/logger"
	"evm-bridge/pkg/monitor"

	"go.uber.org/zap"
)

// Service answers transaction-history queries through the single-flight
// query cache, so a burst of identical lookups costs one explorer call.
//
// The cache key is the account id alone, not (currency, address, fromBlock):
// a later query with a larger fromBlock can be served a cached list scoped
// to an earlier, smaller one until the entry expires. This coarsening is a
// deliberate staleness trade-off to bound entry count and update frequency;
// do not "fix" it to a finer key without reviewing hit-rate assumptions.
type Service struct {
	provider Provider
	cache    *cache.QueryCache
	ttl      time.Duration
}

func NewService(provider Provider, queryCache *cache.QueryCache, ttl time.Duration) *Service {
	return &Service{
		provider: provider,
		cache:    queryCache,
		ttl:      ttl,
	}
}

// ForAccount returns the account's latest operations. Fetch and mapping
// failures degrade to a shorter (possibly empty) list, never an error:
// history is best-effort data.
func (s *Service) ForAccount(ctx context.Context, account model.Account, fromBlock uint64) ([]model.Operation, error) {
	if account.Currency.ScanAPI == "" {
		return []model.Operation{}, nil
	}

	key := cache.Key("history", account.ID)

	var ops []model.Operation
	err := s.cache.GetOrCompute(ctx, key, s.ttl, func(ctx context.Context) (interface{}, error) {
		countCache("miss")
		return s.fetch(ctx, account, fromBlock), nil
	}, &ops)
	if err != nil {
		return nil, err
	}

	return ops, nil
}

func (s *Service) fetch(ctx context.Context, account model.Account, fromBlock uint64) []model.Operation {
	records, err := s.provider.ListTransactions(ctx, account.FreshAddress, 1, fromBlock)
	if err != nil {
		logger.Warn("history fetch failed, returning empty list",
			zap.String("account", account.ID),
			zap.Error(err),
		)
		return []model.Operation{}
	}

	ops := make([]model.Operation, 0, len(records))
	for _, rec := range records {
		op, ok := MapRecord(account.ID, account.FreshAddress, rec)
		if !ok {
			countMapped("dropped")
			logger.Debug("dropped unmappable history record",
				zap.String("account", account.ID),
				zap.String("hash", rec.Hash),
			)
			continue
		}
		countMapped("ok")
		ops = append(ops, op)
	}

	return ops
}

func countCache(outcome string) {
	if monitor.Business != nil {
		monitor.Business.HistoryCacheCalls.WithLabelValues(outcome).Inc()
	}
}

func countMapped(outcome string) {
	if monitor.Business != nil {
		monitor.Business.HistoryRecordsMapped.WithLabelValues(outcome).Inc()
	}
}

package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/cache"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/holdings"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/metrics"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// HoldingsService loads the ledger, assets and accounts and turns them into
// valued holding rows.
type HoldingsService struct {
	transactionRepo      *repository.TransactionRepository
	assetRepo            *repository.AssetRepository
	accountRepo          *repository.AccountRepository
	settingsService      *SettingsService
	cache                *cache.HoldingsCache
	strictTradeDisposals bool
	now                  func() time.Time
	group                singleflight.Group
	log                  zerolog.Logger
}

// HoldingsServiceOption customizes a HoldingsService.
type HoldingsServiceOption func(*HoldingsService)

// WithHoldingsCache enables the Redis read-through cache.
func WithHoldingsCache(c *cache.HoldingsCache) HoldingsServiceOption {
	return func(s *HoldingsService) { s.cache = c }
}

// WithStrictTradeDisposals marks trade disposals without a valuation UNKNOWN.
func WithStrictTradeDisposals(strict bool) HoldingsServiceOption {
	return func(s *HoldingsService) { s.strictTradeDisposals = strict }
}

// WithClock overrides the reference time used for price staleness.
func WithClock(now func() time.Time) HoldingsServiceOption {
	return func(s *HoldingsService) { s.now = now }
}

// NewHoldingsService creates a new HoldingsService with the provided repository dependencies.
func NewHoldingsService(
	transactionRepo *repository.TransactionRepository,
	assetRepo *repository.AssetRepository,
	accountRepo *repository.AccountRepository,
	settingsService *SettingsService,
	log zerolog.Logger,
	opts ...HoldingsServiceOption,
) *HoldingsService {
	s := &HoldingsService{
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
		accountRepo:     accountRepo,
		settingsService: settingsService,
		now:             time.Now,
		log:             log.With().Str("service", "holdings").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Holdings is the result of a holdings computation.
type Holdings struct {
	Rows    []model.HoldingRow    `json:"rows"`
	Summary model.HoldingsSummary `json:"summary"`
}

// ComputeHoldings returns one valued row per (asset, account) position.
//
// Asset filters restrict which transactions are replayed; all accounts of a
// selected asset are replayed so transfers between accounts still pair up.
// The account filter is applied to the resulting rows.
//
// Parameters:
//   - ctx: Context for cancellation
//   - filter: Account, asset, type and volatility restrictions
//
// Returns:
//   - Holdings: Rows ordered by symbol, asset ID and account ID, plus their summary
//   - error: apperrors.ErrInvalidFilter for unknown enum values, or a retrieval failure
func (s *HoldingsService) ComputeHoldings(ctx context.Context, filter model.HoldingsFilter) (Holdings, error) {
	if err := validateFilter(filter); err != nil {
		return Holdings{}, err
	}

	entry, cacheKey, ok := s.cache.Get(ctx, filter)
	if ok {
		return Holdings{Rows: entry.Rows, Summary: entry.Summary}, nil
	}

	// Callers that arrive after a write get a new cache generation and so a
	// separate computation.
	flightKey := cacheKey
	if flightKey == "" {
		flightKey = cache.FilterKey(filter)
	}
	// The shared computation must outlive any single caller.
	computeCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(flightKey, func() (any, error) {
		return s.compute(computeCtx, filter, cacheKey)
	})

	select {
	case <-ctx.Done():
		return Holdings{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Holdings{}, res.Err
		}
		return res.Val.(Holdings), nil
	}
}

// ConsolidatedHoldings returns one row per asset, merged across accounts.
func (s *HoldingsService) ConsolidatedHoldings(ctx context.Context, filter model.HoldingsFilter) (Holdings, error) {
	h, err := s.ComputeHoldings(ctx, filter)
	if err != nil {
		return Holdings{}, err
	}
	rows := holdings.ConsolidateByAsset(h.Rows)
	return Holdings{Rows: rows, Summary: holdings.Summarize(rows, h.Summary.BaseCurrency)}, nil
}

func (s *HoldingsService) compute(ctx context.Context, filter model.HoldingsFilter, cacheKey string) (Holdings, error) {
	var (
		txs      []model.TransactionResponse
		assets   map[string]model.Asset
		accounts []model.Account
		settings model.Settings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactionRepo.GetTransactions(gctx, model.TransactionFilter{
			AssetIDs:         filter.AssetIDs,
			AssetType:        filter.AssetType,
			VolatilityBucket: filter.VolatilityBucket,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		assets, err = s.assetRepo.GetAssets(gctx, filter.AssetFilter())
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAssets, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.GetAccounts(gctx, model.AccountFilter{IncludeArchived: true})
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAccounts, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		settings, err = s.settingsService.GetSettings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error().Err(err).Msg("Failed to load holdings inputs")
		return Holdings{}, err
	}

	ledgerTxs := make([]model.Transaction, len(txs))
	for i, t := range txs {
		ledgerTxs[i] = t.Transaction
	}
	accountsByID := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		accountsByID[a.ID] = a
	}

	opts := holdings.Options{
		RefreshInterval:      RefreshInterval(settings),
		Now:                  s.now,
		BaseCurrency:         settings.BaseCurrency,
		StrictTradeDisposals: s.strictTradeDisposals,
		Logger:               &s.log,
	}

	start := time.Now()
	rows, summary, ledger := holdings.Compute(ledgerTxs, assets, accountsByID, opts)
	elapsed := time.Since(start)
	s.observe(ledger, rows, elapsed)

	if len(filter.AccountIDs) > 0 {
		rows = filterByAccount(rows, filter.AccountIDs)
		summary = holdings.Summarize(rows, settings.BaseCurrency)
	}

	s.log.Debug().
		Int("transactions", len(ledgerTxs)).
		Int("rows", len(rows)).
		Dur("elapsed", elapsed).
		Msg("Computed holdings")

	result := Holdings{Rows: rows, Summary: summary}
	s.cache.Set(ctx, cacheKey, cache.Entry{Rows: rows, Summary: summary})
	return result, nil
}

func (s *HoldingsService) observe(ledger *holdings.Ledger, rows []model.HoldingRow, elapsed time.Duration) {
	stats := ledger.Stats()
	metrics.ReplayDuration.Observe(elapsed.Seconds())
	metrics.ReplayedTransactions.Add(float64(stats.Transactions))
	for outcome, n := range stats.TransferGroups {
		metrics.TransferGroups.WithLabelValues(string(outcome)).Add(float64(n))
	}

	counts := map[model.CostBasisStatus]int{}
	for _, row := range rows {
		counts[row.CostBasisStatus]++
	}
	for _, status := range []model.CostBasisStatus{
		model.StatusKnown,
		model.StatusUnknown,
		model.StatusTransferUnmatched,
		model.StatusTransferAmbiguous,
		model.StatusTransferInvalid,
	} {
		metrics.PositionsByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}

func filterByAccount(rows []model.HoldingRow, accountIDs []string) []model.HoldingRow {
	filtered := make([]model.HoldingRow, 0, len(rows))
	for _, row := range rows {
		if slices.Contains(accountIDs, row.AccountID) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func validateFilter(filter model.HoldingsFilter) error {
	if filter.AssetType != "" && !model.ValidAssetTypes[filter.AssetType] {
		return fmt.Errorf("%w: asset type %q", apperrors.ErrInvalidFilter, filter.AssetType)
	}
	if filter.VolatilityBucket != "" && !model.ValidVolatilityBuckets[filter.VolatilityBucket] {
		return fmt.Errorf("%w: volatility bucket %q", apperrors.ErrInvalidFilter, filter.VolatilityBucket)
	}
	return nil
}

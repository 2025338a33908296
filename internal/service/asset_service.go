package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/cache"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/holdings"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/repository"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/validation"
	"github.com/rs/zerolog"
)

// AssetService handles asset metadata and price records.
type AssetService struct {
	assetRepo       *repository.AssetRepository
	settingsService *SettingsService
	cache           *cache.HoldingsCache
	now             func() time.Time
	log             zerolog.Logger
}

// NewAssetService creates a new AssetService. The cache may be nil.
func NewAssetService(
	assetRepo *repository.AssetRepository,
	settingsService *SettingsService,
	holdingsCache *cache.HoldingsCache,
	log zerolog.Logger,
) *AssetService {
	return &AssetService{
		assetRepo:       assetRepo,
		settingsService: settingsService,
		cache:           holdingsCache,
		now:             time.Now,
		log:             log.With().Str("service", "asset").Logger(),
	}
}

// AssetWithQuote is an asset together with its resolved price.
type AssetWithQuote struct {
	model.Asset
	Quote model.PriceQuote `json:"quote"`
}

// GetAssets returns the assets matching filter with their resolved prices,
// ordered by symbol.
func (s *AssetService) GetAssets(ctx context.Context, filter model.AssetFilter) ([]AssetWithQuote, error) {
	assets, err := s.assetRepo.GetAssets(ctx, filter)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsService.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]AssetWithQuote, 0, len(assets))
	for _, a := range assets {
		result = append(result, AssetWithQuote{
			Asset: a,
			Quote: holdings.ResolvePrice(a, RefreshInterval(settings), now),
		})
	}
	sortAssets(result)
	return result, nil
}

// GetAsset returns one asset with its resolved price.
func (s *AssetService) GetAsset(ctx context.Context, assetID string) (AssetWithQuote, error) {
	a, err := s.assetRepo.GetAsset(ctx, assetID)
	if err != nil {
		return AssetWithQuote{}, err
	}
	settings, err := s.settingsService.GetSettings(ctx)
	if err != nil {
		return AssetWithQuote{}, err
	}
	return AssetWithQuote{
		Asset: a,
		Quote: holdings.ResolvePrice(a, RefreshInterval(settings), s.now()),
	}, nil
}

// CreateAsset stores a validated asset creation request.
func (s *AssetService) CreateAsset(ctx context.Context, req request.CreateAssetRequest) (*model.Asset, error) {
	manualPrice, err := validation.ParseOptionalDecimal(req.ManualPrice)
	if err != nil {
		return nil, err
	}

	mode := model.PricingMode(strings.ToUpper(req.PricingMode))
	if mode == "" {
		mode = model.PricingAuto
	}

	asset := &model.Asset{
		ID:               uuid.New().String(),
		Symbol:           strings.TrimSpace(req.Symbol),
		Name:             strings.TrimSpace(req.Name),
		Type:             model.AssetType(strings.ToUpper(req.Type)),
		VolatilityBucket: model.VolatilityBucket(strings.ToUpper(req.VolatilityBucket)),
		PricingMode:      mode,
		ManualPrice:      manualPrice,
	}
	if manualPrice.Valid {
		now := s.now().UTC()
		asset.ManualPriceUpdatedAt = &now
	}

	if err := s.assetRepo.InsertAsset(ctx, asset); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.log.Info().Str("asset_id", asset.ID).Str("symbol", asset.Symbol).Msg("Asset created")
	return asset, nil
}

// SetManualPrice sets or clears the operator price and pricing mode.
func (s *AssetService) SetManualPrice(ctx context.Context, assetID string, req request.SetManualPriceRequest) (AssetWithQuote, error) {
	price, err := validation.ParseOptionalDecimal(req.ManualPrice)
	if err != nil {
		return AssetWithQuote{}, err
	}
	mode := model.PricingMode(strings.ToUpper(req.PricingMode))

	if err := s.assetRepo.SetManualPrice(ctx, assetID, mode, price, s.now()); err != nil {
		return AssetWithQuote{}, err
	}

	s.cache.Invalidate(ctx)
	return s.GetAsset(ctx, assetID)
}

// RecordPrice appends an auto price record. A missing timestamp means now.
func (s *AssetService) RecordPrice(ctx context.Context, assetID string, req request.RecordPriceRequest) (*model.PriceRecord, error) {
	if _, err := s.assetRepo.GetAsset(ctx, assetID); err != nil {
		return nil, err
	}

	price, err := validation.ParseDecimal(req.Price)
	if err != nil {
		return nil, err
	}
	lastUpdated := s.now().UTC()
	if req.LastUpdated != "" {
		if lastUpdated, err = validation.ParseDateTime(req.LastUpdated); err != nil {
			return nil, err
		}
	}

	record := &model.PriceRecord{
		ID:          uuid.New().String(),
		AssetID:     assetID,
		PriceInBase: price,
		Source:      strings.TrimSpace(req.Source),
		LastUpdated: lastUpdated,
	}
	if err := s.assetRepo.InsertPrice(ctx, record); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return record, nil
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/cache"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/repository"
	"github.com/rs/zerolog"
)

// SettingsService reads and writes the app-level settings that drive holdings
// computation. Stored values override the configured defaults.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	defaults     model.Settings
	cache        *cache.HoldingsCache
	log          zerolog.Logger
}

// NewSettingsService creates a new SettingsService. The cache may be nil.
func NewSettingsService(
	settingsRepo *repository.SettingsRepository,
	defaults model.Settings,
	holdingsCache *cache.HoldingsCache,
	log zerolog.Logger,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		defaults:     defaults,
		cache:        holdingsCache,
		log:          log.With().Str("service", "settings").Logger(),
	}
}

// GetSettings returns the effective settings. Unparsable stored values are
// logged and replaced by the default.
func (s *SettingsService) GetSettings(ctx context.Context) (model.Settings, error) {
	stored, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return model.Settings{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveSettings, err)
	}

	settings := s.defaults
	if raw, ok := stored[model.SettingPriceRefreshInterval]; ok {
		minutes, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || minutes <= 0 {
			s.log.Warn().Str("key", model.SettingPriceRefreshInterval).Str("value", raw).Msg("Ignoring invalid setting")
		} else {
			settings.PriceAutoRefreshIntervalMinutes = minutes
		}
	}
	if raw, ok := stored[model.SettingBaseCurrency]; ok && strings.TrimSpace(raw) != "" {
		settings.BaseCurrency = strings.ToUpper(strings.TrimSpace(raw))
	}

	return settings, nil
}

// UpdateSettings stores the provided settings and returns the effective result.
func (s *SettingsService) UpdateSettings(ctx context.Context, req request.UpdateSettingsRequest) (model.Settings, error) {
	now := time.Now().UTC()

	if req.PriceAutoRefreshIntervalMinutes != nil {
		value := strconv.Itoa(*req.PriceAutoRefreshIntervalMinutes)
		if err := s.settingsRepo.UpsertSetting(ctx, model.SettingPriceRefreshInterval, value, now); err != nil {
			return model.Settings{}, err
		}
	}
	if req.BaseCurrency != nil {
		value := strings.ToUpper(strings.TrimSpace(*req.BaseCurrency))
		if err := s.settingsRepo.UpsertSetting(ctx, model.SettingBaseCurrency, value, now); err != nil {
			return model.Settings{}, err
		}
	}

	s.cache.Invalidate(ctx)

	return s.GetSettings(ctx)
}

// RefreshInterval converts the configured minutes into a duration.
func RefreshInterval(settings model.Settings) time.Duration {
	return time.Duration(settings.PriceAutoRefreshIntervalMinutes) * time.Minute
}

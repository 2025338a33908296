package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/shopspring/decimal"
)

// AssetRepository provides data access methods for the asset and asset_price tables.
type AssetRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// WithTx returns a repository that runs its queries inside tx.
func (r *AssetRepository) WithTx(tx *sql.Tx) *AssetRepository {
	return &AssetRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *AssetRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// assetSelect joins every asset with its most recent auto price record.
// Ties on last_updated are broken by id so the result is deterministic.
const assetSelect = `
        SELECT a.id, a.symbol, a.name, a.type, a.volatility_bucket, a.pricing_mode,
               a.manual_price, a.manual_price_updated_at,
               p.id, p.price_in_base, p.source, p.last_updated
        FROM asset a
        LEFT JOIN asset_price p ON p.id = (
            SELECT ap.id FROM asset_price ap
            WHERE ap.asset_id = a.id
            ORDER BY ap.last_updated DESC, ap.id DESC
            LIMIT 1
        )
        WHERE 1=1
    `

// GetAssets retrieves assets matching the filter, each with its latest auto price.
//
// Parameters:
//   - ctx: Context for cancellation
//   - filter: Optional ID list, type and volatility bucket restrictions
//
// Returns:
//   - map[string]model.Asset: Assets keyed by ID
//   - error: If the query fails or a stored value cannot be parsed
func (r *AssetRepository) GetAssets(ctx context.Context, filter model.AssetFilter) (map[string]model.Asset, error) {
	query := assetSelect
	var args []any

	if len(filter.AssetIDs) > 0 {
		placeholders, idArgs := inClause(filter.AssetIDs)
		query += " AND a.id IN (" + placeholders + ")"
		args = append(args, idArgs...)
	}
	if filter.Type != "" {
		query += " AND a.type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.VolatilityBucket != "" {
		query += " AND a.volatility_bucket = ?"
		args = append(args, string(filter.VolatilityBucket))
	}
	query += " ORDER BY a.symbol ASC"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset table: %w", err)
	}
	defer rows.Close()

	assets := make(map[string]model.Asset)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets[a.ID] = a
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset table: %w", err)
	}

	return assets, nil
}

// GetAsset retrieves a single asset with its latest auto price.
// Returns apperrors.ErrAssetNotFound if no asset has that ID.
func (r *AssetRepository) GetAsset(ctx context.Context, assetID string) (model.Asset, error) {
	row := r.getQuerier().QueryRowContext(ctx, assetSelect+" AND a.id = ?", assetID)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.Asset{}, err
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (model.Asset, error) {
	var (
		a                                         model.Asset
		assetType, bucket, mode                   string
		manualPrice, manualPriceUpdatedAt         sql.NullString
		priceID, priceValue, source, priceUpdated sql.NullString
	)

	err := row.Scan(
		&a.ID,
		&a.Symbol,
		&a.Name,
		&assetType,
		&bucket,
		&mode,
		&manualPrice,
		&manualPriceUpdatedAt,
		&priceID,
		&priceValue,
		&source,
		&priceUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, err
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to scan asset table results: %w", err)
	}

	a.Type = model.AssetType(assetType)
	a.VolatilityBucket = model.VolatilityBucket(bucket)
	a.PricingMode = model.PricingMode(mode)

	a.ManualPrice, err = parseNullDecimal("manual_price", manualPrice)
	if err != nil {
		return model.Asset{}, err
	}
	a.ManualPriceUpdatedAt, err = parseNullTime(manualPriceUpdatedAt)
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to parse manual_price_updated_at: %w", err)
	}

	if priceID.Valid {
		value, err := parseDecimal("price_in_base", priceValue.String)
		if err != nil {
			return model.Asset{}, err
		}
		updated, err := ParseTime(priceUpdated.String)
		if err != nil {
			return model.Asset{}, fmt.Errorf("failed to parse last_updated: %w", err)
		}
		a.LatestPrice = &model.PriceRecord{
			ID:          priceID.String,
			AssetID:     a.ID,
			PriceInBase: value,
			Source:      source.String,
			LastUpdated: updated,
		}
	}

	return a, nil
}

// InsertAsset stores a new asset. The latest price is ignored; use InsertPrice.
// Returns apperrors.ErrDuplicateEntry if the symbol is already taken.
func (r *AssetRepository) InsertAsset(ctx context.Context, a *model.Asset) error {
	query := `
        INSERT INTO asset (id, symbol, name, type, volatility_bucket, pricing_mode, manual_price, manual_price_updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		a.ID,
		a.Symbol,
		a.Name,
		string(a.Type),
		string(a.VolatilityBucket),
		string(a.PricingMode),
		nullDecimalArg(a.ManualPrice),
		nullTimeArg(a.ManualPriceUpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: asset %q", apperrors.ErrDuplicateEntry, a.Symbol)
	}
	if err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}

	return nil
}

// SetManualPrice updates the operator price and pricing mode of an asset.
// A null price clears the manual price.
func (r *AssetRepository) SetManualPrice(ctx context.Context, assetID string, mode model.PricingMode, price decimal.NullDecimal, at time.Time) error {
	query := `
        UPDATE asset
        SET pricing_mode = ?, manual_price = ?, manual_price_updated_at = ?
        WHERE id = ?
    `
	var updatedAt any
	if price.Valid {
		updatedAt = FormatTime(at)
	}

	result, err := r.getQuerier().ExecContext(ctx, query, string(mode), nullDecimalArg(price), updatedAt, assetID)
	if err != nil {
		return fmt.Errorf("failed to update asset price: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrAssetNotFound
	}

	return nil
}

// InsertPrice appends an auto price record for an asset.
func (r *AssetRepository) InsertPrice(ctx context.Context, p *model.PriceRecord) error {
	query := `
        INSERT INTO asset_price (id, asset_id, price_in_base, source, last_updated)
        VALUES (?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.AssetID,
		p.PriceInBase.String(),
		p.Source,
		FormatTime(p.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("failed to insert asset price: %w", err)
	}

	return nil
}

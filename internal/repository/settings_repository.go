package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SettingsRepository provides data access methods for the system_setting table.
type SettingsRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// WithTx returns a repository that runs its queries inside tx.
func (r *SettingsRepository) WithTx(tx *sql.Tx) *SettingsRepository {
	return &SettingsRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SettingsRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetSettings returns every stored setting as key -> raw value.
// Missing keys are simply absent; callers apply their own defaults.
func (r *SettingsRepository) GetSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT "key", value FROM system_setting`)
	if err != nil {
		return nil, fmt.Errorf("failed to query system_setting table: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan system_setting table results: %w", err)
		}
		settings[key] = value
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating system_setting table: %w", err)
	}

	return settings, nil
}

// UpsertSetting stores value under key, replacing any previous value.
func (r *SettingsRepository) UpsertSetting(ctx context.Context, key, value string, at time.Time) error {
	query := `
        INSERT INTO system_setting (id, "key", value, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
    `

	_, err := r.getQuerier().ExecContext(ctx, query, uuid.New().String(), key, value, FormatTime(at))
	if err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", key, err)
	}

	return nil
}

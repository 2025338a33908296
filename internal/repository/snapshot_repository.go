package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
)

// SnapshotRepository provides data access methods for the holdings_snapshot table.
type SnapshotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSnapshotRepository creates a new repository instance.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// WithTx returns a repository that runs its queries inside tx.
func (r *SnapshotRepository) WithTx(tx *sql.Tx) *SnapshotRepository {
	return &SnapshotRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SnapshotRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertSnapshot stores a holdings snapshot. An empty AccountID marks a
// portfolio-wide snapshot.
func (r *SnapshotRepository) InsertSnapshot(ctx context.Context, s *model.HoldingsSnapshot) error {
	summary, err := json.Marshal(s.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot summary: %w", err)
	}

	var accountID any
	if s.AccountID != "" {
		accountID = s.AccountID
	}

	query := `
        INSERT INTO holdings_snapshot (id, account_id, taken_at, summary, calculate_ms)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err = r.getQuerier().ExecContext(ctx, query,
		s.ID,
		accountID,
		FormatTime(s.TakenAt),
		string(summary),
		s.CalculateMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert holdings snapshot: %w", err)
	}

	return nil
}

// GetLatestSnapshot returns the most recent snapshot for an account, or the
// most recent portfolio-wide snapshot when accountID is empty.
// Returns apperrors.ErrSnapshotNotFound if none has been taken.
func (r *SnapshotRepository) GetLatestSnapshot(ctx context.Context, accountID string) (model.HoldingsSnapshot, error) {
	query := `
        SELECT id, account_id, taken_at, summary, calculate_ms
        FROM holdings_snapshot
        WHERE ` + accountCondition(accountID) + `
        ORDER BY taken_at DESC, id DESC
        LIMIT 1
    `
	var args []any
	if accountID != "" {
		args = append(args, accountID)
	}

	s, err := scanSnapshot(r.getQuerier().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.HoldingsSnapshot{}, apperrors.ErrSnapshotNotFound
	}
	return s, err
}

// GetSnapshots streams snapshots taken within [startDate, endDate] in
// chronological order to callback.
//
// Parameters:
//   - ctx: Context for cancellation
//   - accountID: Account to read, or empty for portfolio-wide snapshots
//   - startDate: First instant to include (inclusive)
//   - endDate: Last instant to include (inclusive)
//   - callback: Called for each snapshot; a returned error stops the iteration
//
// Returns an error if the query fails or if the callback returns an error.
func (r *SnapshotRepository) GetSnapshots(
	ctx context.Context,
	accountID string,
	startDate, endDate time.Time,
	callback func(snapshot model.HoldingsSnapshot) error,
) error {
	query := `
        SELECT id, account_id, taken_at, summary, calculate_ms
        FROM holdings_snapshot
        WHERE ` + accountCondition(accountID) + `
        AND taken_at >= ?
        AND taken_at <= ?
        ORDER BY taken_at ASC, id ASC
    `
	var args []any
	if accountID != "" {
		args = append(args, accountID)
	}
	args = append(args, FormatTime(startDate), FormatTime(endDate))

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query holdings_snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return err
		}
		if err := callback(s); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}

func accountCondition(accountID string) string {
	if accountID == "" {
		return "account_id IS NULL"
	}
	return "account_id = ?"
}

func scanSnapshot(row rowScanner) (model.HoldingsSnapshot, error) {
	var (
		s                model.HoldingsSnapshot
		accountID        sql.NullString
		takenAt, summary string
	)

	err := row.Scan(&s.ID, &accountID, &takenAt, &summary, &s.CalculateMs)
	if errors.Is(err, sql.ErrNoRows) {
		return s, err
	}
	if err != nil {
		return s, fmt.Errorf("failed to scan row: %w", err)
	}

	s.AccountID = accountID.String
	s.TakenAt, err = ParseTime(takenAt)
	if err != nil {
		return s, fmt.Errorf("failed to parse taken_at: %w", err)
	}
	if err := json.Unmarshal([]byte(summary), &s.Summary); err != nil {
		return s, fmt.Errorf("failed to decode snapshot summary: %w", err)
	}

	return s, nil
}

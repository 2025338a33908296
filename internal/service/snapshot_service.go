package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/holdings"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/repository"
	"github.com/rs/zerolog"
)

// SnapshotService persists point-in-time holdings summaries.
type SnapshotService struct {
	db              *sql.DB
	holdingsService *HoldingsService
	accountRepo     *repository.AccountRepository
	snapshotRepo    *repository.SnapshotRepository
	now             func() time.Time
	log             zerolog.Logger
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	db *sql.DB,
	holdingsService *HoldingsService,
	accountRepo *repository.AccountRepository,
	snapshotRepo *repository.SnapshotRepository,
	log zerolog.Logger,
) *SnapshotService {
	return &SnapshotService{
		db:              db,
		holdingsService: holdingsService,
		accountRepo:     accountRepo,
		snapshotRepo:    snapshotRepo,
		now:             time.Now,
		log:             log.With().Str("service", "snapshot").Logger(),
	}
}

// TakeSnapshots computes holdings once and stores a portfolio-wide snapshot
// plus one per active account, all in a single database transaction.
//
// Returns the stored snapshots, portfolio-wide first.
func (s *SnapshotService) TakeSnapshots(ctx context.Context) ([]model.HoldingsSnapshot, error) {
	start := time.Now()
	h, err := s.holdingsService.ComputeHoldings(ctx, model.HoldingsFilter{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToTakeSnapshot, err)
	}
	calculateMs := time.Since(start).Milliseconds()

	accounts, err := s.accountRepo.GetAccounts(ctx, model.AccountFilter{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToTakeSnapshot, err)
	}

	takenAt := s.now().UTC()
	snapshots := []model.HoldingsSnapshot{{
		ID:          uuid.New().String(),
		TakenAt:     takenAt,
		Summary:     h.Summary,
		CalculateMs: calculateMs,
	}}
	for _, account := range accounts {
		rows := filterByAccount(h.Rows, []string{account.ID})
		snapshots = append(snapshots, model.HoldingsSnapshot{
			ID:          uuid.New().String(),
			AccountID:   account.ID,
			TakenAt:     takenAt,
			Summary:     holdings.Summarize(rows, h.Summary.BaseCurrency),
			CalculateMs: calculateMs,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	repo := s.snapshotRepo.WithTx(tx)
	for i := range snapshots {
		if err := repo.InsertSnapshot(ctx, &snapshots[i]); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToTakeSnapshot, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info().
		Int("snapshots", len(snapshots)).
		Int64("calculate_ms", calculateMs).
		Str("total_value", h.Summary.TotalValue.String()).
		Msg("Holdings snapshots taken")

	return snapshots, nil
}

// GetLatestSnapshot returns the most recent snapshot for an account, or the
// most recent portfolio-wide one when accountID is empty.
func (s *SnapshotService) GetLatestSnapshot(ctx context.Context, accountID string) (model.HoldingsSnapshot, error) {
	return s.snapshotRepo.GetLatestSnapshot(ctx, accountID)
}

// GetSnapshotHistory returns snapshots within [startDate, endDate] in
// chronological order.
func (s *SnapshotService) GetSnapshotHistory(ctx context.Context, accountID string, startDate, endDate time.Time) ([]model.HoldingsSnapshot, error) {
	history := []model.HoldingsSnapshot{}
	err := s.snapshotRepo.GetSnapshots(ctx, accountID, startDate, endDate, func(snapshot model.HoldingsSnapshot) error {
		history = append(history, snapshot)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// SnapshotJob adapts TakeSnapshots to the scheduler.
type SnapshotJob struct {
	Service *SnapshotService
	Timeout time.Duration
}

// Name identifies the job in logs.
func (j SnapshotJob) Name() string {
	return "holdings_snapshot"
}

// Run takes one round of snapshots.
func (j SnapshotJob) Run() error {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := j.Service.TakeSnapshots(ctx)
	return err
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/cache"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/repository"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/validation"
	"github.com/rs/zerolog"
)

// TransactionService handles ledger reads and appends.
type TransactionService struct {
	db              *sql.DB
	transactionRepo *repository.TransactionRepository
	assetRepo       *repository.AssetRepository
	accountRepo     *repository.AccountRepository
	cache           *cache.HoldingsCache
	log             zerolog.Logger
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
// The cache may be nil.
func NewTransactionService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	assetRepo *repository.AssetRepository,
	accountRepo *repository.AccountRepository,
	holdingsCache *cache.HoldingsCache,
	log zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
		accountRepo:     accountRepo,
		cache:           holdingsCache,
		log:             log.With().Str("service", "transaction").Logger(),
	}
}

// GetTransactions retrieves transactions in replay order, enriched with asset
// symbol and account name.
func (s *TransactionService) GetTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.TransactionResponse, error) {
	return s.transactionRepo.GetTransactions(ctx, filter)
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (model.TransactionResponse, error) {
	return s.transactionRepo.GetTransaction(ctx, transactionID)
}

// CreateTransaction appends a validated request to the ledger. The account
// and asset are checked inside the same database transaction as the insert.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	transaction, err := transactionFromRequest(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := s.accountRepo.WithTx(tx).GetAccount(ctx, transaction.AccountID); err != nil {
		return nil, err
	}
	if _, err := s.assetRepo.WithTx(tx).GetAsset(ctx, transaction.AssetID); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.WithTx(tx).InsertTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.Invalidate(ctx)
	s.log.Info().
		Str("transaction_id", transaction.ID).
		Str("type", string(transaction.Type)).
		Msg("Transaction created")

	return transaction, nil
}

// DeleteTransaction removes a transaction from the ledger.
func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := s.transactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.log.Info().Str("transaction_id", transactionID).Msg("Transaction deleted")
	return nil
}

// transactionFromRequest converts a request that passed validation into a
// ledger entry.
func transactionFromRequest(req request.CreateTransactionRequest) (*model.Transaction, error) {
	dateTime, err := validation.ParseDateTime(req.DateTime)
	if err != nil {
		return nil, err
	}
	txType, err := model.ParseTxType(req.Type)
	if err != nil {
		return nil, err
	}
	quantity, err := validation.ParseDecimal(req.Quantity)
	if err != nil {
		return nil, err
	}
	unitPrice, err := validation.ParseOptionalDecimal(req.UnitPriceInBase)
	if err != nil {
		return nil, err
	}
	totalValue, err := validation.ParseOptionalDecimal(req.TotalValueInBase)
	if err != nil {
		return nil, err
	}
	fee, err := validation.ParseOptionalDecimal(req.FeeInBase)
	if err != nil {
		return nil, err
	}

	return &model.Transaction{
		ID:                uuid.New().String(),
		DateTime:          dateTime,
		AccountID:         req.AccountID,
		AssetID:           req.AssetID,
		Quantity:          quantity,
		Type:              txType,
		UnitPriceInBase:   unitPrice,
		TotalValueInBase:  totalValue,
		FeeInBase:         fee,
		ExternalReference: strings.TrimSpace(req.ExternalReference),
		Notes:             req.Notes,
		CreatedAt:         time.Now().UTC(),
	}, nil
}

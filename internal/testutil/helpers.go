package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/repository"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/service"
	"github.com/rs/zerolog"
)

// DefaultSettings are the settings test services fall back to.
var DefaultSettings = model.Settings{
	PriceAutoRefreshIntervalMinutes: 15,
	BaseCurrency:                    "USD",
}

func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()

	return service.NewSettingsService(
		repository.NewSettingsRepository(db),
		DefaultSettings,
		nil,
		zerolog.Nop(),
	)
}

func NewTestHoldingsService(t *testing.T, db *sql.DB, opts ...service.HoldingsServiceOption) *service.HoldingsService {
	t.Helper()

	return service.NewHoldingsService(
		repository.NewTransactionRepository(db),
		repository.NewAssetRepository(db),
		repository.NewAccountRepository(db),
		NewTestSettingsService(t, db),
		zerolog.Nop(),
		opts...,
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		db,
		repository.NewTransactionRepository(db),
		repository.NewAssetRepository(db),
		repository.NewAccountRepository(db),
		nil,
		zerolog.Nop(),
	)
}

func NewTestAssetService(t *testing.T, db *sql.DB) *service.AssetService {
	t.Helper()

	return service.NewAssetService(
		repository.NewAssetRepository(db),
		NewTestSettingsService(t, db),
		nil,
		zerolog.Nop(),
	)
}

func NewTestAccountService(t *testing.T, db *sql.DB) *service.AccountService {
	t.Helper()

	return service.NewAccountService(repository.NewAccountRepository(db), nil, zerolog.Nop())
}

func NewTestSnapshotService(t *testing.T, db *sql.DB) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		db,
		NewTestHoldingsService(t, db),
		repository.NewAccountRepository(db),
		repository.NewSnapshotRepository(db),
		zerolog.Nop(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, map[string]bool{"cache": false, "snapshots": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a unique ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("BTC")
//	// Returns: "BTC1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TKN"
	}
	return base + randomAlphanumeric(4)
}

// MakeAccountName generates a unique account name for testing.
//
// Example usage:
//
//	name := testutil.MakeAccountName("Exchange")
//	// Returns: "Exchange ABC123"
func MakeAccountName(base string) string {
	if base == "" {
		base = "Account"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

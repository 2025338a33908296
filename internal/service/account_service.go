package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/cache"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/repository"
	"github.com/rs/zerolog"
)

// AccountService handles account-related business logic operations.
type AccountService struct {
	accountRepo *repository.AccountRepository
	cache       *cache.HoldingsCache
	log         zerolog.Logger
}

// NewAccountService creates a new AccountService. The cache may be nil.
func NewAccountService(accountRepo *repository.AccountRepository, holdingsCache *cache.HoldingsCache, log zerolog.Logger) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		cache:       holdingsCache,
		log:         log.With().Str("service", "account").Logger(),
	}
}

// GetAccounts retrieves accounts, optionally including archived ones.
func (s *AccountService) GetAccounts(ctx context.Context, includeArchived bool) ([]model.Account, error) {
	return s.accountRepo.GetAccounts(ctx, model.AccountFilter{IncludeArchived: includeArchived})
}

// GetAccount retrieves a single account by ID.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (model.Account, error) {
	return s.accountRepo.GetAccount(ctx, accountID)
}

// CreateAccount stores a validated account creation request.
func (s *AccountService) CreateAccount(ctx context.Context, req request.CreateAccountRequest) (*model.Account, error) {
	account := &model.Account{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	if err := s.accountRepo.InsertAccount(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", account.ID).Msg("Account created")
	return account, nil
}

// SetArchived archives or unarchives an account. Holding rows carry the
// account name, so cached holdings are dropped.
func (s *AccountService) SetArchived(ctx context.Context, accountID string, archived bool) (model.Account, error) {
	if err := s.accountRepo.SetArchived(ctx, accountID, archived); err != nil {
		return model.Account{}, err
	}
	s.cache.Invalidate(ctx)
	return s.accountRepo.GetAccount(ctx, accountID)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
)

// AccountRepository provides data access methods for the account table.
type AccountRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a repository that runs its queries inside tx.
func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *AccountRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetAccounts retrieves accounts from the database based on filter criteria.
// Returns an empty slice if no accounts match the filter criteria.
func (r *AccountRepository) GetAccounts(ctx context.Context, filter model.AccountFilter) ([]model.Account, error) {
	query := `
          SELECT id, name, description, is_archived
          FROM account
          WHERE 1=1
      `
	var args []any

	if !filter.IncludeArchived {
		query += " AND is_archived = ?"
		args = append(args, 0)
	}
	query += " ORDER BY name ASC"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}

	for rows.Next() {
		var a model.Account

		err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Description,
			&a.IsArchived,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account table results: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account table: %w", err)
	}

	return accounts, nil
}

// GetAccount retrieves a single account by ID.
// Returns apperrors.ErrAccountNotFound if no account has that ID.
func (r *AccountRepository) GetAccount(ctx context.Context, accountID string) (model.Account, error) {
	query := `
          SELECT id, name, description, is_archived
          FROM account
          WHERE id = ?
      `
	var a model.Account

	err := r.getQuerier().QueryRowContext(ctx, query, accountID).Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.IsArchived,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to query account: %w", err)
	}

	return a, nil
}

// InsertAccount stores a new account.
// Returns apperrors.ErrDuplicateEntry if the name is already taken.
func (r *AccountRepository) InsertAccount(ctx context.Context, a *model.Account) error {
	query := `
        INSERT INTO account (id, name, description, is_archived)
        VALUES (?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		a.ID,
		a.Name,
		a.Description,
		a.IsArchived,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: account %q", apperrors.ErrDuplicateEntry, a.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// SetArchived archives or unarchives an account. Archived accounts keep their
// transactions and still take part in transfers.
func (r *AccountRepository) SetArchived(ctx context.Context, accountID string, archived bool) error {
	result, err := r.getQuerier().ExecContext(ctx, `UPDATE account SET is_archived = ? WHERE id = ?`, archived, accountID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

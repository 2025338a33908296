package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAccountNotFound indicates that an account with the given ID does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAssetNotFound indicates that an asset with the given ID does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSnapshotNotFound indicates that no holdings snapshot has been taken yet.
	ErrSnapshotNotFound = errors.New("holdings snapshot not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidTransactionType indicates a stored or submitted type outside the known set.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidDecimal indicates a stored or submitted decimal that cannot be parsed.
	ErrInvalidDecimal = errors.New("invalid decimal value")

	// ErrInvalidFilter indicates an unknown asset type or volatility bucket in a query.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrNegativePrice indicates a price that is zero or negative.
	ErrNegativePrice = errors.New("price must be positive")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveAssets       = errors.New("failed to retrieve assets")
	ErrFailedToRetrieveAccounts     = errors.New("failed to retrieve accounts")
	ErrFailedToRetrieveSettings     = errors.New("failed to retrieve settings")
	ErrFailedToComputeHoldings      = errors.New("failed to compute holdings")
	ErrFailedToTakeSnapshot         = errors.New("failed to take holdings snapshot")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a transaction references an asset that doesn't exist).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)

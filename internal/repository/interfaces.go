package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sankofabank/core-ledger/internal/domain"
)

// AccountRepository defines the interface for account data operations.
// Mutating flows fetch with GetByNumberForUpdate inside a transaction; the
// core never locks on its own.
type AccountRepository interface {
	// Create inserts a new account
	Create(ctx context.Context, account *domain.Account) error

	// GetByNumber retrieves an account by its account number
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// GetByNumberForUpdate retrieves an account with a row-level lock
	GetByNumberForUpdate(ctx context.Context, tx *sqlx.Tx, accountNumber string) (*domain.Account, error)

	// GetByIDForUpdate retrieves an account by ID with a row-level lock
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID) (*domain.Account, error)

	// UpdateBalances writes the balance, lien, accrual and activity fields
	UpdateBalances(ctx context.Context, tx *sqlx.Tx, account *domain.Account) error

	// UpdateStatus updates the account status
	UpdateStatus(ctx context.Context, tx *sqlx.Tx, account *domain.Account) error

	// ListAccrualEligible returns active interest-bearing accounts
	ListAccrualEligible(ctx context.Context) ([]*domain.Account, error)

	// ListWithAccruedInterest returns accounts carrying a non-zero payable
	ListWithAccruedInterest(ctx context.Context) ([]*domain.Account, error)
}

// LedgerRepository persists immutable ledger entries and accrual logs.
type LedgerRepository interface {
	// CreateEntry appends one ledger entry; entries are never updated
	CreateEntry(ctx context.Context, tx *sqlx.Tx, entry *domain.LedgerEntry) error

	// ListEntries returns entries for an account, newest first
	ListEntries(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.LedgerEntry, error)

	// GetEntry retrieves one entry by ID
	GetEntry(ctx context.Context, entryID uuid.UUID) (*domain.LedgerEntry, error)

	// CreateAccrualLog appends one interest accrual log row
	CreateAccrualLog(ctx context.Context, tx *sqlx.Tx, logRow *domain.InterestAccrualLog) error

	// MarkAccrualsPosted flags an account's unposted accruals as swept
	MarkAccrualsPosted(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID, postingDate time.Time) error
}

// LoanRepository defines the interface for loan data operations.
type LoanRepository interface {
	// Create inserts a new loan account
	Create(ctx context.Context, tx *sqlx.Tx, loan *domain.LoanAccount) error

	// GetByNumber retrieves a loan account by its number
	GetByNumber(ctx context.Context, loanAccountNumber string) (*domain.LoanAccount, error)

	// GetByNumberForUpdate retrieves a loan account with a row-level lock
	GetByNumberForUpdate(ctx context.Context, tx *sqlx.Tx, loanAccountNumber string) (*domain.LoanAccount, error)

	// Update writes the loan's buckets, totals, status and dates
	Update(ctx context.Context, tx *sqlx.Tx, loan *domain.LoanAccount) error

	// CreateSchedule inserts the full repayment schedule
	CreateSchedule(ctx context.Context, tx *sqlx.Tx, schedule []*domain.RepaymentScheduleEntry) error

	// GetSchedule returns the schedule ordered by installment number
	GetSchedule(ctx context.Context, loanAccountID uuid.UUID) ([]*domain.RepaymentScheduleEntry, error)

	// UpdateScheduleEntry writes one schedule row's paid fields
	UpdateScheduleEntry(ctx context.Context, tx *sqlx.Tx, entry *domain.RepaymentScheduleEntry) error

	// CreateRepayment appends one immutable repayment record
	CreateRepayment(ctx context.Context, tx *sqlx.Tx, repayment *domain.LoanRepayment) error

	// ListRepayments returns repayments for a loan, newest first
	ListRepayments(ctx context.Context, loanAccountID uuid.UUID) ([]*domain.LoanRepayment, error)

	// ListActive returns loans eligible for daily accrual and DPD updates
	ListActive(ctx context.Context) ([]*domain.LoanAccount, error)
}

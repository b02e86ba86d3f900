package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sankofabank/core-ledger/internal/domain"
)

// newMockDB returns a sqlx handle whose transactions are simulated, so
// service unit tests exercise the unit-of-work flow without Postgres.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	rawDB, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })
	return sqlx.NewDb(rawDB, "sqlmock"), mockDB
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByNumberForUpdate(ctx context.Context, tx *sqlx.Tx, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalances(ctx context.Context, tx *sqlx.Tx, account *domain.Account) error {
	args := m.Called(ctx, tx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateStatus(ctx context.Context, tx *sqlx.Tx, account *domain.Account) error {
	args := m.Called(ctx, tx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) ListAccrualEligible(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListWithAccruedInterest(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) CreateEntry(ctx context.Context, tx *sqlx.Tx, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) GetEntry(ctx context.Context, entryID uuid.UUID) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CreateAccrualLog(ctx context.Context, tx *sqlx.Tx, logRow *domain.InterestAccrualLog) error {
	args := m.Called(ctx, tx, logRow)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkAccrualsPosted(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID, postingDate time.Time) error {
	args := m.Called(ctx, tx, accountID, postingDate)
	return args.Error(0)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, tx *sqlx.Tx, loan *domain.LoanAccount) error {
	args := m.Called(ctx, tx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByNumber(ctx context.Context, loanAccountNumber string) (*domain.LoanAccount, error) {
	args := m.Called(ctx, loanAccountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanAccount), args.Error(1)
}

func (m *MockLoanRepository) GetByNumberForUpdate(ctx context.Context, tx *sqlx.Tx, loanAccountNumber string) (*domain.LoanAccount, error) {
	args := m.Called(ctx, tx, loanAccountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanAccount), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, tx *sqlx.Tx, loan *domain.LoanAccount) error {
	args := m.Called(ctx, tx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) CreateSchedule(ctx context.Context, tx *sqlx.Tx, schedule []*domain.RepaymentScheduleEntry) error {
	args := m.Called(ctx, tx, schedule)
	return args.Error(0)
}

func (m *MockLoanRepository) GetSchedule(ctx context.Context, loanAccountID uuid.UUID) ([]*domain.RepaymentScheduleEntry, error) {
	args := m.Called(ctx, loanAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RepaymentScheduleEntry), args.Error(1)
}

func (m *MockLoanRepository) UpdateScheduleEntry(ctx context.Context, tx *sqlx.Tx, entry *domain.RepaymentScheduleEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLoanRepository) CreateRepayment(ctx context.Context, tx *sqlx.Tx, repayment *domain.LoanRepayment) error {
	args := m.Called(ctx, tx, repayment)
	return args.Error(0)
}

func (m *MockLoanRepository) ListRepayments(ctx context.Context, loanAccountID uuid.UUID) ([]*domain.LoanRepayment, error) {
	args := m.Called(ctx, loanAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanRepayment), args.Error(1)
}

func (m *MockLoanRepository) ListActive(ctx context.Context) ([]*domain.LoanAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanAccount), args.Error(1)
}

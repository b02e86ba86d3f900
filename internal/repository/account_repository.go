package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sankofabank/core-ledger/internal/domain"
)

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `
	id, account_number, customer_id, account_type, currency,
	ledger_balance, available_balance, lien_amount, uncleared_funds,
	status, is_post_no_debit, interest_rate_pa, accrued_interest_payable,
	last_accrual_date, last_activity_date, opened_date, closed_date
`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (
			id, account_number, customer_id, account_type, currency,
			ledger_balance, available_balance, lien_amount, uncleared_funds,
			status, is_post_no_debit, interest_rate_pa, accrued_interest_payable,
			last_activity_date, opened_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.AccountNumber,
		account.CustomerID,
		account.AccountType,
		account.Currency,
		account.LedgerBalance,
		account.AvailableBalance,
		account.LienAmount,
		account.UnclearedFunds,
		account.Status,
		account.IsPostNoDebit,
		account.InterestRatePA,
		account.AccruedInterestPayable,
		account.LastActivityDate,
		account.OpenedDate,
	)

	return err
}

func (r *accountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`

	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, accountNumber); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) GetByNumberForUpdate(ctx context.Context, tx *sqlx.Tx, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1 FOR UPDATE`

	var account domain.Account
	if err := tx.GetContext(ctx, &account, query, accountNumber); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	var account domain.Account
	if err := tx.GetContext(ctx, &account, query, accountID); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) UpdateBalances(ctx context.Context, tx *sqlx.Tx, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET ledger_balance = $2, available_balance = $3, lien_amount = $4,
			uncleared_funds = $5, accrued_interest_payable = $6,
			last_accrual_date = $7, last_activity_date = $8
		WHERE id = $1
	`

	_, err := tx.ExecContext(ctx, query,
		account.ID,
		account.LedgerBalance,
		account.AvailableBalance,
		account.LienAmount,
		account.UnclearedFunds,
		account.AccruedInterestPayable,
		account.LastAccrualDate,
		account.LastActivityDate,
	)

	return err
}

func (r *accountRepository) UpdateStatus(ctx context.Context, tx *sqlx.Tx, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET status = $2, is_post_no_debit = $3, closed_date = $4, last_activity_date = $5
		WHERE id = $1
	`

	_, err := tx.ExecContext(ctx, query,
		account.ID,
		account.Status,
		account.IsPostNoDebit,
		account.ClosedDate,
		account.LastActivityDate,
	)

	return err
}

func (r *accountRepository) ListAccrualEligible(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE status = $1 AND account_type IN ($2, $3) AND interest_rate_pa > 0
		ORDER BY account_number
	`

	var accounts []*domain.Account
	err := r.db.SelectContext(ctx, &accounts, query,
		domain.AccountStatusActive, domain.AccountTypeSavings, domain.AccountTypeFixedDeposit)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *accountRepository) ListWithAccruedInterest(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE accrued_interest_payable > 0
		ORDER BY account_number
	`

	var accounts []*domain.Account
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, err
	}

	return accounts, nil
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sankofabank/core-ledger/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `
	id, loan_account_number, customer_id, currency, principal_disbursed,
	interest_rate_pa, tenor_months, principal_outstanding, interest_outstanding,
	fees_outstanding, penalties_outstanding, total_repaid_principal,
	total_repaid_interest, unallocated_credit, status, disbursement_date,
	first_repayment_date, next_repayment_date, maturity_date, days_past_due,
	last_accrual_date, last_repayment_date, last_repayment_amount,
	created_at, updated_at
`

func (r *loanRepository) Create(ctx context.Context, tx *sqlx.Tx, loan *domain.LoanAccount) error {
	query := `
		INSERT INTO loan_accounts (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`

	_, err := tx.ExecContext(ctx, query,
		loan.ID,
		loan.LoanAccountNumber,
		loan.CustomerID,
		loan.Currency,
		loan.PrincipalDisbursed,
		loan.InterestRatePA,
		loan.TenorMonths,
		loan.PrincipalOutstanding,
		loan.InterestOutstanding,
		loan.FeesOutstanding,
		loan.PenaltiesOutstanding,
		loan.TotalRepaidPrincipal,
		loan.TotalRepaidInterest,
		loan.UnallocatedCredit,
		loan.Status,
		loan.DisbursementDate,
		loan.FirstRepaymentDate,
		loan.NextRepaymentDate,
		loan.MaturityDate,
		loan.DaysPastDue,
		loan.LastAccrualDate,
		loan.LastRepaymentDate,
		loan.LastRepaymentAmount,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByNumber(ctx context.Context, loanAccountNumber string) (*domain.LoanAccount, error) {
	query := `SELECT ` + loanColumns + ` FROM loan_accounts WHERE loan_account_number = $1`

	var loan domain.LoanAccount
	if err := r.db.GetContext(ctx, &loan, query, loanAccountNumber); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByNumberForUpdate(ctx context.Context, tx *sqlx.Tx, loanAccountNumber string) (*domain.LoanAccount, error) {
	query := `SELECT ` + loanColumns + ` FROM loan_accounts WHERE loan_account_number = $1 FOR UPDATE`

	var loan domain.LoanAccount
	if err := tx.GetContext(ctx, &loan, query, loanAccountNumber); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, tx *sqlx.Tx, loan *domain.LoanAccount) error {
	query := `
		UPDATE loan_accounts
		SET principal_outstanding = $2, interest_outstanding = $3,
			fees_outstanding = $4, penalties_outstanding = $5,
			total_repaid_principal = $6, total_repaid_interest = $7,
			unallocated_credit = $8, status = $9, next_repayment_date = $10,
			days_past_due = $11, last_accrual_date = $12,
			last_repayment_date = $13, last_repayment_amount = $14,
			updated_at = $15
		WHERE id = $1
	`

	_, err := tx.ExecContext(ctx, query,
		loan.ID,
		loan.PrincipalOutstanding,
		loan.InterestOutstanding,
		loan.FeesOutstanding,
		loan.PenaltiesOutstanding,
		loan.TotalRepaidPrincipal,
		loan.TotalRepaidInterest,
		loan.UnallocatedCredit,
		loan.Status,
		loan.NextRepaymentDate,
		loan.DaysPastDue,
		loan.LastAccrualDate,
		loan.LastRepaymentDate,
		loan.LastRepaymentAmount,
		time.Now().UTC(),
	)

	return err
}

func (r *loanRepository) CreateSchedule(ctx context.Context, tx *sqlx.Tx, schedule []*domain.RepaymentScheduleEntry) error {
	query := `
		INSERT INTO loan_repayment_schedule (
			id, loan_account_id, installment_number, due_date, principal_due,
			interest_due, fees_due, total_due, principal_paid, interest_paid,
			is_paid, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, entry := range schedule {
		_, err := tx.ExecContext(ctx, query,
			entry.ID,
			entry.LoanAccountID,
			entry.InstallmentNumber,
			entry.DueDate,
			entry.PrincipalDue,
			entry.InterestDue,
			entry.FeesDue,
			entry.TotalDue,
			entry.PrincipalPaid,
			entry.InterestPaid,
			entry.IsPaid,
			entry.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *loanRepository) GetSchedule(ctx context.Context, loanAccountID uuid.UUID) ([]*domain.RepaymentScheduleEntry, error) {
	query := `
		SELECT id, loan_account_id, installment_number, due_date, principal_due,
			interest_due, fees_due, total_due, principal_paid, interest_paid,
			is_paid, created_at
		FROM loan_repayment_schedule
		WHERE loan_account_id = $1
		ORDER BY installment_number
	`

	var schedule []*domain.RepaymentScheduleEntry
	if err := r.db.SelectContext(ctx, &schedule, query, loanAccountID); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *loanRepository) UpdateScheduleEntry(ctx context.Context, tx *sqlx.Tx, entry *domain.RepaymentScheduleEntry) error {
	query := `
		UPDATE loan_repayment_schedule
		SET principal_paid = $2, interest_paid = $3, is_paid = $4
		WHERE id = $1
	`

	_, err := tx.ExecContext(ctx, query,
		entry.ID,
		entry.PrincipalPaid,
		entry.InterestPaid,
		entry.IsPaid,
	)

	return err
}

func (r *loanRepository) CreateRepayment(ctx context.Context, tx *sqlx.Tx, repayment *domain.LoanRepayment) error {
	query := `
		INSERT INTO loan_repayments (
			id, loan_account_id, amount_paid, currency, allocated_to_penalties,
			allocated_to_fees, allocated_to_interest, allocated_to_principal,
			unallocated, payment_date, payment_method, reference, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := tx.ExecContext(ctx, query,
		repayment.ID,
		repayment.LoanAccountID,
		repayment.AmountPaid,
		repayment.Currency,
		repayment.AllocatedToPenalties,
		repayment.AllocatedToFees,
		repayment.AllocatedToInterest,
		repayment.AllocatedToPrincipal,
		repayment.Unallocated,
		repayment.PaymentDate,
		repayment.PaymentMethod,
		repayment.Reference,
		repayment.CreatedAt,
	)

	return err
}

func (r *loanRepository) ListRepayments(ctx context.Context, loanAccountID uuid.UUID) ([]*domain.LoanRepayment, error) {
	query := `
		SELECT id, loan_account_id, amount_paid, currency, allocated_to_penalties,
			allocated_to_fees, allocated_to_interest, allocated_to_principal,
			unallocated, payment_date, payment_method, reference, created_at
		FROM loan_repayments
		WHERE loan_account_id = $1
		ORDER BY payment_date DESC, created_at DESC
	`

	var repayments []*domain.LoanRepayment
	if err := r.db.SelectContext(ctx, &repayments, query, loanAccountID); err != nil {
		return nil, err
	}

	return repayments, nil
}

func (r *loanRepository) ListActive(ctx context.Context) ([]*domain.LoanAccount, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loan_accounts
		WHERE status IN ($1, $2)
		ORDER BY loan_account_number
	`

	var loans []*domain.LoanAccount
	err := r.db.SelectContext(ctx, &loans, query, domain.LoanStatusActive, domain.LoanStatusOverdue)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive       = "active"
	LoanStatusPaidOff      = "paid_off"
	LoanStatusOverdue      = "overdue"
	LoanStatusDefaulted    = "defaulted"
	LoanStatusRestructured = "restructured"
	LoanStatusWrittenOff   = "written_off"
)

// LoanAccount is the active loan after disbursement. The four outstanding
// buckets are reduced only by the repayment allocator; interest_outstanding is
// additionally increased by the daily loan accrual.
type LoanAccount struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	LoanAccountNumber    string          `json:"loan_account_number" db:"loan_account_number"`
	CustomerID           string          `json:"customer_id" db:"customer_id"`
	Currency             string          `json:"currency" db:"currency"`
	PrincipalDisbursed   decimal.Decimal `json:"principal_disbursed" db:"principal_disbursed"`
	InterestRatePA       decimal.Decimal `json:"interest_rate_pa" db:"interest_rate_pa"`
	TenorMonths          int             `json:"tenor_months" db:"tenor_months"`
	PrincipalOutstanding decimal.Decimal `json:"principal_outstanding" db:"principal_outstanding"`
	InterestOutstanding  decimal.Decimal `json:"interest_outstanding" db:"interest_outstanding"`
	FeesOutstanding      decimal.Decimal `json:"fees_outstanding" db:"fees_outstanding"`
	PenaltiesOutstanding decimal.Decimal `json:"penalties_outstanding" db:"penalties_outstanding"`
	TotalRepaidPrincipal decimal.Decimal `json:"total_repaid_principal" db:"total_repaid_principal"`
	TotalRepaidInterest  decimal.Decimal `json:"total_repaid_interest" db:"total_repaid_interest"`
	UnallocatedCredit    decimal.Decimal `json:"unallocated_credit" db:"unallocated_credit"`
	Status               string          `json:"status" db:"status"`
	DisbursementDate     time.Time       `json:"disbursement_date" db:"disbursement_date"`
	FirstRepaymentDate   time.Time       `json:"first_repayment_date" db:"first_repayment_date"`
	NextRepaymentDate    *time.Time      `json:"next_repayment_date" db:"next_repayment_date"`
	MaturityDate         time.Time       `json:"maturity_date" db:"maturity_date"`
	DaysPastDue          int             `json:"days_past_due" db:"days_past_due"`
	LastAccrualDate      *time.Time      `json:"last_accrual_date" db:"last_accrual_date"`
	LastRepaymentDate    *time.Time      `json:"last_repayment_date" db:"last_repayment_date"`
	LastRepaymentAmount  decimal.Decimal `json:"last_repayment_amount" db:"last_repayment_amount"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}

// Closed reports whether the loan can no longer accept repayments.
func (l *LoanAccount) Closed() bool {
	return l.Status == LoanStatusPaidOff || l.Status == LoanStatusWrittenOff
}

// TotalOutstanding is the sum of the four outstanding buckets.
func (l *LoanAccount) TotalOutstanding() decimal.Decimal {
	return l.PenaltiesOutstanding.
		Add(l.FeesOutstanding).
		Add(l.InterestOutstanding).
		Add(l.PrincipalOutstanding)
}

// RepaymentScheduleEntry is one installment of the amortization schedule,
// generated once at disbursement. Paid counters are updated as repayments are
// reconciled oldest installment first.
type RepaymentScheduleEntry struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	LoanAccountID     uuid.UUID       `json:"loan_account_id" db:"loan_account_id"`
	InstallmentNumber int             `json:"installment_number" db:"installment_number"`
	DueDate           time.Time       `json:"due_date" db:"due_date"`
	PrincipalDue      decimal.Decimal `json:"principal_due" db:"principal_due"`
	InterestDue       decimal.Decimal `json:"interest_due" db:"interest_due"`
	FeesDue           decimal.Decimal `json:"fees_due" db:"fees_due"`
	TotalDue          decimal.Decimal `json:"total_due" db:"total_due"`
	PrincipalPaid     decimal.Decimal `json:"principal_paid" db:"principal_paid"`
	InterestPaid      decimal.Decimal `json:"interest_paid" db:"interest_paid"`
	IsPaid            bool            `json:"is_paid" db:"is_paid"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// LoanRepayment is the immutable record of one repayment and how it was
// allocated across the outstanding buckets.
type LoanRepayment struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	LoanAccountID        uuid.UUID       `json:"loan_account_id" db:"loan_account_id"`
	AmountPaid           decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	Currency             string          `json:"currency" db:"currency"`
	AllocatedToPenalties decimal.Decimal `json:"allocated_to_penalties" db:"allocated_to_penalties"`
	AllocatedToFees      decimal.Decimal `json:"allocated_to_fees" db:"allocated_to_fees"`
	AllocatedToInterest  decimal.Decimal `json:"allocated_to_interest" db:"allocated_to_interest"`
	AllocatedToPrincipal decimal.Decimal `json:"allocated_to_principal" db:"allocated_to_principal"`
	Unallocated          decimal.Decimal `json:"unallocated" db:"unallocated"`
	PaymentDate          time.Time       `json:"payment_date" db:"payment_date"`
	PaymentMethod        string          `json:"payment_method" db:"payment_method"`
	Reference            string          `json:"reference" db:"reference"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
}

// DTOs

type DisburseLoanRequest struct {
	CustomerID            string          `json:"customer_id" validate:"required"`
	Principal             decimal.Decimal `json:"principal" validate:"required"`
	InterestRatePA        decimal.Decimal `json:"interest_rate_pa"`
	TenorMonths           int             `json:"tenor_months" validate:"required,gt=0"`
	Currency              string          `json:"currency" validate:"required,len=3"`
	DisbursementAccountNo string          `json:"disbursement_account_number" validate:"required"`
}

type DisburseLoanResponse struct {
	Loan     *LoanAccount              `json:"loan"`
	Schedule []*RepaymentScheduleEntry `json:"schedule"`
}

type RepaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Currency      string          `json:"currency" validate:"required,len=3"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference" validate:"required"`
	PaymentDate   *time.Time      `json:"payment_date"`
}

type ScheduleResponse struct {
	LoanAccountNumber string                    `json:"loan_account_number"`
	Schedule          []*RepaymentScheduleEntry `json:"schedule"`
}

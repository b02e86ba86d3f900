package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EntryTypeDebit  = "DEBIT"
	EntryTypeCredit = "CREDIT"
)

const ChannelSystem = "SYSTEM"

// LedgerEntry is one immutable posting leg. Entries are never updated or
// deleted; a correction is a new entry with IsReversalEntry set.
type LedgerEntry struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	TransactionID     string          `json:"transaction_id" db:"transaction_id"`
	AccountID         uuid.UUID       `json:"account_id" db:"account_id"`
	EntryType         string          `json:"entry_type" db:"entry_type"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	Currency          string          `json:"currency" db:"currency"`
	Narration         string          `json:"narration" db:"narration"`
	TransactionDate   time.Time       `json:"transaction_date" db:"transaction_date"`
	ValueDate         time.Time       `json:"value_date" db:"value_date"`
	BalanceBefore     decimal.Decimal `json:"balance_before" db:"balance_before"`
	BalanceAfter      decimal.Decimal `json:"balance_after" db:"balance_after"`
	Channel           string          `json:"channel" db:"channel"`
	ExternalReference string          `json:"external_reference" db:"external_reference"`
	IsReversalEntry   bool            `json:"is_reversal_entry" db:"is_reversal_entry"`
}

// InterestAccrualLog records one day's accrual for one account or loan.
// Amounts are kept at 4 decimal places until posted.
type InterestAccrualLog struct {
	ID                       uuid.UUID       `json:"id" db:"id"`
	AccountID                uuid.UUID       `json:"account_id" db:"account_id"`
	AccrualDate              time.Time       `json:"accrual_date" db:"accrual_date"`
	AmountAccrued            decimal.Decimal `json:"amount_accrued" db:"amount_accrued"`
	InterestRatePAUsed       decimal.Decimal `json:"interest_rate_pa_used" db:"interest_rate_pa_used"`
	BalanceSubjectToInterest decimal.Decimal `json:"balance_subject_to_interest" db:"balance_subject_to_interest"`
	Direction                string          `json:"direction" db:"direction"` // payable or receivable
	IsPosted                 bool            `json:"is_posted" db:"is_posted"`
	PostingDate              *time.Time      `json:"posting_date" db:"posting_date"`
	CreatedAt                time.Time       `json:"created_at" db:"created_at"`
}

const (
	AccrualDirectionPayable    = "payable"
	AccrualDirectionReceivable = "receivable"
)

// DTOs

type PostTransactionRequest struct {
	FromAccountNumber string          `json:"from_account_number" validate:"required"`
	ToAccountNumber   string          `json:"to_account_number" validate:"required,nefield=FromAccountNumber"`
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	Currency          string          `json:"currency" validate:"required,len=3"`
	Narration         string          `json:"narration" validate:"required"`
	Channel           string          `json:"channel"`
	Reference         string          `json:"reference"`
	ValueDate         *time.Time      `json:"value_date"`
}

type PostTransactionResponse struct {
	TransactionID string       `json:"transaction_id"`
	DebitEntry    *LedgerEntry `json:"debit_entry"`
	CreditEntry   *LedgerEntry `json:"credit_entry"`
}

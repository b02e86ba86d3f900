package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
	AccountStatusDormant  = "dormant"
	AccountStatusClosed   = "closed"
	AccountStatusBlocked  = "blocked"
)

const (
	AccountTypeSavings      = "savings"
	AccountTypeCurrent      = "current"
	AccountTypeFixedDeposit = "fixed_deposit"
	AccountTypeDomiciliary  = "domiciliary"
	AccountTypeLoan         = "loan"
	AccountTypeGL           = "gl"
)

const CurrencyNGN = "NGN"

// Account represents a deposit or GL account. Balances are mutated only by the
// ledger poster and the lien operations; available = ledger - lien - uncleared.
type Account struct {
	ID                     uuid.UUID       `json:"id" db:"id"`
	AccountNumber          string          `json:"account_number" db:"account_number"`
	CustomerID             string          `json:"customer_id" db:"customer_id"`
	AccountType            string          `json:"account_type" db:"account_type"`
	Currency               string          `json:"currency" db:"currency"`
	LedgerBalance          decimal.Decimal `json:"ledger_balance" db:"ledger_balance"`
	AvailableBalance       decimal.Decimal `json:"available_balance" db:"available_balance"`
	LienAmount             decimal.Decimal `json:"lien_amount" db:"lien_amount"`
	UnclearedFunds         decimal.Decimal `json:"uncleared_funds" db:"uncleared_funds"`
	Status                 string          `json:"status" db:"status"`
	IsPostNoDebit          bool            `json:"is_post_no_debit" db:"is_post_no_debit"`
	InterestRatePA         decimal.Decimal `json:"interest_rate_pa" db:"interest_rate_pa"`
	AccruedInterestPayable decimal.Decimal `json:"accrued_interest_payable" db:"accrued_interest_payable"`
	LastAccrualDate        *time.Time      `json:"last_accrual_date" db:"last_accrual_date"`
	LastActivityDate       time.Time       `json:"last_activity_date" db:"last_activity_date"`
	OpenedDate             time.Time       `json:"opened_date" db:"opened_date"`
	ClosedDate             *time.Time      `json:"closed_date" db:"closed_date"`
}

// InterestBearing reports whether the account type earns deposit interest.
func (a *Account) InterestBearing() bool {
	return a.AccountType == AccountTypeSavings || a.AccountType == AccountTypeFixedDeposit
}

// DTOs for requests and responses

type OpenAccountRequest struct {
	CustomerID     string          `json:"customer_id" validate:"required"`
	AccountType    string          `json:"account_type" validate:"required,oneof=savings current fixed_deposit domiciliary gl"`
	Currency       string          `json:"currency" validate:"required,len=3"`
	InterestRatePA decimal.Decimal `json:"interest_rate_pa"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
}

type AccountBalanceResponse struct {
	AccountNumber    string          `json:"account_number"`
	Currency         string          `json:"currency"`
	LedgerBalance    decimal.Decimal `json:"ledger_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	LienAmount       decimal.Decimal `json:"lien_amount"`
	UnclearedFunds   decimal.Decimal `json:"uncleared_funds"`
}

type UpdateAccountStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive dormant closed blocked"`
}

type LienRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Reason string          `json:"reason" validate:"required"`
}

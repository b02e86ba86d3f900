package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrAccountNotFound    = errors.New("account not found")
	ErrLoanNotFound       = errors.New("loan account not found")
	ErrInsufficientFunds  = fmt.Errorf("insufficient funds: %w", ErrInvalidOperation)
	ErrCurrencyMismatch   = errors.New("currency mismatch")
	ErrPostNoDebit        = errors.New("account is under post-no-debit restriction")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrLoanClosed         = errors.New("loan account is closed")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrAccountTaken       = errors.New("account number already exists")
	ErrNonZeroBalance     = errors.New("account balance must be zero before closing")
	ErrInsufficientToLien = errors.New("not enough available balance to place lien")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	ErrCodeLoanNotFound      = "LOAN_NOT_FOUND"
	ErrCodeInvalidOperation  = "INVALID_OPERATION"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrCodeCurrencyMismatch  = "CURRENCY_MISMATCH"
	ErrCodePostNoDebit       = "POST_NO_DEBIT"
	ErrCodeAccountNotActive  = "ACCOUNT_NOT_ACTIVE"
	ErrCodeLoanClosed        = "LOAN_CLOSED"
	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeCacheError        = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapAccountNotFound(accountNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountNotFound,
		fmt.Sprintf("Account %s not found", accountNumber),
		ErrAccountNotFound,
	)
}

func WrapLoanNotFound(loanAccountNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan account %s not found", loanAccountNumber),
		ErrLoanNotFound,
	)
}

func WrapInsufficientFunds(accountNumber string, available, requested decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientFunds,
		fmt.Sprintf("Insufficient available balance in account %s: have %s, need %s",
			accountNumber, available.StringFixed(2), requested.StringFixed(2)),
		ErrInsufficientFunds,
	)
}

func WrapCurrencyMismatch(entryCurrency, accountCurrency string) *BusinessError {
	return NewBusinessError(
		ErrCodeCurrencyMismatch,
		fmt.Sprintf("Entry currency %s does not match account currency %s", entryCurrency, accountCurrency),
		ErrCurrencyMismatch,
	)
}

func WrapPostNoDebit(accountNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodePostNoDebit,
		fmt.Sprintf("Account %s is under a post-no-debit restriction", accountNumber),
		ErrPostNoDebit,
	)
}

func WrapAccountNotActive(accountNumber, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountNotActive,
		fmt.Sprintf("Account %s is not active (current status: %s)", accountNumber, status),
		ErrAccountNotActive,
	)
}

func WrapLoanClosed(loanAccountNumber, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanClosed,
		fmt.Sprintf("Loan account %s is already %s", loanAccountNumber, status),
		ErrLoanClosed,
	)
}

func WrapInvalidAmount(amount decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid amount: %s", amount.String()),
		ErrInvalidAmount,
	)
}

func WrapInvalidOperation(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidOperation, message, ErrInvalidOperation)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}

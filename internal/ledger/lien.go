package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sankofabank/core-ledger/internal/domain"
	customError "github.com/sankofabank/core-ledger/pkg/errors"
)

// PlaceLien earmarks funds: the lien reduces the available balance without
// touching the ledger balance. A lien cannot exceed what is available.
func PlaceLien(account *domain.Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return customError.WrapInvalidAmount(amount)
	}
	if account.Status != domain.AccountStatusActive {
		return customError.WrapAccountNotActive(account.AccountNumber, account.Status)
	}
	if account.AvailableBalance.LessThan(amount) {
		return customError.NewBusinessError(
			customError.ErrCodeInsufficientFunds,
			"not enough available balance to place lien",
			customError.ErrInsufficientToLien,
		)
	}

	account.LienAmount = account.LienAmount.Add(amount)
	account.AvailableBalance = account.AvailableBalance.Sub(amount)
	account.LastActivityDate = time.Now().UTC()
	return nil
}

// ReleaseLien frees held funds back into the available balance. A release
// larger than the held amount is clamped to release everything.
func ReleaseLien(account *domain.Account, amount decimal.Decimal) (decimal.Decimal, error) {
	released := amount
	if released.IsZero() || released.GreaterThan(account.LienAmount) {
		released = account.LienAmount
	}
	if !released.IsPositive() {
		return decimal.Zero, customError.WrapInvalidOperation("no lien to release")
	}

	account.LienAmount = account.LienAmount.Sub(released)
	account.AvailableBalance = account.AvailableBalance.Add(released)
	account.LastActivityDate = time.Now().UTC()
	return released, nil
}

package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sankofabank/core-ledger/internal/domain"
	customError "github.com/sankofabank/core-ledger/pkg/errors"
)

func TestPlaceLien(t *testing.T) {
	account := activeAccount("1000.00")

	err := PlaceLien(account, decimal.NewFromInt(300))

	assert.NoError(t, err)
	assert.True(t, account.LienAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, account.AvailableBalance.Equal(decimal.NewFromInt(700)))
	// Ledger balance is untouched by a lien
	assert.True(t, account.LedgerBalance.Equal(decimal.NewFromInt(1000)))
}

func TestPlaceLien_ExceedsAvailable(t *testing.T) {
	account := activeAccount("1000.00")

	err := PlaceLien(account, decimal.RequireFromString("1000.01"))

	assert.ErrorIs(t, err, customError.ErrInsufficientToLien)
	assert.True(t, account.LienAmount.IsZero())
	assert.True(t, account.AvailableBalance.Equal(decimal.NewFromInt(1000)))
}

func TestPlaceLien_Stacks(t *testing.T) {
	account := activeAccount("1000.00")

	assert.NoError(t, PlaceLien(account, decimal.NewFromInt(400)))
	assert.NoError(t, PlaceLien(account, decimal.NewFromInt(600)))
	assert.ErrorIs(t, PlaceLien(account, decimal.NewFromInt(1)), customError.ErrInsufficientToLien)

	assert.True(t, account.LienAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, account.AvailableBalance.IsZero())
}

func TestPlaceLien_InvalidInputs(t *testing.T) {
	account := activeAccount("1000.00")

	assert.ErrorIs(t, PlaceLien(account, decimal.Zero), customError.ErrInvalidAmount)

	account.Status = domain.AccountStatusDormant
	assert.ErrorIs(t, PlaceLien(account, decimal.NewFromInt(100)), customError.ErrAccountNotActive)
}

func TestReleaseLien_Partial(t *testing.T) {
	account := activeAccount("1000.00")
	assert.NoError(t, PlaceLien(account, decimal.NewFromInt(500)))

	released, err := ReleaseLien(account, decimal.NewFromInt(200))

	assert.NoError(t, err)
	assert.True(t, released.Equal(decimal.NewFromInt(200)))
	assert.True(t, account.LienAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, account.AvailableBalance.Equal(decimal.NewFromInt(700)))
}

func TestReleaseLien_ZeroReleasesAll(t *testing.T) {
	account := activeAccount("1000.00")
	assert.NoError(t, PlaceLien(account, decimal.NewFromInt(500)))

	released, err := ReleaseLien(account, decimal.Zero)

	assert.NoError(t, err)
	assert.True(t, released.Equal(decimal.NewFromInt(500)))
	assert.True(t, account.LienAmount.IsZero())
	assert.True(t, account.AvailableBalance.Equal(decimal.NewFromInt(1000)))
}

func TestReleaseLien_ClampsToHeld(t *testing.T) {
	account := activeAccount("1000.00")
	assert.NoError(t, PlaceLien(account, decimal.NewFromInt(500)))

	released, err := ReleaseLien(account, decimal.NewFromInt(9999))

	assert.NoError(t, err)
	assert.True(t, released.Equal(decimal.NewFromInt(500)))
	assert.True(t, account.LienAmount.IsZero())
}

func TestReleaseLien_NothingHeld(t *testing.T) {
	account := activeAccount("1000.00")

	_, err := ReleaseLien(account, decimal.NewFromInt(100))

	assert.ErrorIs(t, err, customError.ErrInvalidOperation)
}

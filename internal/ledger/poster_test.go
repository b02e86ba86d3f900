package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sankofabank/core-ledger/internal/domain"
	customError "github.com/sankofabank/core-ledger/pkg/errors"
)

func activeAccount(balance string) *domain.Account {
	b := decimal.RequireFromString(balance)
	return &domain.Account{
		ID:               uuid.New(),
		AccountNumber:    "0123456789",
		AccountType:      domain.AccountTypeSavings,
		Currency:         domain.CurrencyNGN,
		LedgerBalance:    b,
		AvailableBalance: b,
		LienAmount:       decimal.Zero,
		Status:           domain.AccountStatusActive,
	}
}

func TestPostEntry_Credit(t *testing.T) {
	account := activeAccount("1000.00")

	entry, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-1",
		EntryType:     domain.EntryTypeCredit,
		Amount:        decimal.NewFromInt(250),
		Currency:      domain.CurrencyNGN,
		Narration:     "inward transfer",
		Channel:       "NIP",
	})

	assert.NoError(t, err)
	assert.True(t, account.LedgerBalance.Equal(decimal.NewFromInt(1250)))
	assert.True(t, account.AvailableBalance.Equal(decimal.NewFromInt(1250)))

	assert.Equal(t, domain.EntryTypeCredit, entry.EntryType)
	assert.True(t, entry.BalanceBefore.Equal(decimal.NewFromInt(1000)))
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, account.ID, entry.AccountID)
	assert.False(t, entry.ValueDate.IsZero())
}

func TestPostEntry_Debit_BalanceSnapshot(t *testing.T) {
	account := activeAccount("1000.00")

	entry, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-2",
		EntryType:     domain.EntryTypeDebit,
		Amount:        decimal.RequireFromString("999.99"),
		Currency:      domain.CurrencyNGN,
		Narration:     "outward transfer",
	})

	assert.NoError(t, err)
	assert.True(t, entry.BalanceAfter.Equal(entry.BalanceBefore.Sub(entry.Amount)))
	assert.True(t, account.LedgerBalance.Equal(decimal.RequireFromString("0.01")))
}

func TestPostEntry_InsufficientFunds(t *testing.T) {
	account := activeAccount("1000.00")

	_, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-3",
		EntryType:     domain.EntryTypeDebit,
		Amount:        decimal.RequireFromString("1000.01"),
		Currency:      domain.CurrencyNGN,
	})

	assert.ErrorIs(t, err, customError.ErrInsufficientFunds)
	assert.ErrorIs(t, err, customError.ErrInvalidOperation)
	// Balances untouched on rejection
	assert.True(t, account.LedgerBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, account.AvailableBalance.Equal(decimal.NewFromInt(1000)))
}

func TestPostEntry_DebitChecksAvailableNotLedger(t *testing.T) {
	account := activeAccount("1000.00")
	account.LienAmount = decimal.NewFromInt(400)
	account.AvailableBalance = decimal.NewFromInt(600)

	_, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-4",
		EntryType:     domain.EntryTypeDebit,
		Amount:        decimal.NewFromInt(700),
		Currency:      domain.CurrencyNGN,
	})

	assert.ErrorIs(t, err, customError.ErrInsufficientFunds)
}

func TestPostEntry_PostNoDebit(t *testing.T) {
	account := activeAccount("5000.00")
	account.IsPostNoDebit = true

	_, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-5",
		EntryType:     domain.EntryTypeDebit,
		Amount:        decimal.NewFromInt(100),
		Currency:      domain.CurrencyNGN,
	})
	assert.ErrorIs(t, err, customError.ErrPostNoDebit)

	// Credits still land on a PND account
	_, err = PostEntry(account, EntryInput{
		TransactionID: "TXN-5",
		EntryType:     domain.EntryTypeCredit,
		Amount:        decimal.NewFromInt(100),
		Currency:      domain.CurrencyNGN,
	})
	assert.NoError(t, err)
}

func TestPostEntry_SystemBypassesRestrictions(t *testing.T) {
	account := activeAccount("50.00")
	account.Status = domain.AccountStatusDormant
	account.IsPostNoDebit = true

	entry, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-6",
		EntryType:     domain.EntryTypeDebit,
		Amount:        decimal.NewFromInt(80),
		Currency:      domain.CurrencyNGN,
		IsSystemTx:    true,
	})

	assert.NoError(t, err)
	assert.True(t, account.LedgerBalance.Equal(decimal.NewFromInt(-30)))
	assert.NotNil(t, entry)
}

func TestPostEntry_InactiveAccount(t *testing.T) {
	account := activeAccount("1000.00")
	account.Status = domain.AccountStatusBlocked

	_, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-7",
		EntryType:     domain.EntryTypeCredit,
		Amount:        decimal.NewFromInt(100),
		Currency:      domain.CurrencyNGN,
	})

	assert.ErrorIs(t, err, customError.ErrAccountNotActive)
}

func TestPostEntry_CurrencyMismatch(t *testing.T) {
	account := activeAccount("1000.00")

	_, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-8",
		EntryType:     domain.EntryTypeCredit,
		Amount:        decimal.NewFromInt(100),
		Currency:      "USD",
	})

	assert.ErrorIs(t, err, customError.ErrCurrencyMismatch)
}

func TestPostEntry_InvalidInputs(t *testing.T) {
	account := activeAccount("1000.00")

	_, err := PostEntry(account, EntryInput{
		EntryType: domain.EntryTypeDebit,
		Amount:    decimal.Zero,
		Currency:  domain.CurrencyNGN,
	})
	assert.ErrorIs(t, err, customError.ErrInvalidAmount)

	_, err = PostEntry(account, EntryInput{
		EntryType: "TRANSFER",
		Amount:    decimal.NewFromInt(100),
		Currency:  domain.CurrencyNGN,
	})
	assert.ErrorIs(t, err, customError.ErrInvalidOperation)
}

func TestPostDoubleEntry_BalancedLegs(t *testing.T) {
	source := activeAccount("1000.00")
	destination := activeAccount("200.00")

	debitEntry, creditEntry, err := PostDoubleEntry(source, destination, DoubleEntryInput{
		TransactionID: "TXN-9",
		Amount:        decimal.NewFromInt(300),
		Currency:      domain.CurrencyNGN,
		Narration:     "transfer",
		Reference:     "REF001",
	})

	assert.NoError(t, err)
	assert.Equal(t, debitEntry.TransactionID, creditEntry.TransactionID)
	assert.True(t, debitEntry.Amount.Equal(creditEntry.Amount))
	assert.Equal(t, "REF001_DR", debitEntry.ExternalReference)
	assert.Equal(t, "REF001_CR", creditEntry.ExternalReference)

	assert.True(t, source.LedgerBalance.Equal(decimal.NewFromInt(700)))
	assert.True(t, destination.LedgerBalance.Equal(decimal.NewFromInt(500)))
}

func TestPostDoubleEntry_AllOrNothing(t *testing.T) {
	source := activeAccount("1000.00")
	destination := activeAccount("200.00")
	destination.Status = domain.AccountStatusClosed

	_, _, err := PostDoubleEntry(source, destination, DoubleEntryInput{
		TransactionID: "TXN-10",
		Amount:        decimal.NewFromInt(300),
		Currency:      domain.CurrencyNGN,
	})

	assert.ErrorIs(t, err, customError.ErrAccountNotActive)
	// Credit-side failure must not leave the debit applied
	assert.True(t, source.LedgerBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, destination.LedgerBalance.Equal(decimal.NewFromInt(200)))
}

func TestPostDoubleEntry_DebitFailureReportedFirst(t *testing.T) {
	source := activeAccount("100.00")
	destination := activeAccount("200.00")
	destination.Status = domain.AccountStatusClosed

	_, _, err := PostDoubleEntry(source, destination, DoubleEntryInput{
		TransactionID: "TXN-11",
		Amount:        decimal.NewFromInt(300),
		Currency:      domain.CurrencyNGN,
	})

	assert.ErrorIs(t, err, customError.ErrInsufficientFunds)
}

func TestReverse_OppositeLeg(t *testing.T) {
	account := activeAccount("1000.00")

	original, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-12",
		EntryType:     domain.EntryTypeDebit,
		Amount:        decimal.NewFromInt(400),
		Currency:      domain.CurrencyNGN,
		Reference:     "REF002",
	})
	assert.NoError(t, err)

	reversal, err := Reverse(account, original, "reversal of TXN-12")

	assert.NoError(t, err)
	assert.Equal(t, domain.EntryTypeCredit, reversal.EntryType)
	assert.Equal(t, original.TransactionID, reversal.TransactionID)
	assert.True(t, reversal.IsReversalEntry)
	assert.Equal(t, "REF002_RVSL", reversal.ExternalReference)
	assert.Equal(t, domain.ChannelSystem, reversal.Channel)

	// Balance back where it started
	assert.True(t, account.LedgerBalance.Equal(decimal.NewFromInt(1000)))
}

func TestReverse_WorksOnRestrictedAccount(t *testing.T) {
	account := activeAccount("1000.00")

	original, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-13",
		EntryType:     domain.EntryTypeCredit,
		Amount:        decimal.NewFromInt(400),
		Currency:      domain.CurrencyNGN,
	})
	assert.NoError(t, err)

	// Reversal is a system leg; a later PND flag cannot block it.
	account.IsPostNoDebit = true

	reversal, err := Reverse(account, original, "reversal")
	assert.NoError(t, err)
	assert.Equal(t, domain.EntryTypeDebit, reversal.EntryType)
	assert.True(t, account.LedgerBalance.Equal(decimal.NewFromInt(1000)))
}

func TestApplyEntry_DefaultsValueDateAndChannel(t *testing.T) {
	account := activeAccount("1000.00")

	before := time.Now().UTC()
	entry, err := PostEntry(account, EntryInput{
		TransactionID: "TXN-14",
		EntryType:     domain.EntryTypeCredit,
		Amount:        decimal.NewFromInt(10),
		Currency:      domain.CurrencyNGN,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ChannelSystem, entry.Channel)
	assert.False(t, entry.ValueDate.Before(before))
	assert.False(t, account.LastActivityDate.Before(before))
}

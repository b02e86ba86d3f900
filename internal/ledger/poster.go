package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sankofabank/core-ledger/internal/domain"
	customError "github.com/sankofabank/core-ledger/pkg/errors"
)

// EntryInput describes one posting leg. IsSystemTx bypasses the status and
// post-no-debit checks for trusted paths (interest posting, corrections); it
// must never be set from a customer-facing call site.
type EntryInput struct {
	TransactionID string
	EntryType     string
	Amount        decimal.Decimal
	Currency      string
	Narration     string
	ValueDate     time.Time
	Channel       string
	Reference     string
	IsSystemTx    bool
	IsReversal    bool
}

// DoubleEntryInput describes a balanced two-leg transaction.
type DoubleEntryInput struct {
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	Narration     string
	ValueDate     time.Time
	Channel       string
	Reference     string
	IsSystemTx    bool
}

// PostEntry validates and applies one posting leg against the account,
// returning the immutable ledger entry for the caller to persist together
// with the account update. All balance mutation funnels through here so every
// debit and credit is paired with exactly one audit record and one set of
// business checks.
//
// On error the account is untouched. Persistence and row locking belong to
// the caller's transaction.
func PostEntry(account *domain.Account, in EntryInput) (*domain.LedgerEntry, error) {
	if err := validateEntry(account, in); err != nil {
		return nil, err
	}
	return applyEntry(account, in), nil
}

// PostDoubleEntry posts the debit and credit legs of one financial
// transaction as a unit: both legs are validated before either balance moves,
// so a failure on the second leg cannot leave the first applied. Both entries
// carry the same transaction ID.
func PostDoubleEntry(debitAccount, creditAccount *domain.Account, in DoubleEntryInput) (*domain.LedgerEntry, *domain.LedgerEntry, error) {
	debitIn := EntryInput{
		TransactionID: in.TransactionID,
		EntryType:     domain.EntryTypeDebit,
		Amount:        in.Amount,
		Currency:      in.Currency,
		Narration:     in.Narration,
		ValueDate:     in.ValueDate,
		Channel:       in.Channel,
		Reference:     referenceLeg(in.Reference, "DR"),
		IsSystemTx:    in.IsSystemTx,
	}
	creditIn := EntryInput{
		TransactionID: in.TransactionID,
		EntryType:     domain.EntryTypeCredit,
		Amount:        in.Amount,
		Currency:      in.Currency,
		Narration:     in.Narration,
		ValueDate:     in.ValueDate,
		Channel:       in.Channel,
		Reference:     referenceLeg(in.Reference, "CR"),
		IsSystemTx:    in.IsSystemTx,
	}

	// Debit-side validation runs first so an insufficient-funds failure is
	// reported ahead of any credit-side problem.
	if err := validateEntry(debitAccount, debitIn); err != nil {
		return nil, nil, err
	}
	if err := validateEntry(creditAccount, creditIn); err != nil {
		return nil, nil, err
	}

	debitEntry := applyEntry(debitAccount, debitIn)
	creditEntry := applyEntry(creditAccount, creditIn)
	return debitEntry, creditEntry, nil
}

// Reverse builds the correcting leg for an already-posted entry: same
// transaction lineage, opposite direction, flagged as a reversal. The
// original entry is never edited.
func Reverse(account *domain.Account, original *domain.LedgerEntry, narration string) (*domain.LedgerEntry, error) {
	entryType := domain.EntryTypeDebit
	if original.EntryType == domain.EntryTypeDebit {
		entryType = domain.EntryTypeCredit
	}
	return PostEntry(account, EntryInput{
		TransactionID: original.TransactionID,
		EntryType:     entryType,
		Amount:        original.Amount,
		Currency:      original.Currency,
		Narration:     narration,
		ValueDate:     time.Now().UTC(),
		Channel:       domain.ChannelSystem,
		Reference:     referenceLeg(original.ExternalReference, "RVSL"),
		IsSystemTx:    true,
		IsReversal:    true,
	})
}

func validateEntry(account *domain.Account, in EntryInput) error {
	if !in.Amount.IsPositive() {
		return customError.WrapInvalidAmount(in.Amount)
	}
	if in.EntryType != domain.EntryTypeDebit && in.EntryType != domain.EntryTypeCredit {
		return customError.WrapInvalidOperation("entry type must be DEBIT or CREDIT")
	}
	if account.Currency != in.Currency {
		return customError.WrapCurrencyMismatch(in.Currency, account.Currency)
	}
	if !in.IsSystemTx && account.Status != domain.AccountStatusActive {
		return customError.WrapAccountNotActive(account.AccountNumber, account.Status)
	}
	if in.EntryType == domain.EntryTypeDebit && !in.IsSystemTx {
		if account.IsPostNoDebit {
			return customError.WrapPostNoDebit(account.AccountNumber)
		}
		if account.AvailableBalance.LessThan(in.Amount) {
			return customError.WrapInsufficientFunds(account.AccountNumber, account.AvailableBalance, in.Amount)
		}
	}
	return nil
}

func applyEntry(account *domain.Account, in EntryInput) *domain.LedgerEntry {
	now := time.Now().UTC()
	balanceBefore := account.LedgerBalance

	if in.EntryType == domain.EntryTypeDebit {
		account.LedgerBalance = account.LedgerBalance.Sub(in.Amount)
		account.AvailableBalance = account.AvailableBalance.Sub(in.Amount)
	} else {
		account.LedgerBalance = account.LedgerBalance.Add(in.Amount)
		account.AvailableBalance = account.AvailableBalance.Add(in.Amount)
	}
	account.LastActivityDate = now

	valueDate := in.ValueDate
	if valueDate.IsZero() {
		valueDate = now
	}
	channel := in.Channel
	if channel == "" {
		channel = domain.ChannelSystem
	}

	return &domain.LedgerEntry{
		ID:                uuid.New(),
		TransactionID:     in.TransactionID,
		AccountID:         account.ID,
		EntryType:         in.EntryType,
		Amount:            in.Amount,
		Currency:          in.Currency,
		Narration:         in.Narration,
		TransactionDate:   now,
		ValueDate:         valueDate,
		BalanceBefore:     balanceBefore,
		BalanceAfter:      account.LedgerBalance,
		Channel:           channel,
		ExternalReference: in.Reference,
		IsReversalEntry:   in.IsReversal,
	}
}

func referenceLeg(reference, suffix string) string {
	if reference == "" {
		return ""
	}
	return reference + "_" + suffix
}

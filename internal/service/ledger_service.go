package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/sankofabank/core-ledger/internal/config"
	"github.com/sankofabank/core-ledger/internal/domain"
	"github.com/sankofabank/core-ledger/internal/ledger"
	"github.com/sankofabank/core-ledger/internal/repository"
	customError "github.com/sankofabank/core-ledger/pkg/errors"
	"github.com/sankofabank/core-ledger/pkg/utils"
)

const balanceCacheTTL = 5 * time.Minute

// LedgerService orchestrates account lifecycle, posting, liens and balance
// inquiries. It owns the unit-of-work boundary: every mutating operation runs
// inside one database transaction with row locks taken up front.
type LedgerService struct {
	db          *sqlx.DB
	AccountRepo repository.AccountRepository
	LedgerRepo  repository.LedgerRepository
	redis       *redis.Client
	config      *config.Config
}

func NewLedgerService(
	db *sqlx.DB,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *LedgerService {
	return &LedgerService{
		db:          db,
		AccountRepo: accountRepo,
		LedgerRepo:  ledgerRepo,
		redis:       redisClient,
		config:      cfg,
	}
}

// OpenAccount creates a new account and, when an initial deposit is supplied,
// posts it as the first (system) credit.
func (s *LedgerService) OpenAccount(ctx context.Context, request *domain.OpenAccountRequest) (*domain.Account, error) {
	now := time.Now().UTC()
	account := &domain.Account{
		ID:                     uuid.New(),
		AccountNumber:          utils.GenerateNUBAN(s.config.Business.BankCode),
		CustomerID:             request.CustomerID,
		AccountType:            request.AccountType,
		Currency:               request.Currency,
		LedgerBalance:          decimal.Zero,
		AvailableBalance:       decimal.Zero,
		LienAmount:             decimal.Zero,
		UnclearedFunds:         decimal.Zero,
		Status:                 domain.AccountStatusActive,
		InterestRatePA:         request.InterestRatePA,
		AccruedInterestPayable: decimal.Zero,
		LastActivityDate:       now,
		OpenedDate:             now,
	}

	if err := s.AccountRepo.Create(ctx, account); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if request.InitialDeposit.IsPositive() {
		err := repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
			locked, err := s.AccountRepo.GetByNumberForUpdate(ctx, tx, account.AccountNumber)
			if err != nil {
				return customError.WrapDatabaseError(err)
			}
			entry, err := ledger.PostEntry(locked, ledger.EntryInput{
				TransactionID: utils.GenerateReference("TXN-OPEN"),
				EntryType:     domain.EntryTypeCredit,
				Amount:        utils.RoundMoney(request.InitialDeposit),
				Currency:      locked.Currency,
				Narration:     fmt.Sprintf("Initial deposit for account opening %s", locked.AccountNumber),
				Channel:       domain.ChannelSystem,
				IsSystemTx:    true,
			})
			if err != nil {
				return err
			}
			if err := s.LedgerRepo.CreateEntry(ctx, tx, entry); err != nil {
				return customError.WrapDatabaseError(err)
			}
			if err := s.AccountRepo.UpdateBalances(ctx, tx, locked); err != nil {
				return customError.WrapDatabaseError(err)
			}
			*account = *locked
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return account, nil
}

// PostTransfer posts one balanced double-entry transaction between two
// accounts. Both legs succeed or neither is retained.
func (s *LedgerService) PostTransfer(ctx context.Context, request *domain.PostTransactionRequest) (*domain.PostTransactionResponse, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapInvalidAmount(request.Amount)
	}

	transactionID := "TXN-" + request.Reference
	if request.Reference == "" {
		transactionID = utils.GenerateReference("TXN")
	}

	valueDate := time.Now().UTC()
	if request.ValueDate != nil {
		valueDate = *request.ValueDate
	}

	var response *domain.PostTransactionResponse
	err := repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
		// Lock in a fixed order so two opposing transfers cannot deadlock.
		first, second := request.FromAccountNumber, request.ToAccountNumber
		if second < first {
			first, second = second, first
		}

		locked := make(map[string]*domain.Account, 2)
		for _, number := range []string{first, second} {
			account, err := s.AccountRepo.GetByNumberForUpdate(ctx, tx, number)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return customError.WrapAccountNotFound(number)
				}
				return customError.WrapDatabaseError(err)
			}
			locked[number] = account
		}

		debitAccount := locked[request.FromAccountNumber]
		creditAccount := locked[request.ToAccountNumber]

		debitEntry, creditEntry, err := ledger.PostDoubleEntry(debitAccount, creditAccount, ledger.DoubleEntryInput{
			TransactionID: transactionID,
			Amount:        utils.RoundMoney(request.Amount),
			Currency:      request.Currency,
			Narration:     request.Narration,
			ValueDate:     valueDate,
			Channel:       request.Channel,
			Reference:     request.Reference,
		})
		if err != nil {
			return err
		}

		for _, entry := range []*domain.LedgerEntry{debitEntry, creditEntry} {
			if err := s.LedgerRepo.CreateEntry(ctx, tx, entry); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}
		for _, account := range []*domain.Account{debitAccount, creditAccount} {
			if err := s.AccountRepo.UpdateBalances(ctx, tx, account); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		response = &domain.PostTransactionResponse{
			TransactionID: transactionID,
			DebitEntry:    debitEntry,
			CreditEntry:   creditEntry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBalance(ctx, request.FromAccountNumber, request.ToAccountNumber)
	return response, nil
}

// ReverseEntry posts the correcting leg for an existing entry.
func (s *LedgerService) ReverseEntry(ctx context.Context, entryID uuid.UUID, narration string) (*domain.LedgerEntry, error) {
	original, err := s.LedgerRepo.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapInvalidOperation("ledger entry not found")
		}
		return nil, customError.WrapDatabaseError(err)
	}
	if original.IsReversalEntry {
		return nil, customError.WrapInvalidOperation("cannot reverse a reversal entry")
	}

	var reversal *domain.LedgerEntry
	err = repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
		account, err := s.lockAccountByID(ctx, tx, original.AccountID)
		if err != nil {
			return err
		}
		reversal, err = ledger.Reverse(account, original, narration)
		if err != nil {
			return err
		}
		if err := s.LedgerRepo.CreateEntry(ctx, tx, reversal); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := s.AccountRepo.UpdateBalances(ctx, tx, account); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reversal, nil
}

// GetBalance returns the account's balances, served from the redis snapshot
// cache when fresh.
func (s *LedgerService) GetBalance(ctx context.Context, accountNumber string) (*domain.AccountBalanceResponse, error) {
	cacheKey := "balance:" + accountNumber
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var response domain.AccountBalanceResponse
			if json.Unmarshal([]byte(cached), &response) == nil {
				return &response, nil
			}
		}
	}

	account, err := s.AccountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapAccountNotFound(accountNumber)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	response := &domain.AccountBalanceResponse{
		AccountNumber:    account.AccountNumber,
		Currency:         account.Currency,
		LedgerBalance:    account.LedgerBalance,
		AvailableBalance: account.AvailableBalance,
		LienAmount:       account.LienAmount,
		UnclearedFunds:   account.UnclearedFunds,
	}

	if s.redis != nil {
		if payload, err := json.Marshal(response); err == nil {
			s.redis.Set(ctx, cacheKey, payload, balanceCacheTTL)
		}
	}
	return response, nil
}

// GetStatement returns ledger entries for an account, newest first.
func (s *LedgerService) GetStatement(ctx context.Context, accountNumber string, limit, offset int) ([]*domain.LedgerEntry, error) {
	account, err := s.AccountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapAccountNotFound(accountNumber)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := s.LedgerRepo.ListEntries(ctx, account.ID, limit, offset)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return entries, nil
}

// UpdateStatus changes an account's status. Closing is refused while the
// ledger balance is non-zero.
func (s *LedgerService) UpdateStatus(ctx context.Context, accountNumber, status string) (*domain.Account, error) {
	var account *domain.Account
	err := repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
		locked, err := s.AccountRepo.GetByNumberForUpdate(ctx, tx, accountNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapAccountNotFound(accountNumber)
			}
			return customError.WrapDatabaseError(err)
		}

		if status == domain.AccountStatusClosed {
			if !locked.LedgerBalance.IsZero() {
				return customError.NewBusinessError(
					customError.ErrCodeInvalidOperation,
					"account balance must be zero before closing",
					customError.ErrNonZeroBalance,
				)
			}
			now := time.Now().UTC()
			locked.ClosedDate = &now
		}

		locked.Status = status
		locked.LastActivityDate = time.Now().UTC()
		if err := s.AccountRepo.UpdateStatus(ctx, tx, locked); err != nil {
			return customError.WrapDatabaseError(err)
		}
		account = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// PlaceLien holds funds on an account.
func (s *LedgerService) PlaceLien(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Account, error) {
	return s.adjustLien(ctx, accountNumber, func(account *domain.Account) error {
		return ledger.PlaceLien(account, amount)
	})
}

// ReleaseLien frees held funds; a zero amount releases everything held.
func (s *LedgerService) ReleaseLien(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Account, error) {
	return s.adjustLien(ctx, accountNumber, func(account *domain.Account) error {
		_, err := ledger.ReleaseLien(account, amount)
		return err
	})
}

func (s *LedgerService) adjustLien(ctx context.Context, accountNumber string, mutate func(*domain.Account) error) (*domain.Account, error) {
	var account *domain.Account
	err := repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
		locked, err := s.AccountRepo.GetByNumberForUpdate(ctx, tx, accountNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapAccountNotFound(accountNumber)
			}
			return customError.WrapDatabaseError(err)
		}
		if err := mutate(locked); err != nil {
			return err
		}
		if err := s.AccountRepo.UpdateBalances(ctx, tx, locked); err != nil {
			return customError.WrapDatabaseError(err)
		}
		account = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateBalance(ctx, accountNumber)
	return account, nil
}

func (s *LedgerService) lockAccountByID(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.AccountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapAccountNotFound(accountID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return account, nil
}

// invalidateBalance drops cached snapshots after a posting. Best effort: a
// cache miss is always safe.
func (s *LedgerService) invalidateBalance(ctx context.Context, accountNumbers ...string) {
	if s.redis == nil {
		return
	}
	for _, number := range accountNumbers {
		if err := s.redis.Del(ctx, "balance:"+number).Err(); err != nil {
			log.Printf("balance cache invalidation failed for %s: %v", number, err)
		}
	}
}

package service

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sankofabank/core-ledger/internal/config"
	"github.com/sankofabank/core-ledger/internal/domain"
	"github.com/sankofabank/core-ledger/internal/ledger"
	loanpkg "github.com/sankofabank/core-ledger/internal/loan"
	"github.com/sankofabank/core-ledger/internal/repository"
	customError "github.com/sankofabank/core-ledger/pkg/errors"
	"github.com/sankofabank/core-ledger/pkg/utils"
)

// BatchResult summarizes one batch run.
type BatchResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// BatchService runs the scheduled sweeps: daily interest accrual, periodic
// interest posting, and overdue/DPD marking. Each account gets its own
// transaction, so one failure never rolls back the rest of the run.
type BatchService struct {
	db          *sqlx.DB
	AccountRepo repository.AccountRepository
	LedgerRepo  repository.LedgerRepository
	LoanRepo    repository.LoanRepository
	accruer     ledger.Accruer
	config      *config.Config
}

func NewBatchService(
	db *sqlx.DB,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	loanRepo repository.LoanRepository,
	cfg *config.Config,
) *BatchService {
	return &BatchService{
		db:          db,
		AccountRepo: accountRepo,
		LedgerRepo:  ledgerRepo,
		LoanRepo:    loanRepo,
		accruer: ledger.Accruer{
			DayCountBasis:         cfg.GetDayCountBasis(),
			MinBalanceForInterest: cfg.GetMinBalanceForInterest(),
		},
		config: cfg,
	}
}

// RunDailyAccrual accrues one day of interest for every eligible deposit
// account and every active loan.
func (s *BatchService) RunDailyAccrual(ctx context.Context, accrualDate time.Time) (*BatchResult, error) {
	result := &BatchResult{}

	accounts, err := s.AccountRepo.ListAccrualEligible(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	for _, account := range accounts {
		err := repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
			locked, err := s.AccountRepo.GetByNumberForUpdate(ctx, tx, account.AccountNumber)
			if err != nil {
				return err
			}
			logRow := s.accruer.AccrueDeposit(locked, accrualDate)
			if logRow == nil {
				result.Skipped++
				return nil
			}
			if err := s.LedgerRepo.CreateAccrualLog(ctx, tx, logRow); err != nil {
				return err
			}
			if err := s.AccountRepo.UpdateBalances(ctx, tx, locked); err != nil {
				return err
			}
			result.Processed++
			return nil
		})
		if err != nil {
			result.Failed++
			log.Printf("accrual failed for account %s: %v", account.AccountNumber, err)
		}
	}

	loans, err := s.LoanRepo.ListActive(ctx)
	if err != nil {
		return result, customError.WrapDatabaseError(err)
	}
	for _, loanAccount := range loans {
		err := repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
			locked, err := s.LoanRepo.GetByNumberForUpdate(ctx, tx, loanAccount.LoanAccountNumber)
			if err != nil {
				return err
			}
			logRow := s.accruer.AccrueLoan(locked, accrualDate)
			if logRow == nil {
				result.Skipped++
				return nil
			}
			if err := s.LedgerRepo.CreateAccrualLog(ctx, tx, logRow); err != nil {
				return err
			}
			if err := s.LoanRepo.Update(ctx, tx, locked); err != nil {
				return err
			}
			result.Processed++
			return nil
		})
		if err != nil {
			result.Failed++
			log.Printf("loan accrual failed for %s: %v", loanAccount.LoanAccountNumber, err)
		}
	}

	return result, nil
}

// RunInterestPosting sweeps accumulated payable interest into the ledger as
// balanced postings against the interest-expense GL.
func (s *BatchService) RunInterestPosting(ctx context.Context, postingDate time.Time) (*BatchResult, error) {
	result := &BatchResult{}

	accounts, err := s.AccountRepo.ListWithAccruedInterest(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	for _, account := range accounts {
		err := repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
			locked, err := s.AccountRepo.GetByNumberForUpdate(ctx, tx, account.AccountNumber)
			if err != nil {
				return err
			}
			glAccount, err := s.AccountRepo.GetByNumberForUpdate(ctx, tx, s.config.Business.InterestExpenseGL)
			if err != nil {
				return err
			}

			debitEntry, creditEntry, err := ledger.PostAccruedInterest(locked, glAccount, postingDate)
			if err != nil {
				return err
			}
			if debitEntry == nil {
				// Residual rounded to zero; persist the cleared payable only.
				result.Skipped++
				return s.AccountRepo.UpdateBalances(ctx, tx, locked)
			}

			for _, entry := range []*domain.LedgerEntry{debitEntry, creditEntry} {
				if err := s.LedgerRepo.CreateEntry(ctx, tx, entry); err != nil {
					return err
				}
			}
			for _, updated := range []*domain.Account{locked, glAccount} {
				if err := s.AccountRepo.UpdateBalances(ctx, tx, updated); err != nil {
					return err
				}
			}
			if err := s.LedgerRepo.MarkAccrualsPosted(ctx, tx, locked.ID, postingDate); err != nil {
				return err
			}
			result.Processed++
			return nil
		})
		if err != nil {
			result.Failed++
			log.Printf("interest posting failed for account %s: %v", account.AccountNumber, err)
		}
	}

	return result, nil
}

// RunOverdueUpdate recomputes days past due for active loans from their
// earliest unpaid installment and flips status between active and overdue.
func (s *BatchService) RunOverdueUpdate(ctx context.Context, asOf time.Time) (*BatchResult, error) {
	result := &BatchResult{}

	loans, err := s.LoanRepo.ListActive(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	today := utils.DateOnly(asOf)
	for _, loanAccount := range loans {
		err := repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
			locked, err := s.LoanRepo.GetByNumberForUpdate(ctx, tx, loanAccount.LoanAccountNumber)
			if err != nil {
				return err
			}
			schedule, err := s.LoanRepo.GetSchedule(ctx, locked.ID)
			if err != nil {
				return err
			}

			next := loanpkg.NextUnpaidDueDate(schedule)
			if next == nil {
				result.Skipped++
				return nil
			}

			due := utils.DateOnly(next.DueDate)
			if due.Before(today) {
				locked.DaysPastDue = int(today.Sub(due).Hours() / 24)
				locked.Status = domain.LoanStatusOverdue
			} else {
				locked.DaysPastDue = 0
				if locked.Status == domain.LoanStatusOverdue {
					locked.Status = domain.LoanStatusActive
				}
			}
			locked.NextRepaymentDate = &next.DueDate

			if err := s.LoanRepo.Update(ctx, tx, locked); err != nil {
				return err
			}
			result.Processed++
			return nil
		})
		if err != nil {
			result.Failed++
			log.Printf("overdue update failed for loan %s: %v", loanAccount.LoanAccountNumber, err)
		}
	}

	return result, nil
}

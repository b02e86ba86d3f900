package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/sankofabank/core-ledger/internal/config"
	"github.com/sankofabank/core-ledger/internal/domain"
	"github.com/sankofabank/core-ledger/internal/ledger"
	loanpkg "github.com/sankofabank/core-ledger/internal/loan"
	"github.com/sankofabank/core-ledger/internal/repository"
	customError "github.com/sankofabank/core-ledger/pkg/errors"
	"github.com/sankofabank/core-ledger/pkg/utils"
)

// LoanService orchestrates disbursement, schedules and repayments.
type LoanService struct {
	db          *sqlx.DB
	LoanRepo    repository.LoanRepository
	AccountRepo repository.AccountRepository
	LedgerRepo  repository.LedgerRepository
	redis       *redis.Client
	config      *config.Config
}

func NewLoanService(
	db *sqlx.DB,
	loanRepo repository.LoanRepository,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *LoanService {
	return &LoanService{
		db:          db,
		LoanRepo:    loanRepo,
		AccountRepo: accountRepo,
		LedgerRepo:  ledgerRepo,
		redis:       redisClient,
		config:      cfg,
	}
}

// DisburseLoan creates the loan account, generates its amortization schedule
// and moves the principal from the loan-asset GL into the customer's deposit
// account, all in one transaction.
func (s *LoanService) DisburseLoan(ctx context.Context, request *domain.DisburseLoanRequest) (*domain.DisburseLoanResponse, error) {
	if !request.Principal.IsPositive() {
		return nil, customError.WrapInvalidAmount(request.Principal)
	}

	now := time.Now().UTC()
	firstRepaymentDate := now.AddDate(0, 1, 0)

	installments, err := loanpkg.GenerateSchedule(
		utils.RoundMoney(request.Principal),
		request.InterestRatePA,
		request.TenorMonths,
		firstRepaymentDate,
	)
	if err != nil {
		return nil, err
	}

	loanAccount := &domain.LoanAccount{
		ID:                   uuid.New(),
		LoanAccountNumber:    utils.GenerateNUBAN(s.config.Business.BankCode),
		CustomerID:           request.CustomerID,
		Currency:             request.Currency,
		PrincipalDisbursed:   utils.RoundMoney(request.Principal),
		InterestRatePA:       request.InterestRatePA,
		TenorMonths:          request.TenorMonths,
		PrincipalOutstanding: utils.RoundMoney(request.Principal),
		InterestOutstanding:  decimal.Zero,
		FeesOutstanding:      decimal.Zero,
		PenaltiesOutstanding: decimal.Zero,
		TotalRepaidPrincipal: decimal.Zero,
		TotalRepaidInterest:  decimal.Zero,
		UnallocatedCredit:    decimal.Zero,
		LastRepaymentAmount:  decimal.Zero,
		Status:               domain.LoanStatusActive,
		DisbursementDate:     now,
		FirstRepaymentDate:   firstRepaymentDate,
		NextRepaymentDate:    &firstRepaymentDate,
		MaturityDate:         now.AddDate(0, request.TenorMonths, 0),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	schedule := make([]*domain.RepaymentScheduleEntry, 0, len(installments))
	for _, installment := range installments {
		schedule = append(schedule, &domain.RepaymentScheduleEntry{
			ID:                uuid.New(),
			LoanAccountID:     loanAccount.ID,
			InstallmentNumber: installment.Number,
			DueDate:           installment.DueDate,
			PrincipalDue:      installment.PrincipalDue,
			InterestDue:       installment.InterestDue,
			FeesDue:           decimal.Zero,
			TotalDue:          installment.TotalDue,
			PrincipalPaid:     decimal.Zero,
			InterestPaid:      decimal.Zero,
			CreatedAt:         now,
		})
	}

	err = repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.LoanRepo.Create(ctx, tx, loanAccount); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := s.LoanRepo.CreateSchedule(ctx, tx, schedule); err != nil {
			return customError.WrapDatabaseError(err)
		}

		glAccount, err := s.lockAccount(ctx, tx, s.config.Business.LoanAssetGL)
		if err != nil {
			return err
		}
		depositAccount, err := s.lockAccount(ctx, tx, request.DisbursementAccountNo)
		if err != nil {
			return err
		}

		debitEntry, creditEntry, err := ledger.PostDoubleEntry(glAccount, depositAccount, ledger.DoubleEntryInput{
			TransactionID: utils.GenerateReference("TXN-LNDSB"),
			Amount:        loanAccount.PrincipalDisbursed,
			Currency:      request.Currency,
			Narration:     fmt.Sprintf("Loan disbursement for %s", loanAccount.LoanAccountNumber),
			ValueDate:     now,
			Channel:       domain.ChannelSystem,
			IsSystemTx:    true,
		})
		if err != nil {
			return err
		}

		for _, entry := range []*domain.LedgerEntry{debitEntry, creditEntry} {
			if err := s.LedgerRepo.CreateEntry(ctx, tx, entry); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}
		for _, account := range []*domain.Account{glAccount, depositAccount} {
			if err := s.AccountRepo.UpdateBalances(ctx, tx, account); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &domain.DisburseLoanResponse{Loan: loanAccount, Schedule: schedule}, nil
}

// GetLoan returns a loan account by number.
func (s *LoanService) GetLoan(ctx context.Context, loanAccountNumber string) (*domain.LoanAccount, error) {
	loanAccount, err := s.LoanRepo.GetByNumber(ctx, loanAccountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanAccountNumber)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loanAccount, nil
}

// GetSchedule returns the repayment schedule for a loan.
func (s *LoanService) GetSchedule(ctx context.Context, loanAccountNumber string) (*domain.ScheduleResponse, error) {
	loanAccount, err := s.GetLoan(ctx, loanAccountNumber)
	if err != nil {
		return nil, err
	}
	schedule, err := s.LoanRepo.GetSchedule(ctx, loanAccount.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return &domain.ScheduleResponse{
		LoanAccountNumber: loanAccountNumber,
		Schedule:          schedule,
	}, nil
}

// ProcessRepayment allocates a repayment across the loan's outstanding
// buckets (penalties, fees, interest, principal, in that order), reconciles
// the schedule oldest installment first, and transitions the loan to
// paid_off when every bucket reaches zero. Held overpayment from a previous
// repayment is applied before the new amount.
func (s *LoanService) ProcessRepayment(ctx context.Context, loanAccountNumber string, request *domain.RepaymentRequest) (*domain.LoanRepayment, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapInvalidAmount(request.Amount)
	}

	paymentDate := time.Now().UTC()
	if request.PaymentDate != nil {
		paymentDate = *request.PaymentDate
	}

	var repayment *domain.LoanRepayment
	err := repository.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
		loanAccount, err := s.LoanRepo.GetByNumberForUpdate(ctx, tx, loanAccountNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapLoanNotFound(loanAccountNumber)
			}
			return customError.WrapDatabaseError(err)
		}
		if loanAccount.Closed() {
			return customError.WrapLoanClosed(loanAccountNumber, loanAccount.Status)
		}
		if request.Currency != loanAccount.Currency {
			return customError.WrapCurrencyMismatch(request.Currency, loanAccount.Currency)
		}

		amount := utils.RoundMoney(request.Amount)

		// Held overpayment from earlier repayments participates first.
		effective := amount.Add(loanAccount.UnallocatedCredit)
		loanAccount.UnallocatedCredit = decimal.Zero

		alloc := loanpkg.Allocate(loanAccount, effective)
		if alloc.Unallocated.IsPositive() {
			switch s.config.Business.OverpaymentPolicy {
			case config.OverpaymentPolicyReject:
				return customError.WrapInvalidOperation(fmt.Sprintf(
					"payment exceeds total outstanding by %s", alloc.Unallocated.StringFixed(2)))
			default:
				loanAccount.UnallocatedCredit = alloc.Unallocated
			}
		}

		loanpkg.Apply(loanAccount, alloc)

		schedule, err := s.LoanRepo.GetSchedule(ctx, loanAccount.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		for _, row := range loanpkg.ReconcileSchedule(schedule, alloc) {
			if err := s.LoanRepo.UpdateScheduleEntry(ctx, tx, row); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		loanAccount.LastRepaymentDate = &paymentDate
		loanAccount.LastRepaymentAmount = amount

		if loanAccount.TotalOutstanding().IsZero() {
			loanAccount.Status = domain.LoanStatusPaidOff
			loanAccount.NextRepaymentDate = nil
			loanAccount.DaysPastDue = 0
		} else if next := loanpkg.NextUnpaidDueDate(schedule); next != nil {
			loanAccount.NextRepaymentDate = &next.DueDate
		}

		repayment = &domain.LoanRepayment{
			ID:                   uuid.New(),
			LoanAccountID:        loanAccount.ID,
			AmountPaid:           amount,
			Currency:             request.Currency,
			AllocatedToPenalties: alloc.Penalties,
			AllocatedToFees:      alloc.Fees,
			AllocatedToInterest:  alloc.Interest,
			AllocatedToPrincipal: alloc.Principal,
			Unallocated:          alloc.Unallocated,
			PaymentDate:          paymentDate,
			PaymentMethod:        request.PaymentMethod,
			Reference:            request.Reference,
			CreatedAt:            time.Now().UTC(),
		}
		if err := s.LoanRepo.CreateRepayment(ctx, tx, repayment); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := s.LoanRepo.Update(ctx, tx, loanAccount); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repayment, nil
}

func (s *LoanService) lockAccount(ctx context.Context, tx *sqlx.Tx, accountNumber string) (*domain.Account, error) {
	account, err := s.AccountRepo.GetByNumberForUpdate(ctx, tx, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapAccountNotFound(accountNumber)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return account, nil
}

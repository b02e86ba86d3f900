package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sankofabank/core-ledger/internal/domain"
	"github.com/sankofabank/core-ledger/pkg/utils"
)

// Accruer computes daily interest. Accruals are logged at 4 decimal places
// and only move a ledger balance when swept by PostAccruedInterest.
type Accruer struct {
	// DayCountBasis is the divisor for the daily rate, typically 365.
	DayCountBasis decimal.Decimal
	// MinBalanceForInterest is the floor below which deposit balances earn
	// nothing.
	MinBalanceForInterest decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// AccrueDeposit accrues one day of payable interest for a deposit account.
// It returns nil (no accrual, no error) when the account is ineligible, the
// balance is below the configured minimum, the day has already been accrued,
// or the amount rounds to zero. The ledger balance is never touched here.
func (a Accruer) AccrueDeposit(account *domain.Account, accrualDate time.Time) *domain.InterestAccrualLog {
	if account.Status != domain.AccountStatusActive || !account.InterestBearing() {
		return nil
	}
	if account.LastAccrualDate != nil && !utils.DateOnly(*account.LastAccrualDate).Before(utils.DateOnly(accrualDate)) {
		return nil
	}

	balance := account.LedgerBalance
	if balance.LessThan(a.MinBalanceForInterest) || !balance.IsPositive() {
		return nil
	}

	dailyRate := account.InterestRatePA.Div(hundred).Div(a.DayCountBasis)
	accrued := utils.RoundAccrual(balance.Mul(dailyRate))
	if !accrued.IsPositive() {
		return nil
	}

	account.AccruedInterestPayable = account.AccruedInterestPayable.Add(accrued)
	day := utils.DateOnly(accrualDate)
	account.LastAccrualDate = &day

	return &domain.InterestAccrualLog{
		ID:                       uuid.New(),
		AccountID:                account.ID,
		AccrualDate:              day,
		AmountAccrued:            accrued,
		InterestRatePAUsed:       account.InterestRatePA,
		BalanceSubjectToInterest: balance,
		Direction:                domain.AccrualDirectionPayable,
		CreatedAt:                time.Now().UTC(),
	}
}

// AccrueLoan accrues one day of receivable interest on a loan's outstanding
// principal, adding it straight to the interest bucket the repayment
// waterfall drains.
func (a Accruer) AccrueLoan(loan *domain.LoanAccount, accrualDate time.Time) *domain.InterestAccrualLog {
	if loan.Status != domain.LoanStatusActive && loan.Status != domain.LoanStatusOverdue {
		return nil
	}
	if loan.LastAccrualDate != nil && !utils.DateOnly(*loan.LastAccrualDate).Before(utils.DateOnly(accrualDate)) {
		return nil
	}
	if !loan.PrincipalOutstanding.IsPositive() {
		return nil
	}

	dailyRate := loan.InterestRatePA.Div(hundred).Div(a.DayCountBasis)
	accrued := utils.RoundAccrual(loan.PrincipalOutstanding.Mul(dailyRate))
	if !accrued.IsPositive() {
		return nil
	}

	loan.InterestOutstanding = loan.InterestOutstanding.Add(accrued)
	day := utils.DateOnly(accrualDate)
	loan.LastAccrualDate = &day

	return &domain.InterestAccrualLog{
		ID:                       uuid.New(),
		AccountID:                loan.ID,
		AccrualDate:              day,
		AmountAccrued:            accrued,
		InterestRatePAUsed:       loan.InterestRatePA,
		BalanceSubjectToInterest: loan.PrincipalOutstanding,
		Direction:                domain.AccrualDirectionReceivable,
		CreatedAt:                time.Now().UTC(),
	}
}

// PostAccruedInterest sweeps an account's accumulated payable interest into
// the ledger as a balanced transaction: debit the bank's interest-expense GL,
// credit the customer. The posting amount is the payable rounded to 2
// decimal places; a residual that rounds to zero is cleared without creating
// any entry. Legs are posted as system transactions so dormancy or PND flags
// cannot block an accrual sweep.
func PostAccruedInterest(account, interestExpenseGL *domain.Account, postingDate time.Time) (*domain.LedgerEntry, *domain.LedgerEntry, error) {
	amount := utils.RoundMoney(account.AccruedInterestPayable)
	if !amount.IsPositive() {
		// Sub-kobo residue: drop it rather than carrying it forever.
		account.AccruedInterestPayable = decimal.Zero
		return nil, nil, nil
	}

	debitEntry, creditEntry, err := PostDoubleEntry(interestExpenseGL, account, DoubleEntryInput{
		TransactionID: utils.GenerateReference("TXN-INTPOST"),
		Amount:        amount,
		Currency:      account.Currency,
		Narration:     fmt.Sprintf("Interest posting for period ending %s", postingDate.Format("2006-01-02")),
		ValueDate:     postingDate,
		Channel:       domain.ChannelSystem,
		IsSystemTx:    true,
	})
	if err != nil {
		return nil, nil, err
	}

	account.AccruedInterestPayable = account.AccruedInterestPayable.Sub(amount)
	if account.AccruedInterestPayable.IsNegative() {
		account.AccruedInterestPayable = decimal.Zero
	}
	return debitEntry, creditEntry, nil
}

package loan

import (
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/sankofabank/core-ledger/pkg/errors"
	"github.com/sankofabank/core-ledger/pkg/utils"
)

// Installment is one row of a reducing-balance amortization schedule.
type Installment struct {
	Number       int
	DueDate      time.Time
	PrincipalDue decimal.Decimal
	InterestDue  decimal.Decimal
	TotalDue     decimal.Decimal
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// GenerateSchedule computes an equal-installment schedule over tenorMonths
// using the reducing-balance EMI formula:
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// where r is the monthly rate (ratePA / 100 / 12). A zero rate falls back to
// an even split. Amounts are rounded half up to 2 decimal places per step;
// the final installment's principal is forced to the remaining balance so the
// schedule's principal sums to P exactly.
func GenerateSchedule(principal, ratePA decimal.Decimal, tenorMonths int, firstDueDate time.Time) ([]*Installment, error) {
	if tenorMonths <= 0 {
		return nil, customError.WrapInvalidOperation("tenor must be at least one month")
	}
	if !principal.IsPositive() {
		return nil, customError.WrapInvalidAmount(principal)
	}
	if ratePA.IsNegative() {
		return nil, customError.WrapInvalidOperation("interest rate cannot be negative")
	}

	n := decimal.NewFromInt(int64(tenorMonths))
	monthlyRate := ratePA.Div(hundred).Div(twelve)

	var emi decimal.Decimal
	if monthlyRate.IsZero() {
		emi = utils.RoundMoney(principal.Div(n))
	} else {
		factor := one.Add(monthlyRate).Pow(n)
		denominator := factor.Sub(one)
		if denominator.IsZero() {
			return nil, customError.WrapInvalidOperation("cannot compute installment: rate and tenor produce a zero denominator")
		}
		emi = utils.RoundMoney(principal.Mul(monthlyRate).Mul(factor).Div(denominator))
	}

	schedule := make([]*Installment, 0, tenorMonths)
	balance := principal

	for i := 1; i <= tenorMonths; i++ {
		interest := utils.RoundMoney(balance.Mul(monthlyRate))
		principalPart := emi.Sub(interest)
		total := emi

		if i == tenorMonths {
			// Absorb rounding drift: the last installment clears the
			// remaining balance exactly.
			principalPart = balance
			total = principalPart.Add(interest)
		}
		if principalPart.IsNegative() {
			// EMI below the month's interest means the loan never amortizes.
			return nil, customError.WrapInvalidOperation("installment does not cover monthly interest; check rate and tenor")
		}

		schedule = append(schedule, &Installment{
			Number:       i,
			DueDate:      firstDueDate.AddDate(0, i-1, 0),
			PrincipalDue: principalPart,
			InterestDue:  interest,
			TotalDue:     total,
		})
		balance = balance.Sub(principalPart)
	}

	return schedule, nil
}

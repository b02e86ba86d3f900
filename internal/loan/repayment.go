package loan

import (
	"github.com/shopspring/decimal"

	"github.com/sankofabank/core-ledger/internal/domain"
)

// Allocation is the breakdown of one repayment across the outstanding
// buckets, in waterfall priority order.
type Allocation struct {
	Penalties   decimal.Decimal
	Fees        decimal.Decimal
	Interest    decimal.Decimal
	Principal   decimal.Decimal
	Unallocated decimal.Decimal
}

// Total returns the amount consumed by the four buckets.
func (a Allocation) Total() decimal.Decimal {
	return a.Penalties.Add(a.Fees).Add(a.Interest).Add(a.Principal)
}

// Allocate splits amount across the loan's outstanding buckets:
// penalties, then fees, then interest, then principal. Whatever survives the
// waterfall is returned as Unallocated; policy for it lives with the caller.
func Allocate(loan *domain.LoanAccount, amount decimal.Decimal) Allocation {
	remaining := amount
	var alloc Allocation

	alloc.Penalties = decimal.Min(remaining, loan.PenaltiesOutstanding)
	remaining = remaining.Sub(alloc.Penalties)

	alloc.Fees = decimal.Min(remaining, loan.FeesOutstanding)
	remaining = remaining.Sub(alloc.Fees)

	alloc.Interest = decimal.Min(remaining, loan.InterestOutstanding)
	remaining = remaining.Sub(alloc.Interest)

	alloc.Principal = decimal.Min(remaining, loan.PrincipalOutstanding)
	remaining = remaining.Sub(alloc.Principal)

	alloc.Unallocated = remaining
	return alloc
}

// Apply decrements the loan's outstanding buckets by the allocation and
// updates the repaid totals. It does not decide the loan's status; the
// caller checks TotalOutstanding afterwards.
func Apply(loan *domain.LoanAccount, alloc Allocation) {
	loan.PenaltiesOutstanding = loan.PenaltiesOutstanding.Sub(alloc.Penalties)
	loan.FeesOutstanding = loan.FeesOutstanding.Sub(alloc.Fees)
	loan.InterestOutstanding = loan.InterestOutstanding.Sub(alloc.Interest)
	loan.PrincipalOutstanding = loan.PrincipalOutstanding.Sub(alloc.Principal)

	loan.TotalRepaidPrincipal = loan.TotalRepaidPrincipal.Add(alloc.Principal)
	loan.TotalRepaidInterest = loan.TotalRepaidInterest.Add(alloc.Interest)
}

// ReconcileSchedule walks unpaid schedule rows oldest installment first,
// consuming the principal and interest portions of an allocation into each
// row's paid counters. A row is marked paid once both counters cover what is
// due. Returns the rows that were touched.
func ReconcileSchedule(schedule []*domain.RepaymentScheduleEntry, alloc Allocation) []*domain.RepaymentScheduleEntry {
	principalLeft := alloc.Principal
	interestLeft := alloc.Interest

	var touched []*domain.RepaymentScheduleEntry
	for _, row := range schedule {
		if row.IsPaid {
			continue
		}
		if !principalLeft.IsPositive() && !interestLeft.IsPositive() {
			break
		}

		dirty := false

		interestGap := row.InterestDue.Sub(row.InterestPaid)
		if interestGap.IsPositive() && interestLeft.IsPositive() {
			applied := decimal.Min(interestLeft, interestGap)
			row.InterestPaid = row.InterestPaid.Add(applied)
			interestLeft = interestLeft.Sub(applied)
			dirty = true
		}

		principalGap := row.PrincipalDue.Sub(row.PrincipalPaid)
		if principalGap.IsPositive() && principalLeft.IsPositive() {
			applied := decimal.Min(principalLeft, principalGap)
			row.PrincipalPaid = row.PrincipalPaid.Add(applied)
			principalLeft = principalLeft.Sub(applied)
			dirty = true
		}

		if row.PrincipalPaid.GreaterThanOrEqual(row.PrincipalDue) &&
			row.InterestPaid.GreaterThanOrEqual(row.InterestDue) {
			row.IsPaid = true
			dirty = true
		}

		if dirty {
			touched = append(touched, row)
		}
	}
	return touched
}

// NextUnpaidDueDate returns the due date of the earliest unpaid installment,
// or nil when the schedule is fully settled.
func NextUnpaidDueDate(schedule []*domain.RepaymentScheduleEntry) *domain.RepaymentScheduleEntry {
	for _, row := range schedule {
		if !row.IsPaid {
			return row
		}
	}
	return nil
}

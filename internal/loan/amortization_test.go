package loan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	customError "github.com/sankofabank/core-ledger/pkg/errors"
)

var firstDue = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func TestGenerateSchedule_ReducingBalance(t *testing.T) {
	principal := decimal.NewFromInt(120000)
	rate := decimal.NewFromInt(12)

	schedule, err := GenerateSchedule(principal, rate, 12, firstDue)

	assert.NoError(t, err)
	assert.Len(t, schedule, 12)

	// EMI at 1% monthly over 12 months
	assert.True(t, schedule[0].TotalDue.Equal(decimal.RequireFromString("10661.85")),
		"got EMI %s", schedule[0].TotalDue)
	// First month's interest is 1% of the full principal
	assert.True(t, schedule[0].InterestDue.Equal(decimal.NewFromInt(1200)))
	assert.True(t, schedule[0].PrincipalDue.Equal(decimal.RequireFromString("9461.85")))

	// Interest declines as the balance reduces
	for i := 1; i < 12; i++ {
		assert.True(t, schedule[i].InterestDue.LessThan(schedule[i-1].InterestDue),
			"installment %d interest did not decline", i+1)
	}

	// Principal portions sum to the disbursed principal exactly
	sum := decimal.Zero
	for _, row := range schedule {
		sum = sum.Add(row.PrincipalDue)
		assert.True(t, row.TotalDue.Equal(row.PrincipalDue.Add(row.InterestDue)))
	}
	assert.True(t, sum.Equal(principal), "principal sum %s != %s", sum, principal)
}

func TestGenerateSchedule_DueDatesMonthly(t *testing.T) {
	schedule, err := GenerateSchedule(decimal.NewFromInt(100000), decimal.NewFromInt(18), 6, firstDue)

	assert.NoError(t, err)
	for i, row := range schedule {
		assert.Equal(t, i+1, row.Number)
		assert.Equal(t, firstDue.AddDate(0, i, 0), row.DueDate)
	}
}

func TestGenerateSchedule_ZeroRate(t *testing.T) {
	schedule, err := GenerateSchedule(decimal.NewFromInt(1200), decimal.Zero, 12, firstDue)

	assert.NoError(t, err)
	assert.Len(t, schedule, 12)
	for _, row := range schedule {
		assert.True(t, row.PrincipalDue.Equal(decimal.NewFromInt(100)))
		assert.True(t, row.InterestDue.IsZero())
		assert.True(t, row.TotalDue.Equal(decimal.NewFromInt(100)))
	}
}

func TestGenerateSchedule_ZeroRate_RoundingDrift(t *testing.T) {
	// 1000 / 3 does not split evenly; the final installment absorbs the drift.
	principal := decimal.NewFromInt(1000)
	schedule, err := GenerateSchedule(principal, decimal.Zero, 3, firstDue)

	assert.NoError(t, err)
	sum := decimal.Zero
	for _, row := range schedule {
		sum = sum.Add(row.PrincipalDue)
	}
	assert.True(t, sum.Equal(principal))
}

func TestGenerateSchedule_InvalidParams(t *testing.T) {
	_, err := GenerateSchedule(decimal.NewFromInt(1000), decimal.NewFromInt(12), 0, firstDue)
	assert.ErrorIs(t, err, customError.ErrInvalidOperation)

	_, err = GenerateSchedule(decimal.Zero, decimal.NewFromInt(12), 12, firstDue)
	assert.ErrorIs(t, err, customError.ErrInvalidAmount)

	_, err = GenerateSchedule(decimal.NewFromInt(-5), decimal.NewFromInt(12), 12, firstDue)
	assert.ErrorIs(t, err, customError.ErrInvalidAmount)

	_, err = GenerateSchedule(decimal.NewFromInt(1000), decimal.NewFromInt(-1), 12, firstDue)
	assert.ErrorIs(t, err, customError.ErrInvalidOperation)
}

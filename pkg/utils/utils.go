package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds to 2 decimal places, half up. Used for everything that
// hits a ledger balance.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundAccrual rounds to 4 decimal places, half up. Accruals keep the extra
// precision until they are posted, to limit compounding rounding error.
func RoundAccrual(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

// nubanWeights is the weight pattern applied over bank code prefix + serial.
var nubanWeights = []int{3, 7, 3, 3, 7, 3, 3, 7, 3, 3, 7, 3}

// GenerateNUBAN produces a 10-digit account number: 9 random serial digits
// plus a weighted check digit over the bank code prefix and serial.
func GenerateNUBAN(bankCode string) string {
	serial := randomDigits(9)
	digits := bankCode[:3] + serial

	sum := 0
	for i, w := range nubanWeights {
		sum += int(digits[i]-'0') * w
	}
	check := (10 - sum%10) % 10

	return fmt.Sprintf("%s%d", serial, check)
}

// GenerateReference builds a prefixed random reference, e.g. "TXN-4F7K9Q2MXB1C".
func GenerateReference(prefix string) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var b strings.Builder
	for i := 0; i < 12; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return prefix + "-" + b.String()
}

func randomDigits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String()
}

// DateOnly truncates a time to midnight UTC.
func DateOnly(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// SameDay reports whether two times fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

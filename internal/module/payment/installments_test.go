package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

var calc = Calculator{MonthlyRate: 0.01, Max: 10}

func TestQuoteSingleInstallmentIsIdentity(t *testing.T) {
	plan, err := calc.Quote(100000, 1, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(100000), plan.Total)
	assert.Zero(t, plan.Interest)
	require.Len(t, plan.Installments, 1)
	assert.Equal(t, int64(100000), plan.Installments[0].Amount)
}

func TestQuoteThreeInstallments(t *testing.T) {
	plan, err := calc.Quote(100000, 3, time.Now())
	require.NoError(t, err)

	// Price formula at 1% a month: pmt = 34002.21, total rounds to 102007.
	assert.Equal(t, int64(34002), plan.PerAmount)
	assert.Equal(t, int64(102007), plan.Total)
	assert.Equal(t, int64(2007), plan.Interest)

	require.Len(t, plan.Installments, 3)
	assert.Equal(t, int64(34002), plan.Installments[0].Amount)
	assert.Equal(t, int64(34002), plan.Installments[1].Amount)
	assert.Equal(t, int64(34003), plan.Installments[2].Amount)
}

func TestQuoteInstallmentsSumToTotal(t *testing.T) {
	for _, principal := range []int64{9990, 100000, 2999999, 123457} {
		for n := 1; n <= 10; n++ {
			plan, err := calc.Quote(principal, n, time.Now())
			require.NoError(t, err)

			var sum int64
			for _, inst := range plan.Installments {
				sum += inst.Amount
			}
			assert.Equal(t, plan.Total, sum, "principal=%d n=%d", principal, n)
			assert.GreaterOrEqual(t, plan.Total, principal, "principal=%d n=%d", principal, n)
		}
	}
}

func TestQuoteDueDatesAreMonthly(t *testing.T) {
	from := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	plan, err := calc.Quote(50000, 4, from)
	require.NoError(t, err)

	for i, inst := range plan.Installments {
		assert.Equal(t, from.AddDate(0, i+1, 0), inst.DueDate)
		assert.Equal(t, i+1, inst.Number)
	}
}

func TestQuoteBounds(t *testing.T) {
	_, err := calc.Quote(0, 3, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = calc.Quote(100000, 0, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = calc.Quote(100000, 11, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestQuoteZeroRate(t *testing.T) {
	free := Calculator{MonthlyRate: 0, Max: 10}
	plan, err := free.Quote(100001, 3, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(100001), plan.Total)
	assert.Zero(t, plan.Interest)

	var sum int64
	for _, inst := range plan.Installments {
		sum += inst.Amount
	}
	assert.Equal(t, int64(100001), sum)
}

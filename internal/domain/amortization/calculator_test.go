package amortization

import (
	"errors"
	"testing"

	"loan-ledger-service/internal/domain/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMonthlyPayment_KnownValues(t *testing.T) {
	tests := []struct {
		principal string
		rate      string
		term      int
		want      string
	}{
		{"120000.00", "0.06", 360, "719.46"},
		{"10000.00", "0", 10, "1000.00"},
		{"5000", "0.1", 12, "439.58"},
		{"1000", "0.12", 12, "88.85"},
		{"100", "0", 3, "33.33"},
		{"250000", "0.052", 36, "7515.19"},
	}
	for _, tt := range tests {
		got, err := MonthlyPayment(dec(tt.principal), dec(tt.rate), tt.term)
		require.NoError(t, err)
		assert.Truef(t, got.Equal(dec(tt.want)), "MonthlyPayment(%s, %s, %d) = %s, want %s",
			tt.principal, tt.rate, tt.term, got, tt.want)
		assert.Equal(t, tt.want, got.StringFixed(2))
	}
}

func TestMonthlyPayment_Deterministic(t *testing.T) {
	first, err := MonthlyPayment(dec("98765.43"), dec("0.0725"), 240)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := MonthlyPayment(dec("98765.43"), dec("0.0725"), 240)
		require.NoError(t, err)
		require.Equal(t, first.String(), again.String())
	}
}

func TestMonthlyPayment_CoversPrincipal(t *testing.T) {
	principals := []string{"1000", "2500.50", "5000", "120000", "999999.99"}
	rates := []string{"0.01", "0.035", "0.06", "0.1", "0.25"}
	terms := []int{1, 6, 12, 36, 120, 360}

	for _, p := range principals {
		for _, r := range rates {
			for _, n := range terms {
				got, err := MonthlyPayment(dec(p), dec(r), n)
				require.NoError(t, err)
				total := got.Mul(decimal.NewFromInt(int64(n)))
				assert.Truef(t, total.GreaterThanOrEqual(dec(p)),
					"payment %s * %d < principal %s (rate %s)", got, n, p, r)
			}
		}
	}
}

func TestMonthlyPayment_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		term      int
		want      error
	}{
		{"zero term", "1000", "0.1", 0, apperror.ErrInvalidTerm},
		{"negative term", "1000", "0.1", -12, apperror.ErrInvalidTerm},
		{"negative rate", "1000", "-0.01", 12, apperror.ErrInvalidRate},
		{"zero principal", "0", "0.1", 12, apperror.ErrInvalidPrincipal},
		{"negative principal", "-5", "0.1", 12, apperror.ErrInvalidPrincipal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MonthlyPayment(dec(tt.principal), dec(tt.rate), tt.term)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSchedule_RetiresPrincipal(t *testing.T) {
	rows, err := Schedule(dec("5000"), dec("0.1"), 12)
	require.NoError(t, err)
	require.Len(t, rows, 12)

	paid := decimal.Zero
	for i, r := range rows {
		assert.Equal(t, i+1, r.Month)
		assert.True(t, r.Payment.Equal(r.Principal.Add(r.Interest)), "row %d does not add up", r.Month)
		paid = paid.Add(r.Principal)
	}
	assert.True(t, paid.Equal(dec("5000")), "principal repaid = %s", paid)
	assert.True(t, rows[len(rows)-1].Balance.IsZero())
	assert.True(t, rows[0].Payment.Equal(dec("439.58")))
	assert.True(t, rows[0].Interest.Equal(dec("41.67")))
}

func TestSchedule_ZeroRate(t *testing.T) {
	rows, err := Schedule(dec("100"), decimal.Zero, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Payment.Equal(dec("33.33")))
	assert.True(t, rows[2].Payment.Equal(dec("33.34")))
	assert.True(t, rows[2].Balance.IsZero())
}

func TestSchedule_Invalid(t *testing.T) {
	_, err := Schedule(dec("100"), dec("0.1"), 0)
	assert.True(t, errors.Is(err, apperror.ErrInvalidTerm))
}

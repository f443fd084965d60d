package num

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedU256Arithmetic(t *testing.T) {
	t.Run("one plus one is two", func(t *testing.T) {
		one := OneFixedU256()
		two, ok := one.CheckedAdd(one)
		require.True(t, ok)
		floor, ok := two.Floor()
		require.True(t, ok)
		assert.Equal(t, "2", floor.String())
	})

	t.Run("lifting an integer preserves its value", func(t *testing.T) {
		v := NewUint128FromUint64(4_200_000)
		f := FixedFromU128(v)
		floor, ok := f.Floor()
		require.True(t, ok)
		assert.Equal(t, v, floor)
	})

	t.Run("div then mul round-trips within precision", func(t *testing.T) {
		ten := FixedFromU128(NewUint128FromUint64(10))
		three := FixedFromU128(NewUint128FromUint64(3))
		q := ten.Div(three)
		back := q.Mul(three)
		floor, ok := back.Floor()
		require.True(t, ok)
		// flooring 10/3*3 loses a hair of precision but stays at 9, not 10.
		assert.Equal(t, "9", floor.String())
	})

	t.Run("division by zero fails rather than panics", func(t *testing.T) {
		_, ok := OneFixedU256().CheckedDiv(ZeroFixedU256())
		assert.False(t, ok)
	})
}

func TestRateApply(t *testing.T) {
	t.Run("rate from ratio applies as expected", func(t *testing.T) {
		r, ok := RateFromRatio(NewUint128FromUint64(1), NewUint128FromUint64(10))
		require.True(t, ok)
		got := r.ApplyU128(NewUint128FromUint64(1000))
		// 1/10 is stored floored, just below 0.1, so applying it floors to 99.
		assert.Equal(t, "99", got.String())
	})

	t.Run("ratio exceeding one is rejected", func(t *testing.T) {
		_, ok := RateFromRatio(NewUint128FromUint64(11), NewUint128FromUint64(10))
		assert.False(t, ok)
	})

	t.Run("zero denominator is rejected", func(t *testing.T) {
		_, ok := RateFromRatio(NewUint128FromUint64(1), ZeroUint128())
		assert.False(t, ok)
	})
}

func TestBpsRateConstruction(t *testing.T) {
	t.Run("default max ltv is 50%", func(t *testing.T) {
		assert.Equal(t, uint32(5000), DefaultMaxLtv().Bps())
	})

	t.Run("rejects bps above the type's max", func(t *testing.T) {
		_, ok := NewAdvanceFee(AdvanceFeeMaxBps + 1)
		assert.False(t, ok)
	})

	t.Run("accepts bps at the type's max", func(t *testing.T) {
		f, ok := NewAdvanceFee(AdvanceFeeMaxBps)
		require.True(t, ok)
		assert.Equal(t, AdvanceFeeMaxBps, f.Bps())
	})

	t.Run("converts to an applicable rate", func(t *testing.T) {
		fee, ok := NewCollateralYieldFee(1000)
		require.True(t, ok)
		got := fee.Rate().ApplyU128(NewUint128FromUint64(100_000))
		// 1000/10000 is stored floored, just below 0.1, so the result floors to 9999.
		assert.Equal(t, "9999", got.String())
	})
}

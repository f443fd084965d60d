package num

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint128AddSub(t *testing.T) {
	t.Run("add within range", func(t *testing.T) {
		a := NewUint128FromUint64(10)
		b := NewUint128FromUint64(32)
		assert.Equal(t, "42", a.Add(b).String())
	})

	t.Run("add overflow is checked, not panicked", func(t *testing.T) {
		max := NewUint128FromBigInt(new(big.Int).Sub(uint128Bound, big.NewInt(1)))
		_, ok := max.CheckedAdd(NewUint128FromUint64(2))
		assert.False(t, ok)
	})

	t.Run("add overflow panics via Add", func(t *testing.T) {
		max := NewUint128FromBigInt(new(big.Int).Sub(uint128Bound, big.NewInt(1)))
		assert.Panics(t, func() { max.Add(NewUint128FromUint64(2)) })
	})

	t.Run("sub underflow is checked", func(t *testing.T) {
		a := NewUint128FromUint64(1)
		b := NewUint128FromUint64(2)
		_, ok := a.CheckedSub(b)
		assert.False(t, ok)
		assert.Equal(t, ZeroUint128(), a.SaturatingSub(b))
	})

	t.Run("abs diff is symmetric", func(t *testing.T) {
		a := NewUint128FromUint64(5)
		b := NewUint128FromUint64(9)
		assert.Equal(t, a.AbsDiff(b), b.AbsDiff(a))
	})
}

func TestUint128MulDiv(t *testing.T) {
	t.Run("exact division", func(t *testing.T) {
		u := NewUint128FromUint64(1_000_000)
		v := NewUint128FromUint64(10)
		denom := NewUint128FromUint64(100)
		got, ok := u.MulDiv(v, denom)
		require.True(t, ok)
		assert.Equal(t, "100000", got.String())
	})

	t.Run("intermediate overflow does not fail when final result fits", func(t *testing.T) {
		big64 := new(big.Int).Sub(uint128Bound, big.NewInt(1))
		u := NewUint128FromBigInt(big64)
		v := NewUint128FromUint64(2)
		denom := NewUint128FromUint64(2)
		got, ok := u.MulDiv(v, denom)
		require.True(t, ok)
		assert.Equal(t, u, got)
	})

	t.Run("division by zero fails", func(t *testing.T) {
		u := NewUint128FromUint64(5)
		_, ok := u.MulDiv(u, ZeroUint128())
		assert.False(t, ok)
	})

	t.Run("floors rather than rounds", func(t *testing.T) {
		u := NewUint128FromUint64(7)
		v := NewUint128FromUint64(1)
		denom := NewUint128FromUint64(2)
		got, ok := u.MulDiv(v, denom)
		require.True(t, ok)
		assert.Equal(t, "3", got.String())
	})
}

func TestUint128MaxMin(t *testing.T) {
	a := NewUint128FromUint64(3)
	b := NewUint128FromUint64(7)
	assert.Equal(t, b, a.Max(b))
	assert.Equal(t, a, a.Min(b))
}

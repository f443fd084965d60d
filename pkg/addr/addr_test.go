package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRecipientAreDistinctTypes(t *testing.T) {
	t.Run("undef values are empty", func(t *testing.T) {
		assert.True(t, UndefAccount().Empty())
		assert.True(t, UndefRecipient().Empty())
	})

	t.Run("parsed addresses round-trip through String", func(t *testing.T) {
		raw := "f01234"
		acct, err := ParseAccount(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, acct.String())

		recip, err := ParseRecipient(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, recip.String())
	})

	t.Run("equals compares underlying address value", func(t *testing.T) {
		a, err := ParseAccount("f01234")
		require.NoError(t, err)
		b, err := ParseAccount("f01234")
		require.NoError(t, err)
		assert.True(t, a.Equals(b))
	})
}

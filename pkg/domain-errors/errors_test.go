package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeNotFound, "missing")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("matches code through wrapping", func(t *testing.T) {
		inner := New(CodeReferential, "beneficiary not saved")
		outer := Wrap(inner, CodeInternal, "save allocations")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeReferential))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("context: %w", New(CodeStepLocked, "incomplete"))
		assert.True(t, Is(err, CodeStepLocked))
	})

	t.Run("foreign error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrap(t *testing.T) {
	require.NoError(t, Wrap(nil, CodeInternal, "ignored"))

	cause := errors.New("dial tcp: refused")
	err := Wrap(cause, CodeUnavailable, "owner save failed")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "owner save failed: dial tcp: refused", err.Error())
	assert.Equal(t, "owner save failed", MessageOf(err))
}

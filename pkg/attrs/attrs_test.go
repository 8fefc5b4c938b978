package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	kv := []any{"application_id", "a1", "count", 3, 42, "ignored", "subject"}

	assert.Equal(t, "a1", ExtractString(kv, "application_id"))
	assert.Empty(t, ExtractString(kv, "count"), "non-string values read as empty")
	assert.Empty(t, ExtractString(kv, "subject"), "dangling key has no value")

	n, ok := ExtractInt(kv, "count")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = ExtractInt(kv, "application_id")
	assert.False(t, ok)
}

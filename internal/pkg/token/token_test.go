package token

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	generated, err := New()
	require.NoError(t, err)

	assert.Len(t, generated, 32)
	_, err = hex.DecodeString(generated)
	assert.NoError(t, err)
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		generated, err := New()
		require.NoError(t, err)
		assert.False(t, seen[generated])
		seen[generated] = true
	}
}

package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowDrainsBucket(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("client", 3, 0), "call %d", i)
	}
	assert.False(t, l.Allow("client", 3, 0))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("a", 1, 0))
	assert.False(t, l.Allow("a", 1, 0))
	assert.True(t, l.Allow("b", 1, 0))
}

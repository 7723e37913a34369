package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(0.001, 1)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 2, l.Len())

	l.Forget("a")
	assert.Equal(t, 1, l.Len())
	assert.True(t, l.Allow("a"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	l := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("a"))
	}
	assert.Equal(t, 0, l.Len())

	var nilLimiter *RateLimiter
	assert.True(t, nilLimiter.Allow("a"))
	nilLimiter.Forget("a")
}

func TestRateLimiter_SetLimit(t *testing.T) {
	l := NewRateLimiter(0.001, 1)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	// new sessions start with the new burst
	l.SetLimit(0.001, 3)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("b"), "request %d", i)
	}
	assert.False(t, l.Allow("b"))

	l.SetLimit(0, 0)
	assert.True(t, l.Allow("a"))
	assert.Equal(t, 0, l.Len())
}

package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldown(t *testing.T) {
	t.Parallel()

	c := NewCooldown(2, 60*time.Second)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ok, _ := c.Allow("user", now)
	assert.True(t, ok)
	ok, _ = c.Allow("user", now)
	assert.True(t, ok)

	ok, wait := c.Allow("user", now)
	assert.False(t, ok)
	assert.Equal(t, 30*time.Second, wait)

	ok, _ = c.Allow("other", now)
	assert.True(t, ok, "cooldowns are per key")

	ok, _ = c.Allow("user", now.Add(30*time.Second))
	assert.True(t, ok)
}

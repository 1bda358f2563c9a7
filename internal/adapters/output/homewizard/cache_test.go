package homewizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time          { return c.now }
func (c *stepClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func TestResponseCache_PutGet(t *testing.T) {
	c := NewResponseCache(nil)

	_, ok := c.Get("http://hw/pw/swlist")
	assert.False(t, ok)

	c.Put("http://hw/pw/swlist", "first")
	c.Put("http://hw/pw/swlist", "second")

	body, ok := c.Get("http://hw/pw/swlist")
	assert.True(t, ok)
	assert.Equal(t, "second", body)
	assert.Equal(t, 1, c.Len())
}

func TestResponseCache_IsValid(t *testing.T) {
	clock := newStepClock()
	c := NewResponseCache(clock.Now)

	assert.False(t, c.IsValid("u", time.Second))

	c.Put("u", "body")
	assert.True(t, c.IsValid("u", time.Second))

	clock.Advance(time.Second)
	assert.True(t, c.IsValid("u", time.Second), "an entry exactly max-age old is still valid")

	clock.Advance(time.Millisecond)
	assert.False(t, c.IsValid("u", time.Second))
	assert.True(t, c.IsValid("u", time.Minute), "validity depends on the max-age of each lookup")

	// Get ignores age.
	body, ok := c.Get("u")
	assert.True(t, ok)
	assert.Equal(t, "body", body)
}

func TestResponseCache_PutRefreshesTimestamp(t *testing.T) {
	clock := newStepClock()
	c := NewResponseCache(clock.Now)

	c.Put("u", "old")
	clock.Advance(5 * time.Second)
	c.Put("u", "new")

	body, ok := c.Fresh("u", time.Second)
	assert.True(t, ok)
	assert.Equal(t, "new", body)
}

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChecker_UnhealthyBeforeFirstNotify(t *testing.T) {
	c := New(time.Minute)
	assert.False(t, c.IsHealthy())
}

func TestChecker_HealthyAfterNotify(t *testing.T) {
	c := New(time.Minute)
	c.NotifyHealthy()
	assert.True(t, c.IsHealthy())
}

func TestChecker_StaleAfterMaxAge(t *testing.T) {
	c := New(time.Millisecond)
	c.NotifyHealthy()
	time.Sleep(5 * time.Millisecond)
	assert.False(t, c.IsHealthy())
}

package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestControllerElapsedResetsOnEnter(t *testing.T) {
	c := NewController()
	t0 := time.Now()
	c.Enter(t0)

	assert.Equal(t, time.Duration(0), c.Elapsed(t0))
	assert.Equal(t, 500*time.Millisecond, c.Elapsed(t0.Add(500*time.Millisecond)))

	t1 := t0.Add(2 * time.Second)
	c.Enter(t1)
	assert.Equal(t, time.Duration(0), c.Elapsed(t1))
}

func TestControllerNewStepIsEdgeTriggered(t *testing.T) {
	c := NewController()
	assert.True(t, c.ConsumeNewStep())
	assert.False(t, c.ConsumeNewStep())

	c.Enter(time.Now())
	assert.True(t, c.ConsumeNewStep())
	assert.False(t, c.ConsumeNewStep())
	assert.False(t, c.ConsumeNewStep())
}

func TestScheduleReady(t *testing.T) {
	now := time.Now()
	s := At(now, 200*time.Millisecond)

	assert.False(t, s.Ready(now))
	assert.False(t, s.Ready(now.Add(100*time.Millisecond)))
	assert.True(t, s.Ready(now.Add(200*time.Millisecond)))
	assert.True(t, s.Ready(now.Add(time.Second)))
}

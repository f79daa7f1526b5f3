package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleFires(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Stop()

	var fired atomic.Int32
	s.Schedule("turn:1", 10*time.Millisecond, func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, s.Pending())
}

func TestCancelPreventsFire(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Stop()

	var fired atomic.Int32
	s.Schedule("turn:1", 20*time.Millisecond, func() { fired.Add(1) })
	assert.True(t, s.Cancel("turn:1"))
	assert.False(t, s.Cancel("turn:1"))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestRescheduleReplaces(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Stop()

	var first, second atomic.Int32
	s.Schedule("turn:1", 20*time.Millisecond, func() { first.Add(1) })
	s.Schedule("turn:1", 20*time.Millisecond, func() { second.Add(1) })
	assert.Equal(t, 1, s.Pending())

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestCallbackMayReschedule(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Stop()

	var count atomic.Int32
	var tick func()
	tick = func() {
		if count.Add(1) < 3 {
			s.Schedule("loop", time.Millisecond, tick)
		}
	}
	s.Schedule("loop", time.Millisecond, tick)

	assert.Eventually(t, func() bool { return count.Load() == 3 }, time.Second, 5*time.Millisecond)
}

func TestStopIgnoresNewTasks(t *testing.T) {
	t.Parallel()

	s := New()
	s.Schedule("a", time.Hour, func() {})
	s.Stop()
	assert.Equal(t, 0, s.Pending())

	s.Schedule("b", time.Millisecond, func() {})
	assert.Equal(t, 0, s.Pending())
}

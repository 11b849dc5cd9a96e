package game

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock hands out tickers that only fire when the test says so.
type manualClock struct {
	tickers chan *manualTicker
}

type manualTicker struct {
	c       chan time.Time
	stopped atomic.Bool
}

func newManualClock() *manualClock {
	return &manualClock{tickers: make(chan *manualTicker, 8)}
}

func (m *manualClock) NewTicker(d time.Duration) Ticker {
	t := &manualTicker{c: make(chan time.Time)}
	m.tickers <- t
	return t
}

func (t *manualTicker) Chan() <-chan time.Time { return t.c }
func (t *manualTicker) Stop()                  { t.stopped.Store(true) }

// fire delivers one tick, reporting false if nobody is listening.
func (t *manualTicker) fire() bool {
	select {
	case t.c <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func (m *manualClock) next(t *testing.T) *manualTicker {
	t.Helper()
	select {
	case tk := <-m.tickers:
		return tk
	case <-time.After(time.Second):
		t.Fatal("scheduler did not create a ticker")
		return nil
	}
}

func TestSchedulerTicksUntilStopped(t *testing.T) {
	clock := newManualClock()
	var ticks atomic.Int32
	ran := make(chan struct{}, 10)
	s := NewScheduler(250*time.Millisecond, clock, func() bool {
		ticks.Add(1)
		ran <- struct{}{}
		return true
	})

	s.Start()
	tk := clock.next(t)
	assert.True(t, s.Running())

	for i := 0; i < 3; i++ {
		require.True(t, tk.fire())
		<-ran
	}
	assert.Equal(t, int32(3), ticks.Load())

	s.Stop()
	assert.False(t, s.Running())
	assert.True(t, tk.stopped.Load())
	assert.False(t, tk.fire(), "no tick is accepted after Stop")
	assert.Equal(t, int32(3), ticks.Load())
}

func TestSchedulerStartReplacesRunningLoop(t *testing.T) {
	clock := newManualClock()
	var ticks atomic.Int32
	ran := make(chan struct{}, 1)
	s := NewScheduler(time.Millisecond, clock, func() bool {
		ticks.Add(1)
		ran <- struct{}{}
		return true
	})

	s.Start()
	first := clock.next(t)
	s.Start()
	second := clock.next(t)

	assert.True(t, first.stopped.Load(), "old ticker stopped")
	assert.False(t, first.fire(), "old loop is gone")
	require.True(t, second.fire())
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("new loop did not run the tick")
	}

	s.Stop()
	assert.Equal(t, int32(1), ticks.Load())
}

func TestSchedulerTickCanEndLoop(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(time.Millisecond, clock, func() bool { return false })

	s.Start()
	tk := clock.next(t)
	require.True(t, tk.fire())

	assert.Eventually(t, func() bool { return !s.Running() }, time.Second, 5*time.Millisecond)
	assert.False(t, tk.fire())

	// stopping an already finished loop is harmless
	s.Stop()
}

func TestSchedulerWithSystemClock(t *testing.T) {
	var ticks atomic.Int32
	s := NewScheduler(5*time.Millisecond, nil, func() bool {
		ticks.Add(1)
		return true
	})

	s.Start()
	assert.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)
	s.Stop()

	stopped := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load())
}

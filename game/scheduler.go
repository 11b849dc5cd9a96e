package game

import (
	"sync"
	"time"
)

// Ticker delivers ticks on Chan until stopped.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Clock creates tickers. Tests swap in a clock they can step by hand.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

type realTicker struct {
	t *time.Ticker
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

func (r *realTicker) Chan() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()                  { r.t.Stop() }

// SystemClock is backed by time.NewTicker.
var SystemClock Clock = realClock{}

// TickFunc runs once per tick. Returning false ends the loop.
type TickFunc func() bool

// Scheduler runs a TickFunc at a fixed interval on its own goroutine. At most one
// loop exists at a time, so two ticks never overlap.
type Scheduler struct {
	interval time.Duration
	clock    Clock
	tick     TickFunc

	mutex sync.Mutex
	stop  chan struct{}
	done  chan struct{}
}

func NewScheduler(interval time.Duration, clock Clock, tick TickFunc) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{
		interval: interval,
		clock:    clock,
		tick:     tick,
	}
}

// Start launches the tick loop, replacing any loop that is already running.
func (s *Scheduler) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.stopLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done

	ticker := s.clock.NewTicker(s.interval)
	go s.loop(ticker, stop, done)
}

// Stop ends the loop and waits for it to exit. No tick runs after Stop returns.
// It must not be called from inside the TickFunc; return false there instead.
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
}

// Running reports whether a loop is active.
func (s *Scheduler) Running() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Scheduler) loop(ticker Ticker, stop, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			// a stop that raced the tick wins
			select {
			case <-stop:
				return
			default:
			}
			if !s.tick() {
				return
			}
		}
	}
}

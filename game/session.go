package game

import (
	"time"

	"go.uber.org/zap"

	"wrapsnake/game/manager"
	"wrapsnake/game/types"
)

// Pilot steers the snake instead of (or alongside) a human.
type Pilot interface {
	// Next picks the direction for the coming tick.
	Next(s Snapshot) types.Direction
	// Observe is called with the state before and after every tick.
	Observe(prev, next Snapshot)
}

type SessionConfig struct {
	Interval    time.Duration
	Clock       Clock
	Stats       *manager.StateManager // optional
	Pilot       Pilot                 // optional
	AutoRestart bool                  // start a new game as soon as one ends
	Logger      *zap.SugaredLogger
}

// Session connects an Engine to its tick source, statistics and an optional pilot.
type Session struct {
	engine      *Engine
	scheduler   *Scheduler
	stats       *manager.StateManager
	pilot       Pilot
	autoRestart bool
	logger      *zap.SugaredLogger
	updates     chan Snapshot
}

func NewSession(engine *Engine, cfg SessionConfig) *Session {
	if cfg.Interval <= 0 {
		cfg.Interval = types.DefaultTickInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	s := &Session{
		engine:      engine,
		stats:       cfg.Stats,
		pilot:       cfg.Pilot,
		autoRestart: cfg.AutoRestart,
		logger:      cfg.Logger,
		updates:     make(chan Snapshot, 1),
	}
	s.scheduler = NewScheduler(cfg.Interval, cfg.Clock, s.tick)
	return s
}

// Start begins ticking. Calling it again replaces the running tick loop.
func (s *Session) Start() {
	s.scheduler.Start()
	snap := s.engine.Snapshot()
	s.logger.Infof("Session %s started on %dx%d board", snap.SessionID, snap.Grid.Width, snap.Grid.Height)
	s.publish(snap)
}

// Stop halts the tick loop. No tick fires after it returns.
func (s *Session) Stop() {
	s.scheduler.Stop()
}

// Restart stops the ticker, resets the engine and starts a fresh ticker, so a
// stale tick can never land on the new game.
func (s *Session) Restart() Snapshot {
	s.scheduler.Stop()
	snap := s.engine.Restart()
	s.scheduler.Start()
	s.logger.Infof("Session %s restarted", snap.SessionID)
	s.publish(snap)
	return snap
}

func (s *Session) SetDirection(d types.Direction) bool {
	return s.engine.SetDirection(d)
}

func (s *Session) Snapshot() Snapshot {
	return s.engine.Snapshot()
}

// Ticking reports whether the tick loop is active.
func (s *Session) Ticking() bool {
	return s.scheduler.Running()
}

// Updates delivers the latest snapshot after every tick and restart. Slow readers
// only ever see the newest state.
func (s *Session) Updates() <-chan Snapshot {
	return s.updates
}

func (s *Session) tick() bool {
	prev := s.engine.Snapshot()
	if s.pilot != nil && prev.Status == types.Running {
		s.engine.SetDirection(s.pilot.Next(prev))
	}

	next := s.engine.Advance()
	if s.pilot != nil {
		s.pilot.Observe(prev, next)
	}
	s.publish(next)

	if next.Status == types.Running {
		return true
	}

	s.finish(next)
	if s.autoRestart {
		s.publish(s.engine.Restart())
		return true
	}
	return false
}

func (s *Session) finish(snap Snapshot) {
	s.logger.Infof("Game %s ended (%s) with score %d after %d steps", snap.SessionID, snap.Status, snap.FinalScore, snap.Steps)
	if s.stats == nil {
		return
	}

	rec := manager.GameRecord{
		SessionID: snap.SessionID,
		StartTime: snap.StartTime,
		EndTime:   time.Now(),
		Score:     snap.FinalScore,
		Length:    len(snap.Snake),
		Outcome:   snap.Status.String(),
	}
	if err := s.stats.Record(rec); err != nil {
		s.logger.Warnf("Error saving game stats: %v", err)
	}
}

func (s *Session) publish(snap Snapshot) {
	select {
	case s.updates <- snap:
		return
	default:
	}
	// drop the stale snapshot and retry once
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- snap:
	default:
	}
}

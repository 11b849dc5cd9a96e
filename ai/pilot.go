// Package ai contains a tabular Q-learning autopilot that can steer a game.Session.
package ai

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"wrapsnake/game"
	"wrapsnake/game/entity"
	"wrapsnake/game/manager"
	"wrapsnake/game/types"
)

// Move is relative to the current heading, so the pilot can never ask for a reversal.
type Move int

const (
	TurnLeft Move = iota
	Straight
	TurnRight
	numMoves
)

func (m Move) Apply(heading types.Direction) types.Direction {
	switch m {
	case TurnLeft:
		return heading.TurnLeft()
	case TurnRight:
		return heading.TurnRight()
	default:
		return heading
	}
}

const (
	RewardFruit  = 10.0
	RewardDeath  = -10.0
	RewardCloser = 1.0
	RewardAway   = -1.0
)

// Autopilot implements game.Pilot and learns from every tick it observes.
type Autopilot struct {
	mutex  sync.Mutex
	agent  *Agent
	logger *zap.SugaredLogger

	lastState string
	lastMove  Move
	pending   bool
}

func NewAutopilot(seed uint64, logger *zap.SugaredLogger) *Autopilot {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Autopilot{
		agent:  NewAgent(int(numMoves), rand.New(rand.NewSource(seed))),
		logger: logger,
	}
}

// Agent exposes the learner, mostly for tuning and persistence.
func (p *Autopilot) Agent() *Agent {
	return p.agent
}

func (p *Autopilot) Next(s game.Snapshot) types.Direction {
	if s.Status != types.Running {
		return types.None
	}
	heading := currentHeading(s)
	if !heading.Valid() {
		return types.None
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	state := StateKey(s, heading)
	move := Move(p.agent.Action(state))
	p.lastState, p.lastMove, p.pending = state, move, true
	return move.Apply(heading)
}

func (p *Autopilot) Observe(prev, next game.Snapshot) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.pending {
		return
	}
	p.pending = false

	reward := Reward(prev, next)
	terminal := next.Status != types.Running
	nextState := ""
	if !terminal {
		nextState = StateKey(next, currentHeading(next))
	}
	p.agent.Update(p.lastState, int(p.lastMove), reward, nextState, terminal)

	if terminal {
		p.agent.EndEpisode()
		p.logger.Debugf("Autopilot episode %d finished (%s), epsilon %.3f", p.agent.Episodes, next.Status, p.agent.Epsilon)
	}
}

// EndEpisode closes a game that was abandoned before it reached an end state.
func (p *Autopilot) EndEpisode() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.pending = false
	p.agent.EndEpisode()
}

func (p *Autopilot) Save(filename string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.agent.Save(filename)
}

func (p *Autopilot) Load(filename string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if err := p.agent.Load(filename); err != nil {
		return err
	}
	p.logger.Infof("Loaded Q-table with %d states", len(p.agent.QTable))
	return nil
}

// Reward scores one transition.
func Reward(prev, next game.Snapshot) float64 {
	switch {
	case next.Status == types.GameOver:
		return RewardDeath
	case next.Status == types.Won, len(next.Snake) > len(prev.Snake):
		return RewardFruit
	}

	before := Distance(prev.Grid, prev.Head(), prev.Fruit.Pos)
	after := Distance(next.Grid, next.Head(), next.Fruit.Pos)
	switch {
	case after < before:
		return RewardCloser
	case after > before:
		return RewardAway
	}
	return 0
}

// StateKey encodes where the fruit is relative to the head (ahead/behind,
// right/left, across the wrap when that is shorter) and which of the three
// reachable cells would kill the snake.
func StateKey(s game.Snapshot, heading types.Direction) string {
	head := s.Head()
	dx := torusDelta(head.X, s.Fruit.Pos.X, s.Grid.Width)
	dy := torusDelta(head.Y, s.Fruit.Pos.Y, s.Grid.Height)

	fwd := heading.ToPoint()
	right := heading.TurnRight().ToPoint()
	ahead := sign(dx*fwd.X + dy*fwd.Y)
	side := sign(dx*right.X + dy*right.Y)

	cm := manager.NewCollisionManager(s.Grid)
	snake := &entity.Snake{Body: s.Snake}
	danger := make([]int, 0, numMoves)
	for m := TurnLeft; m < numMoves; m++ {
		cell := cm.NextHead(head, m.Apply(heading))
		if cm.CheckCollision(cell, snake) != manager.NoCollision {
			danger = append(danger, 1)
		} else {
			danger = append(danger, 0)
		}
	}

	return fmt.Sprintf("%d,%d|%d%d%d", ahead, side, danger[0], danger[1], danger[2])
}

// Distance is the Manhattan distance on the torus.
func Distance(grid types.Grid, a, b types.Point) int {
	return abs(torusDelta(a.X, b.X, grid.Width)) + abs(torusDelta(a.Y, b.Y, grid.Height))
}

// currentHeading is the last executed move, or the neck to head direction
// before the first one.
func currentHeading(s game.Snapshot) types.Direction {
	if s.Heading.Valid() {
		return s.Heading
	}
	snake := entity.Snake{Body: s.Snake}
	return snake.Heading(s.Grid)
}

// torusDelta is the shortest signed step count from a to b on a ring of size n.
func torusDelta(a, b, n int) int {
	d := ((b-a)%n + n) % n
	if d > n/2 {
		d -= n
	}
	return d
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"wrapsnake/game/entity"
	"wrapsnake/game/manager"
	"wrapsnake/game/types"
)

// Options configures a new Engine. Start from DefaultOptions and override fields.
type Options struct {
	Grid       types.Grid
	Start      types.Point // tail of the opening snake; the head sits one cell to the right
	FruitStart types.Point
	FruitColor types.Color
	Seed       uint64 // 0 seeds from the clock
}

// DefaultOptions returns the classic board: 20x20 cells of 20px, snake at (10,10).
func DefaultOptions() Options {
	return Options{
		Grid:       types.DefaultGrid(),
		Start:      types.DefaultStart,
		FruitStart: types.DefaultFruit,
		FruitColor: types.Blue,
	}
}

// Snapshot is a copy of the engine state handed to renderers and pilots.
type Snapshot struct {
	SessionID  string
	Grid       types.Grid
	Snake      []types.Point // tail first, head last
	Fruit      entity.Fruit
	Score      int
	FinalScore int // score at the moment the game ended
	Status     types.Status
	Direction  types.Direction
	Heading    types.Direction
	Steps      int
	StartTime  time.Time
}

// Head returns the last cell of the snake.
func (s Snapshot) Head() types.Point {
	return s.Snake[len(s.Snake)-1]
}

// Engine owns the snake, fruit, score and status and advances them one cell per tick.
type Engine struct {
	mu sync.RWMutex

	grid         types.Grid
	start        types.Point
	fruitColor   types.Color
	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager

	sessionID  string
	startTime  time.Time
	snake      *entity.Snake
	fruit      entity.Fruit
	score      int
	finalScore int
	status     types.Status
	direction  types.Direction // pending, written by input
	heading    types.Direction // direction of the last executed move
	steps      int
}

// NewEngine validates the board and builds a running game with an unset direction.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Grid.Validate(); err != nil {
		return nil, err
	}
	if opts.Grid.Width < 2 || opts.Grid.Area() < 3 {
		return nil, fmt.Errorf("%w: %dx%d board cannot hold the opening snake and a fruit", types.ErrInvalidGrid, opts.Grid.Width, opts.Grid.Height)
	}

	start := opts.Start
	if !opts.Grid.Contains(start) {
		return nil, fmt.Errorf("%w: start %+v outside %dx%d board", types.ErrInvalidGrid, start, opts.Grid.Width, opts.Grid.Height)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	collisionMgr := manager.NewCollisionManager(opts.Grid)
	e := &Engine{
		grid:         opts.Grid,
		start:        start,
		fruitColor:   opts.FruitColor,
		collisionMgr: collisionMgr,
		foodMgr:      manager.NewFoodManager(opts.Grid, collisionMgr, rng),
	}

	e.reset()
	e.fruit = entity.Fruit{Pos: opts.FruitStart, Color: opts.FruitColor}
	if !collisionMgr.ValidateSpawnPosition(e.fruit.Pos, e.snake) {
		e.relocateFruit()
	}
	return e, nil
}

func (e *Engine) reset() {
	e.sessionID = uuid.New().String()
	e.startTime = time.Now()
	e.snake = entity.NewSnake(e.start, types.Right, e.grid)
	e.score = 0
	e.finalScore = 0
	e.status = types.Running
	e.direction = types.None
	e.heading = types.None
	e.steps = 0
}

// relocateFruit moves the fruit to a free cell and reports false when none is left.
func (e *Engine) relocateFruit() bool {
	fruit, ok := e.foodMgr.PlaceFruit(e.snake, e.fruitColor)
	if ok {
		e.fruit = fruit
	}
	return ok
}

// Advance moves the snake one cell in the pending direction.
// It is a no-op while the direction is unset or the game has ended.
func (e *Engine) Advance() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != types.Running || !e.direction.Valid() {
		return e.snapshot()
	}

	dir := e.direction
	newHead := e.collisionMgr.NextHead(e.snake.GetHead(), dir)

	if e.collisionMgr.CheckCollision(newHead, e.snake) != manager.NoCollision {
		e.status = types.GameOver
		e.finalScore = e.score
		e.score = 0
		return e.snapshot()
	}

	e.heading = dir
	e.steps++

	if e.collisionMgr.IsFoodCollision(newHead, e.fruit) {
		e.snake.Move(newHead)
		e.score += types.ScorePerFruit
		if !e.relocateFruit() {
			e.status = types.Won
			e.finalScore = e.score
		}
		return e.snapshot()
	}

	e.snake.Move(newHead)
	e.snake.RemoveTail()
	return e.snapshot()
}

// SetDirection queues the heading for the next tick. It refuses None, unknown
// values, any reversal of the pending or the last executed direction, and moves
// that wrap straight back onto the head (Up/Down on a one-row board).
func (e *Engine) SetDirection(d types.Direction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !d.Valid() {
		return false
	}
	head := e.snake.GetHead()
	if e.collisionMgr.NextHead(head, d) == head {
		return false
	}
	if e.direction.Valid() && d == e.direction.Opposite() {
		return false
	}

	committed := e.heading
	if committed == types.None {
		committed = e.snake.Heading(e.grid)
	}
	if committed.Valid() && d == committed.Opposite() {
		return false
	}

	e.direction = d
	return true
}

// Restart puts the opening snake back and clears direction, score and status.
// The fruit stays where it was unless the new snake covers it.
func (e *Engine) Restart() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reset()
	if !e.collisionMgr.ValidateSpawnPosition(e.fruit.Pos, e.snake) {
		e.relocateFruit()
	}
	return e.snapshot()
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		SessionID:  e.sessionID,
		Grid:       e.grid,
		Snake:      e.snake.Cells(),
		Fruit:      e.fruit,
		Score:      e.score,
		FinalScore: e.finalScore,
		Status:     e.status,
		Direction:  e.direction,
		Heading:    e.heading,
		Steps:      e.steps,
		StartTime:  e.startTime,
	}
}

// Snapshot returns a consistent copy of the whole game state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot()
}

// Snake returns a copy of the body, tail first.
func (e *Engine) Snake() []types.Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snake.Cells()
}

// Fruit returns the current fruit.
func (e *Engine) Fruit() entity.Fruit {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fruit
}

// Score is the running score; it reads 0 once the game is over.
func (e *Engine) Score() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.score
}

// FinalScore is the score at the moment the game ended.
func (e *Engine) FinalScore() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.finalScore
}

// Status reports whether the game is running, lost or won.
func (e *Engine) Status() types.Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Direction is the pending direction, None until the player picks one.
func (e *Engine) Direction() types.Direction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.direction
}

// SessionID identifies the current game; every restart gets a new one.
func (e *Engine) SessionID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sessionID
}

// Grid is fixed for the life of the engine.
func (e *Engine) Grid() types.Grid {
	return e.grid
}

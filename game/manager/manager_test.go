package manager

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"wrapsnake/game/entity"
	"wrapsnake/game/types"
)

func TestNextHeadWrapsEveryEdge(t *testing.T) {
	grid := types.Grid{Width: 20, Height: 20, CellSize: 20}
	cm := NewCollisionManager(grid)

	assert.Equal(t, types.Point{X: 0, Y: 7}, cm.NextHead(types.Point{X: 19, Y: 7}, types.Right))
	assert.Equal(t, types.Point{X: 19, Y: 7}, cm.NextHead(types.Point{X: 0, Y: 7}, types.Left))
	assert.Equal(t, types.Point{X: 3, Y: 19}, cm.NextHead(types.Point{X: 3, Y: 0}, types.Up))
	assert.Equal(t, types.Point{X: 3, Y: 0}, cm.NextHead(types.Point{X: 3, Y: 19}, types.Down))
	assert.Equal(t, types.Point{X: 4, Y: 3}, cm.NextHead(types.Point{X: 3, Y: 3}, types.Right))
}

func TestCheckCollision(t *testing.T) {
	cm := NewCollisionManager(types.DefaultGrid())
	snake := &entity.Snake{Body: []types.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 2}}}

	assert.Equal(t, SelfCollision, cm.CheckCollision(types.Point{X: 1, Y: 1}, snake))
	assert.Equal(t, NoCollision, cm.CheckCollision(types.Point{X: 0, Y: 2}, snake))
	assert.True(t, cm.IsFoodCollision(types.Point{X: 4, Y: 4}, entity.Fruit{Pos: types.Point{X: 4, Y: 4}}))
}

func TestPlaceFruitNeverOnSnake(t *testing.T) {
	grid := types.Grid{Width: 4, Height: 4, CellSize: 10}
	cm := NewCollisionManager(grid)
	fm := NewFoodManager(grid, cm, rand.New(rand.NewSource(7)))

	// everything but the last row is snake
	snake := &entity.Snake{}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			snake.Body = append(snake.Body, types.Point{X: x, Y: y})
		}
	}

	for i := 0; i < 200; i++ {
		fruit, ok := fm.PlaceFruit(snake, types.Blue)
		require.True(t, ok)
		assert.False(t, snake.Contains(fruit.Pos), "fruit placed on snake at %+v", fruit.Pos)
		assert.Equal(t, 3, fruit.Pos.Y)
		assert.Equal(t, types.Blue, fruit.Color)
	}
}

func TestPlaceFruitSingleFreeCell(t *testing.T) {
	grid := types.Grid{Width: 3, Height: 3, CellSize: 10}
	fm := NewFoodManager(grid, NewCollisionManager(grid), rand.New(rand.NewSource(1)))

	snake := &entity.Snake{}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x == 1 && y == 1 {
				continue
			}
			snake.Body = append(snake.Body, types.Point{X: x, Y: y})
		}
	}

	fruit, ok := fm.PlaceFruit(snake, types.Red)
	require.True(t, ok)
	assert.Equal(t, types.Point{X: 1, Y: 1}, fruit.Pos)
}

func TestPlaceFruitFullBoard(t *testing.T) {
	grid := types.Grid{Width: 2, Height: 1, CellSize: 10}
	fm := NewFoodManager(grid, NewCollisionManager(grid), rand.New(rand.NewSource(1)))
	snake := &entity.Snake{Body: []types.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}

	_, ok := fm.PlaceFruit(snake, types.Blue)
	assert.False(t, ok)
	assert.Empty(t, fm.FreeCells(snake))
}

func TestStateManagerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "stats.json")
	sm := NewStateManager(path)
	require.NoError(t, sm.Load(), "missing file is not an error")

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, sm.Record(GameRecord{SessionID: "a", StartTime: start, EndTime: start.Add(10 * time.Second), Score: 30, Length: 5}))
	require.NoError(t, sm.Record(GameRecord{SessionID: "b", StartTime: start, EndTime: start.Add(30 * time.Second), Score: 10, Length: 3}))

	assert.Equal(t, 30, sm.HighScore())
	assert.Equal(t, 2, sm.GamesPlayed())
	assert.InDelta(t, 20.0, sm.AverageScore(), 0.001)
	assert.Equal(t, 20*time.Second, sm.AverageDuration())

	reloaded := NewStateManager(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 30, reloaded.HighScore())
	assert.Equal(t, 2, reloaded.GamesPlayed())
	require.Len(t, reloaded.History(), 2)
	assert.Equal(t, "a", reloaded.History()[0].SessionID)
}

func TestStateManagerCapsHistory(t *testing.T) {
	sm := NewStateManager("")
	for i := 0; i < MaxHistory+5; i++ {
		require.NoError(t, sm.Record(GameRecord{Score: i}))
	}

	history := sm.History()
	assert.Len(t, history, MaxHistory)
	assert.Equal(t, 5, history[0].Score)
	assert.Equal(t, MaxHistory+5, sm.GamesPlayed())
	assert.Equal(t, MaxHistory+4, sm.HighScore())
}

func TestStateManagerCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	sm := NewStateManager(path)
	assert.Error(t, sm.Load())
	assert.Equal(t, 0, sm.HighScore())
}

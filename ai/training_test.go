package ai

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrapsnake/game"
	"wrapsnake/game/types"
)

func newSmallEngine(t *testing.T) *game.Engine {
	t.Helper()
	engine, err := game.NewEngine(game.Options{
		Grid:       types.Grid{Width: 6, Height: 6, CellSize: 10},
		Start:      types.Point{X: 2, Y: 2},
		FruitStart: types.Point{X: 5, Y: 5},
		FruitColor: types.Red,
		Seed:       3,
	})
	require.NoError(t, err)
	return engine
}

func TestTrainRunsEpisodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qtable.json")
	pilot := NewAutopilot(3, nil)

	result, err := Train(context.Background(), newSmallEngine(t), pilot, TrainOptions{
		Episodes:   60,
		SaveEvery:  20,
		QTableFile: path,
	})
	require.NoError(t, err)

	assert.Equal(t, 60, result.Episodes)
	assert.Equal(t, 60, pilot.Agent().Episodes)
	assert.LessOrEqual(t, result.Stalled, 60)
	assert.GreaterOrEqual(t, float64(result.BestScore), result.AverageScore)
	assert.Zero(t, result.BestScore%types.ScorePerFruit)

	loaded := NewAutopilot(4, nil)
	require.NoError(t, loaded.Load(path))
	assert.NotEmpty(t, loaded.Agent().QTable)
	assert.Equal(t, 60, loaded.Agent().Episodes)
}

func TestTrainStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Train(ctx, newSmallEngine(t), NewAutopilot(1, nil), TrainOptions{Episodes: 10})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Episodes)
}

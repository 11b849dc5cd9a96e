package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"wrapsnake/game"
	"wrapsnake/game/types"
)

const batchSize = 50

type TrainOptions struct {
	Episodes   int
	SaveEvery  int    // episodes between Q-table saves, 0 disables
	QTableFile string // empty skips saving
	Logger     *zap.SugaredLogger
}

type TrainResult struct {
	Episodes     int
	BestScore    int
	AverageScore float64
	Stalled      int // episodes cut short for circling without eating
}

// Train plays headless episodes back to back without a ticker. An episode that
// goes a whole board area of steps without eating is abandoned.
func Train(ctx context.Context, engine *game.Engine, pilot *Autopilot, opts TrainOptions) (TrainResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var (
		result     TrainResult
		totalScore int
		batchScore int
		batchBest  int
	)
	stallLimit := engine.Grid().Area()

	for result.Episodes < opts.Episodes {
		if err := ctx.Err(); err != nil {
			return finish(result, totalScore), err
		}

		snap := engine.Restart()
		hungry := 0
		for snap.Status == types.Running && hungry <= stallLimit {
			prev := snap
			engine.SetDirection(pilot.Next(prev))
			snap = engine.Advance()
			pilot.Observe(prev, snap)

			if len(snap.Snake) > len(prev.Snake) {
				hungry = 0
			} else {
				hungry++
			}
		}

		score := snap.FinalScore
		if snap.Status == types.Running {
			pilot.EndEpisode()
			score = snap.Score
			result.Stalled++
		}

		result.Episodes++
		totalScore += score
		batchScore += score
		result.BestScore = max(result.BestScore, score)
		batchBest = max(batchBest, score)

		if result.Episodes%batchSize == 0 {
			logger.Infof("Episodes %d-%d: avg score %.1f, best %d, epsilon %.3f",
				result.Episodes-batchSize+1, result.Episodes, float64(batchScore)/batchSize, batchBest, pilot.Agent().Epsilon)
			batchScore, batchBest = 0, 0
		}

		if opts.SaveEvery > 0 && opts.QTableFile != "" && result.Episodes%opts.SaveEvery == 0 {
			if err := pilot.Save(opts.QTableFile); err != nil {
				return finish(result, totalScore), fmt.Errorf("failed to save Q-table at episode %d: %w", result.Episodes, err)
			}
		}
	}

	return finish(result, totalScore), nil
}

func finish(result TrainResult, totalScore int) TrainResult {
	if result.Episodes > 0 {
		result.AverageScore = float64(totalScore) / float64(result.Episodes)
	}
	return result
}

package manager

import (
	"golang.org/x/exp/rand"

	"wrapsnake/game/entity"
	"wrapsnake/game/types"
)

type FoodManager struct {
	grid         types.Grid
	collisionMgr *CollisionManager
	rng          *rand.Rand
}

func NewFoodManager(grid types.Grid, collisionMgr *CollisionManager, rng *rand.Rand) *FoodManager {
	return &FoodManager{
		grid:         grid,
		collisionMgr: collisionMgr,
		rng:          rng,
	}
}

// PlaceFruit picks a cell uniformly among those the snake does not occupy.
// It samples at most grid.Area() times, then falls back to enumerating the free
// cells. ok is false only when the snake covers the whole board.
func (fm *FoodManager) PlaceFruit(snake *entity.Snake, color types.Color) (entity.Fruit, bool) {
	if snake.Len() >= fm.grid.Area() {
		return entity.Fruit{}, false
	}

	for attempt := 0; attempt < fm.grid.Area(); attempt++ {
		pos := types.Point{
			X: fm.rng.Intn(fm.grid.Width),
			Y: fm.rng.Intn(fm.grid.Height),
		}
		if fm.collisionMgr.ValidateSpawnPosition(pos, snake) {
			return entity.Fruit{Pos: pos, Color: color}, true
		}
	}

	free := fm.FreeCells(snake)
	if len(free) == 0 {
		return entity.Fruit{}, false
	}
	return entity.Fruit{Pos: free[fm.rng.Intn(len(free))], Color: color}, true
}

// FreeCells lists every cell not covered by the snake, row by row.
func (fm *FoodManager) FreeCells(snake *entity.Snake) []types.Point {
	occupied := make(map[types.Point]struct{}, snake.Len())
	for _, p := range snake.Body {
		occupied[p] = struct{}{}
	}

	free := make([]types.Point, 0, fm.grid.Area()-len(occupied))
	for y := 0; y < fm.grid.Height; y++ {
		for x := 0; x < fm.grid.Width; x++ {
			p := types.Point{X: x, Y: y}
			if _, taken := occupied[p]; !taken {
				free = append(free, p)
			}
		}
	}
	return free
}

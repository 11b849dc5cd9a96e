package manager

import (
	"wrapsnake/game/entity"
	"wrapsnake/game/types"
)

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	SelfCollision
)

func (c CollisionType) String() string {
	if c == SelfCollision {
		return "self"
	}
	return "none"
}

// CollisionManager answers movement questions on a toroidal board. There are no walls.
type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// NextHead offsets head by one cell towards dir, wrapping around the edges
func (cm *CollisionManager) NextHead(head types.Point, dir types.Direction) types.Point {
	return cm.grid.Wrap(head.Add(dir.ToPoint()))
}

// CheckCollision reports whether moving the head to pos runs into the snake's own body
func (cm *CollisionManager) CheckCollision(pos types.Point, snake *entity.Snake) CollisionType {
	if snake.HitsBody(pos) {
		return SelfCollision
	}
	return NoCollision
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos types.Point, fruit entity.Fruit) bool {
	return pos == fruit.Pos
}

// ValidateSpawnPosition checks if a position is valid for placing fruit
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Point, snake *entity.Snake) bool {
	if !cm.grid.Contains(pos) {
		return false
	}
	return !snake.Contains(pos)
}

package entity

import "wrapsnake/game/types"

// Fruit is the single piece of food on the board
type Fruit struct {
	Pos   types.Point
	Color types.Color
}

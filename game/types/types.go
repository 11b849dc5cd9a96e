package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidGrid is returned when a board is built with non-positive dimensions.
var ErrInvalidGrid = errors.New("invalid grid dimensions")

// Point is a cell on the board, addressed by column (X) and row (Y)
type Point struct {
	X, Y int
}

// Add returns p offset by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Grid represents the game grid dimensions
type Grid struct {
	Width    int // columns
	Height   int // rows
	CellSize int // edge of one cell in pixels
}

// Validate reports whether the grid can hold a game.
func (g Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 || g.CellSize <= 0 {
		return fmt.Errorf("%w: %dx%d cells of %dpx", ErrInvalidGrid, g.Width, g.Height, g.CellSize)
	}
	return nil
}

// Area is the number of cells on the board.
func (g Grid) Area() int {
	return g.Width * g.Height
}

// Contains reports whether p lies on the board.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Wrap folds p back onto the board. Leaving one edge re-enters from the opposite one.
func (g Grid) Wrap(p Point) Point {
	return Point{X: mod(p.X, g.Width), Y: mod(p.Y, g.Height)}
}

// Pixel returns the top-left pixel of the cell at p.
func (g Grid) Pixel(p Point) (x, y int) {
	return p.X * g.CellSize, p.Y * g.CellSize
}

// PixelSize returns the canvas size in pixels.
func (g Grid) PixelSize() (width, height int) {
	return g.Width * g.CellSize, g.Height * g.CellSize
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// Game constants
const (
	ScorePerFruit       = 10
	DefaultTickInterval = 250 * time.Millisecond
	DefaultBoardCells   = 20
	DefaultCellSize     = 20
)

var (
	// DefaultStart is the tail of the initial snake, pixel (200,200) on the default board
	DefaultStart = Point{X: 10, Y: 10}
	// DefaultFruit is where the first fruit sits, pixel (80,80) on the default board
	DefaultFruit = Point{X: 4, Y: 4}
)

// DefaultGrid is the 400x400 canvas split into 20px cells.
func DefaultGrid() Grid {
	return Grid{Width: DefaultBoardCells, Height: DefaultBoardCells, CellSize: DefaultCellSize}
}

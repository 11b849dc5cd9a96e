package types

// Direction is one of the four cardinal headings, or None before the first input
type Direction int

const (
	None Direction = iota
	Up
	Right
	Down
	Left
)

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}

// ToPoint converts a Direction into a one-cell offset. Up decreases Y.
func (d Direction) ToPoint() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Right:
		return Point{X: 1, Y: 0}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	default:
		return Point{X: 0, Y: 0}
	}
}

// Opposite returns the heading pointing the other way. None stays None.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	case Left:
		return Right
	default:
		return None
	}
}

// TurnLeft returns the heading after a quarter turn counter-clockwise.
func (d Direction) TurnLeft() Direction {
	switch d {
	case Up:
		return Left
	case Right:
		return Up
	case Down:
		return Right
	case Left:
		return Down
	default:
		return d
	}
}

// TurnRight returns the heading after a quarter turn clockwise.
func (d Direction) TurnRight() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	case Left:
		return Up
	default:
		return d
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "none"
	}
}

// Status is the engine's position in its state machine
type Status int

const (
	Running Status = iota
	GameOver
	Won
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case GameOver:
		return "game over"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

type Color struct {
	R, G, B uint8
}

var (
	Blue  = Color{R: 0, G: 0, B: 255}
	Gray  = Color{R: 128, G: 128, B: 128}
	White = Color{R: 255, G: 255, B: 255}
	Red   = Color{R: 230, G: 41, B: 55}
)

// ParseColor resolves a palette name. Unknown names report false.
func ParseColor(name string) (Color, bool) {
	switch name {
	case "blue":
		return Blue, true
	case "gray", "grey":
		return Gray, true
	case "white":
		return White, true
	case "red":
		return Red, true
	}
	return Color{}, false
}

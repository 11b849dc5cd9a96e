package entity

import (
	"wrapsnake/game/types"
)

// Snake is an ordered list of cells. The head is the last element, the tail the first.
type Snake struct {
	Body []types.Point
}

// NewSnake builds the two-cell opening snake: tail at start, head one step towards heading.
func NewSnake(start types.Point, heading types.Direction, grid types.Grid) *Snake {
	return &Snake{
		Body: []types.Point{start, grid.Wrap(start.Add(heading.ToPoint()))},
	}
}

// Move appends a new head. Call RemoveTail too unless the snake grows.
func (s *Snake) Move(newHead types.Point) {
	s.Body = append(s.Body, newHead)
}

// RemoveTail drops the oldest segment.
func (s *Snake) RemoveTail() {
	if len(s.Body) > 0 {
		s.Body = s.Body[1:]
	}
}

// GetHead returns the last segment.
func (s *Snake) GetHead() types.Point {
	return s.Body[len(s.Body)-1]
}

// GetNeck returns the segment right behind the head.
func (s *Snake) GetNeck() (types.Point, bool) {
	if len(s.Body) < 2 {
		return types.Point{}, false
	}
	return s.Body[len(s.Body)-2], true
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Contains reports whether any segment, head included, occupies p.
func (s *Snake) Contains(p types.Point) bool {
	for _, part := range s.Body {
		if part == p {
			return true
		}
	}
	return false
}

// HitsBody reports whether p lands on a segment other than the current head.
// The tail counts even though it would move away on this tick.
func (s *Snake) HitsBody(p types.Point) bool {
	for _, part := range s.Body[:len(s.Body)-1] {
		if part == p {
			return true
		}
	}
	return false
}

// Cells returns a copy of the body, tail first.
func (s *Snake) Cells() []types.Point {
	body := make([]types.Point, len(s.Body))
	copy(body, s.Body)
	return body
}

// Heading is the direction implied by neck -> head, taking wrap-around into account.
func (s *Snake) Heading(grid types.Grid) types.Direction {
	neck, ok := s.GetNeck()
	if !ok {
		return types.None
	}
	head := s.GetHead()
	for _, d := range []types.Direction{types.Up, types.Right, types.Down, types.Left} {
		if grid.Wrap(neck.Add(d.ToPoint())) == head {
			return d
		}
	}
	return types.None
}

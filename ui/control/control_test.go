package control

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wrapsnake/game/types"
)

func TestFromRune(t *testing.T) {
	cases := map[rune]types.Direction{
		'w': types.Up, 'W': types.Up,
		'a': types.Left, 'A': types.Left,
		's': types.Down, 'S': types.Down,
		'd': types.Right, 'D': types.Right,
	}
	for r, want := range cases {
		got, ok := FromRune(r)
		assert.True(t, ok, "rune %q", r)
		assert.Equal(t, want, got, "rune %q", r)
	}

	_, ok := FromRune('x')
	assert.False(t, ok)
}

func TestFromAngle(t *testing.T) {
	cases := []struct {
		deg  float64
		want types.Direction
	}{
		{0, types.Right},
		{44.9, types.Right},
		{45, types.Up},
		{90, types.Up},
		{134.9, types.Up},
		{135, types.Left},
		{180, types.Left},
		{225, types.Down},
		{270, types.Down},
		{315, types.Right},
		{359, types.Right},
		{-90, types.Down},
		{450, types.Up},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FromAngle(tc.deg), "angle %v", tc.deg)
	}
}

func TestFromStick(t *testing.T) {
	_, ok := FromStick(0.1, 0.1, 0.5)
	assert.False(t, ok, "inside deadzone")

	cases := []struct {
		x, y float64
		want types.Direction
	}{
		{1, 0, types.Right},
		{-1, 0, types.Left},
		{0, -1, types.Up},
		{0, 1, types.Down},
		{0.9, -0.3, types.Right},
	}
	for _, tc := range cases {
		got, ok := FromStick(tc.x, tc.y, 0.5)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got, "stick (%v,%v)", tc.x, tc.y)
	}
}

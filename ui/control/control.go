// Package control maps raw input (keys, joystick angles) onto snake directions.
// It has no frontend dependencies so both the window and the terminal share it.
package control

import (
	"math"
	"unicode"

	"wrapsnake/game/types"
)

// FromRune maps the WASD keys, in either case. Other runes report false.
func FromRune(r rune) (types.Direction, bool) {
	switch unicode.ToLower(r) {
	case 'w':
		return types.Up, true
	case 'a':
		return types.Left, true
	case 's':
		return types.Down, true
	case 'd':
		return types.Right, true
	}
	return types.None, false
}

// FromAngle maps a joystick angle in degrees (0 = right, counter-clockwise) to one
// of four 90 degree sectors centred on the axes.
func FromAngle(deg float64) types.Direction {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}

	switch {
	case deg >= 45 && deg < 135:
		return types.Up
	case deg >= 135 && deg < 225:
		return types.Left
	case deg >= 225 && deg < 315:
		return types.Down
	default:
		return types.Right
	}
}

// FromStick converts an analog stick deflection (screen coordinates, +y is down)
// to a direction. Deflections inside the deadzone report false.
func FromStick(x, y, deadzone float64) (types.Direction, bool) {
	if math.Hypot(x, y) < deadzone {
		return types.None, false
	}
	deg := math.Atan2(-y, x) * 180 / math.Pi
	return FromAngle(deg), true
}

package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"wrapsnake/game/types"
	"wrapsnake/ui/control"
)

// Action is a non-movement command from the player
type Action int

const (
	ActionNone Action = iota
	ActionRestart
	ActionQuit
)

// Input is what the player asked for during one frame.
type Input struct {
	Direction types.Direction
	Action    Action
}

const (
	gamepad       = 0
	stickDeadzone = 0.5
)

var keyDirections = []struct {
	key int32
	dir types.Direction
}{
	{rl.KeyUp, types.Up},
	{rl.KeyW, types.Up},
	{rl.KeyDown, types.Down},
	{rl.KeyS, types.Down},
	{rl.KeyLeft, types.Left},
	{rl.KeyA, types.Left},
	{rl.KeyRight, types.Right},
	{rl.KeyD, types.Right},
}

var padDirections = []struct {
	button int32
	dir    types.Direction
}{
	{rl.GamepadButtonLeftFaceUp, types.Up},
	{rl.GamepadButtonLeftFaceDown, types.Down},
	{rl.GamepadButtonLeftFaceLeft, types.Left},
	{rl.GamepadButtonLeftFaceRight, types.Right},
}

// PollInput reads the keyboard, then the gamepad d-pad, then the left stick.
func PollInput() Input {
	var in Input

	switch {
	case rl.IsKeyPressed(rl.KeyQ), rl.IsKeyPressed(rl.KeyEscape):
		in.Action = ActionQuit
	case rl.IsKeyPressed(rl.KeyR), rl.IsKeyPressed(rl.KeyEnter):
		in.Action = ActionRestart
	case rl.IsGamepadAvailable(gamepad) && rl.IsGamepadButtonPressed(gamepad, rl.GamepadButtonMiddleRight):
		in.Action = ActionRestart
	}

	for _, kd := range keyDirections {
		if rl.IsKeyPressed(kd.key) {
			in.Direction = kd.dir
			return in
		}
	}

	if !rl.IsGamepadAvailable(gamepad) {
		return in
	}
	for _, pd := range padDirections {
		if rl.IsGamepadButtonPressed(gamepad, pd.button) {
			in.Direction = pd.dir
			return in
		}
	}

	x := float64(rl.GetGamepadAxisMovement(gamepad, rl.GamepadAxisLeftX))
	y := float64(rl.GetGamepadAxisMovement(gamepad, rl.GamepadAxisLeftY))
	if dir, ok := control.FromStick(x, y, stickDeadzone); ok {
		in.Direction = dir
	}
	return in
}

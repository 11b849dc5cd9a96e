package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"wrapsnake/game"
	"wrapsnake/game/manager"
	"wrapsnake/game/types"
)

const (
	borderPadding = 10 // Padding around game area
	hudHeight     = 40 // Room for the score line under the board
)

type Renderer struct {
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions()
	return r
}

// WindowSize is the window that shows grid at its native cell size plus the HUD.
func WindowSize(grid types.Grid) (int32, int32) {
	w, h := grid.PixelSize()
	return int32(w + borderPadding*2), int32(h + borderPadding*2 + hudHeight)
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())
}

func toRL(c types.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

func (r *Renderer) layout(grid types.Grid) {
	availableWidth := r.screenWidth - borderPadding*2
	availableHeight := r.screenHeight - borderPadding*2 - hudHeight

	cellW := availableWidth / int32(grid.Width)
	cellH := availableHeight / int32(grid.Height)
	r.cellSize = max(min(cellW, cellH), 1)

	r.totalGridWidth = r.cellSize * int32(grid.Width)
	r.totalGridHeight = r.cellSize * int32(grid.Height)

	// Center the board horizontally, keep it at the top
	r.offsetX = (r.screenWidth - r.totalGridWidth) / 2
	r.offsetY = borderPadding
}

func (r *Renderer) cell(p types.Point) (int32, int32) {
	return r.offsetX + int32(p.X)*r.cellSize, r.offsetY + int32(p.Y)*r.cellSize
}

// Draw renders one frame. stats may be nil.
func (r *Renderer) Draw(snap game.Snapshot, stats *manager.StateManager) {
	r.UpdateDimensions()
	r.layout(snap.Grid)

	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.Black)

	r.drawGrid(snap.Grid)

	if snap.Status != types.Won {
		x, y := r.cell(snap.Fruit.Pos)
		rl.DrawRectangle(x, y, r.cellSize, r.cellSize, toRL(snap.Fruit.Color))
	}

	// Body gray, head white
	for i, p := range snap.Snake {
		color := toRL(types.Gray)
		if i == len(snap.Snake)-1 {
			color = toRL(types.White)
		}
		x, y := r.cell(p)
		rl.DrawRectangle(x, y, r.cellSize, r.cellSize, color)
	}

	r.drawHUD(snap, stats)
	r.drawOverlay(snap)
}

func (r *Renderer) drawGrid(grid types.Grid) {
	rl.DrawRectangleLines(r.offsetX-1, r.offsetY-1, r.totalGridWidth+2, r.totalGridHeight+2, rl.DarkGray)

	lineColor := rl.Fade(rl.White, 0.3)
	for x := 1; x < grid.Width; x++ {
		px := r.offsetX + int32(x)*r.cellSize
		rl.DrawLine(px, r.offsetY, px, r.offsetY+r.totalGridHeight, lineColor)
	}
	for y := 1; y < grid.Height; y++ {
		py := r.offsetY + int32(y)*r.cellSize
		rl.DrawLine(r.offsetX, py, r.offsetX+r.totalGridWidth, py, lineColor)
	}
}

func (r *Renderer) drawHUD(snap game.Snapshot, stats *manager.StateManager) {
	fontSize := int32(20)
	y := r.offsetY + r.totalGridHeight + borderPadding

	rl.DrawText(fmt.Sprintf("Score: %d", snap.Score), r.offsetX, y, fontSize, rl.White)
	if stats != nil {
		label := fmt.Sprintf("Best: %d  Avg: %.1f  Games: %d", stats.HighScore(), stats.AverageScore(), stats.GamesPlayed())
		width := rl.MeasureText(label, fontSize)
		rl.DrawText(label, r.offsetX+r.totalGridWidth-width, y, fontSize, rl.Gray)
	}
}

func (r *Renderer) drawOverlay(snap game.Snapshot) {
	var lines []string
	switch {
	case snap.Status == types.GameOver:
		lines = []string{"Game Over!", fmt.Sprintf("Score: %d", snap.FinalScore), "Press R to restart"}
	case snap.Status == types.Won:
		lines = []string{"Board cleared!", fmt.Sprintf("Score: %d", snap.FinalScore), "Press R to play again"}
	case snap.Direction == types.None && snap.Steps == 0:
		lines = []string{"Press an arrow key or WASD to start"}
	default:
		return
	}

	if snap.Status != types.Running {
		rl.DrawRectangle(r.offsetX, r.offsetY, r.totalGridWidth, r.totalGridHeight, rl.Fade(rl.Black, 0.6))
	}

	fontSize := int32(20)
	lineHeight := fontSize + 8
	y := r.offsetY + (r.totalGridHeight-lineHeight*int32(len(lines)))/2
	for _, line := range lines {
		width := rl.MeasureText(line, fontSize)
		rl.DrawText(line, r.offsetX+(r.totalGridWidth-width)/2, y, fontSize, rl.RayWhite)
		y += lineHeight
	}
}

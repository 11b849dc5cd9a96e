// Package terminal runs the game on a tcell screen. Each board cell is two
// columns wide so the board keeps its square look.
package terminal

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"wrapsnake/game"
	"wrapsnake/game/manager"
	"wrapsnake/game/types"
	"wrapsnake/ui/control"
)

const (
	boardX = 1 // first column inside the border
	boardY = 2 // first row inside the border, below the HUD line
)

var (
	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	bodyStyle   = tcell.StyleDefault.Foreground(toTcell(types.Gray))
	headStyle   = tcell.StyleDefault.Foreground(toTcell(types.White))
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

type Terminal struct {
	screen  tcell.Screen
	session *game.Session
	stats   *manager.StateManager
	logger  *zap.SugaredLogger
}

// New wraps an initialised screen. stats and logger may be nil.
func New(screen tcell.Screen, session *game.Session, stats *manager.StateManager, logger *zap.SugaredLogger) *Terminal {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Terminal{
		screen:  screen,
		session: session,
		stats:   stats,
		logger:  logger,
	}
}

func toTcell(c types.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Run starts the session and redraws on every update until the player quits or
// ctx is cancelled. The caller owns screen Init and Fini.
func (t *Terminal) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := t.screen.PollEvent()
			events <- ev
			if ev == nil {
				return
			}
		}
	}()

	t.session.Start()
	defer t.session.Stop()
	t.Draw(t.session.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if ev == nil {
				return nil
			}
			if !t.handleEvent(ev) {
				t.logger.Info("Player quit")
				return nil
			}
			t.Draw(t.session.Snapshot())
		case snap := <-t.session.Updates():
			t.Draw(snap)
		}
	}
}

func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// handleKey applies one key press and reports false when the player wants out.
func (t *Terminal) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		t.session.Restart()
	case tcell.KeyUp:
		t.session.SetDirection(types.Up)
	case tcell.KeyDown:
		t.session.SetDirection(types.Down)
	case tcell.KeyLeft:
		t.session.SetDirection(types.Left)
	case tcell.KeyRight:
		t.session.SetDirection(types.Right)
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return false
		case 'r', 'R':
			t.session.Restart()
		default:
			if dir, ok := control.FromRune(r); ok {
				t.session.SetDirection(dir)
			}
		}
	}
	return true
}

// Draw paints one full frame.
func (t *Terminal) Draw(snap game.Snapshot) {
	t.screen.Clear()

	hud := fmt.Sprintf("Score: %d", snap.Score)
	if t.stats != nil {
		hud += fmt.Sprintf("   Best: %d   Avg: %.1f   Games: %d", t.stats.HighScore(), t.stats.AverageScore(), t.stats.GamesPlayed())
	}
	t.drawText(0, 0, hud, hudStyle)

	t.drawBorder(snap.Grid)

	if snap.Status != types.Won {
		t.drawCell(snap.Fruit.Pos, '●', tcell.StyleDefault.Foreground(toTcell(snap.Fruit.Color)))
	}
	for i, p := range snap.Snake {
		style := bodyStyle
		if i == len(snap.Snake)-1 {
			style = headStyle
		}
		t.drawCell(p, '█', style)
	}

	switch {
	case snap.Status == types.GameOver:
		t.drawCentered(snap.Grid, "Game Over!", fmt.Sprintf("Score: %d", snap.FinalScore), "r: restart  q: quit")
	case snap.Status == types.Won:
		t.drawCentered(snap.Grid, "Board cleared!", fmt.Sprintf("Score: %d", snap.FinalScore), "r: play again  q: quit")
	case snap.Direction == types.None && snap.Steps == 0:
		t.drawCentered(snap.Grid, "Arrows or WASD to start")
	}

	t.screen.Show()
}

// CellAt returns the screen position of the left column of a board cell.
func CellAt(p types.Point) (x, y int) {
	return boardX + p.X*2, boardY + p.Y
}

func (t *Terminal) drawCell(p types.Point, r rune, style tcell.Style) {
	x, y := CellAt(p)
	t.screen.SetContent(x, y, r, nil, style)
	t.screen.SetContent(x+1, y, r, nil, style)
}

func (t *Terminal) drawBorder(grid types.Grid) {
	left, top := boardX-1, boardY-1
	right, bottom := boardX+grid.Width*2, boardY+grid.Height

	for x := left + 1; x < right; x++ {
		t.screen.SetContent(x, top, '─', nil, borderStyle)
		t.screen.SetContent(x, bottom, '─', nil, borderStyle)
	}
	for y := top + 1; y < bottom; y++ {
		t.screen.SetContent(left, y, '│', nil, borderStyle)
		t.screen.SetContent(right, y, '│', nil, borderStyle)
	}
	t.screen.SetContent(left, top, '┌', nil, borderStyle)
	t.screen.SetContent(right, top, '┐', nil, borderStyle)
	t.screen.SetContent(left, bottom, '└', nil, borderStyle)
	t.screen.SetContent(right, bottom, '┘', nil, borderStyle)
}

func (t *Terminal) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (t *Terminal) drawCentered(grid types.Grid, lines ...string) {
	width := grid.Width * 2
	y := boardY + (grid.Height-len(lines))/2
	for _, line := range lines {
		x := boardX + (width-len([]rune(line)))/2
		if x < boardX {
			x = boardX
		}
		t.drawText(x, y, line, textStyle)
		y++
	}
}

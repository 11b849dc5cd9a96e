package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrapsnake/game"
	"wrapsnake/game/manager"
	"wrapsnake/game/types"
)

// idleClock hands out tickers that never fire, so tests drive the game by hand.
type idleClock struct{}

type idleTicker struct{ c chan time.Time }

func (idleClock) NewTicker(time.Duration) game.Ticker { return &idleTicker{c: make(chan time.Time)} }
func (t *idleTicker) Chan() <-chan time.Time          { return t.c }
func (t *idleTicker) Stop()                           {}

func newTestTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen, *game.Session) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(60, 30)
	t.Cleanup(screen.Fini)

	engine, err := game.NewEngine(game.DefaultOptions())
	require.NoError(t, err)
	session := game.NewSession(engine, game.SessionConfig{Clock: idleClock{}})
	t.Cleanup(session.Stop)

	return New(screen, session, manager.NewStateManager(""), nil), screen, session
}

func rowText(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

func screenText(screen tcell.Screen) string {
	_, h := screen.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = rowText(screen, y)
	}
	return strings.Join(rows, "\n")
}

func TestDrawBoard(t *testing.T) {
	term, screen, session := newTestTerminal(t)
	snap := session.Snapshot()

	term.Draw(snap)

	assert.Contains(t, rowText(screen, 0), "Score: 0")
	assert.Contains(t, rowText(screen, 0), "Best: 0")

	x, y := CellAt(snap.Head())
	r, _, style, _ := screen.GetContent(x, y)
	assert.Equal(t, '█', r)
	fg, _, _ := style.Decompose()
	assert.Equal(t, toTcell(types.White), fg, "head is white")

	x, y = CellAt(types.DefaultStart)
	_, _, style, _ = screen.GetContent(x+1, y)
	fg, _, _ = style.Decompose()
	assert.Equal(t, toTcell(types.Gray), fg, "body is gray on both columns")

	x, y = CellAt(snap.Fruit.Pos)
	r, _, style, _ = screen.GetContent(x, y)
	assert.Equal(t, '●', r)
	fg, _, _ = style.Decompose()
	assert.Equal(t, toTcell(types.Blue), fg)

	r, _, _, _ = screen.GetContent(0, 1)
	assert.Equal(t, '┌', r)
	assert.Contains(t, screenText(screen), "Arrows or WASD to start")
}

func TestDrawHUDShowsAverage(t *testing.T) {
	term, screen, session := newTestTerminal(t)
	require.NoError(t, term.stats.Record(manager.GameRecord{Score: 10, Outcome: "game over"}))
	require.NoError(t, term.stats.Record(manager.GameRecord{Score: 20, Outcome: "game over"}))

	term.Draw(session.Snapshot())

	hud := rowText(screen, 0)
	assert.Contains(t, hud, "Best: 20")
	assert.Contains(t, hud, "Avg: 15.0")
	assert.Contains(t, hud, "Games: 2")
}

func TestDrawGameOver(t *testing.T) {
	term, screen, session := newTestTerminal(t)
	snap := session.Snapshot()
	snap.Status = types.GameOver
	snap.FinalScore = 30

	term.Draw(snap)

	text := screenText(screen)
	assert.Contains(t, text, "Game Over!")
	assert.Contains(t, text, "Score: 30")
	assert.NotContains(t, text, "to start")
}

func TestHandleKey(t *testing.T) {
	term, _, session := newTestTerminal(t)

	assert.True(t, term.handleKey(tcell.KeyRune, 'w'))
	assert.Equal(t, types.Up, session.Snapshot().Direction)

	assert.True(t, term.handleKey(tcell.KeyRight, 0))
	assert.Equal(t, types.Right, session.Snapshot().Direction)

	// reversing onto the neck is ignored
	assert.True(t, term.handleKey(tcell.KeyLeft, 0))
	assert.Equal(t, types.Right, session.Snapshot().Direction)

	assert.True(t, term.handleKey(tcell.KeyRune, 'x'), "unknown keys are ignored")
}

func TestHandleKeyRestartAndQuit(t *testing.T) {
	term, _, session := newTestTerminal(t)
	before := session.Snapshot().SessionID

	assert.True(t, term.handleKey(tcell.KeyRune, 'r'))
	assert.NotEqual(t, before, session.Snapshot().SessionID)
	assert.True(t, session.Ticking())

	assert.False(t, term.handleKey(tcell.KeyRune, 'q'))
	assert.False(t, term.handleKey(tcell.KeyEscape, 0))
	assert.False(t, term.handleKey(tcell.KeyCtrlC, 0))
}

func TestRunStopsOnCancel(t *testing.T) {
	term, _, session := newTestTerminal(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- term.Run(ctx) }()

	assert.Eventually(t, session.Ticking, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, session.Ticking())
}

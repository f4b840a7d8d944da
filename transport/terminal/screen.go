package terminal

import (
	"context"
	"fmt"
	"io"
	"math/bits"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/tilemerge/game/engine"
)

// KeyEscape is reported for Escape and Ctrl-C
const KeyEscape = "<esc>"

// tileColors cycle by the tile's power of two
var tileColors = []tcell.Color{
	tcell.ColorWhite,
	tcell.ColorYellow,
	tcell.ColorOrange,
	tcell.ColorRed,
	tcell.ColorFuchsia,
	tcell.ColorPurple,
	tcell.ColorBlue,
	tcell.ColorAqua,
	tcell.ColorGreen,
	tcell.ColorLime,
	tcell.ColorOlive,
}

// Screen is a full-screen tcell frontend. It implements play.InputSource
// and play.Display.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once
}

// NewScreen takes over the controlling terminal
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreenWith(s)
}

// NewScreenWith initialises s and starts polling it for events
func NewScreenWith(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault)
	s.Clear()

	sc := &Screen{
		screen: s,
		events: make(chan tcell.Event),
		quit:   make(chan struct{}),
	}
	go sc.pump()
	return sc, nil
}

func (sc *Screen) pump() {
	defer close(sc.events)
	for {
		ev := sc.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case sc.events <- ev:
		case <-sc.quit:
			return
		}
	}
}

// ReadKey blocks until a key is pressed. Resize events redraw and are skipped.
func (sc *Screen) ReadKey(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-sc.events:
			if !ok {
				return "", io.EOF
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				return keyName(ev), nil
			case *tcell.EventResize:
				sc.screen.Sync()
			}
		}
	}
}

func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		return string(ev.Rune())
	case tcell.KeyUp:
		return engine.KeyArrowUp
	case tcell.KeyDown:
		return engine.KeyArrowDown
	case tcell.KeyLeft:
		return engine.KeyArrowLeft
	case tcell.KeyRight:
		return engine.KeyArrowRight
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return KeyEscape
	default:
		return "<" + strings.ToLower(ev.Name()) + ">"
	}
}

// Show draws the board with one colour per tile value and the status below it
func (sc *Screen) Show(state *engine.GameState, status string) error {
	sc.screen.Clear()

	sc.drawText(0, 0, "tilemerge", tcell.StyleDefault.Bold(true))

	for y, row := range state.Rows {
		x := 0
		for _, v := range row {
			var cell string
			style := tcell.StyleDefault
			if v == 0 {
				cell = fmt.Sprintf("%*s ", state.PrintWidth, engine.EmptyGlyph)
				style = style.Foreground(tcell.ColorGray)
			} else {
				cell = fmt.Sprintf("%*d ", state.PrintWidth, v)
				style = style.Foreground(tileColor(v)).Bold(true)
			}
			sc.drawText(x, y+2, cell, style)
			x += len(cell)
		}
	}

	sc.drawText(0, len(state.Rows)+3, status, tcell.StyleDefault)
	sc.screen.Show()
	return nil
}

func tileColor(v uint32) tcell.Color {
	power := bits.Len32(v) - 1
	return tileColors[(power-1+len(tileColors))%len(tileColors)]
}

func (sc *Screen) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		sc.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Close restores the terminal
func (sc *Screen) Close() {
	sc.once.Do(func() {
		close(sc.quit)
		sc.screen.Fini()
	})
}

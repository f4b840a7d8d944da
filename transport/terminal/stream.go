package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/wricardo/tilemerge/game/engine"
)

type keyResult struct {
	key string
	err error
}

// Stream is a line-oriented frontend: single keys read from a raw terminal,
// each board printed below the previous one. It implements
// play.InputSource and play.Display.
type Stream struct {
	out      io.Writer
	keys     chan keyResult
	fd       int
	oldState *term.State
	once     sync.Once
	done     bool
}

// NewStream reads keys from in, switching it to raw mode when it is a terminal
func NewStream(in *os.File, out io.Writer) (*Stream, error) {
	s := newStream(in, out)

	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return nil, fmt.Errorf("failed to enter raw mode: %w", err)
		}
		s.fd = fd
		s.oldState = old
	}
	return s, nil
}

// NewStreamFrom reads keys from any reader without touching terminal modes
func NewStreamFrom(in io.Reader, out io.Writer) *Stream {
	return newStream(in, out)
}

func newStream(in io.Reader, out io.Writer) *Stream {
	s := &Stream{
		out:  out,
		keys: make(chan keyResult),
	}
	go s.read(bufio.NewReader(in))
	return s
}

// read decodes keys until the input fails. The goroutine stays blocked in
// the reader after Close when the input never ends.
func (s *Stream) read(r *bufio.Reader) {
	defer close(s.keys)
	for {
		key, err := decodeKey(r)
		if err != nil {
			s.keys <- keyResult{err: err}
			return
		}
		s.keys <- keyResult{key: key}
	}
}

func decodeKey(r *bufio.Reader) (string, error) {
	b, err := r.ReadByte()
	if err != nil {
		return "", err
	}

	switch {
	case b == 0x1b:
		// Arrow keys arrive as ESC [ A..D in one burst.
		if r.Buffered() >= 2 {
			if next, _ := r.Peek(2); next[0] == '[' {
				if key, ok := arrowKeys[next[1]]; ok {
					r.Discard(2)
					return key, nil
				}
			}
		}
		return KeyEscape, nil
	case b == 0x03:
		return KeyEscape, nil
	case b == '\r' || b == '\n':
		return "<enter>", nil
	case b < 0x20 || b == 0x7f:
		return fmt.Sprintf("<0x%02x>", b), nil
	case b >= 0x80:
		if err := r.UnreadByte(); err != nil {
			return "", err
		}
		ch, _, err := r.ReadRune()
		if err != nil {
			return "", err
		}
		return string(ch), nil
	default:
		return string(rune(b)), nil
	}
}

var arrowKeys = map[byte]string{
	'A': engine.KeyArrowUp,
	'B': engine.KeyArrowDown,
	'C': engine.KeyArrowRight,
	'D': engine.KeyArrowLeft,
}

// ReadKey returns the next key, or io.EOF once the input is exhausted
func (s *Stream) ReadKey(ctx context.Context) (string, error) {
	if s.done {
		return "", io.EOF
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-s.keys:
		if !ok {
			s.done = true
			return "", io.EOF
		}
		if res.err != nil {
			s.done = true
		}
		return res.key, res.err
	}
}

// Show prints the board and the status line with CRLF line endings so the
// output stays aligned in raw mode
func (s *Stream) Show(state *engine.GameState, status string) error {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(state.Rendered, "\n", "\r\n"))
	if status != "" {
		b.WriteString(status)
		b.WriteString("\r\n")
	}
	_, err := io.WriteString(s.out, b.String())
	return err
}

// Close restores the terminal mode
func (s *Stream) Close() {
	s.once.Do(func() {
		if s.oldState != nil {
			term.Restore(s.fd, s.oldState)
		}
	})
}

// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key counts as held after its last byte.
// Terminals only repeat a held key every 30-50ms, so this must be longer
// than the repeat interval or thrust would stutter.
const keyHoldDuration = 60 * time.Millisecond

// Input is the state of the keyboard for one frame.
type Input struct {
	Quit  bool
	Left  bool
	Right bool
	Up    bool
	Down  bool

	// Enter, Escape and Interrupt (Ctrl+C) are set only in the frame the
	// key arrived.
	Enter     bool
	Escape    bool
	Interrupt bool

	// Fire counts space presses since the last read. Firing is edge
	// triggered: holding space does not auto-fire beyond the terminal's
	// own key repeat.
	Fire int
	// Backspaces counts erase presses (BS or DEL) since the last read.
	Backspaces int
	// Text holds the printable bytes typed since the last read, in order.
	Text []byte

	// Closed is set once the underlying reader has failed or hit EOF.
	Closed bool
}

// Any reports whether the frame carried any key at all.
func (in Input) Any() bool {
	return in.Quit || in.Left || in.Right || in.Up || in.Down || in.Enter ||
		in.Escape || in.Interrupt || in.Fire > 0 || in.Backspaces > 0 || len(in.Text) > 0
}

// Turn returns 1 for left (counter-clockwise), -1 for right and 0 for
// neither or both.
func (in Input) Turn() int {
	switch {
	case in.Left && !in.Right:
		return 1
	case in.Right && !in.Left:
		return -1
	}
	return 0
}

// keyState tracks the last time each held key was seen.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks key state across
// frames.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and feeds the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains every byte currently buffered (never blocks) and returns
// the resulting frame input.
func ReadInput(s *Stream) Input {
	var buf []byte
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	return s.apply(buf, time.Now())
}

// ResetKeyInput forgets every held key, so a key held across a screen
// change does not leak into the next screen.
func (s *Stream) ResetKeyInput() {
	s.state = keyState{}
}

func (s *Stream) apply(buf []byte, now time.Time) Input {
	in := Input{Closed: s.closed}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI arrow keys: ESC [ A..D
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}

		switch b {
		case ' ':
			in.Fire++
		case '\b', '\x7f':
			in.Backspaces++
		case '\n', '\r':
			in.Enter = true
		case '\x1b':
			in.Escape = true
		case '\x03':
			in.Interrupt = true
		default:
			applyByteToState(&s.state, b, now)
		}

		if b >= 0x20 && b < 0x7f {
			in.Text = append(in.Text, b)
		}
	}

	held := func(t time.Time) bool { return !t.IsZero() && now.Sub(t) < keyHoldDuration }
	in.Quit = held(s.state.quit)
	in.Left = held(s.state.left)
	in.Right = held(s.state.right)
	in.Up = held(s.state.up)
	in.Down = held(s.state.down)
	return in
}

// applyByteToState updates the held-key timestamps for a single byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case 'a', 'A', 'j', 'J':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'i', 'I':
		state.up = now
	case 's', 'S', 'k', 'K':
		state.down = now
	}
}

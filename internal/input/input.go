// Package input turns the raw terminal byte stream into per-frame key
// presses and mouse clicks.
package input

import (
	"bufio"
	"strconv"
)

// Click is a mouse button press at a 1-based terminal cell.
type Click struct {
	Col, Row int
	Button   int // 0 left, 1 middle, 2 right
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Space   bool
	Enter   bool
	Escape  bool
	Letters []byte  // Lower-case letters in the order they were typed, q excluded
	Clicks  []Click // Button presses; releases, drags and wheel are dropped
	Pressed []byte  // Raw bytes read this frame
}

// Any reports whether the frame carried any input at all.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	pending []byte // Unfinished escape sequence from the previous frame
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
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

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil
	heldEscape := len(buf) == 1 && buf[0] == '\x1b'

drain:
	for {
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

	// A lone ESC held over from the last frame with nothing after it is
	// the Escape key, not the start of a sequence.
	if heldEscape && len(buf) == 1 {
		return Input{Escape: true, Pressed: buf}
	}

	inp, rest := Parse(buf)
	if len(rest) > 0 {
		s.pending = append([]byte(nil), rest...)
	}
	return inp
}

// Parse decodes buf. An escape sequence cut off at the end of buf, or a
// trailing ESC, is returned as rest so the caller can prepend it to the
// next read.
func Parse(buf []byte) (inp Input, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+1 == len(buf) {
			inp.Pressed = append(inp.Pressed, buf[:i]...)
			return inp, buf[i:]
		}
		if b == '\x1b' && buf[i+1] == '[' {
			n, click, complete := parseCSI(buf[i:])
			if !complete {
				inp.Pressed = append(inp.Pressed, buf[:i]...)
				return inp, buf[i:]
			}
			if click != nil {
				inp.Clicks = append(inp.Clicks, *click)
			}
			i += n - 1
			continue
		}
		applyByte(&inp, b)
	}
	inp.Pressed = buf
	return inp, nil
}

// parseCSI consumes one CSI sequence starting at seq[0] == ESC. It returns
// the sequence length and, for an SGR mouse press, the click.
func parseCSI(seq []byte) (n int, click *Click, complete bool) {
	// ESC [ params final, final byte in 0x40..0x7e
	for j := 2; j < len(seq); j++ {
		if c := seq[j]; c >= 0x40 && c <= 0x7e {
			if len(seq) > 2 && seq[2] == '<' && (c == 'M' || c == 'm') {
				click = parseSGRMouse(seq[3:j], c == 'M')
			}
			return j + 1, click, true
		}
	}
	return len(seq), nil, false
}

// parseSGRMouse decodes "b;x;y" from an SGR 1006 report.
func parseSGRMouse(params []byte, press bool) *Click {
	if !press {
		return nil
	}
	var fields [3]int
	k := 0
	start := 0
	for j := 0; j <= len(params); j++ {
		if j < len(params) && params[j] != ';' {
			continue
		}
		if k == len(fields) {
			return nil
		}
		v, err := strconv.Atoi(string(params[start:j]))
		if err != nil {
			return nil
		}
		fields[k] = v
		k++
		start = j + 1
	}
	if k != len(fields) {
		return nil
	}

	button := fields[0]
	if button&(32|64) != 0 { // Motion or wheel
		return nil
	}
	return &Click{Col: fields[1], Row: fields[2], Button: button & 3}
}

// applyByte records a single key press.
func applyByte(inp *Input, b byte) {
	switch {
	case b == 'q' || b == 'Q' || b == 0x03:
		inp.Quit = true
	case b == ' ':
		inp.Space = true
	case b == '\n' || b == '\r':
		inp.Enter = true
	case b == '\x1b':
		inp.Escape = true
	case b >= 'a' && b <= 'z':
		inp.Letters = append(inp.Letters, b)
	case b >= 'A' && b <= 'Z':
		inp.Letters = append(inp.Letters, b-'A'+'a')
	}
}

package input

import (
	"bufio"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestParseKeys(t *testing.T) {
	inp, rest := Parse([]byte("aBz q\r"))
	if rest != nil {
		t.Fatalf("rest = %q", rest)
	}
	if want := []byte("abz"); !slices.Equal(inp.Letters, want) {
		t.Errorf("letters = %q, want %q", inp.Letters, want)
	}
	if !inp.Space || !inp.Quit || !inp.Enter {
		t.Errorf("input = %+v, want space, quit and enter", inp)
	}
}

func TestParseCtrlCQuits(t *testing.T) {
	if inp, _ := Parse([]byte{0x03}); !inp.Quit {
		t.Error("Ctrl-C should quit")
	}
}

func TestParseSGRMouse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Click
	}{
		{"left press", "\x1b[<0;12;7M", []Click{{Col: 12, Row: 7, Button: 0}}},
		{"right press", "\x1b[<2;1;1M", []Click{{Col: 1, Row: 1, Button: 2}}},
		{"release dropped", "\x1b[<0;12;7m", nil},
		{"drag dropped", "\x1b[<32;12;7M", nil},
		{"wheel dropped", "\x1b[<64;12;7M", nil},
		{"press and release", "\x1b[<0;3;4M\x1b[<0;3;4m", []Click{{Col: 3, Row: 4}}},
		{"two presses", "\x1b[<0;3;4M\x1b[<0;90;40M", []Click{{Col: 3, Row: 4}, {Col: 90, Row: 40}}},
		{"malformed", "\x1b[<0;x;4M", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inp, rest := Parse([]byte(tt.in))
			if rest != nil {
				t.Fatalf("rest = %q", rest)
			}
			if !slices.Equal(inp.Clicks, tt.want) {
				t.Errorf("clicks = %+v, want %+v", inp.Clicks, tt.want)
			}
			if len(inp.Letters) != 0 || inp.Escape || inp.Quit {
				t.Errorf("escape sequence leaked into keys: %+v", inp)
			}
		})
	}
}

func TestParseArrowKeysIgnored(t *testing.T) {
	inp, _ := Parse([]byte("\x1b[A\x1b[Dx"))
	if want := []byte("x"); !slices.Equal(inp.Letters, want) {
		t.Errorf("letters = %q, want %q", inp.Letters, want)
	}
}

func TestParseTrailingEscapeHeld(t *testing.T) {
	inp, rest := Parse([]byte("a\x1b"))
	if inp.Escape {
		t.Error("trailing ESC decoded before the next read")
	}
	if string(rest) != "\x1b" {
		t.Errorf("rest = %q, want the ESC", rest)
	}
	if !slices.Equal(inp.Letters, []byte("a")) {
		t.Errorf("letters = %q", inp.Letters)
	}
}

func TestParseEscapeThenKey(t *testing.T) {
	inp, rest := Parse([]byte("\x1bx"))
	if rest != nil || !inp.Escape || !slices.Equal(inp.Letters, []byte("x")) {
		t.Errorf("input = %+v rest=%q", inp, rest)
	}
}

func TestParseSplitSequence(t *testing.T) {
	inp, rest := Parse([]byte("a\x1b[<0;12"))
	if string(rest) != "\x1b[<0;12" {
		t.Fatalf("rest = %q", rest)
	}
	if !slices.Equal(inp.Letters, []byte("a")) || len(inp.Clicks) != 0 {
		t.Errorf("first half = %+v", inp)
	}

	inp, rest = Parse(append(rest, []byte(";7M")...))
	if rest != nil || len(inp.Clicks) != 1 || inp.Clicks[0] != (Click{Col: 12, Row: 7}) {
		t.Errorf("second half = %+v rest=%q", inp, rest)
	}
}

func TestParseSplitAfterEscape(t *testing.T) {
	inp, rest := Parse([]byte("\x1b"))
	if inp.Escape || string(rest) != "\x1b" {
		t.Fatalf("first half = %+v rest=%q", inp, rest)
	}

	inp, rest = Parse(append(rest, []byte("[<0;12;7M")...))
	if rest != nil {
		t.Fatalf("rest = %q", rest)
	}
	if inp.Escape || len(inp.Letters) != 0 {
		t.Errorf("mouse report leaked into keys: %+v", inp)
	}
	if len(inp.Clicks) != 1 || inp.Clicks[0] != (Click{Col: 12, Row: 7}) {
		t.Errorf("clicks = %+v", inp.Clicks)
	}
}

// feed builds a stream whose bytes are pushed by the test.
func feed() *Stream {
	return &Stream{ch: make(chan byte, 256)}
}

func send(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func TestStreamEscapeSplitAcrossFrames(t *testing.T) {
	s := feed()

	send(s, "\x1b")
	if inp := ReadInput(s); inp.Escape || inp.Any() {
		t.Fatalf("frame 1 = %+v, want nothing until the sequence resolves", inp)
	}

	send(s, "[<0;12;7M")
	inp := ReadInput(s)
	if inp.Escape || len(inp.Letters) != 0 {
		t.Errorf("frame 2 = %+v, want only a click", inp)
	}
	if len(inp.Clicks) != 1 || inp.Clicks[0] != (Click{Col: 12, Row: 7}) {
		t.Errorf("clicks = %+v", inp.Clicks)
	}
}

func TestStreamLoneEscapeFlushedNextFrame(t *testing.T) {
	s := feed()

	send(s, "\x1b")
	if inp := ReadInput(s); inp.Escape {
		t.Fatal("escape reported in the frame it arrived")
	}
	if inp := ReadInput(s); !inp.Escape {
		t.Error("lone ESC was not flushed as the escape key")
	}
	if inp := ReadInput(s); inp.Escape {
		t.Error("escape reported twice")
	}
}

func TestStreamReadInput(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("k\x1b[<0;5;6M")))

	var got Input
	deadline := time.Now().Add(2 * time.Second)
	for !s.Closed() && time.Now().Before(deadline) {
		inp := ReadInput(s)
		got.Letters = append(got.Letters, inp.Letters...)
		got.Clicks = append(got.Clicks, inp.Clicks...)
		time.Sleep(time.Millisecond)
	}
	if !s.Closed() {
		t.Fatal("stream did not report end of input")
	}
	if !slices.Equal(got.Letters, []byte("k")) || len(got.Clicks) != 1 {
		t.Errorf("got %+v", got)
	}
}

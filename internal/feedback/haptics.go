package feedback

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Bell rings the terminal bell as a stand-in for vibration. Pulses closer
// together than MinGap are coalesced into one ring.
type Bell struct {
	MinGap time.Duration

	mu   sync.Mutex
	w    io.Writer
	last time.Time
	now  func() time.Time
}

// NewBell creates a bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w, MinGap: 150 * time.Millisecond, now: time.Now}
}

// Vibrate implements Haptics.
func (b *Bell) Vibrate(d time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.MinGap {
		return nil
	}
	b.last = now
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		return fmt.Errorf("ringing bell: %w", err)
	}
	return nil
}

// Nop is a Haptics that does nothing.
type Nop struct{}

// Vibrate implements Haptics.
func (Nop) Vibrate(time.Duration) error { return nil }

package session

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/tomz197/reflex/internal/physics"
	"github.com/tomz197/reflex/internal/tuning"
)

// Field 800x600 with radius 30 and margin 25 samples x in [55,745), y in [55,545).
var (
	placeBounds = physics.NewRect(0, 0, 800, 600)
	nearFX      = 55.0 / 690 // x = 110
	nearFY      = 45.0 / 490 // y = 100
)

func crowded() []*Target {
	return []*Target{
		NewTarget(1, 100, 100, 30, "#fff", t0, time.Second),
		NewTarget(2, 140, 100, 30, "#fff", t0, time.Second),
	}
}

func TestMinSeparation(t *testing.T) {
	p := NewPlacer(&seqRand{floats: []float64{0}}, tuning.Default().Placement)
	tests := []struct {
		r, other, want float64
	}{
		{30, 30, 75},  // 2.5r dominates
		{18, 45, 63},  // r+other dominates
		{35, 0, 87.5}, // zero-size neighbour
	}
	for _, tt := range tests {
		if got := p.MinSeparation(tt.r, tt.other); got != tt.want {
			t.Errorf("MinSeparation(%v, %v) = %v, want %v", tt.r, tt.other, got, tt.want)
		}
	}
}

func TestFindPositionRejectsUntilClear(t *testing.T) {
	rng := &seqRand{floats: []float64{nearFX, nearFY, 0.5, 0.5}}
	p := NewPlacer(rng, tuning.Default().Placement)

	pos, placed := p.FindPosition(crowded(), 30, placeBounds)
	if !placed {
		t.Fatal("expected a clear position")
	}
	if pos != (physics.Point{X: 400, Y: 300}) {
		t.Errorf("pos = %+v, want (400,300)", pos)
	}
	if rng.calls != 4 {
		t.Errorf("drew %d floats, want 4 (one rejected attempt, one accepted)", rng.calls)
	}
}

func TestFindPositionExhaustsAttempts(t *testing.T) {
	rng := &seqRand{floats: []float64{nearFX, nearFY}}
	p := NewPlacer(rng, tuning.Default().Placement)

	pos, placed := p.FindPosition(crowded(), 30, placeBounds)
	if placed {
		t.Fatal("every candidate collides; placed should be false")
	}
	if want := 2 * tuning.DefaultMaxAttempts; rng.calls != want {
		t.Errorf("drew %d floats, want %d", rng.calls, want)
	}
	if math.Abs(pos.X-110) > 1e-9 || math.Abs(pos.Y-100) > 1e-9 {
		t.Errorf("pos = %+v, want last candidate near (110,100)", pos)
	}
}

func TestFindPositionNoNeighbours(t *testing.T) {
	rng := &seqRand{floats: []float64{0, 0.999}}
	p := NewPlacer(rng, tuning.Default().Placement)

	pos, placed := p.FindPosition(nil, 30, placeBounds)
	if !placed || rng.calls != 2 {
		t.Fatalf("placed=%v calls=%d, want first attempt accepted", placed, rng.calls)
	}
	if pos.X != 55 {
		t.Errorf("x = %v, want inset edge 55", pos.X)
	}
}

func TestFindPositionTinyField(t *testing.T) {
	rng := &seqRand{floats: []float64{0.3, 0.7}}
	p := NewPlacer(rng, tuning.Default().Placement)

	pos, _ := p.FindPosition(nil, 30, physics.NewRect(0, 0, 40, 40))
	if pos != (physics.Point{X: 20, Y: 20}) {
		t.Errorf("pos = %+v, want collapsed centre (20,20)", pos)
	}
}

func TestFindPositionProperty(t *testing.T) {
	cfg := tuning.Default().Placement
	rng := rand.New(rand.NewPCG(1, 2))
	p := NewPlacer(rng, cfg)
	bounds := physics.NewRect(0, 50, 800, 550)

	for round := 0; round < 500; round++ {
		var existing []*Target
		n := rng.IntN(6)
		for i := 0; i < n; i++ {
			x := bounds.Min.X + rng.Float64()*bounds.Width()
			y := bounds.Min.Y + rng.Float64()*bounds.Height()
			existing = append(existing, NewTarget(TargetID(i+1), x, y, 18+rng.Float64()*27, "#fff", t0, time.Second))
		}
		radius := 18 + rng.Float64()*27

		pos, placed := p.FindPosition(existing, radius, bounds)
		area := bounds.Inset(radius + cfg.EdgeMargin)
		if pos.X < area.Min.X || pos.X > area.Max.X || pos.Y < area.Min.Y || pos.Y > area.Max.Y {
			t.Fatalf("round %d: %+v outside %+v", round, pos, area)
		}
		if !placed {
			continue
		}
		for _, e := range existing {
			sep := p.MinSeparation(radius, e.Radius)
			if d := physics.Distance(pos.X, pos.Y, e.X, e.Y); d < sep {
				t.Fatalf("round %d: placed %v from target %d, need %v", round, d, e.ID, sep)
			}
		}
	}
}

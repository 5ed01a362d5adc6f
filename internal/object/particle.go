package object

import (
	"math"
	"math/rand/v2"
	"sync"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a single coloured pixel flying out of a burst.
type Particle struct {
	X, Y        float64 // Position in logical units
	VX, VY      float64 // Velocity in logical units per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay per 1/60s (1.0 = no drag)
	Color       string
	Fade        bool // Skip drawing in the last quarter of the lifetime
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, color string) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.92
	p.Color = color
	p.Fade = true
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the scene.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnBurst throws count particles outward from (x, y) in random
// directions.
func SpawnBurst(x, y float64, count int, speed, lifetime float64, color string, spawner Spawner) {
	if spawner == nil {
		return
	}
	for range count {
		angle := rand.Float64() * 2 * math.Pi
		// 50% to 150% of the nominal speed
		spd := speed * (0.5 + rand.Float64())
		// 50% to 100% of the nominal lifetime
		life := lifetime * (0.5 + rand.Float64()*0.5)

		spawner.Spawn(NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life, color))
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true, nil
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor

	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false, nil
}

// Draw plots the particle as one canvas pixel.
func (p *Particle) Draw(ctx DrawContext) error {
	if p.Fade && p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return nil
	}
	ctx.Canvas.SetFloat(p.X, p.Y, ctx.Canvas.Ink(p.Color))
	return nil
}

var _ Releasable = (*Particle)(nil)

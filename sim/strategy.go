package sim

import "math/rand"

// Strategy advances the whole population by one tick. Implementations own
// private per-agent memory keyed by agent id; memory is created lazily and
// only ever discarded in bulk, by dropping the strategy instance.
//
// The returned slice is a fresh population; the input is never mutated.
// The debug map is nil unless debug is true.
type Strategy interface {
	Tick(agents []Agent, cfg Config, obstacles []Obstacle, grid *Grid, debug bool) ([]Agent, map[int]*AgentDebug)
}

// NewStrategy builds the strategy for the selected algorithm. The set is
// closed; unknown selectors fall back to flocking.
func NewStrategy(alg Algorithm, cfg Config, rng *rand.Rand) Strategy {
	switch alg {
	case AlgorithmForaging:
		return newForaging(cfg, rng)
	case AlgorithmSwarm:
		return newSwarm(cfg, rng)
	default:
		return newFlocking()
	}
}

// avoidObstacles sums away-vectors from every obstacle whose influence
// boundary (extent + pad) contains p, each scaled by how deep p is inside
// that boundary. Callers clamp the result to their own force budget.
func avoidObstacles(p Vec, obstacles []Obstacle, pad, maxSpeed float64) Vec {
	var sum Vec
	for _, o := range obstacles {
		center := Vec{o.X, o.Y}
		boundary := o.extent() + pad
		d := p.Dist(center)
		if d >= boundary {
			continue
		}
		away := p.Sub(center).Normalize()
		sum = sum.Add(away.Scale(maxSpeed * (1 - d/boundary)))
	}
	return sum
}

// avoidWalls pushes inward when p is within margin of a world edge,
// harder the closer it gets.
func avoidWalls(p Vec, width, height, margin, maxSpeed float64) Vec {
	var f Vec
	if p.X < margin {
		f.X += maxSpeed * (1 - p.X/margin)
	}
	if p.X > width-margin {
		f.X -= maxSpeed * (1 - (width-p.X)/margin)
	}
	if p.Y < margin {
		f.Y += maxSpeed * (1 - p.Y/margin)
	}
	if p.Y > height-margin {
		f.Y -= maxSpeed * (1 - (height-p.Y)/margin)
	}
	return f
}

// wrap maps p back onto the world rectangle torus.
func wrap(p Vec, width, height float64) Vec {
	for p.X < 0 {
		p.X += width
	}
	for p.X >= width {
		p.X -= width
	}
	for p.Y < 0 {
		p.Y += height
	}
	for p.Y >= height {
		p.Y -= height
	}
	return p
}

// clampToWorld pins p inside the world rectangle.
func clampToWorld(p Vec, width, height float64) Vec {
	if p.X < 0 {
		p.X = 0
	}
	if p.X > width {
		p.X = width
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y > height {
		p.Y = height
	}
	return p
}

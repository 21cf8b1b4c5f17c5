package sim

import (
	"math"
	"math/rand"
)

// Swarm-optimization tunables.
const (
	swarmTargetCount  = 3
	swarmInertia      = 0.75
	swarmCognitive    = 0.015
	swarmSocial       = 0.02
	swarmNoise        = 0.6 // uniform in [-0.6, 0.6] per axis
	swarmObstaclePad  = 40.0
	convergenceRadius = 35.0
	teleportEvery     = 120
	teleportMargin    = 50.0

	// unreachableFitness is the sentinel the global best resets to at
	// every teleport.
	unreachableFitness = math.MaxFloat64
)

// Target is a moving optimization objective that bounces elastically off
// the world edges.
type Target struct {
	Pos Vec `json:"pos"`
	Vel Vec `json:"vel"`
}

type particleMemory struct {
	best        Vec
	bestFitness float64
}

// swarm is a PSO-style strategy. Fitness is the distance to the nearest
// target; the social pull is toward each particle's nearest target rather
// than a single global best, so sub-swarms form around every target. A
// periodic teleport of one target wipes all memory and forces the
// population to re-explore.
type swarm struct {
	rng           *rand.Rand
	targets       []Target
	mem           map[int]*particleMemory
	globalBest    float64
	globalBestPos Vec
	tick          int
}

func newSwarm(cfg Config, rng *rand.Rand) *swarm {
	s := &swarm{
		rng:        rng,
		targets:    make([]Target, swarmTargetCount),
		mem:        make(map[int]*particleMemory),
		globalBest: unreachableFitness,
	}
	for i := range s.targets {
		s.targets[i] = Target{
			Pos: s.randomInterior(cfg),
			Vel: s.randomVelocity(),
		}
	}
	return s
}

func (s *swarm) Tick(agents []Agent, cfg Config, obstacles []Obstacle, grid *Grid, debug bool) ([]Agent, map[int]*AgentDebug) {
	s.tick++
	s.moveTargets(cfg)

	next := make([]Agent, len(agents))
	var dbg map[int]*AgentDebug
	if debug {
		dbg = make(map[int]*AgentDebug, len(agents))
	}
	for i := range agents {
		next[i] = s.stepParticle(agents[i], cfg, obstacles, dbg)
	}

	// Teleport happens after the particle pass so that, immediately
	// after a teleport tick, every memory really is empty.
	if s.tick%teleportEvery == 0 {
		idx := (s.tick / teleportEvery) % len(s.targets)
		s.targets[idx] = Target{Pos: s.randomInterior(cfg), Vel: s.randomVelocity()}
		s.mem = make(map[int]*particleMemory)
		s.globalBest = unreachableFitness
		s.globalBestPos = Vec{}
	}
	return next, dbg
}

func (s *swarm) stepParticle(a Agent, cfg Config, obstacles []Obstacle, dbg map[int]*AgentDebug) Agent {
	p := a.pos()
	fit := s.fitness(p)

	m, ok := s.mem[a.ID]
	if !ok {
		m = &particleMemory{best: p, bestFitness: fit}
		s.mem[a.ID] = m
	} else if fit < m.bestFitness {
		m.best = p
		m.bestFitness = fit
	}
	if m.bestFitness < s.globalBest {
		s.globalBest = m.bestFitness
		s.globalBestPos = m.best
	}

	nearest := s.nearestTarget(p)

	inertia := a.vel().Scale(swarmInertia)
	cognitive := m.best.Sub(p).Scale(swarmCognitive * s.rng.Float64())
	social := nearest.Pos.Sub(p).Scale(swarmSocial * s.rng.Float64())
	noise := Vec{
		(s.rng.Float64()*2 - 1) * swarmNoise,
		(s.rng.Float64()*2 - 1) * swarmNoise,
	}

	v := inertia.Add(cognitive).Add(social).Add(noise)
	// Avoidance feeds the velocity directly here; particles have no
	// separate force budget.
	v = v.Add(avoidObstacles(p, obstacles, swarmObstaclePad, cfg.MaxSpeed))
	v = v.Limit(cfg.MaxSpeed)

	p = p.Add(v.Scale(cfg.SpeedMult))
	p, v = bounce(p, v, cfg.WorldWidth, cfg.WorldHeight)

	targetDist := p.Dist(s.nearestTarget(p).Pos)
	state := StateActive
	if targetDist < convergenceRadius {
		state = StateStuck // converged on a target
	}

	heading := a.Heading
	if v.LengthSq() > 0 {
		heading = v.Heading()
	}

	if dbg != nil {
		dbg[a.ID] = &AgentDebug{
			Components: map[string]Vec{
				"inertia":   inertia,
				"cognitive": cognitive,
				"social":    social,
				"noise":     noise,
			},
			Values: map[string]float64{
				"fitness":      fit,
				"personalBest": m.bestFitness,
				"targetDist":   targetDist,
			},
			Speed: v.Length(),
		}
	}
	return Agent{ID: a.ID, X: p.X, Y: p.Y, VX: v.X, VY: v.Y, Heading: heading, State: state}
}

// fitness is the distance to the nearest target; lower is better. There
// is no "found" notion, the objective is purely continuous.
func (s *swarm) fitness(p Vec) float64 {
	return p.Dist(s.nearestTarget(p).Pos)
}

func (s *swarm) nearestTarget(p Vec) Target {
	best := s.targets[0]
	bestD := p.DistSq(best.Pos)
	for _, t := range s.targets[1:] {
		if d := p.DistSq(t.Pos); d < bestD {
			best, bestD = t, d
		}
	}
	return best
}

func (s *swarm) moveTargets(cfg Config) {
	for i := range s.targets {
		t := &s.targets[i]
		t.Pos = t.Pos.Add(t.Vel)
		t.Pos, t.Vel = bounce(t.Pos, t.Vel, cfg.WorldWidth, cfg.WorldHeight)
	}
}

func (s *swarm) randomInterior(cfg Config) Vec {
	return Vec{
		teleportMargin + s.rng.Float64()*(cfg.WorldWidth-2*teleportMargin),
		teleportMargin + s.rng.Float64()*(cfg.WorldHeight-2*teleportMargin),
	}
}

func (s *swarm) randomVelocity() Vec {
	return FromAngle(s.rng.Float64() * 2 * math.Pi).Scale(0.5 + s.rng.Float64())
}

// bounce reflects elastically off the world edges: the position is held
// at the violated boundary and the velocity sign flips on that axis.
func bounce(p, v Vec, width, height float64) (Vec, Vec) {
	if p.X < 0 {
		p.X = 0
		v.X = -v.X
	}
	if p.X > width {
		p.X = width
		v.X = -v.X
	}
	if p.Y < 0 {
		p.Y = 0
		v.Y = -v.Y
	}
	if p.Y > height {
		p.Y = height
		v.Y = -v.Y
	}
	return p, v
}

package sim

import (
	"math"
	"math/rand"
)

type antMode int

const (
	modeSearch antMode = iota
	modeReturn
)

// Foraging tunables.
const (
	senseOffset     = 0.6  // angular offset of the side samples
	senseDistance   = 30.0 // how far ahead the field is sampled
	senseThreshold  = 0.1  // below this total, fall back to wandering
	senseBias       = 0.25 // wander-heading bias toward the chosen sample
	wanderStep      = 0.5  // max per-tick correlated heading perturbation
	wanderMagnitude = 0.8
	noviceSteps     = 50  // wander-only steps at the start of a search
	desperateSteps  = 300 // fruitless steps before kick-out kicks in
	kickEvery       = 50
	nestRadius      = 15.0
	returnWobble    = 0.4
	antForceMult    = 3.0 // ants turn sharper than flocking agents
	antInertia      = 0.8
	searchSpeedFrac = 0.6
	returnSpeedFrac = 0.8
	antWallMargin   = 25.0
)

// FoodSource is a fixed circular pheromone origin for the foraging
// strategy.
type FoodSource struct {
	Pos    Vec     `json:"pos"`
	Radius float64 `json:"radius"`
}

type antMemory struct {
	mode           antMode
	wanderAngle    float64
	targetFood     int // index into foods, -1 = none
	stepsSearching int
}

// foraging drives ants between a nest and fixed food sources through a
// decaying, diffusing pheromone field. A fixed ~30% of the population are
// explorers that never read the field, keeping area coverage alive.
type foraging struct {
	rng   *rand.Rand
	field *Field
	nest  Vec
	foods []FoodSource
	mem   map[int]*antMemory
	tick  int
}

func newForaging(cfg Config, rng *rand.Rand) *foraging {
	w, h := cfg.WorldWidth, cfg.WorldHeight
	return &foraging{
		rng:   rng,
		field: NewField(w, h, fieldCellSize),
		nest:  Vec{0.12 * w, 0.5 * h},
		foods: []FoodSource{
			{Pos: Vec{0.85 * w, 0.2 * h}, Radius: 25},
			{Pos: Vec{0.55 * w, 0.85 * h}, Radius: 25},
			{Pos: Vec{0.25 * w, 0.15 * h}, Radius: 25},
		},
		mem: make(map[int]*antMemory),
	}
}

func (s *foraging) Tick(agents []Agent, cfg Config, obstacles []Obstacle, grid *Grid, debug bool) ([]Agent, map[int]*AgentDebug) {
	s.tick++

	// Field maintenance runs once per tick regardless of agent count.
	s.field.Evaporate()
	if s.tick%diffuseEveryTick == 0 {
		s.field.Diffuse()
	}

	next := make([]Agent, len(agents))
	var dbg map[int]*AgentDebug
	if debug {
		dbg = make(map[int]*AgentDebug, len(agents))
	}
	for i := range agents {
		next[i] = s.stepAnt(agents[i], cfg, obstacles, dbg)
	}
	return next, dbg
}

func (s *foraging) stepAnt(a Agent, cfg Config, obstacles []Obstacle, dbg map[int]*AgentDebug) Agent {
	m := s.memory(a.ID)
	p := a.pos()

	var steer Vec
	if m.mode == modeSearch {
		steer = s.search(a, p, m)
	} else {
		steer = s.returnToNest(p, m)
	}

	force := steer.
		Add(avoidObstacles(p, obstacles, 30, cfg.MaxSpeed)).
		Add(avoidWalls(p, cfg.WorldWidth, cfg.WorldHeight, antWallMargin, cfg.MaxSpeed)).
		Limit(cfg.MaxForce * antForceMult)

	speedCap := cfg.MaxSpeed * searchSpeedFrac
	if m.mode == modeReturn {
		speedCap = cfg.MaxSpeed * returnSpeedFrac
	}
	v := a.vel().Scale(antInertia).Add(force).Limit(speedCap)
	p = clampToWorld(p.Add(v.Scale(cfg.SpeedMult)), cfg.WorldWidth, cfg.WorldHeight)

	state := StateActive
	if m.mode == modeReturn {
		// Presentation convention: returning ants read as "stuck" so
		// trails back to the nest stand out.
		state = StateStuck
	}

	heading := m.wanderAngle
	if v.LengthSq() > 0 {
		heading = v.Heading()
	}

	if dbg != nil {
		dbg[a.ID] = &AgentDebug{
			Components: map[string]Vec{"steer": steer, "total": force},
			Values: map[string]float64{
				"stepsSearching": float64(m.stepsSearching),
				"returning":      boolToFloat(m.mode == modeReturn),
				"fieldHere":      s.field.At(p.X, p.Y),
			},
			Speed: v.Length(),
		}
	}
	return Agent{ID: a.ID, X: p.X, Y: p.Y, VX: v.X, VY: v.Y, Heading: heading, State: state}
}

// search advances the searching state machine and returns the steering
// force for this tick. Finding food flips the ant to return mode and
// produces no steering this tick.
func (s *foraging) search(a Agent, p Vec, m *antMemory) Vec {
	m.stepsSearching++

	if fi := s.foodIndexAt(p); fi >= 0 {
		m.mode = modeReturn
		m.targetFood = fi
		m.stepsSearching = 0
		return Vec{}
	}

	// Dead-end escape: after a long fruitless search, periodically throw
	// the heading somewhere completely new.
	if m.stepsSearching > desperateSteps && m.stepsSearching%kickEvery == 0 {
		m.wanderAngle = s.rng.Float64() * 2 * math.Pi
	}

	if s.isExplorer(a.ID) || m.stepsSearching < noviceSteps {
		return s.wander(m)
	}
	return s.followField(p, m)
}

// followField samples the pheromone field at three headings and picks one
// with probability proportional to its strength, falling back to a plain
// wander when the trail is too faint to trust.
func (s *foraging) followField(p Vec, m *antMemory) Vec {
	angles := [3]float64{m.wanderAngle - senseOffset, m.wanderAngle, m.wanderAngle + senseOffset}
	biases := [3]float64{-senseBias, 0, senseBias}

	var samples [3]float64
	total := 0.0
	strongest := 0.0
	for i, ang := range angles {
		probe := p.Add(FromAngle(ang).Scale(senseDistance))
		samples[i] = s.field.At(probe.X, probe.Y)
		total += samples[i]
		if samples[i] > strongest {
			strongest = samples[i]
		}
	}
	if total < senseThreshold {
		return s.wander(m)
	}

	pick := s.rng.Float64() * total
	chosen := 2
	for i := 0; i < 2; i++ {
		if pick < samples[i] {
			chosen = i
			break
		}
		pick -= samples[i]
	}
	m.wanderAngle += biases[chosen]

	return FromAngle(m.wanderAngle).Scale(math.Min(strongest, 1))
}

// wander is a correlated random walk: the heading drifts by a small
// bounded step each tick.
func (s *foraging) wander(m *antMemory) Vec {
	m.wanderAngle += (s.rng.Float64() - 0.5) * wanderStep
	return FromAngle(m.wanderAngle).Scale(wanderMagnitude)
}

// returnToNest deposits pheromone (stronger for closer finds) and steers
// home with a small perpendicular wobble. Arrival flips the ant back to
// searching with a fresh random heading, deliberately not the reverse of
// the way it came in.
func (s *foraging) returnToNest(p Vec, m *antMemory) Vec {
	if m.targetFood >= 0 && m.targetFood < len(s.foods) {
		d := p.Dist(s.foods[m.targetFood].Pos)
		s.field.Deposit(p.X, p.Y, math.Max(0.5, 3.0-d*0.005))
	}

	toNest := s.nest.Sub(p)
	if toNest.Length() < nestRadius {
		m.mode = modeSearch
		m.targetFood = -1
		m.wanderAngle = s.rng.Float64() * 2 * math.Pi
		return Vec{}
	}

	dir := toNest.Normalize()
	perp := Vec{-dir.Y, dir.X}.Scale((s.rng.Float64() - 0.5) * returnWobble)
	return dir.Add(perp)
}

func (s *foraging) foodIndexAt(p Vec) int {
	for i, f := range s.foods {
		if p.Dist(f.Pos) < f.Radius {
			return i
		}
	}
	return -1
}

// isExplorer marks a fixed ~30% of ids as permanent wanderers.
func (s *foraging) isExplorer(id int) bool { return id%10 < 3 }

func (s *foraging) memory(id int) *antMemory {
	m, ok := s.mem[id]
	if !ok {
		m = &antMemory{
			mode:        modeSearch,
			wanderAngle: s.rng.Float64() * 2 * math.Pi,
			targetFood:  -1,
		}
		s.mem[id] = m
	}
	return m
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

package sim

// State is the presentation state attached to each agent snapshot.
type State string

const (
	StateActive  State = "active"
	StateStuck   State = "stuck"
	StateAnomaly State = "anomaly"
)

// Algorithm selects the active movement strategy.
type Algorithm string

const (
	AlgorithmFlocking Algorithm = "flocking"
	AlgorithmForaging Algorithm = "foraging"
	AlgorithmSwarm    Algorithm = "swarm"
)

// Agent is one point entity. The population is replaced wholesale each
// tick; agents are never mutated in place by the public contract.
type Agent struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Heading float64 `json:"heading"`
	State   State   `json:"state"`
}

func (a Agent) pos() Vec { return Vec{a.X, a.Y} }

func (a Agent) vel() Vec { return Vec{a.VX, a.VY} }

// Shape discriminates obstacle geometry.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeRect   Shape = "rect"
)

// Obstacle is owned by the boundary; the engine only reads it.
// It survives resets by explicit policy.
type Obstacle struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Shape  Shape   `json:"shape"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// extent is the effective circular radius used for avoidance. Rects are
// approximated by their half-diagonal so agents clear the corners.
func (o Obstacle) extent() float64 {
	if o.Shape == ShapeRect {
		h := Vec{o.Width / 2, o.Height / 2}.Length()
		if h > 0 {
			return h
		}
	}
	return o.Radius
}

// Config is the full set of simulation tunables. It is treated as an
// immutable snapshot for the duration of a tick.
type Config struct {
	Algorithm        Algorithm `json:"algorithm" yaml:"algorithm"`
	AgentCount       int       `json:"agentCount" yaml:"agent_count"`
	WorldWidth       float64   `json:"worldWidth" yaml:"world_width"`
	WorldHeight      float64   `json:"worldHeight" yaml:"world_height"`
	MaxSpeed         float64   `json:"maxSpeed" yaml:"max_speed"`
	MaxForce         float64   `json:"maxForce" yaml:"max_force"`
	NeighborRadius   float64   `json:"neighborRadius" yaml:"neighbor_radius"`
	SeparationRadius float64   `json:"separationRadius" yaml:"separation_radius"`
	SeparationWeight float64   `json:"separationWeight" yaml:"separation_weight"`
	AlignmentWeight  float64   `json:"alignmentWeight" yaml:"alignment_weight"`
	CohesionWeight   float64   `json:"cohesionWeight" yaml:"cohesion_weight"`
	SpeedMult        float64   `json:"speedMult" yaml:"speed_mult"`
}

// DefaultConfig returns the tunables used when the boundary supplies none.
func DefaultConfig() Config {
	return Config{
		Algorithm:        AlgorithmFlocking,
		AgentCount:       120,
		WorldWidth:       1200,
		WorldHeight:      800,
		MaxSpeed:         3.5,
		MaxForce:         0.1,
		NeighborRadius:   70,
		SeparationRadius: 30,
		SeparationWeight: 1.5,
		AlignmentWeight:  1.0,
		CohesionWeight:   1.0,
		SpeedMult:        1.0,
	}
}

// ConfigPatch is a partial Config: nil fields keep their prior value.
type ConfigPatch struct {
	Algorithm        *Algorithm `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	AgentCount       *int       `json:"agentCount,omitempty" yaml:"agent_count,omitempty"`
	WorldWidth       *float64   `json:"worldWidth,omitempty" yaml:"world_width,omitempty"`
	WorldHeight      *float64   `json:"worldHeight,omitempty" yaml:"world_height,omitempty"`
	MaxSpeed         *float64   `json:"maxSpeed,omitempty" yaml:"max_speed,omitempty"`
	MaxForce         *float64   `json:"maxForce,omitempty" yaml:"max_force,omitempty"`
	NeighborRadius   *float64   `json:"neighborRadius,omitempty" yaml:"neighbor_radius,omitempty"`
	SeparationRadius *float64   `json:"separationRadius,omitempty" yaml:"separation_radius,omitempty"`
	SeparationWeight *float64   `json:"separationWeight,omitempty" yaml:"separation_weight,omitempty"`
	AlignmentWeight  *float64   `json:"alignmentWeight,omitempty" yaml:"alignment_weight,omitempty"`
	CohesionWeight   *float64   `json:"cohesionWeight,omitempty" yaml:"cohesion_weight,omitempty"`
	SpeedMult        *float64   `json:"speedMult,omitempty" yaml:"speed_mult,omitempty"`
}

// Apply merges the patch field by field; absent fields retain c's value.
func (c Config) Apply(p ConfigPatch) Config {
	if p.Algorithm != nil {
		c.Algorithm = *p.Algorithm
	}
	if p.AgentCount != nil {
		c.AgentCount = *p.AgentCount
	}
	if p.WorldWidth != nil {
		c.WorldWidth = *p.WorldWidth
	}
	if p.WorldHeight != nil {
		c.WorldHeight = *p.WorldHeight
	}
	if p.MaxSpeed != nil {
		c.MaxSpeed = *p.MaxSpeed
	}
	if p.MaxForce != nil {
		c.MaxForce = *p.MaxForce
	}
	if p.NeighborRadius != nil {
		c.NeighborRadius = *p.NeighborRadius
	}
	if p.SeparationRadius != nil {
		c.SeparationRadius = *p.SeparationRadius
	}
	if p.SeparationWeight != nil {
		c.SeparationWeight = *p.SeparationWeight
	}
	if p.AlignmentWeight != nil {
		c.AlignmentWeight = *p.AlignmentWeight
	}
	if p.CohesionWeight != nil {
		c.CohesionWeight = *p.CohesionWeight
	}
	if p.SpeedMult != nil {
		c.SpeedMult = *p.SpeedMult
	}
	return c
}

// AgentDebug is the optional per-agent force breakdown computed when the
// debug flag is on. Components holds the strategy's weighted force terms;
// Values holds scalar metadata (fitness, sample strengths, counters).
type AgentDebug struct {
	Components map[string]Vec     `json:"components,omitempty"`
	Values     map[string]float64 `json:"values,omitempty"`
	Neighbors  int                `json:"neighbors,omitempty"`
	Speed      float64            `json:"speed"`
}

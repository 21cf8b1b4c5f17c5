package sim

// flocking is classic boids: separation, alignment and cohesion steering
// over grid neighbors, plus obstacle avoidance, on a toroidal world.
// It keeps no per-agent memory.
type flocking struct{}

func newFlocking() *flocking { return &flocking{} }

// obstacle avoidance gets a fixed high weight so flocks never trade
// collision for cohesion.
const obstacleWeight = 3.0

func (f *flocking) Tick(agents []Agent, cfg Config, obstacles []Obstacle, grid *Grid, debug bool) ([]Agent, map[int]*AgentDebug) {
	next := make([]Agent, len(agents))
	var dbg map[int]*AgentDebug
	if debug {
		dbg = make(map[int]*AgentDebug, len(agents))
	}

	for i := range agents {
		a := agents[i]
		p := a.pos()
		v := a.vel()

		neighbors := grid.QueryRadius(a.X, a.Y, cfg.NeighborRadius, a.ID)

		sep := f.separation(a, neighbors, cfg)
		ali := f.alignment(a, neighbors, cfg)
		coh := f.cohesion(a, neighbors, cfg)
		obs := avoidObstacles(p, obstacles, 50, cfg.MaxSpeed).Limit(cfg.MaxForce)

		wSep := sep.Scale(cfg.SeparationWeight)
		wAli := ali.Scale(cfg.AlignmentWeight)
		wCoh := coh.Scale(cfg.CohesionWeight)
		wObs := obs.Scale(obstacleWeight)

		force := wSep.Add(wAli).Add(wCoh).Add(wObs).Limit(cfg.MaxForce)
		v = v.Add(force).Limit(cfg.MaxSpeed)
		p = wrap(p.Add(v.Scale(cfg.SpeedMult)), cfg.WorldWidth, cfg.WorldHeight)

		heading := a.Heading
		if v.LengthSq() > 0 {
			heading = v.Heading()
		}
		next[i] = Agent{ID: a.ID, X: p.X, Y: p.Y, VX: v.X, VY: v.Y, Heading: heading, State: StateActive}

		if debug {
			dbg[a.ID] = &AgentDebug{
				Components: map[string]Vec{
					"separation": wSep,
					"alignment":  wAli,
					"cohesion":   wCoh,
					"obstacle":   wObs,
				},
				Neighbors: len(neighbors),
				Speed:     v.Length(),
			}
		}
	}
	return next, dbg
}

// separation steers away from neighbors inside the separation radius,
// weighting each repulsion by 1/distance so close neighbors push harder.
func (f *flocking) separation(a Agent, neighbors []*Agent, cfg Config) Vec {
	p := a.pos()
	var sum Vec
	count := 0
	for _, n := range neighbors {
		d := p.Dist(n.pos())
		if d <= 0 || d >= cfg.SeparationRadius {
			continue
		}
		sum = sum.Add(p.Sub(n.pos()).Normalize().Scale(1 / d))
		count++
	}
	if count == 0 {
		return Vec{}
	}
	avg := sum.Scale(1 / float64(count))
	if avg.LengthSq() == 0 {
		return Vec{}
	}
	return f.steer(a, avg.Normalize().Scale(cfg.MaxSpeed), cfg)
}

// alignment steers toward the mean neighbor velocity.
func (f *flocking) alignment(a Agent, neighbors []*Agent, cfg Config) Vec {
	if len(neighbors) == 0 {
		return Vec{}
	}
	var sum Vec
	for _, n := range neighbors {
		sum = sum.Add(n.vel())
	}
	avg := sum.Scale(1 / float64(len(neighbors)))
	if avg.LengthSq() == 0 {
		return Vec{}
	}
	return f.steer(a, avg.Normalize().Scale(cfg.MaxSpeed), cfg)
}

// cohesion steers toward the centroid of neighbor positions.
func (f *flocking) cohesion(a Agent, neighbors []*Agent, cfg Config) Vec {
	if len(neighbors) == 0 {
		return Vec{}
	}
	var sum Vec
	for _, n := range neighbors {
		sum = sum.Add(n.pos())
	}
	centroid := sum.Scale(1 / float64(len(neighbors)))
	toward := centroid.Sub(a.pos())
	if toward.LengthSq() == 0 {
		return Vec{}
	}
	return f.steer(a, toward.Normalize().Scale(cfg.MaxSpeed), cfg)
}

// steer produces the standard steer-toward-desired force, clamped to the
// max force budget.
func (f *flocking) steer(a Agent, desired Vec, cfg Config) Vec {
	return desired.Sub(a.vel()).Limit(cfg.MaxForce)
}

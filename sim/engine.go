package sim

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// tickInterval targets ~60Hz. The loop is cooperative: ticks are
// scheduled, not busy-looped, so commands get absorbed between them.
const tickInterval = 16 * time.Millisecond

// Engine owns the live population, obstacle list, active strategy and
// spatial index, and runs the fixed per-tick sequence: rebuild index,
// run the strategy, run the anomaly detector, emit a snapshot.
//
// All state is confined to the Run goroutine; the boundary talks to the
// engine only through Do and Events.
type Engine struct {
	cfg       Config
	agents    []Agent
	obstacles []Obstacle
	strategy  Strategy
	grid      *Grid
	detector  *Detector
	tick      int
	running   bool
	debug     bool
	session   string

	rng *rand.Rand
	log *slog.Logger

	cmds chan Command

	// Events delivers Ready and Snapshot messages. Sends never block:
	// if the boundary falls behind, snapshots are dropped, not queued.
	Events chan Event
}

// NewEngine creates an engine around an injected random source. The
// source is deliberately caller-owned: production seeds it from the
// clock, tests from a constant.
func NewEngine(rng *rand.Rand, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cfg:      DefaultConfig(),
		detector: NewDetector(),
		rng:      rng,
		log:      log,
		cmds:     make(chan Command, 16),
		Events:   make(chan Event, 16),
	}
}

// Do queues a command for the engine loop. It blocks only if the command
// buffer is full.
func (e *Engine) Do(cmd Command) { e.cmds <- cmd }

// Close stops the Run loop after pending commands drain.
func (e *Engine) Close() { close(e.cmds) }

// Run drives the engine until Close. It is meant to be started on its
// own goroutine, isolating per-tick computation from the caller.
func (e *Engine) Run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case cmd, ok := <-e.cmds:
			if !ok {
				close(e.Events)
				return
			}
			e.handle(cmd)
		case <-ticker.C:
			if e.running {
				e.step()
			}
		}
	}
}

func (e *Engine) handle(cmd Command) {
	switch c := cmd.(type) {
	case Init:
		e.init(c)
	case Reconfigure:
		e.reconfigure(c.Patch)
	case SetObstacles:
		e.obstacles = c.Obstacles
		e.log.Debug("obstacles replaced", "count", len(c.Obstacles))
	case SetDebug:
		e.debug = c.Enabled
		e.log.Debug("debug toggled", "enabled", c.Enabled)
	case SetAgents:
		// Rollback path. Detector windows keep whatever future the
		// caller just discarded; preserved as observed behavior.
		e.agents = c.Agents
		e.log.Debug("population replaced", "count", len(c.Agents))
	case Play:
		e.running = true
		e.log.Info("play")
	case Pause:
		e.running = false
		e.log.Info("pause")
	case Step:
		if !e.running {
			e.step()
		}
	case Reset:
		e.reset(c.Config)
	}
}

func (e *Engine) init(c Init) {
	e.cfg = c.Config
	if e.cfg.AgentCount <= 0 {
		e.cfg = DefaultConfig()
	}
	e.obstacles = c.Obstacles
	if len(c.Agents) > 0 {
		e.agents = c.Agents
	} else {
		e.agents = e.spawn(e.cfg.AgentCount)
	}
	e.rebuildMachinery()
	e.detector = NewDetector()
	e.tick = 0
	e.session = uuid.NewString()

	e.log.Info("init",
		"session", e.session,
		"algorithm", e.cfg.Algorithm,
		"agents", len(e.agents),
		"obstacles", len(e.obstacles))

	e.emit(Ready{Session: e.session, Config: e.cfg})
	e.emit(Snapshot{Agents: e.agents, Tick: e.tick})
}

func (e *Engine) reconfigure(p ConfigPatch) {
	old := e.cfg
	e.cfg = e.cfg.Apply(p)
	if e.cfg.Algorithm != old.Algorithm || e.cfg.NeighborRadius != old.NeighborRadius {
		e.rebuildMachinery()
		e.log.Info("strategy recreated",
			"algorithm", e.cfg.Algorithm,
			"neighborRadius", e.cfg.NeighborRadius)
	}
}

func (e *Engine) reset(cfg Config) {
	// Obstacles survive a reset by explicit policy.
	if cfg.AgentCount > 0 {
		e.cfg = cfg
	}
	e.agents = e.spawn(e.cfg.AgentCount)
	e.rebuildMachinery()
	e.detector = NewDetector()
	e.tick = 0
	e.log.Info("reset", "agents", len(e.agents), "algorithm", e.cfg.Algorithm)
}

// rebuildMachinery recreates the strategy and spatial index from the
// current config, discarding all per-agent strategy memory.
func (e *Engine) rebuildMachinery() {
	e.strategy = NewStrategy(e.cfg.Algorithm, e.cfg, e.rng)
	e.grid = NewGrid(e.cfg.WorldWidth, e.cfg.WorldHeight, e.cfg.NeighborRadius)
}

// step runs one full tick: reindex, strategize, detect, emit. It is
// synchronous and runs to completion once started.
func (e *Engine) step() {
	if e.strategy == nil {
		return
	}
	e.grid.Rebuild(e.agents)
	next, dbg := e.strategy.Tick(e.agents, e.cfg, e.obstacles, e.grid, e.debug)
	e.detector.Apply(next)
	e.agents = next
	e.tick++
	e.emit(Snapshot{Agents: next, Tick: e.tick, Debug: dbg})
}

func (e *Engine) emit(ev Event) {
	select {
	case e.Events <- ev:
	default:
	}
}

// spawn creates n agents with dense ids, uniform random positions and
// random velocities below the configured speed cap.
func (e *Engine) spawn(n int) []Agent {
	agents := make([]Agent, n)
	for i := range agents {
		v := FromAngle(e.rng.Float64() * 2 * math.Pi).Scale(e.rng.Float64() * e.cfg.MaxSpeed)
		agents[i] = Agent{
			ID:      i,
			X:       e.rng.Float64() * e.cfg.WorldWidth,
			Y:       e.rng.Float64() * e.cfg.WorldHeight,
			VX:      v.X,
			VY:      v.Y,
			Heading: v.Heading(),
			State:   StateActive,
		}
	}
	return agents
}

package sim

import (
	"io"
	"log/slog"
	"math/rand"
	"reflect"
	"testing"
)

// Engine tests drive handle/step directly: the loop in Run only adds
// scheduling on top of these, and direct calls keep the tests
// deterministic.

func newTestEngine() *Engine {
	return NewEngine(
		rand.New(rand.NewSource(42)),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func drainEvents(e *Engine) []Event {
	var evs []Event
	for {
		select {
		case ev := <-e.Events:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func ptr[T any](v T) *T { return &v }

func TestInitSpawnsPopulation(t *testing.T) {
	e := newTestEngine()
	cfg := DefaultConfig()
	cfg.AgentCount = 25

	e.handle(Init{Config: cfg})

	if len(e.agents) != 25 {
		t.Errorf("expected 25 agents, got %d", len(e.agents))
	}
	if e.tick != 0 {
		t.Errorf("expected tick 0, got %d", e.tick)
	}
	for i, a := range e.agents {
		if a.ID != i {
			t.Fatalf("ids must be dense: agent %d has id %d", i, a.ID)
		}
		if a.X < 0 || a.X > cfg.WorldWidth || a.Y < 0 || a.Y > cfg.WorldHeight {
			t.Fatalf("agent %d spawned outside the world: (%f, %f)", i, a.X, a.Y)
		}
	}

	evs := drainEvents(e)
	if len(evs) != 2 {
		t.Fatalf("expected Ready + initial snapshot, got %d events", len(evs))
	}
	ready, ok := evs[0].(Ready)
	if !ok {
		t.Fatalf("first event should be Ready, got %T", evs[0])
	}
	if ready.Session == "" {
		t.Error("Ready should carry a session id")
	}
	snap, ok := evs[1].(Snapshot)
	if !ok {
		t.Fatalf("second event should be Snapshot, got %T", evs[1])
	}
	if snap.Tick != 0 || len(snap.Agents) != 25 {
		t.Errorf("initial snapshot: tick=%d agents=%d", snap.Tick, len(snap.Agents))
	}
}

func TestInitWithSeedPopulation(t *testing.T) {
	e := newTestEngine()
	seed := []Agent{{ID: 0, X: 1, Y: 2}, {ID: 1, X: 3, Y: 4}}

	e.handle(Init{Config: DefaultConfig(), Agents: seed})

	if len(e.agents) != 2 || e.agents[0].X != 1 {
		t.Errorf("seed population not adopted: %+v", e.agents)
	}
}

func TestStepWhilePaused(t *testing.T) {
	e := newTestEngine()
	e.handle(Init{Config: DefaultConfig()})
	drainEvents(e)

	e.handle(Step{})

	evs := drainEvents(e)
	if len(evs) != 1 {
		t.Fatalf("expected exactly one snapshot, got %d events", len(evs))
	}
	if snap := evs[0].(Snapshot); snap.Tick != 1 {
		t.Errorf("expected tick 1, got %d", snap.Tick)
	}
	if e.running {
		t.Error("step must not start the run loop")
	}
}

func TestStepIgnoredWhileRunning(t *testing.T) {
	e := newTestEngine()
	e.handle(Init{Config: DefaultConfig()})
	e.handle(Play{})
	drainEvents(e)

	e.handle(Step{})
	if evs := drainEvents(e); len(evs) != 0 {
		t.Errorf("step while running should be a no-op, got %d events", len(evs))
	}
}

func TestReconfigureMergesOnlySuppliedFields(t *testing.T) {
	e := newTestEngine()
	e.handle(Init{Config: DefaultConfig()})
	before := e.cfg

	e.handle(Reconfigure{Patch: ConfigPatch{MaxSpeed: ptr(5.0)}})

	if e.cfg.MaxSpeed != 5.0 {
		t.Errorf("supplied field not applied: %f", e.cfg.MaxSpeed)
	}
	want := before
	want.MaxSpeed = 5.0
	if e.cfg != want {
		t.Errorf("unsupplied fields changed:\n got %+v\nwant %+v", e.cfg, want)
	}
}

func TestReconfigureAlgorithmChangeWipesMemory(t *testing.T) {
	e := newTestEngine()
	cfg := DefaultConfig()
	cfg.Algorithm = AlgorithmForaging
	cfg.AgentCount = 10
	e.handle(Init{Config: cfg})
	e.handle(Step{})

	before, ok := e.strategy.(*foraging)
	if !ok {
		t.Fatalf("expected foraging strategy, got %T", e.strategy)
	}
	if len(before.mem) == 0 {
		t.Fatal("stepping should have created ant memory")
	}

	// Same algorithm, new neighbor radius: still a full recreation.
	e.handle(Reconfigure{Patch: ConfigPatch{NeighborRadius: ptr(90.0)}})

	after, ok := e.strategy.(*foraging)
	if !ok {
		t.Fatalf("expected foraging strategy, got %T", e.strategy)
	}
	if after == before {
		t.Fatal("strategy instance should have been recreated")
	}
	if len(after.mem) != 0 {
		t.Errorf("recreated strategy must start with empty memory, got %d records", len(after.mem))
	}
}

func TestReconfigureAlgorithmSwitch(t *testing.T) {
	e := newTestEngine()
	e.handle(Init{Config: DefaultConfig()})

	alg := AlgorithmSwarm
	e.handle(Reconfigure{Patch: ConfigPatch{Algorithm: &alg}})

	if _, ok := e.strategy.(*swarm); !ok {
		t.Errorf("expected swarm strategy after switch, got %T", e.strategy)
	}
}

func TestResetPreservesObstacles(t *testing.T) {
	e := newTestEngine()
	obstacles := []Obstacle{{ID: 1, X: 100, Y: 100, Radius: 30, Shape: ShapeCircle}}
	e.handle(Init{Config: DefaultConfig(), Obstacles: obstacles})
	e.handle(Step{})
	e.handle(Step{})

	cfg := DefaultConfig()
	cfg.AgentCount = 10
	e.handle(Reset{Config: cfg})

	if len(e.agents) != 10 {
		t.Errorf("expected 10 agents after reset, got %d", len(e.agents))
	}
	if e.tick != 0 {
		t.Errorf("expected tick 0 after reset, got %d", e.tick)
	}
	if !reflect.DeepEqual(e.obstacles, obstacles) {
		t.Errorf("obstacles must survive reset unchanged: %+v", e.obstacles)
	}
	if len(e.detector.windows) != 0 {
		t.Errorf("reset must clear position histories, %d remain", len(e.detector.windows))
	}
}

func TestSetObstaclesReplacesWholesale(t *testing.T) {
	e := newTestEngine()
	e.handle(Init{Config: DefaultConfig(), Obstacles: []Obstacle{{ID: 1}, {ID: 2}}})

	e.handle(SetObstacles{Obstacles: []Obstacle{{ID: 9}}})

	if len(e.obstacles) != 1 || e.obstacles[0].ID != 9 {
		t.Errorf("expected wholesale replace, got %+v", e.obstacles)
	}
}

func TestSetAgentsKeepsDetectorHistory(t *testing.T) {
	e := newTestEngine()
	cfg := DefaultConfig()
	cfg.AgentCount = 1
	e.handle(Init{Config: cfg})

	// Fill agent 0's window.
	for i := 0; i < historyCap; i++ {
		e.detector.Apply([]Agent{{ID: 0, X: 5, Y: 5}})
	}

	e.handle(SetAgents{Agents: []Agent{{ID: 0, X: 500, Y: 500}}})

	// Rollback deliberately leaves the window intact (see DESIGN.md), so
	// the replaced agent still carries a full history.
	w := e.detector.windows[0]
	if w == nil || w.n != historyCap {
		t.Error("population replacement must not touch detector windows")
	}
	if len(e.agents) != 1 || e.agents[0].X != 500 {
		t.Errorf("population not replaced: %+v", e.agents)
	}
}

func TestDebugTogglesBreakdown(t *testing.T) {
	e := newTestEngine()
	e.handle(Init{Config: DefaultConfig()})
	drainEvents(e)

	e.handle(Step{})
	if snap := drainEvents(e)[0].(Snapshot); snap.Debug != nil {
		t.Error("debug off: snapshot should carry no breakdown")
	}

	e.handle(SetDebug{Enabled: true})
	e.handle(Step{})
	snap := drainEvents(e)[0].(Snapshot)
	if len(snap.Debug) != len(snap.Agents) {
		t.Errorf("debug on: expected %d breakdowns, got %d", len(snap.Agents), len(snap.Debug))
	}

	e.handle(SetDebug{Enabled: false})
	e.handle(Step{})
	if snap := drainEvents(e)[0].(Snapshot); snap.Debug != nil {
		t.Error("debug off again: snapshot should carry no breakdown")
	}
}

func TestAnomalyOverrideInTickSequence(t *testing.T) {
	e := newTestEngine()
	cfg := DefaultConfig()
	cfg.AgentCount = 1
	cfg.MaxSpeed = 0 // agent cannot move, guaranteeing an anomaly
	e.handle(Init{Config: cfg})
	drainEvents(e)

	var last Snapshot
	for i := 0; i < historyCap; i++ {
		e.handle(Step{})
		last = drainEvents(e)[0].(Snapshot)
	}
	if last.Agents[0].State != StateAnomaly {
		t.Errorf("pinned agent should be anomalous after %d ticks, got %s",
			historyCap, last.Agents[0].State)
	}
}

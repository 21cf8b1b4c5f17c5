package sim

// Command is the closed set of messages the boundary may send the engine.
// Commands are absorbed between ticks, never mid-tick.
type Command interface{ isCommand() }

// Init chooses the strategy, seeds or spawns the population, sets the
// obstacle list and resets the tick counter. An empty Agents slice spawns
// Config.AgentCount fresh agents at random positions and velocities.
type Init struct {
	Config    Config
	Agents    []Agent
	Obstacles []Obstacle
}

// Reconfigure merges a partial config. Changing the algorithm selector or
// the neighbor radius recreates the strategy and spatial index, which
// implicitly discards all per-agent strategy memory.
type Reconfigure struct {
	Patch ConfigPatch
}

// SetObstacles replaces the obstacle list wholesale.
type SetObstacles struct {
	Obstacles []Obstacle
}

// SetDebug toggles per-tick debug breakdown computation and emission.
type SetDebug struct {
	Enabled bool
}

// SetAgents replaces the population wholesale (history rollback). The
// anomaly detector's windows are intentionally left untouched; see
// DESIGN.md.
type SetAgents struct {
	Agents []Agent
}

// Play resumes the cadence-driven loop.
type Play struct{}

// Pause stops it before the next scheduled tick.
type Pause struct{}

// Step runs exactly one tick while paused.
type Step struct{}

// Reset re-spawns a fresh population, clears all per-agent histories and
// strategy memory and zeroes the tick counter. The obstacle list is
// preserved by explicit policy.
type Reset struct {
	Config Config
}

func (Init) isCommand()         {}
func (Reconfigure) isCommand()  {}
func (SetObstacles) isCommand() {}
func (SetDebug) isCommand()     {}
func (SetAgents) isCommand()    {}
func (Play) isCommand()         {}
func (Pause) isCommand()        {}
func (Step) isCommand()         {}
func (Reset) isCommand()        {}

// Event is the closed set of messages the engine emits to the boundary.
type Event interface{ isEvent() }

// Ready is emitted once after Init completes, before the first snapshot.
type Ready struct {
	Session string `json:"session"`
	Config  Config `json:"config"`
}

// Snapshot carries one tick's output. Debug is present only while debug
// mode is enabled.
type Snapshot struct {
	Agents []Agent             `json:"agents"`
	Tick   int                 `json:"tick"`
	Debug  map[int]*AgentDebug `json:"debug,omitempty"`
}

func (Ready) isEvent()    {}
func (Snapshot) isEvent() {}

package sim

// Anomaly detection window: an agent whose net displacement over the last
// historyCap recorded positions falls below displacementMin is flagged.
const (
	historyCap      = 40
	displacementMin = 8.0
)

// Detector keeps a bounded position-history window per agent id and
// flags agents that have stopped making progress. Windows are created
// lazily and only discarded in bulk via Reset.
type Detector struct {
	windows map[int]*window
}

type window struct {
	buf  [historyCap]Vec
	head int
	n    int
}

func NewDetector() *Detector {
	return &Detector{windows: make(map[int]*window)}
}

// Apply records every agent's current position and overwrites the state
// of flagged agents with StateAnomaly. Agents with fewer than historyCap
// recorded samples are never flagged.
func (d *Detector) Apply(agents []Agent) {
	for i := range agents {
		if d.observe(agents[i].ID, agents[i].pos()) {
			agents[i].State = StateAnomaly
		}
	}
}

// observe appends p to the id's window and reports whether the agent is
// anomalous: window full and oldest-to-newest displacement below the
// threshold.
func (d *Detector) observe(id int, p Vec) bool {
	w, ok := d.windows[id]
	if !ok {
		w = &window{}
		d.windows[id] = w
	}
	w.buf[w.head] = p
	w.head = (w.head + 1) % historyCap
	if w.n < historyCap {
		w.n++
	}
	if w.n < historyCap {
		return false
	}
	// Full window: the slot about to be overwritten holds the oldest
	// sample; p is the newest.
	oldest := w.buf[w.head]
	return oldest.Dist(p) < displacementMin
}

// Reset discards all windows.
func (d *Detector) Reset() {
	d.windows = make(map[int]*window)
}

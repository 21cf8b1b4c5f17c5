package sim

import "math"

// Grid is a uniform spatial index over agent positions. It is rebuilt
// wholesale by the orchestrator every tick, so there is no incremental
// update or removal path. Cell size only affects lookup cost, never the
// result set; the orchestrator sizes cells to the neighbor radius.
type Grid struct {
	cellSize float64
	cols     int
	rows     int
	width    float64
	height   float64
	cells    [][]*Agent
}

// NewGrid creates a grid covering a width x height world.
func NewGrid(width, height, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(width/cellSize)) + 1
	rows := int(math.Ceil(height/cellSize)) + 1
	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    make([][]*Agent, cols*rows),
	}
}

// Rebuild discards prior contents and buckets every agent into the cell
// containing its position. Positions outside the world rectangle are
// clamped into the edge cells so they remain queryable.
func (g *Grid) Rebuild(agents []Agent) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for i := range agents {
		a := &agents[i]
		idx := g.cellIndex(a.X, a.Y)
		g.cells[idx] = append(g.cells[idx], a)
	}
}

// QueryRadius returns every indexed agent within r of (x, y), excluding
// excludeID (pass -1 to exclude nothing). A non-positive radius returns
// an empty result.
func (g *Grid) QueryRadius(x, y, r float64, excludeID int) []*Agent {
	if r <= 0 {
		return nil
	}
	var out []*Agent

	ring := int(math.Ceil(r / g.cellSize))
	centerCol := g.clampCol(int(math.Floor(x / g.cellSize)))
	centerRow := g.clampRow(int(math.Floor(y / g.cellSize)))
	rSq := r * r

	for dr := -ring; dr <= ring; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -ring; dc <= ring; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}
			for _, a := range g.cells[row*g.cols+col] {
				if a.ID == excludeID {
					continue
				}
				dx, dy := a.X-x, a.Y-y
				if dx*dx+dy*dy <= rSq {
					out = append(out, a)
				}
			}
		}
	}
	return out
}

func (g *Grid) cellIndex(x, y float64) int {
	col := g.clampCol(int(math.Floor(x / g.cellSize)))
	row := g.clampRow(int(math.Floor(y / g.cellSize)))
	return row*g.cols + col
}

func (g *Grid) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}

func (g *Grid) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= g.rows {
		return g.rows - 1
	}
	return r
}

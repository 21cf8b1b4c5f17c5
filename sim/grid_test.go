package sim

import (
	"math/rand"
	"sort"
	"testing"
)

// bruteRadius is the O(n) reference scan QueryRadius must match.
func bruteRadius(agents []Agent, x, y, r float64, excludeID int) []int {
	var ids []int
	for i := range agents {
		if agents[i].ID == excludeID {
			continue
		}
		dx, dy := agents[i].X-x, agents[i].Y-y
		if dx*dx+dy*dy <= r*r {
			ids = append(ids, agents[i].ID)
		}
	}
	sort.Ints(ids)
	return ids
}

func queriedIDs(found []*Agent) []int {
	ids := make([]int, 0, len(found))
	for _, a := range found {
		ids = append(ids, a.ID)
	}
	sort.Ints(ids)
	return ids
}

func TestQueryRadiusMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const w, h = 1200.0, 800.0

	agents := make([]Agent, 300)
	for i := range agents {
		agents[i] = Agent{ID: i, X: rng.Float64() * w, Y: rng.Float64() * h}
	}

	// Result must be independent of cell size.
	for _, cellSize := range []float64{10, 35, 70, 250} {
		g := NewGrid(w, h, cellSize)
		g.Rebuild(agents)
		for q := 0; q < 50; q++ {
			x, y := rng.Float64()*w, rng.Float64()*h
			r := rng.Float64() * 150
			exclude := rng.Intn(len(agents))

			want := bruteRadius(agents, x, y, r, exclude)
			got := queriedIDs(g.QueryRadius(x, y, r, exclude))
			if len(got) != len(want) {
				t.Fatalf("cell %v query (%f,%f,r=%f): got %d agents, want %d",
					cellSize, x, y, r, len(got), len(want))
			}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("cell %v: result mismatch at %d: got %v want %v",
						cellSize, i, got, want)
				}
			}
		}
	}
}

func TestQueryRadiusCrossesCells(t *testing.T) {
	agents := []Agent{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 60, Y: 0},
	}
	g := NewGrid(1200, 800, 50)
	g.Rebuild(agents)

	got := queriedIDs(g.QueryRadius(0, 0, 70, 0))
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected agent 1 despite different cell, got %v", got)
	}
}

func TestQueryRadiusNonPositive(t *testing.T) {
	agents := []Agent{{ID: 0, X: 10, Y: 10}}
	g := NewGrid(100, 100, 10)
	g.Rebuild(agents)

	if got := g.QueryRadius(10, 10, 0, -1); len(got) != 0 {
		t.Errorf("radius 0: expected empty, got %d", len(got))
	}
	if got := g.QueryRadius(10, 10, -5, -1); len(got) != 0 {
		t.Errorf("negative radius: expected empty, got %d", len(got))
	}
}

func TestQueryRadiusExclude(t *testing.T) {
	agents := []Agent{
		{ID: 0, X: 10, Y: 10},
		{ID: 1, X: 12, Y: 10},
	}
	g := NewGrid(100, 100, 10)
	g.Rebuild(agents)

	got := queriedIDs(g.QueryRadius(10, 10, 5, 0))
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected only agent 1, got %v", got)
	}
	all := queriedIDs(g.QueryRadius(10, 10, 5, -1))
	if len(all) != 2 {
		t.Errorf("exclude -1: expected both agents, got %v", all)
	}
}

func TestRebuildDiscards(t *testing.T) {
	g := NewGrid(100, 100, 10)
	g.Rebuild([]Agent{{ID: 0, X: 10, Y: 10}})
	g.Rebuild([]Agent{{ID: 1, X: 90, Y: 90}})

	if got := g.QueryRadius(10, 10, 5, -1); len(got) != 0 {
		t.Errorf("stale agent survived rebuild: %v", queriedIDs(got))
	}
}

func TestGridOutOfBoundsPositions(t *testing.T) {
	// Agents outside the world rectangle still land in edge cells and
	// remain queryable.
	agents := []Agent{{ID: 0, X: -30, Y: 900}}
	g := NewGrid(100, 100, 10)
	g.Rebuild(agents)

	got := queriedIDs(g.QueryRadius(-30, 900, 1, -1))
	if len(got) != 1 {
		t.Errorf("out-of-bounds agent not found: %v", got)
	}
}

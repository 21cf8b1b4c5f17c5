package sim

// Pheromone field constants. The cell size is fixed when the foraging
// strategy is created; the clamp and snap floor keep the field bounded
// and let evaporation reach exactly zero.
const (
	fieldCellSize    = 10.0
	fieldMax         = 12.0
	fieldFloor       = 0.01
	evaporationRate  = 0.993
	diffuseSelf      = 0.6
	diffuseNeighbor  = 0.05
	diffuseEveryTick = 4
)

// Field is a dense row-major grid of non-negative pheromone scalars.
// Out-of-bounds reads return 0; out-of-bounds writes are dropped.
type Field struct {
	cellSize float64
	cols     int
	rows     int
	cells    []float64
	scratch  []float64
}

// NewField covers a width x height world with cells of the given size.
func NewField(width, height, cellSize float64) *Field {
	if cellSize <= 0 {
		cellSize = fieldCellSize
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1
	return &Field{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([]float64, cols*rows),
		scratch:  make([]float64, cols*rows),
	}
}

// At samples the field at a world position.
func (f *Field) At(x, y float64) float64 {
	col, row, ok := f.cell(x, y)
	if !ok {
		return 0
	}
	return f.cells[row*f.cols+col]
}

// Deposit adds amount to the cell containing (x, y) and 30% of amount to
// its four cardinal neighbors, each additively clamped to the field max.
func (f *Field) Deposit(x, y, amount float64) {
	col, row, ok := f.cell(x, y)
	if !ok {
		return
	}
	f.add(col, row, amount)
	f.add(col-1, row, amount*0.3)
	f.add(col+1, row, amount*0.3)
	f.add(col, row-1, amount*0.3)
	f.add(col, row+1, amount*0.3)
}

// Evaporate decays every cell by the evaporation rate, snapping values
// below the floor to exactly zero.
func (f *Field) Evaporate() {
	for i, v := range f.cells {
		v *= evaporationRate
		if v < fieldFloor {
			v = 0
		}
		f.cells[i] = v
	}
}

// Diffuse blends each cell with its 8 neighbors (self weight 0.6,
// neighbors 0.05 each), normalizing by the weight actually present so
// edge cells do not leak mass to missing neighbors.
func (f *Field) Diffuse() {
	for row := 0; row < f.rows; row++ {
		for col := 0; col < f.cols; col++ {
			sum := f.cells[row*f.cols+col] * diffuseSelf
			weight := diffuseSelf
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					nc, nr := col+dc, row+dr
					if nc < 0 || nc >= f.cols || nr < 0 || nr >= f.rows {
						continue
					}
					sum += f.cells[nr*f.cols+nc] * diffuseNeighbor
					weight += diffuseNeighbor
				}
			}
			f.scratch[row*f.cols+col] = sum / weight
		}
	}
	f.cells, f.scratch = f.scratch, f.cells
}

func (f *Field) add(col, row int, amount float64) {
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return
	}
	idx := row*f.cols + col
	v := f.cells[idx] + amount
	if v > fieldMax {
		v = fieldMax
	}
	f.cells[idx] = v
}

func (f *Field) cell(x, y float64) (col, row int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col = int(x / f.cellSize)
	row = int(y / f.cellSize)
	if col >= f.cols || row >= f.rows {
		return 0, 0, false
	}
	return col, row, true
}

// total sums all cells; used by tests and the foraging debug output.
func (f *Field) total() float64 {
	var t float64
	for _, v := range f.cells {
		t += v
	}
	return t
}

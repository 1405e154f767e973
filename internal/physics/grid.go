package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase hit detection over the field.
// Items are inserted by position and index each pass, then the 3x3 cell
// neighborhood around a query point yields every candidate within one cell size.
//
// Positions outside the grid are clamped to the border cells. Clamping never
// increases the cell distance between two points, so candidates within
// cellSize of each other are still found.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of items that fall within a cell.
// The slice is reused between passes (reset to [:0]).
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a grid covering width x height.
// cellSize must be >= the largest interaction distance between an item and a query.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{}
	g.Reset(width, height, cellSize)
	return g
}

// Reset empties the grid and resizes it when the covered area or cell size
// changed. Cell memory is kept when the layout is unchanged.
func (g *SpatialGrid) Reset(width, height, cellSize float64) {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	if cols != g.cols || rows != g.rows || cellSize != g.cellSize {
		g.cellSize = cellSize
		g.invCellSize = 1.0 / cellSize
		g.cols = cols
		g.rows = rows
		g.cells = make([]gridCell, cols*rows)
		return
	}

	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 neighborhood around
// (x, y). If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.posToCell(x, y)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		rowOffset := r * g.cols
		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts field coordinates to a clamped cell position.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = clampCell(int(math.Floor(x*g.invCellSize)), g.cols)
	row = clampCell(int(math.Floor(y*g.invCellSize)), g.rows)
	return col, row
}

func clampCell(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

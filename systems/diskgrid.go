package systems

// diskGrid provides O(1) candidate lookups for disk queries using a
// cell-based grid over the terrain's XZ footprint. Each disk is inserted
// into every cell its footprint touches, so a circle query only has to
// test the disks registered in the covered cells.
type diskGrid struct {
	cellSize float32
	minX     float32
	minZ     float32
	cols     int
	rows     int
	cells    [][]int // disk indices per cell
}

// newDiskGrid builds a grid covering [minX,maxX]x[minZ,maxZ].
func newDiskGrid(minX, minZ, maxX, maxZ, cellSize float32) *diskGrid {
	if cellSize <= 0 {
		cellSize = 8
	}
	cols := int((maxX-minX)/cellSize) + 1
	rows := int((maxZ-minZ)/cellSize) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &diskGrid{
		cellSize: cellSize,
		minX:     minX,
		minZ:     minZ,
		cols:     cols,
		rows:     rows,
		cells:    make([][]int, cols*rows),
	}
}

// insert registers a disk footprint (center, radius) under index idx.
func (g *diskGrid) insert(idx int, x, z, radius float32) {
	c0, r0 := g.cell(x-radius, z-radius)
	c1, r1 := g.cell(x+radius, z+radius)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			i := row*g.cols + col
			g.cells[i] = append(g.cells[i], idx)
		}
	}
}

// queryCircle appends the indices of disks whose cells overlap the query
// circle to dst and returns it. Candidates may repeat across cells; callers
// do the exact per-disk test anyway, but dedup keeps that test cheap.
func (g *diskGrid) queryCircle(dst []int, x, z, radius float32) []int {
	c0, r0 := g.cell(x-radius, z-radius)
	c1, r1 := g.cell(x+radius, z+radius)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, idx := range g.cells[row*g.cols+col] {
				if !containsIndex(dst, idx) {
					dst = append(dst, idx)
				}
			}
		}
	}
	return dst
}

// cell maps a world XZ point to clamped grid coordinates.
func (g *diskGrid) cell(x, z float32) (col, row int) {
	col = int((x - g.minX) / g.cellSize)
	row = int((z - g.minZ) / g.cellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

func containsIndex(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

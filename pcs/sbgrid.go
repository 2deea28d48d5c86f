package pcs

// SBParams describes one super-block: its origin, size, completeness, and
// tile/edge membership. The SB grid is derived once per resolution from
// the SCS and never changes for the life of the session (§3).
type SBParams struct {
	OriginX, OriginY int
	Width, Height    int // May be less than SBSize at right/bottom edges.
	Complete         bool
	TileRow, TileCol int
	IsLeftEdge, IsRightEdge, IsTopEdge, IsBottomEdge bool

	// ChildValidMask marks which of the raster-scan child blocks within
	// this SB fall fully inside the picture, one bit per child block,
	// LSB-first in raster order.
	ChildValidMask uint64
}

// SBGrid is the constant-per-resolution array of SBParams, plus the tile
// boundaries used to assign TileRow/TileCol.
type SBGrid struct {
	SBSize      int
	Cols, Rows  int
	SBs         []SBParams
}

// At returns the SBParams for the SB at (col, row) in raster order.
func (g *SBGrid) At(col, row int) *SBParams {
	return &g.SBs[row*g.Cols+col]
}

// Total returns the number of SBs in the grid.
func (g *SBGrid) Total() int { return len(g.SBs) }

// NewSBGrid builds the SB grid for a picture of the given dimensions,
// assigning tile membership from tileRowsLog2/tileColsLog2 evenly-spaced
// tile boundaries.
func NewSBGrid(width, height uint, sbSize int, tileRowsLog2, tileColsLog2 int) SBGrid {
	cols := (int(width) + sbSize - 1) / sbSize
	rows := (int(height) + sbSize - 1) / sbSize
	tileRows := 1 << uint(tileRowsLog2)
	tileCols := 1 << uint(tileColsLog2)

	g := SBGrid{SBSize: sbSize, Cols: cols, Rows: rows, SBs: make([]SBParams, cols*rows)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			originX, originY := c*sbSize, r*sbSize
			w, h := sbSize, sbSize
			if originX+w > int(width) {
				w = int(width) - originX
			}
			if originY+h > int(height) {
				h = int(height) - originY
			}
			sb := SBParams{
				OriginX:  originX,
				OriginY:  originY,
				Width:    w,
				Height:   h,
				Complete: w == sbSize && h == sbSize,
				TileRow:  r * tileRows / rows,
				TileCol:  c * tileCols / cols,
				IsLeftEdge:   c == 0,
				IsRightEdge:  c == cols-1,
				IsTopEdge:    r == 0,
				IsBottomEdge: r == rows-1,
			}
			sb.ChildValidMask = childValidMask(w, h, sbSize)
			g.SBs[r*cols+c] = sb
		}
	}
	return g
}

// childValidMask computes the raster-scan child-block validity mask for
// an SB of actual size w×h within a nominal sbSize×sbSize grid, assuming
// 8x8 child blocks (the smallest AV1 partition unit tracked here).
func childValidMask(w, h, sbSize int) uint64 {
	const childSize = 8
	childrenPerSide := sbSize / childSize
	var mask uint64
	for cy := 0; cy < childrenPerSide; cy++ {
		for cx := 0; cx < childrenPerSide; cx++ {
			idx := cy*childrenPerSide + cx
			if idx >= 64 {
				continue
			}
			if cx*childSize < w && cy*childSize < h {
				mask |= 1 << uint(idx)
			}
		}
	}
	return mask
}

package terrain

import (
	"math"
	"math/rand"
)

// Index answers planar queries over the columns of one generation pass.
// Scans are linear and visit columns in generation order, so the first
// column wins ties.
type Index struct {
	columns []*Column
}

func NewIndex(columns []*Column) *Index {
	return &Index{columns: columns}
}

func (ix *Index) Len() int {
	return len(ix.columns)
}

func (ix *Index) At(i int) *Column {
	return ix.columns[i]
}

func (ix *Index) Columns() []*Column {
	return ix.columns
}

// Nearest returns the column whose centre is closest to (x, z) on the XZ plane.
func (ix *Index) Nearest(x, z float32) (*Column, bool) {
	var best *Column
	bestDist := math.Inf(1)
	for _, c := range ix.columns {
		if d := planarDistSq(c, x, z); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != nil
}

// WithinRadius returns the columns around (x, z), other than the nearest
// one, that are at most maxDistance away and whose height differs from the
// nearest column's by at most maxHeightDiff.
func (ix *Index) WithinRadius(x, z, maxDistance, maxHeightDiff float32) []*Column {
	current, ok := ix.Nearest(x, z)
	if !ok {
		return nil
	}
	maxSq := float64(maxDistance) * float64(maxDistance)
	var out []*Column
	for _, c := range ix.columns {
		if c == current {
			continue
		}
		if planarDistSq(c, x, z) > maxSq {
			continue
		}
		if math.Abs(float64(c.Height-current.Height)) > float64(maxHeightDiff) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Random picks a column uniformly.
func (ix *Index) Random(r *rand.Rand) (*Column, bool) {
	if len(ix.columns) == 0 {
		return nil, false
	}
	return ix.columns[r.Intn(len(ix.columns))], true
}

func planarDistSq(c *Column, x, z float32) float64 {
	dx := float64(c.X - x)
	dz := float64(c.Z - z)
	return dx*dx + dz*dz
}

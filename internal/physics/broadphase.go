package physics

import "math"

// Spatial grid cell size - statics overlapping the same cells as a dynamic body are checked
const CellSize = 5.0

// Statics spanning more cells than this per axis go to the always-checked list.
const maxCellsPerAxis = 8

// CellKey addresses one column of the static grid on the XZ plane.
type CellKey struct {
	X, Z int
}

func cellCoord(v float32) int {
	return int(math.Floor(float64(v / CellSize)))
}

// staticGrid buckets static bodies by their XZ footprint.
type staticGrid struct {
	cells map[CellKey][]*Body
	large []*Body
	seen  map[BodyID]struct{}
}

func newStaticGrid() *staticGrid {
	return &staticGrid{
		cells: make(map[CellKey][]*Body),
		seen:  make(map[BodyID]struct{}),
	}
}

func cellRange(box AABB) (minX, minZ, maxX, maxZ int) {
	return cellCoord(box.Min.X), cellCoord(box.Min.Z), cellCoord(box.Max.X), cellCoord(box.Max.Z)
}

func (g *staticGrid) insert(b *Body) {
	minX, minZ, maxX, maxZ := cellRange(b.AABB())
	if maxX-minX >= maxCellsPerAxis || maxZ-minZ >= maxCellsPerAxis {
		g.large = append(g.large, b)
		return
	}
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			key := CellKey{x, z}
			g.cells[key] = append(g.cells[key], b)
		}
	}
}

func (g *staticGrid) remove(b *Body) {
	for i, other := range g.large {
		if other == b {
			g.large = append(g.large[:i], g.large[i+1:]...)
			return
		}
	}
	minX, minZ, maxX, maxZ := cellRange(b.AABB())
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			key := CellKey{x, z}
			list := g.cells[key]
			for i, other := range list {
				if other == b {
					list = append(list[:i], list[i+1:]...)
					break
				}
			}
			if len(list) == 0 {
				delete(g.cells, key)
			} else {
				g.cells[key] = list
			}
		}
	}
}

// query calls visit once for every static whose cells overlap box.
func (g *staticGrid) query(box AABB, visit func(*Body)) {
	clear(g.seen)
	for _, b := range g.large {
		visit(b)
	}
	minX, minZ, maxX, maxZ := cellRange(box)
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			for _, b := range g.cells[CellKey{x, z}] {
				if _, ok := g.seen[b.ID]; ok {
					continue
				}
				g.seen[b.ID] = struct{}{}
				visit(b)
			}
		}
	}
}

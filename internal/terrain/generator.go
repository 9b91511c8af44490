package terrain

import (
	"log"
	"math"

	"pillarhop/internal/noise"
	"pillarhop/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// SafetyFloorY is the height of the catch floor below the terrain.
	SafetyFloorY = -30
	// WaterOffset lifts the water plane above the lowest column top.
	WaterOffset = 0.5

	safetyFloorHalfSize = 500
)

// Generator builds the tessellated column grid and keeps the matching
// static bodies in the physics world. A nil world generates columns only.
type Generator struct {
	world    *physics.World
	material *physics.Material
	field    *noise.Field

	opts       Options
	columns    []*Column
	index      *Index
	goal       int
	marker     Marker
	floor      *physics.Body
	lowest     float32
	width      float32
	rowSpacing float32
}

func NewGenerator(world *physics.World, material *physics.Material) *Generator {
	return &Generator{
		world:    world,
		material: material,
		index:    NewIndex(nil),
		goal:     -1,
	}
}

// Generate replaces the current terrain with a new pass built from opts and
// returns the columns together with the goal index. Invalid options yield no
// columns and a goal index of -1.
func (g *Generator) Generate(opts Options) ([]*Column, int) {
	g.Clear()

	opts = opts.WithDefaults()
	g.opts = opts
	if !opts.Valid() {
		log.Printf("Terrain: nothing to generate for %s", opts)
		return nil, -1
	}
	if g.field == nil || g.field.Seed() != opts.Seed {
		g.field = noise.New(opts.Seed)
	}

	g.width = opts.ColumnBaseSize * opts.Spacing
	g.rowSpacing = g.width * float32(math.Sqrt(3)) / 2
	radius := opts.ColumnBaseSize / 2
	buffer := opts.padding()

	g.columns = make([]*Column, 0, opts.ColumnCount())
	g.lowest = float32(math.Inf(1))
	for row := -buffer; row < opts.Rows+buffer; row++ {
		for col := -buffer; col < opts.Cols+buffer; col++ {
			x := float32(col) * g.width
			z := float32(row) * g.rowSpacing
			g.addColumn(x, z, radius, Standard)
			g.addColumn(x+g.width/2, z+g.rowSpacing/2, radius, Inverted)
		}
	}
	g.index = NewIndex(g.columns)

	g.goal = g.pickGoal()
	goal := g.columns[g.goal]
	goal.IsGoal = true
	if goal.Body != nil {
		goal.Body.Tags |= physics.TagGoal
	}
	g.marker = newMarker(goal)

	if g.world != nil {
		floor := physics.NewBox(rl.Vector3{X: safetyFloorHalfSize, Y: 0.5, Z: safetyFloorHalfSize})
		floor.Position = rl.Vector3{Y: SafetyFloorY}
		floor.Tags = physics.TagSafetyFloor
		floor.Material = g.material
		g.floor = g.world.AddBody(floor)
	}

	log.Printf("Terrain: generated %d columns (%s), goal #%d at (%.1f, %.1f), lowest %.2f",
		len(g.columns), opts, g.goal, goal.X, goal.Z, g.lowest)
	return g.columns, g.goal
}

func (g *Generator) addColumn(x, z, radius float32, o Orientation) {
	elevation := noise.Normalize(g.field.Sample(float64(x*g.opts.NoiseScale), float64(z*g.opts.NoiseScale)))
	height := float32(elevation)*g.opts.HeightScale + g.opts.BaseHeight

	c := &Column{
		Index:       len(g.columns),
		X:           x,
		Z:           z,
		Height:      height,
		Radius:      radius,
		Orientation: o,
		Elevation:   float32(elevation),
	}
	if height < g.lowest {
		g.lowest = height
	}

	if g.world != nil {
		body := physics.NewPrism(radius, height)
		body.Position = c.Center()
		body.Tags = physics.TagTerrain
		body.Material = g.material
		body.UserData = c
		c.Body = g.world.AddBody(body)
	}
	g.columns = append(g.columns, c)
}

func (g *Generator) pickGoal() int {
	if g.opts.GoalPolicy != GoalFarCorner {
		return len(g.columns) - 1
	}
	return farthestFromOrigin(g.columns)
}

// farthestFromOrigin returns the index of the column with the greatest
// planar distance from the origin. The first one wins ties.
func farthestFromOrigin(cols []*Column) int {
	best, bestDist := 0, -1.0
	for i, c := range cols {
		if d := planarDistSq(c, 0, 0); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Clear removes every column body and the safety floor from the world and
// empties the index.
func (g *Generator) Clear() {
	if g.world != nil {
		for _, c := range g.columns {
			g.world.RemoveBody(c.Body)
		}
		g.world.RemoveBody(g.floor)
	}
	g.columns = nil
	g.index = NewIndex(nil)
	g.goal = -1
	g.marker = Marker{}
	g.floor = nil
	g.lowest = 0
}

func (g *Generator) Columns() []*Column {
	return g.columns
}

func (g *Generator) Index() *Index {
	return g.index
}

func (g *Generator) Options() Options {
	return g.opts
}

// Goal returns the goal column, if any terrain exists.
func (g *Generator) Goal() (*Column, bool) {
	if g.goal < 0 || g.goal >= len(g.columns) {
		return nil, false
	}
	return g.columns[g.goal], true
}

func (g *Generator) GoalMarker() (Marker, bool) {
	_, ok := g.Goal()
	return g.marker, ok
}

// LowestPoint is the smallest column height of the current pass.
func (g *Generator) LowestPoint() float32 {
	return g.lowest
}

// WaterLevel is the height of the cosmetic water plane.
func (g *Generator) WaterLevel() float32 {
	return g.lowest + WaterOffset
}

// SafetyFloor returns the static catch floor, or nil when there is none.
func (g *Generator) SafetyFloor() *physics.Body {
	return g.floor
}

// Spacing returns the horizontal column pitch and the row pitch.
func (g *Generator) Spacing() (width, rowSpacing float32) {
	return g.width, g.rowSpacing
}

// Bounds returns the XZ extent covered by column centres.
func (g *Generator) Bounds() (lo, hi rl.Vector2) {
	if len(g.columns) == 0 {
		return rl.Vector2{}, rl.Vector2{}
	}
	lo = rl.Vector2{X: g.columns[0].X, Y: g.columns[0].Z}
	hi = lo
	for _, c := range g.columns[1:] {
		lo.X, lo.Y = min(lo.X, c.X), min(lo.Y, c.Z)
		hi.X, hi.Y = max(hi.X, c.X), max(hi.Y, c.Z)
	}
	return lo, hi
}

package terrain

import (
	"math"
	"testing"

	"pillarhop/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func testOptions(rows, cols int) Options {
	return Options{Rows: rows, Cols: cols, ColumnBaseSize: 2, MaxHeight: 10, Spacing: 2, Seed: 1}
}

func TestGenerateColumnCount(t *testing.T) {
	sizes := [][2]int{{1, 1}, {1, 5}, {3, 2}, {5, 5}}
	for _, size := range sizes {
		g := NewGenerator(nil, nil)
		cols, goal := g.Generate(testOptions(size[0], size[1]))

		want := 2 * (size[0] + 2*DefaultBuffer) * (size[1] + 2*DefaultBuffer)
		if len(cols) != want {
			t.Errorf("%dx%d: expected %d columns, got %d", size[0], size[1], want, len(cols))
		}
		if goal < 0 || goal >= len(cols) {
			t.Errorf("%dx%d: expected a valid goal index, got %d", size[0], size[1], goal)
		}
	}
}

func TestGenerateTessellationLayout(t *testing.T) {
	g := NewGenerator(nil, nil)
	cols, _ := g.Generate(testOptions(2, 3))
	width, rowSpacing := g.Spacing()

	if width != 4 {
		t.Errorf("Expected width 4, got %f", width)
	}
	if abs32(rowSpacing-width*float32(math.Sqrt(3))/2) > 1e-5 {
		t.Errorf("Expected row spacing width*sqrt(3)/2, got %f", rowSpacing)
	}

	for i := 0; i+1 < len(cols); i += 2 {
		std, inv := cols[i], cols[i+1]
		if std.Orientation != Standard || inv.Orientation != Inverted {
			t.Fatalf("Expected standard/inverted pair at %d, got %v/%v", i, std.Orientation, inv.Orientation)
		}
		if abs32(inv.X-std.X-width/2) > 1e-4 || abs32(inv.Z-std.Z-rowSpacing/2) > 1e-4 {
			t.Errorf("Pair %d: expected offset (%f, %f), got (%f, %f)", i/2, width/2, rowSpacing/2, inv.X-std.X, inv.Z-std.Z)
		}
		if std.Radius != 1 || inv.Radius != 1 {
			t.Errorf("Expected radius 1, got %f/%f", std.Radius, inv.Radius)
		}
	}

	// Standard columns step one width along a row.
	perRow := 3 + 2*DefaultBuffer
	for i := 0; i+1 < perRow; i++ {
		a, b := cols[2*i], cols[2*(i+1)]
		if abs32(b.X-a.X-width) > 1e-4 || a.Z != b.Z {
			t.Errorf("Expected neighbouring standard columns one width apart, got %f", b.X-a.X)
		}
	}
	// and one row spacing between rows.
	if dz := cols[2*perRow].Z - cols[0].Z; abs32(dz-rowSpacing) > 1e-4 {
		t.Errorf("Expected rows %f apart, got %f", rowSpacing, dz)
	}
}

func TestGenerateGoalUniqueness(t *testing.T) {
	for _, policy := range []GoalPolicy{GoalLast, GoalFarCorner} {
		world := physics.NewWorld(physics.DefaultConfig())
		g := NewGenerator(world, &physics.Material{Name: "terrain"})
		opts := testOptions(4, 6)
		opts.GoalPolicy = policy
		cols, goalIndex := g.Generate(opts)

		goals := 0
		for _, c := range cols {
			if c.IsGoal {
				goals++
			}
		}
		if goals != 1 {
			t.Errorf("%s: expected exactly 1 goal column, got %d", policy, goals)
		}

		tagged := 0
		for _, b := range world.Bodies() {
			if b.Tags.Has(physics.TagGoal) {
				tagged++
			}
		}
		if tagged != 1 {
			t.Errorf("%s: expected exactly 1 goal body, got %d", policy, tagged)
		}
		if !cols[goalIndex].IsGoal || !cols[goalIndex].Body.Tags.Has(physics.TagGoal|physics.TagTerrain) {
			t.Errorf("%s: goal index does not point at the goal column", policy)
		}
	}
}

func TestGoalPolicies(t *testing.T) {
	g := NewGenerator(nil, nil)
	cols, goal := g.Generate(testOptions(3, 3))
	if goal != len(cols)-1 {
		t.Errorf("Expected last column as goal, got %d of %d", goal, len(cols))
	}

	opts := testOptions(3, 3)
	opts.GoalPolicy = GoalFarCorner
	cols, goal = g.Generate(opts)
	for _, c := range cols {
		if planarDistSq(c, 0, 0) > planarDistSq(cols[goal], 0, 0) {
			t.Fatalf("Column %d is farther from the origin than goal %d", c.Index, goal)
		}
	}
	marker, ok := g.GoalMarker()
	if !ok {
		t.Fatal("Expected a goal marker")
	}
	top := cols[goal].Top()
	if marker.Base.X != top.X || marker.Base.Z != top.Z || marker.Base.Y <= top.Y || marker.Height != 200 {
		t.Errorf("Expected marker above the goal, got %+v", marker)
	}
}

func TestFarthestFromOrigin(t *testing.T) {
	cols := []*Column{
		{Index: 0, X: 6, Z: 6},
		{Index: 1, X: 10, Z: 0},
		{Index: 2, X: 0, Z: -10},
		{Index: 3, X: 2, Z: 3},
	}
	// (6, 6) has the larger X+Z but sits closer to the origin; (0, -10) ties
	// with (10, 0) and loses to the earlier column.
	if got := farthestFromOrigin(cols); got != 1 {
		t.Errorf("Expected column 1, got %d", got)
	}
	if got := farthestFromOrigin(cols[3:]); got != 0 {
		t.Errorf("Expected the only column, got %d", got)
	}
}

func TestGenerateHeightRange(t *testing.T) {
	g := NewGenerator(nil, nil)
	opts := testOptions(10, 10)
	cols, _ := g.Generate(opts)

	full := opts.WithDefaults()
	lowest := float32(math.Inf(1))
	for _, c := range cols {
		if c.Height < full.BaseHeight || c.Height > full.BaseHeight+full.HeightScale {
			t.Errorf("Column %d height %f outside [%f, %f]", c.Index, c.Height, full.BaseHeight, full.BaseHeight+full.HeightScale)
		}
		lowest = min(lowest, c.Height)
	}
	if g.LowestPoint() != lowest {
		t.Errorf("Expected lowest point %f, got %f", lowest, g.LowestPoint())
	}
	if g.WaterLevel() != lowest+WaterOffset {
		t.Errorf("Expected water level %f, got %f", lowest+WaterOffset, g.WaterLevel())
	}
}

func TestGenerateInvalidOptions(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	g := NewGenerator(world, nil)

	bad := []Options{
		{Rows: 0, Cols: 5, ColumnBaseSize: 2, Spacing: 2},
		{Rows: 5, Cols: -1, ColumnBaseSize: 2, Spacing: 2},
		{Rows: 5, Cols: 5, ColumnBaseSize: 2, Spacing: 0},
	}
	for _, opts := range bad {
		cols, goal := g.Generate(opts)
		if len(cols) != 0 || goal != -1 {
			t.Errorf("Expected no columns and goal -1 for %s, got %d/%d", opts, len(cols), goal)
		}
		if _, ok := g.Goal(); ok {
			t.Error("Expected no goal for invalid options")
		}
		if _, ok := g.Index().Nearest(0, 0); ok {
			t.Error("Expected empty index for invalid options")
		}
	}
	if world.BodyCount() != 0 {
		t.Errorf("Expected no bodies, got %d", world.BodyCount())
	}
}

func TestRegenerateClearsPreviousBodies(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	g := NewGenerator(world, nil)

	first, _ := g.Generate(testOptions(3, 3))
	if world.BodyCount() != len(first)+1 {
		t.Fatalf("Expected %d bodies (columns + floor), got %d", len(first)+1, world.BodyCount())
	}

	opts := testOptions(2, 2)
	opts.Seed = 99
	second, _ := g.Generate(opts)
	if world.BodyCount() != len(second)+1 {
		t.Errorf("Expected %d bodies after regeneration, got %d", len(second)+1, world.BodyCount())
	}
	for _, c := range first {
		if c.Body.InWorld() {
			t.Fatalf("Stale body from column %d still in the world", c.Index)
		}
	}

	g.Clear()
	if world.BodyCount() != 0 || len(g.Columns()) != 0 {
		t.Errorf("Expected empty world after Clear, got %d bodies", world.BodyCount())
	}
}

func TestGenerateBodiesMatchColumns(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	g := NewGenerator(world, nil)
	cols, _ := g.Generate(testOptions(2, 2))

	for _, c := range cols {
		b := c.Body
		if b.Shape != physics.ShapePrism || !b.IsStatic() {
			t.Fatalf("Expected static prism for column %d", c.Index)
		}
		if b.Position.Y != c.Height/2 || b.Height != c.Height || b.Radius != c.Radius {
			t.Errorf("Column %d body does not match: %+v", c.Index, b.Position)
		}
		if b.UserData.(*Column) != c {
			t.Errorf("Column %d body does not point back at its column", c.Index)
		}
	}
	floor := g.SafetyFloor()
	if floor == nil || !floor.Tags.Has(physics.TagSafetyFloor) || floor.Position.Y != SafetyFloorY {
		t.Errorf("Expected safety floor at y=%d", SafetyFloorY)
	}
}

func TestGenerateDeterministicPerSeed(t *testing.T) {
	a, _ := NewGenerator(nil, nil).Generate(testOptions(4, 4))
	b, _ := NewGenerator(nil, nil).Generate(testOptions(4, 4))
	for i := range a {
		if a[i].Height != b[i].Height {
			t.Fatalf("Expected identical heights for the same seed at %d", i)
		}
	}

	opts := testOptions(4, 4)
	opts.Seed = 2
	c, _ := NewGenerator(nil, nil).Generate(opts)
	differ := false
	for i := range a {
		if a[i].Height != c[i].Height {
			differ = true
			break
		}
	}
	if !differ {
		t.Error("Expected a new seed to change the terrain")
	}
}

func TestColumnTint(t *testing.T) {
	low := &Column{Elevation: 0}
	high := &Column{Elevation: 1}
	goal := &Column{Elevation: 0.5, IsGoal: true}

	if low.Tint() != rl.NewColor(0xbb, 0xbb, 0xbb, 0xff) {
		t.Errorf("Expected low tint, got %v", low.Tint())
	}
	if high.Tint() != rl.NewColor(0x88, 0xaa, 0xff, 0xff) {
		t.Errorf("Expected high tint, got %v", high.Tint())
	}
	if goal.Tint() != rl.NewColor(0, 0xff, 0, 0xff) {
		t.Errorf("Expected goal tint, got %v", goal.Tint())
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

package terrain

import "fmt"

// GoalPolicy decides which column becomes the goal.
type GoalPolicy string

const (
	// GoalLast picks the last column generated.
	GoalLast GoalPolicy = "last"
	// GoalFarCorner picks the column farthest from the origin.
	GoalFarCorner GoalPolicy = "far-corner"
)

// DefaultBuffer is the number of extra rows and columns generated on
// every side of the playable grid.
const DefaultBuffer = 4

// Options controls one generation pass. NoiseScale, HeightScale,
// BaseHeight and Buffer are derived from the others when left at zero.
// A negative Buffer disables the padding.
type Options struct {
	Rows           int        `yaml:"rows"`
	Cols           int        `yaml:"cols"`
	ColumnBaseSize float32    `yaml:"column_base_size"`
	MaxHeight      float32    `yaml:"max_height"`
	Spacing        float32    `yaml:"spacing"`
	NoiseScale     float32    `yaml:"noise_scale"`
	HeightScale    float32    `yaml:"height_scale"`
	BaseHeight     float32    `yaml:"base_height"`
	Buffer         int        `yaml:"buffer"`
	Seed           int64      `yaml:"seed"`
	GoalPolicy     GoalPolicy `yaml:"goal_policy"`
}

// WithDefaults fills derived values left at zero.
func (o Options) WithDefaults() Options {
	if o.NoiseScale == 0 {
		o.NoiseScale = 0.1
	}
	if o.HeightScale == 0 {
		o.HeightScale = 0.7 * o.MaxHeight
	}
	if o.BaseHeight == 0 {
		o.BaseHeight = 0.3 * o.MaxHeight
	}
	if o.Buffer == 0 {
		o.Buffer = DefaultBuffer
	}
	if o.GoalPolicy == "" {
		o.GoalPolicy = GoalLast
	}
	return o
}

// Valid reports whether the options describe a non-empty grid.
func (o Options) Valid() bool {
	return o.Rows > 0 && o.Cols > 0 && o.Spacing > 0 && o.ColumnBaseSize > 0
}

// ColumnCount is the number of columns a valid pass produces.
func (o Options) ColumnCount() int {
	if !o.Valid() {
		return 0
	}
	b := o.padding()
	return 2 * (o.Rows + 2*b) * (o.Cols + 2*b)
}

func (o Options) String() string {
	return fmt.Sprintf("%dx%d base=%.2f max=%.2f spacing=%.2f seed=%d", o.Rows, o.Cols, o.ColumnBaseSize, o.MaxHeight, o.Spacing, o.Seed)
}

func (o Options) padding() int {
	return max(o.Buffer, 0)
}

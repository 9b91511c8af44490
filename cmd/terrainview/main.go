// Command terrainview prints a top-down height map of each configured level
// in the terminal. n/p switch levels, s reseeds, q or Esc quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"pillarhop/internal/config"
	"pillarhop/internal/physics"
	"pillarhop/internal/terrain"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type viewer struct {
	screen tcell.Screen
	cfg    config.Game
	gen    *terrain.Generator
	level  int
	seed   int64
}

// cell is one column projected onto the terminal grid.
type cell struct {
	x, y int
	col  *terrain.Column
}

const statusRows = 2

func main() {
	configPath := flag.String("config", "", "settings file (default: config/game.yaml, else the built-in settings)")
	flag.Parse()

	var (
		cfg config.Game
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load(config.DefaultFile)
	}
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Terrain: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Terrain: %v", err)
	}
	defer screen.Fini()

	v := &viewer{
		screen: screen,
		cfg:    cfg,
		gen:    terrain.NewGenerator(physics.NewWorld(cfg.Physics), &physics.Material{Name: "terrain"}),
	}
	v.load(0)
	v.run()
}

func (v *viewer) load(i int) {
	n := len(v.cfg.Levels)
	v.level = ((i % n) + n) % n
	v.seed = v.cfg.Levels[v.level].Terrain.Seed
	v.generate()
}

func (v *viewer) generate() {
	opts := v.cfg.Levels[v.level].Terrain
	opts.Seed = v.seed
	v.gen.Generate(opts)
}

func (v *viewer) run() {
	for {
		v.draw()
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return
			}
			if ev.Key() != tcell.KeyRune {
				continue
			}
			switch ev.Rune() {
			case 'q':
				return
			case 'n':
				v.load(v.level + 1)
			case 'p':
				v.load(v.level - 1)
			case 's':
				v.seed++
				v.generate()
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
	}
}

func (v *viewer) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()

	lo, hi := v.gen.Bounds()
	for _, c := range layout(v.gen.Columns(), lo, hi, width, height-statusRows) {
		v.screen.SetContent(c.x, c.y, glyph(c.col), nil, styleFor(c.col))
	}

	lvl := v.cfg.Levels[v.level]
	status := fmt.Sprintf("%d/%d %s  seed %d  %d columns  lowest %.1f",
		v.level+1, len(v.cfg.Levels), lvl.Name, v.seed, len(v.gen.Columns()), v.gen.LowestPoint())
	if goal, ok := v.gen.Goal(); ok {
		status += fmt.Sprintf("  goal #%d h=%.1f", goal.Index, goal.Height)
	}
	drawString(v.screen, 0, height-2, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	drawString(v.screen, 0, height-1, "n/p level  s reseed  q quit", tcell.StyleDefault.Foreground(tcell.ColorGray))
	v.screen.Show()
}

// layout maps column centres from the XZ bounds onto a width x height grid.
func layout(cols []*terrain.Column, lo, hi rl.Vector2, width, height int) []cell {
	if width <= 0 || height <= 0 {
		return nil
	}
	project := func(v, min, max float32, size int) int {
		if max <= min {
			return 0
		}
		return int(math.Round(float64((v - min) / (max - min) * float32(size-1))))
	}
	cells := make([]cell, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, cell{
			x:   project(c.X, lo.X, hi.X, width),
			y:   project(c.Z, lo.Y, hi.Y, height),
			col: c,
		})
	}
	return cells
}

// glyph shows the column's elevation as a digit, or G for the goal.
func glyph(c *terrain.Column) rune {
	if c.IsGoal {
		return 'G'
	}
	d := int(c.Elevation * 10)
	return rune('0' + min(max(d, 0), 9))
}

func styleFor(c *terrain.Column) tcell.Style {
	t := c.Tint()
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(t.R), int32(t.G), int32(t.B)))
	if c.IsGoal {
		style = style.Background(tcell.ColorDarkGreen).Bold(true)
	}
	return style
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

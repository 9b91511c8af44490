package game

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"pillarhop/internal/camera"
	"pillarhop/internal/config"
	"pillarhop/internal/level"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Game struct {
	Manager   *level.Manager
	Camera    *camera.Follow
	Renderer  *Renderer
	DebugMode bool
	ShowReach bool

	cfgPath string
	watcher *config.Watcher
	quit    bool

	toast      string
	toastUntil float64

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

// New wires a game around cfg. cfgPath is the explicit settings file, or
// empty to use the config directory with the embedded fallback.
func New(cfg config.Game, cfgPath string) *Game {
	cam := camera.NewFollow()
	g := &Game{
		Manager:  level.New(cfg, cam),
		Camera:   cam,
		Renderer: NewRenderer(),
		cfgPath:  cfgPath,
	}

	g.Manager.OnLevelLoaded.AddListener(func(i int) {
		g.Camera.Snap(g.Manager.Player().Position())
		g.notify(fmt.Sprintf("Level %d: %s", i+1, g.Manager.Config().Levels[i].Name))
	})
	g.Manager.OnPlayerHit.AddListener(func() {
		g.notify(fmt.Sprintf("Hit! %d lives left", g.Manager.Lives()))
	})
	g.Manager.OnFellOff.AddListener(func() {
		g.notify("Fell off")
	})
	g.Manager.Balls().OnBounce.AddListener(func(p rl.Vector3) {
		g.Renderer.AddBounce(p, rl.GetTime())
	})
	return g
}

func (g *Game) Run() error {
	w := g.Manager.Config().Window
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(w.Width, w.Height, w.Title)
	defer rl.CloseWindow()

	// Escape pauses instead of closing the window.
	rl.SetExitKey(0)
	rl.SetTargetFPS(w.TargetFPS)

	g.Renderer.Load()
	defer g.Renderer.Unload()
	initRayguiStyle()

	if err := g.Manager.LoadLevel(0); err != nil {
		return err
	}
	defer g.Manager.Close()

	g.startWatcher()
	defer g.stopWatcher()

	for !rl.WindowShouldClose() && !g.quit {
		g.Update()
		g.Draw()
	}
	return nil
}

func (g *Game) Update() {
	updateStart := time.Now()
	deltaTime := rl.GetFrameTime()

	g.handleKeys()
	g.handleCamera(deltaTime)
	g.handleClick()

	g.Manager.SetInput(readInput())
	g.Manager.Tick(deltaTime)

	if body := g.Manager.Player().Body(); body != nil {
		g.Camera.Update(body.Position, deltaTime)
	}
	g.Renderer.Update(rl.GetTime())
	g.pollReload()

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) Draw() {
	cam := g.Camera.GetRaylibCamera()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	drawStart := time.Now()
	rl.BeginMode3D(cam)
	g.Renderer.Draw(g.Manager, g.reachable(), rl.GetTime())
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) reachable() map[int]bool {
	if !g.ShowReach {
		return nil
	}
	cols := g.Manager.JumpableColumns()
	set := make(map[int]bool, len(cols))
	for _, c := range cols {
		set[c.Index] = true
	}
	return set
}

func (g *Game) notify(msg string) {
	g.toast = msg
	g.toastUntil = rl.GetTime() + toastSeconds
}

const toastSeconds = 2.5

// watchDir is the directory whose YAML changes trigger a reload.
func (g *Game) watchDir() string {
	if g.cfgPath != "" {
		return filepath.Dir(g.cfgPath)
	}
	return config.Dir
}

func (g *Game) startWatcher() {
	dir := g.watchDir()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Printf("Game: no %s directory, hot reload disabled", dir)
		return
	}
	w, err := config.NewWatcher(dir)
	if err != nil {
		log.Printf("Game: watch %s: %v", dir, err)
		return
	}
	g.watcher = w
	log.Printf("Game: watching %s for settings changes", dir)
}

func (g *Game) stopWatcher() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if reloadTarget(name, g.cfgPath) {
				g.reload()
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("Game: watcher: %v", err)
		default:
			return
		}
	}
}

// reloadTarget reports whether a changed file is the active settings file.
func reloadTarget(changed, cfgPath string) bool {
	want := config.DefaultFile
	if cfgPath != "" {
		want = filepath.Base(cfgPath)
	}
	return filepath.Base(changed) == want
}

func (g *Game) reload() {
	var (
		cfg config.Game
		err error
	)
	if g.cfgPath != "" {
		cfg, err = config.LoadFile(g.cfgPath)
	} else {
		cfg, err = config.Load(config.DefaultFile)
	}
	if err != nil {
		log.Printf("Game: reload failed, keeping current settings: %v", err)
		g.notify("Settings error, see log")
		return
	}
	g.Manager.ApplyTuning(cfg)
	log.Printf("Game: settings reloaded")
	g.notify("Settings reloaded")
}

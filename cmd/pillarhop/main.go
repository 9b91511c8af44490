package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"pillarhop/internal/camera"
	"pillarhop/internal/config"
	"pillarhop/internal/game"
	"pillarhop/internal/level"
)

func main() {
	configPath := flag.String("config", "", "settings file (default: config/game.yaml, else the built-in settings)")
	headless := flag.Bool("headless", false, "simulate without opening a window")
	frames := flag.Int("frames", 0, "frames to simulate in headless mode, 0 runs until the game ends or is interrupted")
	flag.Parse()

	if *configPath != "" {
		if abs, err := filepath.Abs(*configPath); err == nil {
			*configPath = abs
		}
	}

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	if *headless {
		if err := runHeadless(cfg, *frames); err != nil {
			log.Fatalf("Game: %v", err)
		}
		return
	}

	g := game.New(cfg, *configPath)
	if err := g.Run(); err != nil {
		log.Fatalf("Game: %v", err)
	}
}

func loadConfig(path string) (config.Game, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(config.DefaultFile)
}

func runHeadless(cfg config.Game, frames int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := level.New(cfg, camera.NewFollow())
	defer m.Close()
	if err := m.LoadLevel(0); err != nil {
		return err
	}

	dt := float32(1.0 / 60)
	if cfg.Window.TargetFPS > 0 {
		dt = 1 / float32(cfg.Window.TargetFPS)
	}
	n, err := m.Run(ctx, frames, dt)
	log.Printf("Game: simulated %d frames (%.1f s), level %d/%d, score %d, lives %d",
		n, m.World().Time(), m.Level()+1, m.LevelCount(), m.Score(), m.Lives())
	if err == context.Canceled {
		return nil
	}
	return err
}

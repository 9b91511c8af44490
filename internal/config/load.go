package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pillarhop/internal/props"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var FS embed.FS

// Dir is the on-disk directory whose files override the embedded ones.
var Dir = "config"

// DefaultFile is the settings file loaded when none is named.
const DefaultFile = "game.yaml"

// Read returns the named file from Dir if present, else the embedded copy.
func Read(name string) ([]byte, error) {
	clean := cleanPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return FS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Load reads the named settings file over Defaults and validates it.
func Load(name string) (Game, error) {
	data, err := Read(name)
	if err != nil {
		return Game{}, fmt.Errorf("config: load %s: %w", name, err)
	}
	return Parse(name, data)
}

// LoadFile reads settings from an explicit path, bypassing Dir.
func LoadFile(path string) (Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Game{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes data over Defaults. Fields absent from data keep their
// default; lists given in data replace the defaults entirely.
func Parse(name string, data []byte) (Game, error) {
	g := Defaults()
	if err := yaml.Unmarshal(data, &g); err != nil {
		return Game{}, fmt.Errorf("config: unmarshal %s: %w", name, err)
	}
	g.normalize()
	if err := g.Validate(); err != nil {
		return Game{}, fmt.Errorf("config: validate %s: %w", name, err)
	}
	return g, nil
}

// normalize restores what YAML cannot carry.
func (g *Game) normalize() {
	for i := range g.Balls.Profiles {
		g.Balls.Profiles[i].Kind = props.Ball
	}
	for i := range g.Cupcakes.Profiles {
		g.Cupcakes.Profiles[i].Kind = props.Cupcake
	}
}

func cleanPath(path string) string {
	if path == "" {
		return DefaultFile
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, Dir+"/"); ok {
		return after
	}
	return s
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}

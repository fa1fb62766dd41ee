package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// configDir is the per-user directory under $HOME.
const configDir = ".demoloop"

// LoadOption customizes a Load call.
type LoadOption func(*loadOptions)

type loadOptions struct {
	logger *log.Logger
}

// WithLogger reports skipped config files to l.
func WithLogger(l *log.Logger) LoadOption {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// LoadFlappy loads Flappy Bird configuration.
// Search order: customPath -> ~/.demoloop/configs/flappy.{yaml,toml} ->
// ./configs/flappy.{yaml,toml} -> embedded default
func LoadFlappy(customPath string, opts ...LoadOption) (FlappyConfig, error) {
	return load("flappy", customPath, defaultFlappyYAML, DefaultFlappyConfig, opts)
}

// LoadTopDown loads top-down shooter configuration.
// Search order: customPath -> ~/.demoloop/configs/topdown.{yaml,toml} ->
// ./configs/topdown.{yaml,toml} -> embedded default
func LoadTopDown(customPath string, opts ...LoadOption) (TopDownConfig, error) {
	return load("topdown", customPath, defaultTopDownYAML, DefaultTopDownConfig, opts)
}

// LoadTerrain loads terrain explorer configuration.
// Search order: customPath -> ~/.demoloop/configs/terrain.{yaml,toml} ->
// ./configs/terrain.{yaml,toml} -> embedded default
func LoadTerrain(customPath string, opts ...LoadOption) (TerrainConfig, error) {
	return load("terrain", customPath, defaultTerrainYAML, DefaultTerrainConfig, opts)
}

// load decodes the first configuration found onto the hard-coded defaults,
// so a file only needs the keys it changes. Only an explicit customPath is
// allowed to fail; broken files elsewhere are logged and skipped.
func load[T any](name, customPath string, embedded []byte, defaults func() T, opts []LoadOption) (T, error) {
	o := loadOptions{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	// Try custom path first
	if customPath != "" {
		cfg := defaults()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := decode(customPath, data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, dir := range searchDirs() {
		for _, ext := range []string{".yaml", ".yml", ".toml"} {
			path := filepath.Join(dir, name+ext)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			cfg := defaults()
			if err := decode(path, data, &cfg); err != nil {
				o.logger.Warn("skipping config file", "path", path, "error", err)
				continue
			}
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := defaults()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return defaults(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// searchDirs lists the user directory (when $HOME is known) and then the
// local configs directory.
func searchDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, configDir, "configs"))
	}
	return append(dirs, "configs")
}

// decode picks the format from the file extension. Anything that is not
// .toml is treated as YAML.
func decode(path string, data []byte, v any) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), v)
		return err
	}
	return yaml.Unmarshal(data, v)
}

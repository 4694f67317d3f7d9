package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"grid-planner/uniformgrid"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Grid      GridConfig      `yaml:"grid"`
	Obstacles ObstaclesConfig `yaml:"obstacles"`
	Cache     CacheConfig     `yaml:"cache"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type GridConfig struct {
	Min             uniformgrid.Vector3 `yaml:"min"`
	Max             uniformgrid.Vector3 `yaml:"max"`
	SideLength      float64             `yaml:"side_length"`
	VerticalPenalty float64             `yaml:"vertical_penalty"`
	SmoothingStep   float64             `yaml:"smoothing_step"` // 0 samples once per cell
}

type ObstaclesConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`

	// SimplifyEpsilon of nil derives one from the side length; 0 disables
	SimplifyEpsilon *float64 `yaml:"simplify_epsilon"`
}

type CacheConfig struct {
	Size int `yaml:"size"` // 0 disables caching
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Grid: GridConfig{
			Max:             uniformgrid.Vector3{X: 64, Y: 16, Z: 64},
			SideLength:      1,
			VerticalPenalty: uniformgrid.DefaultVerticalPenalty,
		},
		Obstacles: ObstaclesConfig{Dir: "obstacles"},
		Cache:     CacheConfig{Size: 256},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values a planner cannot start with
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidConfig)
	}
	if c.Grid.SideLength <= 0 {
		return fmt.Errorf("%w: grid.side_length must be positive, got %g", ErrInvalidConfig, c.Grid.SideLength)
	}
	if c.Grid.Max.X <= c.Grid.Min.X || c.Grid.Max.Y <= c.Grid.Min.Y || c.Grid.Max.Z <= c.Grid.Min.Z {
		return fmt.Errorf("%w: grid.max %v must exceed grid.min %v on every axis", ErrInvalidConfig, c.Grid.Max, c.Grid.Min)
	}
	if c.Grid.VerticalPenalty < 1 {
		return fmt.Errorf("%w: grid.vertical_penalty must be at least 1, got %g", ErrInvalidConfig, c.Grid.VerticalPenalty)
	}
	if c.Grid.SmoothingStep < 0 || c.Grid.SmoothingStep > c.Grid.SideLength {
		return fmt.Errorf("%w: grid.smoothing_step must be between 0 and grid.side_length, got %g", ErrInvalidConfig, c.Grid.SmoothingStep)
	}
	if c.Obstacles.SimplifyEpsilon != nil && *c.Obstacles.SimplifyEpsilon < 0 {
		return fmt.Errorf("%w: obstacles.simplify_epsilon must not be negative", ErrInvalidConfig)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("%w: cache.size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// simplifyEpsilon resolves the footprint simplification tolerance
func (c Config) simplifyEpsilon() float64 {
	if c.Obstacles.SimplifyEpsilon != nil {
		return *c.Obstacles.SimplifyEpsilon
	}
	return EstimateSimplificationEpsilon(c.Grid.SideLength)
}

// gridConfig builds the core grid configuration
func (c Config) gridConfig(logger *log.Logger) uniformgrid.Config {
	return uniformgrid.Config{
		VerticalPenalty: c.Grid.VerticalPenalty,
		SmoothingStep:   c.Grid.SmoothingStep,
		Logger:          logger,
	}
}

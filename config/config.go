// Package config loads and validates the solver's configuration
// surface (spec.md §6), following the embedded-default-plus-override
// YAML loader idiom of the teacher pack's pthm-soup/config package.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the full configuration surface of §6.
type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Fluid      FluidConfig      `yaml:"fluid"`
	Projection ProjectionConfig `yaml:"projection"`
	Poisson    PoissonConfig    `yaml:"poisson"`
	Boundary   BoundaryConfig   `yaml:"boundary"`
	Time       TimeConfig       `yaml:"time"`
}

type GridConfig struct {
	Nx int `yaml:"nx"`
	Ny int `yaml:"ny"`
	Nz int `yaml:"nz"`
	Lx float64 `yaml:"lx"`
	Ly float64 `yaml:"ly"`
	Lz float64 `yaml:"lz"`
}

// FluidConfig holds the fluid density, viscosity and gravity. Setting
// Nu to zero disables the viscous and interaction terms (§6).
type FluidConfig struct {
	Rho           float64    `yaml:"rho"`
	Nu            float64    `yaml:"nu"`
	Gravity       [3]float64 `yaml:"gravity"`
	EnableGravity bool       `yaml:"enable_gravity"`
}

// ProjectionConfig selects the projection-method variant (§4.3): Beta=0
// is Chorin's projection (recommended); 0 < Beta <= 1 is the Langtangen
// et al. (2002) incremental variant.
type ProjectionConfig struct {
	Beta float64 `yaml:"beta"`
}

// PoissonConfig governs the Jacobi solve (§4.5).
type PoissonConfig struct {
	Theta   float64 `yaml:"theta"`
	Tol     float64 `yaml:"tol"`
	MaxIter int     `yaml:"max_iter"`
}

// BoundaryConfig selects the z-axis regime; x and y are always periodic
// (§4.1). PTop, when non-nil, is the externally scheduled upper
// boundary pressure (§6); the zero value (nil) means "not set".
type BoundaryConfig struct {
	BcBot int     `yaml:"bc_bot"`
	BcTop int     `yaml:"bc_top"`
	PTop  *float64 `yaml:"p_top"`
}

type TimeConfig struct {
	Dt float64 `yaml:"dt"`
}

// ConfigError reports a §7(a) configuration-taxonomy failure: invalid
// at start-up, fatal, never retried.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config: " + e.Msg }

// Load loads configuration starting from the embedded defaults, then
// merging an optional override file (only fields present in the file
// are overwritten, matching pthm-soup/config.Load's layering).
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading override file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing override file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded-default configuration, validated.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Validate implements the §7(a) configuration error taxonomy: invalid
// grid size, unknown boundary tag, theta not in (0,1], beta not in
// [0,1] are all fatal at start-up.
func (c *Config) Validate() error {
	if c.Grid.Nx <= 0 || c.Grid.Ny <= 0 || c.Grid.Nz <= 0 {
		return &ConfigError{Msg: fmt.Sprintf("grid size must be positive, got (%d,%d,%d)", c.Grid.Nx, c.Grid.Ny, c.Grid.Nz)}
	}
	if c.Grid.Lx <= 0 || c.Grid.Ly <= 0 || c.Grid.Lz <= 0 {
		return &ConfigError{Msg: fmt.Sprintf("grid extent must be positive, got (%g,%g,%g)", c.Grid.Lx, c.Grid.Ly, c.Grid.Lz)}
	}
	if !validBoundaryTag(c.Boundary.BcBot) {
		return &ConfigError{Msg: fmt.Sprintf("unknown bc_bot tag %d", c.Boundary.BcBot)}
	}
	if !validBoundaryTag(c.Boundary.BcTop) {
		return &ConfigError{Msg: fmt.Sprintf("unknown bc_top tag %d", c.Boundary.BcTop)}
	}
	if c.Poisson.Theta <= 0 || c.Poisson.Theta > 1 {
		return &ConfigError{Msg: fmt.Sprintf("theta must be in (0,1], got %g", c.Poisson.Theta)}
	}
	if c.Projection.Beta < 0 || c.Projection.Beta > 1 {
		return &ConfigError{Msg: fmt.Sprintf("beta must be in [0,1], got %g", c.Projection.Beta)}
	}
	if c.Poisson.MaxIter <= 0 {
		return &ConfigError{Msg: fmt.Sprintf("max_iter must be positive, got %d", c.Poisson.MaxIter)}
	}
	if c.Poisson.Tol <= 0 {
		return &ConfigError{Msg: fmt.Sprintf("tol must be positive, got %g", c.Poisson.Tol)}
	}
	if c.Time.Dt <= 0 {
		return &ConfigError{Msg: fmt.Sprintf("dt must be positive, got %g", c.Time.Dt)}
	}
	return nil
}

func validBoundaryTag(tag int) bool {
	return tag == 0 || tag == 1 || tag == 2
}

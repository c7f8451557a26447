package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, 8, cfg.Grid.Nx)
	assert.Equal(t, 1.0, cfg.Grid.Lx)
	assert.Equal(t, 1.0, cfg.Grid.Ly)
	assert.Equal(t, 1.0, cfg.Grid.Lz)
	assert.Equal(t, 1000.0, cfg.Fluid.Rho)
	assert.False(t, cfg.Fluid.EnableGravity)
	assert.Nil(t, cfg.Boundary.PTop)
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	override := "grid:\n  nx: 16\n  ly: 2.0\nfluid:\n  nu: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Grid.Nx)
	assert.Equal(t, 8, cfg.Grid.Ny, "ny was not present in the override and should keep the embedded default")
	assert.Equal(t, 1.0, cfg.Grid.Lx, "lx was not overridden")
	assert.Equal(t, 2.0, cfg.Grid.Ly, "ly should pick up its own override, not lx's value")
	assert.Equal(t, 0.0, cfg.Fluid.Nu)
}

func TestLoadRejectsMissingOverrideFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsNonPositiveGridSize(t *testing.T) {
	cfg := Default()
	cfg.Grid.Nz = 0
	err := cfg.Validate()
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidateRejectsUnknownBoundaryTag(t *testing.T) {
	cfg := Default()
	cfg.Boundary.BcTop = 7
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsThetaOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.Poisson.Theta = 0
	assert.Error(t, cfg.Validate())

	cfg.Poisson.Theta = 1.5
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsBetaBounds(t *testing.T) {
	cfg := Default()
	cfg.Projection.Beta = 0
	assert.NoError(t, cfg.Validate())
	cfg.Projection.Beta = 1
	assert.NoError(t, cfg.Validate())
	cfg.Projection.Beta = 1.1
	assert.Error(t, cfg.Validate())
}

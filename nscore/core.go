// Package nscore implements the porous-flow fluid solver core: the
// cell-wise porosity/velocity/diameter projector, the predictor–
// corrector projection method, the Jacobi pressure-Poisson solve, and
// the Ergun/Wen–Yu interaction-force closure (spec.md §4), wired
// together by a value-owned NSCore object per Design Notes §9 ("wrap
// all field buffers plus configuration in a value-owned NSCore object
// with explicit construction/teardown ... no free functions retain
// state").
package nscore

import (
	"github.com/google/uuid"

	"github.com/gekko3d/nsfluid/config"
	"github.com/gekko3d/nsfluid/fields"
	"github.com/gekko3d/nsfluid/grid"
	"github.com/gekko3d/nsfluid/logging"
)

// NSCore owns every field buffer and the resolved grid geometry for one
// simulation's fluid core. It has no package-level state; every stage
// method takes the receiver explicitly (Design Notes §9).
type NSCore struct {
	ID uuid.UUID

	Cfg   config.Config
	Dims  grid.Dims
	Ext   grid.Extent
	BC    grid.BoundaryConfig
	Ix    *grid.Indexer
	Ghost *grid.GhostRules

	dx, dy, dz float64

	// Fields, per spec.md §3.
	P          *fields.Scalar
	V          *fields.Vector
	VFaceX     *fields.FaceScalar
	VFaceY     *fields.FaceScalar
	VFaceZ     *fields.FaceScalar
	VP         *fields.Vector
	Phi        *fields.Scalar
	PhiPrev    *fields.Scalar
	DPhi       *fields.Scalar
	VPAvg      *fields.Vector
	DAvg       *fields.Scalar
	Fi         *fields.Vector
	Tau        *fields.Tensor6
	DivPhiViV  *fields.Vector
	DivPhiTau  *fields.Vector
	Epsilon    *fields.Scalar
	EpsilonNew *fields.Scalar
	F          *fields.Scalar
	F1         *fields.Scalar
	F2         *fields.Vector
	Norm       *fields.Scalar

	firstStep bool
	log       logging.Logger
}

// New constructs an NSCore from a validated Config, allocating every
// field buffer once (§3 lifecycle: "allocated once at simulation start
// and freed at end"). Returns a *config.ConfigError (§7(a)) if cfg is
// invalid; the constructor never panics on a caller mistake in domain
// input, only on truly unrecoverable setup errors.
func New(cfg config.Config, log logging.Logger) (*NSCore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Nop()
	}

	dims := grid.Dims{Nx: cfg.Grid.Nx, Ny: cfg.Grid.Ny, Nz: cfg.Grid.Nz}
	ext := grid.Extent{Lx: cfg.Grid.Lx, Ly: cfg.Grid.Ly, Lz: cfg.Grid.Lz}
	bc := grid.BoundaryConfig{Bot: grid.BoundaryMode(cfg.Boundary.BcBot), Top: grid.BoundaryMode(cfg.Boundary.BcTop)}
	if err := bc.Validate(); err != nil {
		return nil, &config.ConfigError{Msg: err.Error()}
	}

	ix := grid.NewIndexer(dims)
	dx, dy, dz := ext.CellSize(dims)

	core := &NSCore{
		ID:    uuid.New(),
		Cfg:   cfg,
		Dims:  dims,
		Ext:   ext,
		BC:    bc,
		Ix:    ix,
		Ghost: grid.NewGhostRules(ix, bc),
		dx:    dx, dy: dy, dz: dz,

		P:          fields.NewScalar(ix),
		V:          fields.NewVector(ix),
		VFaceX:     fields.NewFaceScalar(ix, grid.AxisX),
		VFaceY:     fields.NewFaceScalar(ix, grid.AxisY),
		VFaceZ:     fields.NewFaceScalar(ix, grid.AxisZ),
		VP:         fields.NewVector(ix),
		Phi:        fields.NewScalar(ix),
		PhiPrev:    fields.NewScalar(ix),
		DPhi:       fields.NewScalar(ix),
		VPAvg:      fields.NewVector(ix),
		DAvg:       fields.NewScalar(ix),
		Fi:         fields.NewVector(ix),
		Tau:        fields.NewTensor6(ix),
		DivPhiViV:  fields.NewVector(ix),
		DivPhiTau:  fields.NewVector(ix),
		Epsilon:    fields.NewScalar(ix),
		EpsilonNew: fields.NewScalar(ix),
		F:          fields.NewScalar(ix),
		F1:         fields.NewScalar(ix),
		F2:         fields.NewVector(ix),
		Norm:       fields.NewScalar(ix),

		firstStep: true,
		log:       log,
	}
	core.Phi.Fill(1.0)
	core.PhiPrev.Fill(1.0)
	return core, nil
}

// Close releases resources NSCore owns. The CPU reference backing this
// package needs no explicit teardown (plain Go slices, GC-reclaimed),
// but the method exists so callers that swap in the GPU-resident
// device.Core execution path (same interface shape) have one teardown
// call site regardless of backend (§3 lifecycle, §9 "explicit
// construction/teardown").
func (c *NSCore) Close() error { return nil }

// RefreshAllGhosts refreshes the ghost layer of every field the current
// stage may have written, per invariant I1. Individual stages call the
// narrower per-field refreshes they actually need; this is provided for
// callers (tests, the device mirror) that want a full-field resync.
func (c *NSCore) RefreshAllGhosts() {
	c.Ghost.RefreshScalar(c.P)
	c.Ghost.RefreshVector(c.V)
	c.Ghost.RefreshVector(c.VP)
	c.Ghost.RefreshScalar(c.Phi)
	c.Ghost.RefreshScalar(c.DPhi)
	c.Ghost.RefreshVector(c.VPAvg)
	c.Ghost.RefreshScalar(c.DAvg)
	c.Ghost.RefreshVector(c.Fi)
	c.Ghost.RefreshTensor(c.Tau)
	c.Ghost.RefreshVector(c.DivPhiViV)
	c.Ghost.RefreshVector(c.DivPhiTau)
	c.Ghost.RefreshScalar(c.Epsilon)
	c.Ghost.RefreshScalar(c.EpsilonNew)
	c.Ghost.RefreshScalar(c.F)
	c.Ghost.RefreshScalar(c.F1)
	c.Ghost.RefreshVector(c.F2)
}

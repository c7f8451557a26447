package grid

// ScalarBuffer is any field storage that ghost refresh can read/write —
// satisfied by fields.Scalar.
type ScalarBuffer interface {
	At(i, j, k int) float64
	Set(i, j, k int, v float64)
}

// GhostRules holds the resolved per-axis ghost behavior for a grid: x
// and y are always Periodic (§4.1); z follows BoundaryConfig. Resolving
// this once per Config, instead of branching on boundary mode inside
// every stencil kernel, is the Design Notes §9 "per-face ghost-rule
// table evaluated once per step" item.
type GhostRules struct {
	ix *Indexer
	bc BoundaryConfig
}

// NewGhostRules resolves the per-face ghost table for a grid.
func NewGhostRules(ix *Indexer, bc BoundaryConfig) *GhostRules {
	return &GhostRules{ix: ix, bc: bc}
}

// RefreshScalar refreshes all six ghost faces of a scalar field
// (I1: "After every stage that writes an interior cell, the matching
// ghost layer is refreshed before the next stencil reads it").
func (g *GhostRules) RefreshScalar(buf ScalarBuffer) {
	nx, ny, nz := g.ix.Dims.Nx, g.ix.Dims.Ny, g.ix.Dims.Nz

	// x faces (always periodic, §4.1): ghost -1 <- interior nx-1; ghost
	// nx <- interior 0.
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			buf.Set(-1, j, k, buf.At(nx-1, j, k))
			buf.Set(nx, j, k, buf.At(0, j, k))
		}
	}
	// y faces (always periodic)
	for k := 0; k < nz; k++ {
		for i := -1; i <= nx; i++ {
			buf.Set(i, -1, k, buf.At(i, ny-1, k))
			buf.Set(i, ny, k, buf.At(i, 0, k))
		}
	}
	// z faces: boundary-regime dependent, bottom and top independently.
	// Restricted to interior (i,j), so this pass writes no z-edge or
	// corner ghost cells (§4.1: no stencil reads them).
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			setZGhost(buf, g.bc.Bot, i, j, -1, 0, nz-1)
			setZGhost(buf, g.bc.Top, i, j, nz, nz-1, 0)
		}
	}
}

// setZGhost writes a single z ghost cell at (i,j,ghostK) from the
// interior per mode. mirrorK is the adjacent interior plane (Neumann
// zero-gradient copy, Dirichlet mirror source); oppositeK is the
// opposite-end interior plane used by Periodic wrap-around.
func setZGhost(buf ScalarBuffer, mode BoundaryMode, i, j, ghostK, mirrorK, oppositeK int) {
	switch mode {
	case Dirichlet:
		// Mirror the interior; the boundary-plane value itself is fixed
		// externally by the caller (I3/§6 p_top), not overwritten here.
		buf.Set(i, j, ghostK, buf.At(i, j, mirrorK))
	case Neumann:
		buf.Set(i, j, ghostK, buf.At(i, j, mirrorK))
	case Periodic:
		buf.Set(i, j, ghostK, buf.At(i, j, oppositeK))
	}
}

// VectorBuffer is a 3-component field's ghost-refreshable storage.
type VectorBuffer interface {
	AtVec(i, j, k int) (x, y, z float64)
	SetVec(i, j, k int, x, y, z float64)
}

// RefreshVector mirrors RefreshScalar for 3-vector fields.
func (g *GhostRules) RefreshVector(buf VectorBuffer) {
	nx, ny, nz := g.ix.Dims.Nx, g.ix.Dims.Ny, g.ix.Dims.Nz

	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			x, y, z := buf.AtVec(nx-1, j, k)
			buf.SetVec(-1, j, k, x, y, z)
			x, y, z = buf.AtVec(0, j, k)
			buf.SetVec(nx, j, k, x, y, z)
		}
	}
	for k := 0; k < nz; k++ {
		for i := -1; i <= nx; i++ {
			x, y, z := buf.AtVec(i, ny-1, k)
			buf.SetVec(i, -1, k, x, y, z)
			x, y, z = buf.AtVec(i, 0, k)
			buf.SetVec(i, ny, k, x, y, z)
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			setZGhostVec(buf, g.bc.Bot, i, j, -1, 0, nz-1)
			setZGhostVec(buf, g.bc.Top, i, j, nz, nz-1, 0)
		}
	}
}

func setZGhostVec(buf VectorBuffer, mode BoundaryMode, i, j, ghostK, mirrorK, oppositeK int) {
	var x, y, z float64
	switch mode {
	case Dirichlet, Neumann:
		x, y, z = buf.AtVec(i, j, mirrorK)
	case Periodic:
		x, y, z = buf.AtVec(i, j, oppositeK)
	}
	buf.SetVec(i, j, ghostK, x, y, z)
}

// TensorBuffer is the six-component symmetric-tensor field's
// ghost-refreshable storage (I4: only the six independent entries are
// stored; all six are copied together per the Design Notes' tensor
// ghost variant).
type TensorBuffer interface {
	AtTensor(i, j, k int) [6]float64
	SetTensor(i, j, k int, t [6]float64)
}

// RefreshTensor mirrors RefreshScalar for the six-component tensor
// field, copying all six components together.
func (g *GhostRules) RefreshTensor(buf TensorBuffer) {
	nx, ny, nz := g.ix.Dims.Nx, g.ix.Dims.Ny, g.ix.Dims.Nz

	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			buf.SetTensor(-1, j, k, buf.AtTensor(nx-1, j, k))
			buf.SetTensor(nx, j, k, buf.AtTensor(0, j, k))
		}
	}
	for k := 0; k < nz; k++ {
		for i := -1; i <= nx; i++ {
			buf.SetTensor(i, -1, k, buf.AtTensor(i, ny-1, k))
			buf.SetTensor(i, ny, k, buf.AtTensor(i, 0, k))
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			setZGhostTensor(buf, g.bc.Bot, i, j, -1, 0, nz-1)
			setZGhostTensor(buf, g.bc.Top, i, j, nz, nz-1, 0)
		}
	}
}

func setZGhostTensor(buf TensorBuffer, mode BoundaryMode, i, j, ghostK, mirrorK, oppositeK int) {
	var t [6]float64
	switch mode {
	case Dirichlet, Neumann:
		t = buf.AtTensor(i, j, mirrorK)
	case Periodic:
		t = buf.AtTensor(i, j, oppositeK)
	}
	buf.SetTensor(i, j, ghostK, t)
}

package nscore

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/gekko3d/nsfluid/grid"
)

// JacobiResult reports how a Poisson solve finished (§4.5).
type JacobiResult struct {
	Iterations int
	Norm       float64
	Converged  bool
}

// SolvePoisson is C5: iterates the Jacobi state machine
// INIT -> (SWEEP -> REFRESH -> REDUCE -> CONVERGED?)* -> DONE | DIVERGED
// against the forcing terms f1/f2 assembled by AssembleForcing, until
// the global residual norm falls below tol or max_iter sweeps are
// exhausted. A *DivergenceError is returned when any epsilon_new is
// non-finite. When max_iter sweeps pass without reaching tol, a non-nil
// *JacobiResult (Converged false) is returned together with a
// *NotConvergedWarning; Step treats that as the §7(c) warning, not a
// fatal error.
func (c *NSCore) SolvePoisson() (*JacobiResult, error) {
	theta := c.Cfg.Poisson.Theta
	tol := c.Cfg.Poisson.Tol
	maxIter := c.Cfg.Poisson.MaxIter

	residuals := make([]float64, c.Ix.CellCount())

	for iter := 1; iter <= maxIter; iter++ {
		c.jacobiSweep(theta, residuals)

		for _, r := range residuals {
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return nil, &DivergenceError{Iterations: iter, NonFinite: true}
			}
		}

		c.Epsilon, c.EpsilonNew = c.EpsilonNew, c.Epsilon
		c.Ghost.RefreshScalar(c.Epsilon)

		// residuals is already laid out exactly like c.Norm's backing
		// array (both indexed via c.Ix.CellIndex), so each cell keeps its
		// own per-cell value, including the zeros jacobiSweep left on the
		// excluded Dirichlet z-plane cells (I5).
		copy(c.Norm.Raw(), residuals)
		c.Ghost.RefreshScalar(c.Norm)

		norm := floats.Max(residuals)

		if norm < tol {
			return &JacobiResult{Iterations: iter, Norm: norm, Converged: true}, nil
		}
		if iter == maxIter {
			return &JacobiResult{Iterations: iter, Norm: norm, Converged: false},
				&NotConvergedWarning{Iterations: iter, Norm: norm, Tol: tol}
		}
	}
	// Unreachable when max_iter >= 1 (validated at config load).
	return nil, &DivergenceError{Iterations: maxIter}
}

// jacobiSweep performs one SWEEP: it writes c.EpsilonNew from
// c.Epsilon and c.F1/c.F2, and fills residuals with the per-cell
// normalized residual (zero on excluded z-Dirichlet boundary planes,
// I5).
func (c *NSCore) jacobiSweep(theta float64, residuals []float64) {
	dx2, dy2, dz2 := c.dx*c.dx, c.dy*c.dy, c.dz*c.dz
	denom := 2 * (dx2*dy2 + dx2*dz2 + dy2*dz2)

	c.Ix.ForEachCell(func(i, j, k int) {
		idx := c.Ix.CellIndex(i, j, k)

		if c.onDirichletZPlane(k) {
			c.EpsilonNew.Set(i, j, k, c.Epsilon.At(i, j, k))
			residuals[idx] = 0
			return
		}

		eps := c.Epsilon.At(i, j, k)
		f := c.forcingAt(i, j, k)

		epsXm := c.Epsilon.At(i-1, j, k)
		epsXp := c.Epsilon.At(i+1, j, k)
		epsYm := c.Epsilon.At(i, j-1, k)
		epsYp := c.Epsilon.At(i, j+1, k)
		epsZm := c.Epsilon.At(i, j, k-1)
		epsZp := c.Epsilon.At(i, j, k+1)

		raw := (dy2*dz2*(epsXm+epsXp) + dx2*dz2*(epsYm+epsYp) + dx2*dy2*(epsZm+epsZp) - dx2*dy2*dz2*f) / denom
		epsNew := (1-theta)*eps + theta*raw

		c.EpsilonNew.Set(i, j, k, epsNew)
		residuals[idx] = (epsNew - eps) * (epsNew - eps) / (epsNew*epsNew + 1e-16)
	})
}

// onDirichletZPlane reports whether cell layer k sits on a z-boundary
// plane whose mode is Dirichlet, and is therefore excluded from the
// Jacobi update (§4.5, I3).
func (c *NSCore) onDirichletZPlane(k int) bool {
	if k == 0 && c.BC.Bot == grid.Dirichlet {
		return true
	}
	if k == c.Dims.Nz-1 && c.BC.Top == grid.Dirichlet {
		return true
	}
	return false
}

// forcingAt forms f = f1 - f2 . grad(eps) at one cell (§4.4).
func (c *NSCore) forcingAt(i, j, k int) float64 {
	f1 := c.F1.At(i, j, k)
	f2 := c.F2.At(i, j, k)

	gradEps := [3]float64{
		(c.Epsilon.At(i+1, j, k) - c.Epsilon.At(i-1, j, k)) / (2 * c.dx),
		(c.Epsilon.At(i, j+1, k) - c.Epsilon.At(i, j-1, k)) / (2 * c.dy),
		(c.Epsilon.At(i, j, k+1) - c.Epsilon.At(i, j, k-1)) / (2 * c.dz),
	}
	return f1 - (f2[0]*gradEps[0] + f2[1]*gradEps[1] + f2[2]*gradEps[2])
}

package nscore

import "github.com/go-gl/mathgl/mgl64"

// AssembleForcing is C4: builds the per-step constant terms f1 and f2 of
// the variable-coefficient Poisson-like equation
// grad^2(eps) = f1 - (grad(phi)/phi) . grad(eps)
// (§4.4). f1 and f2 are computed once per step, before the Jacobi sweep
// loop begins; each sweep then only needs to recompute grad(eps) and
// form f = f1 - f2.grad(eps) (see jacobiSweep).
func (c *NSCore) AssembleForcing() error {
	rho := c.Cfg.Fluid.Rho
	dt := c.Cfg.Time.Dt
	d := [3]float64{c.dx, c.dy, c.dz}

	c.Ix.ForEachCell(func(i, j, k int) {
		phi := c.Phi.At(i, j, k)
		dphi := c.DPhi.At(i, j, k)

		divVP := (c.VP.At(i+1, j, k)[0] - c.VP.At(i-1, j, k)[0]) / (2 * d[0])
		divVP += (c.VP.At(i, j+1, k)[1] - c.VP.At(i, j-1, k)[1]) / (2 * d[1])
		divVP += (c.VP.At(i, j, k+1)[2] - c.VP.At(i, j, k-1)[2]) / (2 * d[2])

		gradPhi := [3]float64{
			(c.Phi.At(i+1, j, k) - c.Phi.At(i-1, j, k)) / (2 * d[0]),
			(c.Phi.At(i, j+1, k) - c.Phi.At(i, j-1, k)) / (2 * d[1]),
			(c.Phi.At(i, j, k+1) - c.Phi.At(i, j, k-1)) / (2 * d[2]),
		}
		vp := c.VP.At(i, j, k)
		gradPhiDotVP := gradPhi[0]*vp[0] + gradPhi[1]*vp[1] + gradPhi[2]*vp[2]

		f1 := rho*divVP/dt + rho*gradPhiDotVP/(dt*phi) + rho*dphi/(dt*dt*phi)
		c.F1.Set(i, j, k, f1)

		c.F2.Set(i, j, k, mgl64.Vec3{gradPhi[0] / phi, gradPhi[1] / phi, gradPhi[2] / phi})
	})

	c.Ghost.RefreshScalar(c.F1)
	c.Ghost.RefreshVector(c.F2)
	return checkFiniteScalar(c.F1, c.Ix, "forcing", "f1")
}

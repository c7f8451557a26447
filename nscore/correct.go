package nscore

import "github.com/go-gl/mathgl/mgl64"

// Correct is C6: applies the pressure and velocity correction from the
// converged (or best-effort) epsilon field, then unstaggers the
// cell-centered velocity onto the staggered face arrays (§4.6).
func (c *NSCore) Correct() error {
	c.correctPressureAndVelocity()
	c.Ghost.RefreshScalar(c.P)
	c.Ghost.RefreshVector(c.V)

	c.unstaggerToFaces()

	return checkFiniteVector(c.V, c.Ix, "correct", "v")
}

// correctPressureAndVelocity applies p <- beta*p + eps and
// v <- v* - (dt/rho) grad(eps).
func (c *NSCore) correctPressureAndVelocity() {
	beta := c.Cfg.Projection.Beta
	rho := c.Cfg.Fluid.Rho
	dt := c.Cfg.Time.Dt

	c.Ix.ForEachCell(func(i, j, k int) {
		eps := c.Epsilon.At(i, j, k)
		p := c.P.At(i, j, k)
		c.P.Set(i, j, k, beta*p+eps)

		gradEps := mgl64.Vec3{
			(c.Epsilon.At(i+1, j, k) - c.Epsilon.At(i-1, j, k)) / (2 * c.dx),
			(c.Epsilon.At(i, j+1, k) - c.Epsilon.At(i, j-1, k)) / (2 * c.dy),
			(c.Epsilon.At(i, j, k+1) - c.Epsilon.At(i, j, k-1)) / (2 * c.dz),
		}
		vStar := c.VP.At(i, j, k)
		v := vStar.Sub(gradEps.Mul(dt / rho))
		c.V.Set(i, j, k, v)
	})
}

// unstaggerToFaces rebuilds the staggered face-velocity arrays from the
// cell-centered v by arithmetic mean across each face (§4.6, §3
// "v_x,v_y,v_z ... derived from v").
func (c *NSCore) unstaggerToFaces() {
	nx, ny, nz := c.Dims.Nx, c.Dims.Ny, c.Dims.Nz

	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i <= nx; i++ {
				vm := c.V.At(i-1, j, k)[0]
				vp := c.V.At(i, j, k)[0]
				c.VFaceX.Set(i, j, k, 0.5*(vm+vp))
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i < nx; i++ {
				vm := c.V.At(i, j-1, k)[1]
				vp := c.V.At(i, j, k)[1]
				c.VFaceY.Set(i, j, k, 0.5*(vm+vp))
			}
		}
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				vm := c.V.At(i, j, k-1)[2]
				vp := c.V.At(i, j, k)[2]
				c.VFaceZ.Set(i, j, k, 0.5*(vm+vp))
			}
		}
	}
}

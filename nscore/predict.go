package nscore

import (
	"github.com/gekko3d/nsfluid/grid"
	"github.com/go-gl/mathgl/mgl64"
)

// Predict is C3: the predictor step, computing v* from the
// cell-centered velocity, porosity, stresses, advective divergence, and
// interaction force (§4.3). Each substep is a separate grid-stride
// kernel with a ghost refresh between it and the next, per I1.
func (c *NSCore) Predict() error {
	c.computeStressTensor()
	c.Ghost.RefreshTensor(c.Tau)

	c.computeDivergences()
	c.Ghost.RefreshVector(c.DivPhiViV)
	c.Ghost.RefreshVector(c.DivPhiTau)

	c.predictorUpdate()
	c.pinNeumannFace()
	c.Ghost.RefreshVector(c.VP)
	return checkFiniteVector(c.VP, c.Ix, "predict", "v_p")
}

// computeStressTensor fills tau from central differences of v with
// kinematic viscosity nu (§4.3 step 1): tau_ii = 2 nu dv_i/dx_i,
// tau_ij = nu(dv_i/dx_j + dv_j/dx_i).
func (c *NSCore) computeStressTensor() {
	nu := c.Cfg.Fluid.Nu
	d := [3]float64{c.dx, c.dy, c.dz}
	c.Ix.ForEachCell(func(i, j, k int) {
		grad := c.velocityGradient(i, j, k, d)
		var t [6]float64
		t[fields6(0, 0)] = 2 * nu * grad[0][0]
		t[fields6(1, 1)] = 2 * nu * grad[1][1]
		t[fields6(2, 2)] = 2 * nu * grad[2][2]
		t[fields6(0, 1)] = nu * (grad[0][1] + grad[1][0])
		t[fields6(0, 2)] = nu * (grad[0][2] + grad[2][0])
		t[fields6(1, 2)] = nu * (grad[1][2] + grad[2][1])
		c.Tau.Set(i, j, k, t)
	})
}

// velocityGradient returns grad[a][b] = d(v_a)/d(x_b) via central
// differences. Design Notes §9: the original source's z-derivative read
// the wrong staggered array (dev_ns_v_y instead of dev_ns_v_z); this
// cell-centered formulation sidesteps that bug entirely since it always
// differentiates the matching component's own cell-centered field.
func (c *NSCore) velocityGradient(i, j, k int, d [3]float64) [3][3]float64 {
	vxp := c.V.At(i+1, j, k)
	vxm := c.V.At(i-1, j, k)
	vyp := c.V.At(i, j+1, k)
	vym := c.V.At(i, j-1, k)
	vzp := c.V.At(i, j, k+1)
	vzm := c.V.At(i, j, k-1)

	var g [3][3]float64
	for a := 0; a < 3; a++ {
		g[a][0] = (vxp[a] - vxm[a]) / (2 * d[0])
		g[a][1] = (vyp[a] - vym[a]) / (2 * d[1])
		g[a][2] = (vzp[a] - vzm[a]) / (2 * d[2])
	}
	return g
}

func fields6(a, b int) int {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == 0 && b == 0:
		return 0 // xx
	case a == 0 && b == 1:
		return 1 // xy
	case a == 0 && b == 2:
		return 2 // xz
	case a == 1 && b == 1:
		return 3 // yy
	case a == 1 && b == 2:
		return 4 // yz
	default:
		return 5 // zz
	}
}

// computeDivergences assembles div(phi*v_i*v) and div(phi*tau) from six
// face-neighbour products using second-order central differences
// (§4.3 step 2).
func (c *NSCore) computeDivergences() {
	d := [3]float64{c.dx, c.dy, c.dz}
	c.Ix.ForEachCell(func(i, j, k int) {
		var divViV, divTau mgl64.Vec3
		for b := 0; b < 3; b++ {
			pi, pj, pk := neighbor(i, j, k, b, +1)
			mi, mj, mk := neighbor(i, j, k, b, -1)

			phiP := c.Phi.At(pi, pj, pk)
			phiM := c.Phi.At(mi, mj, mk)
			vP := c.V.At(pi, pj, pk)
			vM := c.V.At(mi, mj, mk)
			tP := c.Tau.At(pi, pj, pk)
			tM := c.Tau.At(mi, mj, mk)

			for a := 0; a < 3; a++ {
				fluxP := phiP * vP[a] * vP[b]
				fluxM := phiM * vM[a] * vM[b]
				divViV[a] += (fluxP - fluxM) / (2 * d[b])

				tauP := tP[fields6(a, b)]
				tauM := tM[fields6(a, b)]
				divTau[a] += (phiP*tauP - phiM*tauM) / (2 * d[b])
			}
		}
		c.DivPhiViV.Set(i, j, k, divViV)
		c.DivPhiTau.Set(i, j, k, divTau)
	})
}

func neighbor(i, j, k, axis, dir int) (int, int, int) {
	switch axis {
	case 0:
		return i + dir, j, k
	case 1:
		return i, j + dir, k
	default:
		return i, j, k + dir
	}
}

// predictorUpdate applies §4.3 step 3:
//
//	v* = v - (beta/rho) grad(p) dt/phi + (1/rho) div(phi tau) dt/phi
//	     - dt*fi - v*dphi/phi - div(phi v v) dt/phi
//
// plus g*dt when Fluid.EnableGravity is set.
func (c *NSCore) predictorUpdate() {
	rho := c.Cfg.Fluid.Rho
	beta := c.Cfg.Projection.Beta
	dt := c.Cfg.Time.Dt
	nu := c.Cfg.Fluid.Nu
	d := [3]float64{c.dx, c.dy, c.dz}

	c.Ix.ForEachCell(func(i, j, k int) {
		phi := c.Phi.At(i, j, k)
		dphi := c.DPhi.At(i, j, k)
		v := c.V.At(i, j, k)
		divTau := c.DivPhiTau.At(i, j, k)
		divViV := c.DivPhiViV.At(i, j, k)

		var fi mgl64.Vec3
		if nu != 0 {
			fi = c.Fi.At(i, j, k)
		}

		gradP := mgl64.Vec3{
			(c.P.At(i+1, j, k) - c.P.At(i-1, j, k)) / (2 * d[0]),
			(c.P.At(i, j+1, k) - c.P.At(i, j-1, k)) / (2 * d[1]),
			(c.P.At(i, j, k+1) - c.P.At(i, j, k-1)) / (2 * d[2]),
		}

		var g mgl64.Vec3
		if c.Cfg.Fluid.EnableGravity {
			g = mgl64.Vec3{c.Cfg.Fluid.Gravity[0], c.Cfg.Fluid.Gravity[1], c.Cfg.Fluid.Gravity[2]}
		}

		vStar := v.
			Sub(gradP.Mul(beta / rho * dt / phi)).
			Add(divTau.Mul(1.0 / rho * dt / phi)).
			Sub(fi.Mul(dt)).
			Sub(v.Mul(dphi / phi)).
			Sub(divViV.Mul(dt / phi)).
			Add(g.Mul(dt))

		c.VP.Set(i, j, k, vStar)
	})
}

// pinNeumannFace implements §4.3 step 4: if the corresponding z-boundary
// is Neumann, pin v*_z = v_z on that plane (no-flux).
func (c *NSCore) pinNeumannFace() {
	nz := c.Dims.Nz
	if c.BC.Bot == grid.Neumann {
		pinZPlane(c, 0)
	}
	if c.BC.Top == grid.Neumann {
		pinZPlane(c, nz-1)
	}
}

func pinZPlane(c *NSCore, k int) {
	nx, ny := c.Dims.Nx, c.Dims.Ny
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v := c.V.At(i, j, k)
			vp := c.VP.At(i, j, k)
			c.VP.Set(i, j, k, mgl64.Vec3{vp[0], vp[1], v[2]})
		}
	}
}

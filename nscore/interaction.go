package nscore

import (
	"math"

	"github.com/gekko3d/nsfluid/particles"
	"github.com/go-gl/mathgl/mgl64"
)

// denseVoidFraction is the Ergun/Wen-Yu regime boundary (§4.7).
const denseVoidFraction = 0.8

// emptyVoidFraction is the threshold above which a cell is treated as
// essentially free of particles.
const emptyVoidFraction = 0.999

// ComputeForceDensity is the first half of C7: the per-cell drag
// closure, producing the interaction force density fi consumed by the
// predictor (§4.3 step 3); ScatterToParticles is the reciprocal atomic
// scatter onto particle forces once fi is known. The whole model is
// skipped when nu == 0 (§4.7).
//
// Call ComputeForceDensity before Predict (fi feeds the predictor), and
// ScatterToParticles after Predict produces a stable fi for the step.
func (c *NSCore) ComputeForceDensity() error {
	if c.Cfg.Fluid.Nu == 0 {
		c.Fi.Fill(mgl64.Vec3{})
		return nil
	}
	mu := c.Cfg.Fluid.Rho * c.Cfg.Fluid.Nu
	rho := c.Cfg.Fluid.Rho

	c.Ix.ForEachCell(func(i, j, k int) {
		phi := c.Phi.At(i, j, k)
		if phi >= emptyVoidFraction {
			c.Fi.Set(i, j, k, mgl64.Vec3{})
			c.VPAvg.Set(i, j, k, c.V.At(i, j, k))
			return
		}

		dAvg := c.DAvg.At(i, j, k)
		vRel := c.V.At(i, j, k).Sub(c.VPAvg.At(i, j, k))
		speed := vRel.Len()

		fi := dragForceDensity(phi, dAvg, speed, mu, rho, vRel)
		c.Fi.Set(i, j, k, fi)
	})
	c.Ghost.RefreshVector(c.Fi)
	c.Ghost.RefreshVector(c.VPAvg)
	return checkFiniteVector(c.Fi, c.Ix, "interaction", "f_i")
}

// dragForceDensity evaluates the Ergun (dense) or Wen-Yu (dilute)
// closure per §4.7.
func dragForceDensity(phi, dAvg, speed, mu, rho float64, vRel mgl64.Vec3) mgl64.Vec3 {
	if dAvg == 0 || speed == 0 {
		return mgl64.Vec3{}
	}

	re := phi * rho * dAvg * speed / mu
	var cd float64
	if re >= 1000 {
		cd = 0.44
	} else {
		cd = 24 / re * (1 + 0.15*math.Pow(re, 0.687))
	}

	if phi <= denseVoidFraction {
		coef := 150*mu*(1-phi)*(1-phi)/(phi*dAvg*dAvg) + 1.75*(1-phi)*rho*speed/dAvg
		return vRel.Mul(coef)
	}

	coef := 0.75 * cd * (1 - phi) * math.Pow(phi, -2.65) * mu * rho * speed / dAvg
	return vRel.Mul(coef)
}

// ScatterToParticles is the reciprocal half of C7: it adds
// f_drag = (fi / (1-phi)) * (4/3 pi r^3) atomically onto each particle's
// accumulated force, per §4.7 and the atomic read-modify-write carve-out
// in §5.
func (c *NSCore) ScatterToParticles(snap *particles.Snapshot, out *particles.Forces) error {
	if c.Cfg.Fluid.Nu == 0 {
		return nil
	}

	R := math.Min(c.dx, math.Min(c.dy, c.dz)) / 2

	c.Ix.ForEachCell(func(i, j, k int) {
		phi := c.Phi.At(i, j, k)
		if phi >= emptyVoidFraction {
			return
		}
		fi := c.Fi.At(i, j, k)
		denom := 1 - phi
		if denom <= 0 {
			return
		}
		cx := (float64(i) + 0.5) * c.dx
		cy := (float64(j) + 0.5) * c.dy
		cz := (float64(k) + 0.5) * c.dz

		for _, hashID := range snap.HashOf(i, j, k) {
			if int(hashID) >= len(snap.CellStart) {
				continue
			}
			rng := particles.CellRange{Start: snap.CellStart[hashID], End: snap.CellEnd[hashID]}
			if rng.Empty() {
				continue
			}
			for p := rng.Start; p < rng.End; p++ {
				s := snap.Positions[p]
				r := s.Radius
				d := particles.Dist3(cx, cy, cz, s, c.Ext.Lx, c.Ext.Ly)
				if d >= R+r {
					// Same overlap test as ProjectParticles: no overlap
					// with this cell's sphere, so this cell contributes
					// no drag onto this particle.
					continue
				}

				vol := 4.0 / 3.0 * math.Pi * r * r * r
				coef := vol / denom
				origIdx := snap.OrigIndex[p]
				out.Add(origIdx, fi[0]*coef, fi[1]*coef, fi[2]*coef)
			}
		}
	})
	return nil
}

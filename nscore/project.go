package nscore

import (
	"math"

	"github.com/gekko3d/nsfluid/particles"
	"github.com/go-gl/mathgl/mgl64"
)

// ProjectParticles is C2: the cell-wise porosity/velocity/diameter
// projector (§4.2). For each fluid cell, the cell is treated
// geometrically as a sphere of radius R = min(dx,dy,dz)/2 inscribed at
// the cell center; every candidate particle in the 27 neighboring
// particle-hash cells is tested against that sphere and its overlap
// volume subtracted from the void volume.
func (c *NSCore) ProjectParticles(snap *particles.Snapshot) error {
	R := math.Min(c.dx, math.Min(c.dy, c.dz)) / 2
	cellSphereVol := 4.0 / 3.0 * math.Pi * R * R * R

	c.Ix.ForEachCell(func(i, j, k int) {
		cx := (float64(i) + 0.5) * c.dx
		cy := (float64(j) + 0.5) * c.dy
		cz := (float64(k) + 0.5) * c.dz

		voidVol := cellSphereVol
		var sumVX, sumVY, sumVZ, sumD float64
		n := 0

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
				d := particles.Dist3(cx, cy, cz, s, c.Ext.Lx, c.Ext.Ly)
				r := s.Radius

				switch {
				case d <= R-r:
					// Particle fully inside the cell sphere.
					voidVol -= 4.0 / 3.0 * math.Pi * r * r * r
					n++
					vel := snap.Velocities[p]
					sumVX += vel.VX
					sumVY += vel.VY
					sumVZ += vel.VZ
					sumD += 2 * r
				case d > R-r && d < R+r:
					// Partial overlap: subtract the lens-cap volume.
					voidVol -= lensCapVolume(R, r, d)
					n++
					vel := snap.Velocities[p]
					sumVX += vel.VX
					sumVY += vel.VY
					sumVZ += vel.VZ
					sumD += 2 * r
				default:
					// No overlap; ignore.
				}
			}
		}

		phiPrev := c.PhiPrev.At(i, j, k)
		var phi float64
		var vpAvg mgl64.Vec3
		var dAvg float64
		if n > 0 {
			// Design Notes §9: the source compared phi to 0.999 before
			// it was assigned, intending to guard the n==0
			// division-by-zero case. Fixed here to guard on n > 0
			// directly.
			phi = clamp01(voidVol / cellSphereVol)
			vpAvg = mgl64.Vec3{sumVX / float64(n), sumVY / float64(n), sumVZ / float64(n)}
			dAvg = sumD / float64(n)
		} else {
			// §7(d): empty cell, locally handled as fluid-only.
			phi = 1.0
			vpAvg = c.V.At(i, j, k)
			dAvg = 0
		}

		dphi := 0.0
		if !c.firstStep {
			dphi = phi - phiPrev
		}

		c.Phi.Set(i, j, k, phi)
		c.VPAvg.Set(i, j, k, vpAvg)
		c.DAvg.Set(i, j, k, dAvg)
		c.DPhi.Set(i, j, k, dphi)
	})

	c.Ghost.RefreshScalar(c.Phi)
	c.Ghost.RefreshScalar(c.DPhi)
	c.Ghost.RefreshVector(c.VPAvg)
	c.Ghost.RefreshScalar(c.DAvg)

	// phi_prev <- phi for next step's dphi.
	copyScalar(c.PhiPrev, c.Phi, c.Ix)
	return nil
}

// lensCapVolume is the closed-form intersection volume of two spheres
// of radius R and r whose centers are distance d apart (§4.2).
func lensCapVolume(R, r, d float64) float64 {
	return math.Pi * (R + r - d) * (R + r - d) *
		(d*d + 2*d*r - 3*r*r + 2*d*R + 6*r*R - 3*R*R) / (12 * d)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func copyScalar(dst, src interface {
	At(i, j, k int) float64
	Set(i, j, k int, v float64)
}, ix interface{ ForEachCell(func(i, j, k int)) }) {
	ix.ForEachCell(func(i, j, k int) {
		dst.Set(i, j, k, src.At(i, j, k))
	})
}

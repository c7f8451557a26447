package nscore

import "github.com/go-gl/mathgl/mgl64"

// HostSnapshot is a host-readable mirror of the fields the driver is
// allowed to inspect between steps (§3 lifecycle: "Host mirrors exist
// only for fields that must be inspected between steps (p, v, v_p, phi,
// dphi, norm, epsilon)").
type HostSnapshot struct {
	P       []float64
	V       []mgl64.Vec3
	VP      []mgl64.Vec3
	Phi     []float64
	DPhi    []float64
	Norm    []float64
	Epsilon []float64
}

// Snapshot copies the interior (ghost-excluded) values of the
// host-visible fields into a flat, x-fastest layout for checkpointing or
// inspection.
func (c *NSCore) Snapshot() *HostSnapshot {
	n := c.Dims.Nx * c.Dims.Ny * c.Dims.Nz
	snap := &HostSnapshot{
		P:       make([]float64, n),
		V:       make([]mgl64.Vec3, n),
		VP:      make([]mgl64.Vec3, n),
		Phi:     make([]float64, n),
		DPhi:    make([]float64, n),
		Norm:    make([]float64, n),
		Epsilon: make([]float64, n),
	}

	nx, ny := c.Dims.Nx, c.Dims.Ny
	for k := 0; k < c.Dims.Nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				lin := i + j*nx + k*nx*ny
				snap.P[lin] = c.P.At(i, j, k)
				snap.V[lin] = c.V.At(i, j, k)
				snap.VP[lin] = c.VP.At(i, j, k)
				snap.Phi[lin] = c.Phi.At(i, j, k)
				snap.DPhi[lin] = c.DPhi.At(i, j, k)
				snap.Norm[lin] = c.Norm.At(i, j, k)
				snap.Epsilon[lin] = c.Epsilon.At(i, j, k)
			}
		}
	}
	return snap
}

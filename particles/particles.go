// Package particles defines the read-only external-interface contract
// between the fluid core and the (out-of-scope) DEM/neighbor-hashing
// subsystem, per spec.md §6.
package particles

import "math"

// EmptyCell is the sentinel value of CellEnd/CellStart denoting a cell
// hash bucket with no particles.
const EmptyCell = 0xFFFFFFFF

// Sample is one entry of the hash-sorted particle position array,
// x_sorted[i] = (x, y, z, radius).
type Sample struct {
	X, Y, Z float64
	Radius  float64
}

// Velocity is one entry of the hash-sorted velocity array,
// vel_sorted[i] = (vx, vy, vz, fixed_flag).
type Velocity struct {
	VX, VY, VZ float64
	Fixed      bool
}

// CellRange is the half-open [Start, End) index range into the sorted
// arrays for one hash-cell bucket. A bucket with no particles carries
// Start == EmptyCell (§6).
type CellRange struct {
	Start, End uint32
}

// Empty reports whether this bucket has no particles.
func (r CellRange) Empty() bool {
	return r.Start == EmptyCell
}

// Snapshot bundles the four read-only arrays C2 and C7 consume, plus
// the inverse permutation back to original particle slots.
type Snapshot struct {
	Positions  []Sample
	Velocities []Velocity
	// CellStart/CellEnd are indexed by a cell hash id in the particle
	// subsystem's own hash grid, which need not share resolution with
	// the fluid grid; HashOf below resolves that mapping for one
	// fluid cell.
	CellStart []uint32
	CellEnd   []uint32
	// OrigIndex[i] is the original particle slot gridParticleIndex[i]
	// maps sorted slot i back to — used when scattering forces.
	OrigIndex []uint32
	// HashOf maps a fluid-cell coordinate to the 27 neighboring
	// particle-hash cell ids to scan (including itself), already
	// resolved for periodic wrap in x/y by the caller that built the
	// snapshot (§4.2: "respecting periodic boundary distance
	// corrections").
	HashOf func(i, j, k int) []uint32
}

// Forces is the outbound accumulator C7 scatters drag into:
// force[origIdx] is a 4-vector whose fourth slot is unused by this core
// (§6).
type Forces struct {
	data [][4]float64
}

// NewForces allocates a zeroed force accumulator sized to n original
// particle slots.
func NewForces(n int) *Forces {
	return &Forces{data: make([][4]float64, n)}
}

// Raw exposes the backing per-particle 4-vectors.
func (f *Forces) Raw() [][4]float64 { return f.data }

// Add accumulates (fx,fy,fz) into the particle at origIdx. Safe for
// concurrent calls with distinct or overlapping origIdx values: the
// many-cells-touch-one-particle case (§4.7, §9) is resolved with a
// CAS-retry loop on the IEEE-754 bit pattern, Go's idiom for an atomic
// float add since sync/atomic has no native AddFloat64 (the same
// CompareAndSwapUint64-over-the-bits technique Prometheus counters use).
func (f *Forces) Add(origIdx uint32, fx, fy, fz float64) {
	addAtomicF64(&f.data[origIdx][0], fx)
	addAtomicF64(&f.data[origIdx][1], fy)
	addAtomicF64(&f.data[origIdx][2], fz)
}

// Periodic computes the minimum-image distance correction along one
// periodic axis of extent L — used by C2 when scanning the 27
// neighboring hash cells across a periodic boundary (§4.2).
func Periodic(d, L float64) float64 {
	if d > 0.5*L {
		return d - L
	}
	if d < -0.5*L {
		return d + L
	}
	return d
}

// Dist3 returns the Euclidean distance between a fluid-cell center and a
// particle sample, applying periodic minimum-image correction on x and
// y (the fluid grid's periodic axes, §4.1).
func Dist3(cx, cy, cz float64, s Sample, Lx, Ly float64) float64 {
	dx := Periodic(s.X-cx, Lx)
	dy := Periodic(s.Y-cy, Ly)
	dz := s.Z - cz
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

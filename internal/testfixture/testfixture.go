// Package testfixture builds synthetic particles.Snapshot values for
// tests, adapted from the teacher's mod_spatialgrid.go cell/hash shape
// into the read-only sorted-array-plus-range-table contract of
// particles.Snapshot.
package testfixture

import (
	"sort"

	"github.com/gekko3d/nsfluid/grid"
	"github.com/gekko3d/nsfluid/particles"
)

// ParticleSpec places one sphere at a world position for a test.
type ParticleSpec struct {
	X, Y, Z float64
	Radius  float64
	VX, VY, VZ float64
}

// Build constructs a particles.Snapshot whose hash grid shares the fluid
// grid's resolution and extent, so HashOf(i,j,k) is the 27 cells
// surrounding (i,j,k) with periodic wrap on x/y (matching the fluid
// grid's own periodicity, §4.1) and clamping on z. Each distinct hash id
// is listed once, so a cell that wrapping or clamping reaches twice is
// not scanned twice.
func Build(dims grid.Dims, ext grid.Extent, specs []ParticleSpec) *particles.Snapshot {
	nx, ny, nz := dims.Nx, dims.Ny, dims.Nz
	dx, dy, dz := ext.Lx/float64(nx), ext.Ly/float64(ny), ext.Lz/float64(nz)

	hashOfPos := func(x, y, z float64) int {
		i := clampWrap(int(x/dx), nx)
		j := clampWrap(int(y/dy), ny)
		k := clampInt(int(z/dz), nz)
		return i + j*nx + k*nx*ny
	}

	type indexed struct {
		hash int
		orig int
		spec ParticleSpec
	}
	entries := make([]indexed, len(specs))
	for idx, s := range specs {
		entries[idx] = indexed{hash: hashOfPos(s.X, s.Y, s.Z), orig: idx, spec: s}
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].hash < entries[b].hash })

	n := nx * ny * nz
	cellStart := make([]uint32, n)
	cellEnd := make([]uint32, n)
	for i := range cellStart {
		cellStart[i] = particles.EmptyCell
		cellEnd[i] = particles.EmptyCell
	}

	positions := make([]particles.Sample, len(entries))
	velocities := make([]particles.Velocity, len(entries))
	origIndex := make([]uint32, len(entries))

	for i, e := range entries {
		positions[i] = particles.Sample{X: e.spec.X, Y: e.spec.Y, Z: e.spec.Z, Radius: e.spec.Radius}
		velocities[i] = particles.Velocity{VX: e.spec.VX, VY: e.spec.VY, VZ: e.spec.VZ}
		origIndex[i] = uint32(e.orig)

		if cellStart[e.hash] == particles.EmptyCell {
			cellStart[e.hash] = uint32(i)
		}
		cellEnd[e.hash] = uint32(i + 1)
	}

	hashOf := func(i, j, k int) []uint32 {
		ids := make([]uint32, 0, 27)
		seen := make(map[uint32]bool, 27)
		for dk := -1; dk <= 1; dk++ {
			zk := clampInt(k+dk, nz)
			for dj := -1; dj <= 1; dj++ {
				yj := clampWrap(j+dj, ny)
				for di := -1; di <= 1; di++ {
					xi := clampWrap(i+di, nx)
					id := uint32(xi + yj*nx + zk*nx*ny)
					if !seen[id] {
						seen[id] = true
						ids = append(ids, id)
					}
				}
			}
		}
		return ids
	}

	return &particles.Snapshot{
		Positions:  positions,
		Velocities: velocities,
		CellStart:  cellStart,
		CellEnd:    cellEnd,
		OrigIndex:  origIndex,
		HashOf:     hashOf,
	}
}

func clampWrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func clampInt(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Package fields implements the padded, ghost-haloed scalar, vector,
// and symmetric-tensor storage described in spec.md §3: every field is
// stored with a one-cell ghost halo on all six faces, a storage
// footprint of (nx+2)(ny+2)(nz+2) per scalar.
package fields

import (
	"github.com/gekko3d/nsfluid/grid"
	"github.com/go-gl/mathgl/mgl64"
)

// Scalar is a single scalar field over the padded grid (p, phi, dphi,
// d_avg, epsilon, f, norm, ...).
type Scalar struct {
	ix   *grid.Indexer
	data []float64
}

// NewScalar allocates a zeroed scalar field.
func NewScalar(ix *grid.Indexer) *Scalar {
	return &Scalar{ix: ix, data: make([]float64, ix.CellCount())}
}

func (s *Scalar) At(i, j, k int) float64     { return s.data[s.ix.CellIndex(i, j, k)] }
func (s *Scalar) Set(i, j, k int, v float64) { s.data[s.ix.CellIndex(i, j, k)] = v }

// Raw exposes the backing slice for host-mirror snapshotting (§3
// lifecycle: host mirrors exist only for fields inspected between
// steps).
func (s *Scalar) Raw() []float64 { return s.data }

// Fill sets every interior cell (ghosts excluded) to v.
func (s *Scalar) Fill(v float64) {
	ix := s.ix
	ix.ForEachCell(func(i, j, k int) { s.Set(i, j, k, v) })
}

// Vector is a 3-component field over the padded grid (v, v_p, vp_avg,
// fi, div_phi_vi_v, div_phi_tau).
type Vector struct {
	ix         *grid.Indexer
	x, y, z    []float64
}

// NewVector allocates a zeroed 3-vector field.
func NewVector(ix *grid.Indexer) *Vector {
	n := ix.CellCount()
	return &Vector{ix: ix, x: make([]float64, n), y: make([]float64, n), z: make([]float64, n)}
}

func (v *Vector) At(i, j, k int) mgl64.Vec3 {
	idx := v.ix.CellIndex(i, j, k)
	return mgl64.Vec3{v.x[idx], v.y[idx], v.z[idx]}
}

func (v *Vector) Set(i, j, k int, val mgl64.Vec3) {
	idx := v.ix.CellIndex(i, j, k)
	v.x[idx], v.y[idx], v.z[idx] = val[0], val[1], val[2]
}

func (v *Vector) AtVec(i, j, k int) (x, y, z float64) {
	idx := v.ix.CellIndex(i, j, k)
	return v.x[idx], v.y[idx], v.z[idx]
}

func (v *Vector) SetVec(i, j, k int, x, y, z float64) {
	idx := v.ix.CellIndex(i, j, k)
	v.x[idx], v.y[idx], v.z[idx] = x, y, z
}

// Fill sets every interior cell to val.
func (v *Vector) Fill(val mgl64.Vec3) {
	v.ix.ForEachCell(func(i, j, k int) { v.Set(i, j, k, val) })
}

// Tensor6 is the symmetric 3x3 viscous stress tensor tau, stored as six
// independent components per cell (I4): xx, xy, xz, yy, yz, zz.
type Tensor6 struct {
	ix   *grid.Indexer
	comp [6][]float64
}

// Tensor6 component indices, matching SPEC_FULL's xx,xy,xz,yy,yz,zz
// ordering (Design Notes: "small cell-stride record").
const (
	TXX = iota
	TXY
	TXZ
	TYY
	TYZ
	TZZ
)

// NewTensor6 allocates a zeroed symmetric tensor field.
func NewTensor6(ix *grid.Indexer) *Tensor6 {
	n := ix.CellCount()
	t := &Tensor6{ix: ix}
	for c := range t.comp {
		t.comp[c] = make([]float64, n)
	}
	return t
}

// At returns the six stored components at a cell.
func (t *Tensor6) At(i, j, k int) [6]float64 {
	idx := t.ix.CellIndex(i, j, k)
	var out [6]float64
	for c := 0; c < 6; c++ {
		out[c] = t.comp[c][idx]
	}
	return out
}

// Set writes the six stored components at a cell.
func (t *Tensor6) Set(i, j, k int, v [6]float64) {
	idx := t.ix.CellIndex(i, j, k)
	for c := 0; c < 6; c++ {
		t.comp[c][idx] = v[c]
	}
}

func (t *Tensor6) AtTensor(i, j, k int) [6]float64   { return t.At(i, j, k) }
func (t *Tensor6) SetTensor(i, j, k int, v [6]float64) { t.Set(i, j, k, v) }

// Elem retrieves a single symmetric element tau_ab for a,b in {0,1,2}
// (x,y,z), satisfying P3 by construction: Elem(a,b) == Elem(b,a).
func (t *Tensor6) Elem(i, j, k, a, b int) float64 {
	v := t.At(i, j, k)
	return v[symIndex(a, b)]
}

func symIndex(a, b int) int {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == 0 && b == 0:
		return TXX
	case a == 0 && b == 1:
		return TXY
	case a == 0 && b == 2:
		return TXZ
	case a == 1 && b == 1:
		return TYY
	case a == 1 && b == 2:
		return TYZ
	default:
		return TZZ
	}
}

// FaceScalar stores one axis's staggered face flux (v_x, v_y, or v_z).
type FaceScalar struct {
	ix   *grid.Indexer
	axis grid.Axis
	data []float64
}

// NewFaceScalar allocates a zeroed staggered face field for one axis.
func NewFaceScalar(ix *grid.Indexer, axis grid.Axis) *FaceScalar {
	return &FaceScalar{ix: ix, axis: axis, data: make([]float64, ix.FaceCount())}
}

func (f *FaceScalar) At(i, j, k int) float64 {
	return f.data[f.ix.FaceIndex(i, j, k, f.axis)]
}

func (f *FaceScalar) Set(i, j, k int, v float64) {
	f.data[f.ix.FaceIndex(i, j, k, f.axis)] = v
}

func (f *FaceScalar) InBounds(i, j, k int) bool {
	return f.ix.InFaceBounds(i, j, k, f.axis)
}

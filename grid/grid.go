// Package grid provides the Cartesian cell-grid geometry, ghost-cell
// index arithmetic, and boundary-mode dispatch shared by every fluid
// kernel stage.
package grid

import "fmt"

// BoundaryMode selects how a ghost layer along one axis face is derived
// from the interior.
type BoundaryMode int

const (
	// Dirichlet mirrors the interior into the ghost cell; the value at
	// the boundary itself is fixed externally by the caller.
	Dirichlet BoundaryMode = 0
	// Neumann copies the first interior plane into the ghost so the
	// discrete gradient across the boundary is zero.
	Neumann BoundaryMode = 1
	// Periodic copies the interior plane on the opposite side of the
	// domain into the ghost.
	Periodic BoundaryMode = 2
)

func (m BoundaryMode) String() string {
	switch m {
	case Dirichlet:
		return "dirichlet"
	case Neumann:
		return "neumann"
	case Periodic:
		return "periodic"
	default:
		return fmt.Sprintf("BoundaryMode(%d)", int(m))
	}
}

func (m BoundaryMode) valid() bool {
	return m == Dirichlet || m == Neumann || m == Periodic
}

// Dims is the interior cell count of the grid along each axis.
type Dims struct {
	Nx, Ny, Nz int
}

// Extent is the physical box size the grid covers.
type Extent struct {
	Lx, Ly, Lz float64
}

// CellSize returns the per-axis cell spacing d = L / n.
func (e Extent) CellSize(d Dims) (dx, dy, dz float64) {
	return e.Lx / float64(d.Nx), e.Ly / float64(d.Ny), e.Lz / float64(d.Nz)
}

// BoundaryConfig is the z-axis boundary regime; x and y are always
// periodic (§4.1).
type BoundaryConfig struct {
	Bot BoundaryMode
	Top BoundaryMode
}

func (b BoundaryConfig) Validate() error {
	if !b.Bot.valid() {
		return fmt.Errorf("grid: invalid bc_bot %d", int(b.Bot))
	}
	if !b.Top.valid() {
		return fmt.Errorf("grid: invalid bc_top %d", int(b.Top))
	}
	return nil
}

// Indexer maps 3D cell/face coordinates (which may fall in the one-cell
// ghost halo, i.e. the range -1..n) to flat storage offsets. It isolates
// the ghost-layer storage convention from every kernel so the same
// kernel code can run against device buffers or a single-threaded CPU
// reference buffer (Design Notes §9).
type Indexer struct {
	Dims  Dims
	sx, sy, sz int // padded extents, nx+2 etc.
}

// NewIndexer builds an Indexer for the given interior dimensions.
func NewIndexer(d Dims) *Indexer {
	return &Indexer{
		Dims: d,
		sx:   d.Nx + 2,
		sy:   d.Ny + 2,
		sz:   d.Nz + 2,
	}
}

// CellCount is the total number of scalar slots per field, including
// the one-cell ghost halo on all six faces: (nx+2)(ny+2)(nz+2).
func (ix *Indexer) CellCount() int {
	return ix.sx * ix.sy * ix.sz
}

// CellIndex flattens a cell coordinate (i,j,k in -1..n inclusive of the
// ghost layer) into a storage offset.
func (ix *Indexer) CellIndex(i, j, k int) int {
	return (i+1) + (j+1)*ix.sx + (k+1)*ix.sx*ix.sy
}

// Axis selects which staggered face-velocity component an operation
// addresses.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// FaceCount is the number of staggered face slots along an axis:
// (nx+1)(ny+1)(nz+1) total positions, but only the axis-normal family is
// materialized per component as described in §3.
func (ix *Indexer) FaceCount() int {
	return (ix.Dims.Nx + 1) * (ix.Dims.Ny + 1) * (ix.Dims.Nz + 1)
}

// FaceIndex flattens a staggered face coordinate. The face grid shares
// the same (nx+1)(ny+1)(nz+1) shape regardless of axis; callers gate
// validity against Dims for the axis they are addressing (Design Notes:
// the source's max-face-write bug conflated axes here — this
// implementation keeps each axis's face array distinct by construction,
// since FaceIndex is only ever called through an axis-specific buffer).
func (ix *Indexer) FaceIndex(i, j, k int, axis Axis) int {
	fx, fy := ix.Dims.Nx+1, ix.Dims.Ny+1
	return i + j*fx + k*fx*fy
}

// InBounds reports whether (i,j,k) is a valid interior cell (excludes
// the ghost halo).
func (ix *Indexer) InBounds(i, j, k int) bool {
	return i >= 0 && i < ix.Dims.Nx &&
		j >= 0 && j < ix.Dims.Ny &&
		k >= 0 && k < ix.Dims.Nz
}

// InFaceBounds reports whether (x,y,z) is a valid staggered face
// position for the given axis. Each axis is gated by its own extent,
// fixing the Design Notes §9 typo/bug where the original guarded z with
// nz but indexed all axes' max faces into the x-face array.
func (ix *Indexer) InFaceBounds(x, y, z int, axis Axis) bool {
	switch axis {
	case AxisX:
		return x <= ix.Dims.Nx && y < ix.Dims.Ny && z < ix.Dims.Nz
	case AxisY:
		return x < ix.Dims.Nx && y <= ix.Dims.Ny && z < ix.Dims.Nz
	case AxisZ:
		return x < ix.Dims.Nx && y < ix.Dims.Ny && z <= ix.Dims.Nz
	default:
		return false
	}
}

package device

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/nsfluid/grid"
)

// paramsSize is the byte size of the Params uniform struct in
// shaders/jacobi.wgsl: 5 u32 + 4 f32, std140-padded to 16-byte stride.
const paramsSize = 48

// Buffers mirrors the subset of nscore.NSCore's fields the Jacobi
// compute kernel touches into device-resident wgpu.Buffers, sized
// exactly from the same grid.Indexer the CPU reference uses (§3: "every
// scalar or vector field is stored with a one-cell-thick ghost halo").
type Buffers struct {
	Params     *wgpu.Buffer
	EpsilonA   *wgpu.Buffer
	EpsilonB   *wgpu.Buffer
	F1         *wgpu.Buffer
	F2         *wgpu.Buffer
	Residual   *wgpu.Buffer
	Readback   *wgpu.Buffer
	cellCount  int
}

// NewBuffers allocates the device-side storage for one Jacobi solve
// sized to ix's cell count. cellCount scalar slots need 4 bytes each
// (f32); F2 is a vec4<f32> per cell to satisfy WGSL's storage-buffer
// alignment rules for vec3 arrays.
func NewBuffers(dev *wgpu.Device, ix *grid.Indexer) (*Buffers, error) {
	n := ix.CellCount()
	scalarSize := uint64(n) * 4
	vec4Size := uint64(n) * 16

	mk := func(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
		buf, err := dev.CreateBuffer(&wgpu.BufferDescriptor{
			Label: label,
			Size:  size,
			Usage: usage,
		})
		if err != nil {
			return nil, fmt.Errorf("device: creating buffer %q: %w", label, err)
		}
		return buf, nil
	}

	params, err := mk("JacobiParams", paramsSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	storageRW := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	epsA, err := mk("EpsilonA", scalarSize, storageRW)
	if err != nil {
		return nil, err
	}
	epsB, err := mk("EpsilonB", scalarSize, storageRW)
	if err != nil {
		return nil, err
	}
	f1, err := mk("F1", scalarSize, storageRW)
	if err != nil {
		return nil, err
	}
	f2, err := mk("F2", vec4Size, storageRW)
	if err != nil {
		return nil, err
	}
	residual, err := mk("Residual", scalarSize, storageRW)
	if err != nil {
		return nil, err
	}
	readback, err := mk("Readback", scalarSize, wgpu.BufferUsageCopyDst|wgpu.BufferUsageMapRead)
	if err != nil {
		return nil, err
	}

	return &Buffers{
		Params:    params,
		EpsilonA:  epsA,
		EpsilonB:  epsB,
		F1:        f1,
		F2:        f2,
		Residual:  residual,
		Readback:  readback,
		cellCount: n,
	}, nil
}

// Release frees every buffer this set owns.
func (b *Buffers) Release() {
	for _, buf := range []*wgpu.Buffer{b.Params, b.EpsilonA, b.EpsilonB, b.F1, b.F2, b.Residual, b.Readback} {
		if buf != nil {
			buf.Release()
		}
	}
}

package device

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/nsfluid/grid"
)

// Core is the GPU-resident counterpart of nscore.NSCore's Jacobi stage:
// the same §4.5 update formula, dispatched as a WGSL compute kernel
// instead of a goroutine worker pool. It owns its device buffers and
// compute pipeline for the lifetime of one solver instance, following
// the teacher's GpuBufferManager shape (a single owning struct wrapping
// *wgpu.Device plus every buffer/pipeline it drives).
type Core struct {
	Device   *wgpu.Device
	Ix       *grid.Indexer
	Buffers  *Buffers
	Pipeline *wgpu.ComputePipeline
	bindGrp  *wgpu.BindGroup
}

// New builds the device-resident Jacobi pipeline and its buffers for a
// grid of ix's shape.
func New(dev *wgpu.Device, ix *grid.Indexer) (*Core, error) {
	bufs, err := NewBuffers(dev, ix)
	if err != nil {
		return nil, err
	}

	module, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "JacobiShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: JacobiWGSL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("device: compiling jacobi shader: %w", err)
	}
	defer module.Release()

	pipeline, err := dev.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "JacobiPipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("device: creating jacobi pipeline: %w", err)
	}

	bgl := pipeline.GetBindGroupLayout(0)
	bg, err := dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "JacobiBindGroup",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: bufs.Params, Size: paramsSize},
			{Binding: 1, Buffer: bufs.EpsilonA, Size: bufs.EpsilonA.GetSize()},
			{Binding: 2, Buffer: bufs.EpsilonB, Size: bufs.EpsilonB.GetSize()},
			{Binding: 3, Buffer: bufs.F1, Size: bufs.F1.GetSize()},
			{Binding: 4, Buffer: bufs.F2, Size: bufs.F2.GetSize()},
			{Binding: 5, Buffer: bufs.Residual, Size: bufs.Residual.GetSize()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("device: creating jacobi bind group: %w", err)
	}

	return &Core{Device: dev, Ix: ix, Buffers: bufs, Pipeline: pipeline, bindGrp: bg}, nil
}

// JacobiParams mirrors the WGSL Params uniform struct.
type JacobiParams struct {
	Nx, Ny, Nz     uint32
	BcBot, BcTop   uint32
	Theta          float32
	Dx2, Dy2, Dz2  float32
}

// packParams serializes p into the std140-padded 48-byte layout
// shaders/jacobi.wgsl expects.
func packParams(p JacobiParams) []byte {
	buf := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(buf[0:4], p.Nx)
	binary.LittleEndian.PutUint32(buf[4:8], p.Ny)
	binary.LittleEndian.PutUint32(buf[8:12], p.Nz)
	binary.LittleEndian.PutUint32(buf[12:16], p.BcBot)
	binary.LittleEndian.PutUint32(buf[16:20], p.BcTop)
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(p.Theta))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(p.Dx2))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(p.Dy2))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(p.Dz2))
	return buf
}

// UploadParams writes the per-step Jacobi parameters to the device.
func (c *Core) UploadParams(p JacobiParams) {
	c.Device.GetQueue().WriteBuffer(c.Buffers.Params, 0, packParams(p))
}

// UploadScalar writes a host f32 scalar field into a device buffer.
func (c *Core) UploadScalar(dst *wgpu.Buffer, data []float32) {
	buf := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	c.Device.GetQueue().WriteBuffer(dst, 0, buf)
}

// DispatchSweep records one Jacobi sweep compute pass into encoder, the
// device analogue of nscore.jacobiSweep. Workgroup size is 4x4x4 to
// match shaders/jacobi.wgsl's @workgroup_size attribute.
func (c *Core) DispatchSweep(encoder *wgpu.CommandEncoder) {
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(c.Pipeline)
	pass.SetBindGroup(0, c.bindGrp, nil)

	wgX := (uint32(c.Ix.Dims.Nx) + 3) / 4
	wgY := (uint32(c.Ix.Dims.Ny) + 3) / 4
	wgZ := (uint32(c.Ix.Dims.Nz) + 3) / 4
	pass.DispatchWorkgroups(wgX, wgY, wgZ)
	pass.End()
}

// ReadbackResidual copies the residual buffer into a host-visible
// staging buffer and blocks (via Device.Poll) until the map completes,
// mirroring the teacher's ReadbackHiZ MapAsync/Poll loop.
func (c *Core) ReadbackResidual(encoder *wgpu.CommandEncoder) ([]float32, error) {
	encoder.CopyBufferToBuffer(c.Buffers.Residual, 0, c.Buffers.Readback, 0, c.Buffers.Residual.GetSize())

	var mapErr error
	mapped := false
	c.Buffers.Readback.MapAsync(wgpu.MapModeRead, 0, c.Buffers.Readback.GetSize(), func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("device: residual readback map failed: %v", status)
		}
		mapped = true
	})
	for !mapped {
		c.Device.Poll(true, nil)
	}
	if mapErr != nil {
		return nil, mapErr
	}

	raw := c.Buffers.Readback.GetMappedRange(0, uint(c.Buffers.Readback.GetSize()))
	out := make([]float32, len(raw)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
	}
	c.Buffers.Readback.Unmap()
	return out, nil
}

// Close releases the device resources this Core owns.
func (c *Core) Close() error {
	c.Buffers.Release()
	c.Pipeline.Release()
	return nil
}

// Package device is the GPU-resident execution path for nscore's Jacobi
// pressure-Poisson stage, mirroring that one CPU reference kernel
// field-for-field; the other stages have no device counterpart. It is
// grounded on the teacher's
// voxelrt/rt/gpu compute-dispatch idiom (wgpu.Device/Buffer/
// ComputePipeline) and voxelrt/rt/shaders' go:embed pattern for WGSL
// source.
package device

import _ "embed"

//go:embed shaders/jacobi.wgsl
var JacobiWGSL string

package grid

import (
	"runtime"
	"sync"
)

// ParallelFor is this rewrite's rendition of a grid-stride kernel launch
// (§5): n logical workers, each owning one linear cell/face index, run
// to completion before the call returns — the Go analogue of a device
// kernel launch followed by the implicit device-wide sync at its
// boundary. Chunking across goroutines follows the same fixed-chunk,
// worker-owns-a-range pattern as the teacher pack's CPU-parallel
// behavior pass (pthm-soup's game/parallel.go computeChunk split).
//
// fn must not assume any ordering between indices and must not read
// values written by another index in the same call (§5: "no guarantee
// on the order cells are processed ... reads from one buffer, writes to
// another").
func ParallelFor(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(i0, i1 int) {
			defer wg.Done()
			for i := i0; i < i1; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForEachCell grid-strides over every interior cell (i,j,k), dispatching
// one logical worker per cell via ParallelFor.
func (ix *Indexer) ForEachCell(fn func(i, j, k int)) {
	nx, ny, nz := ix.Dims.Nx, ix.Dims.Ny, ix.Dims.Nz
	n := nx * ny * nz
	ParallelFor(n, func(lin int) {
		i := lin % nx
		j := (lin / nx) % ny
		k := lin / (nx * ny)
		fn(i, j, k)
	})
}

package nscore

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

type cellRanger interface {
	ForEachCell(fn func(i, j, k int))
}

// checkFiniteScalar returns a *NumericError for the first non-finite
// value found in an interior cell of buf, or nil if all finite (§7(b)).
// ix.ForEachCell dispatches the callback across goroutines (§5's
// grid-stride workers), so the shared result needs its own lock rather
// than a plain variable racing under -race.
func checkFiniteScalar(buf interface{ At(i, j, k int) float64 }, ix cellRanger, stage, field string) error {
	var mu sync.Mutex
	var firstErr error
	ix.ForEachCell(func(i, j, k int) {
		v := buf.At(i, j, k)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			mu.Lock()
			if firstErr == nil {
				firstErr = &NumericError{Stage: stage, Field: field, I: i, J: j, K: k}
			}
			mu.Unlock()
		}
	})
	return firstErr
}

// checkFiniteVector is the vector-field analogue of checkFiniteScalar.
func checkFiniteVector(buf interface{ At(i, j, k int) mgl64.Vec3 }, ix cellRanger, stage, field string) error {
	var mu sync.Mutex
	var firstErr error
	ix.ForEachCell(func(i, j, k int) {
		v := buf.At(i, j, k)
		for a := 0; a < 3; a++ {
			if math.IsNaN(v[a]) || math.IsInf(v[a], 0) {
				mu.Lock()
				if firstErr == nil {
					firstErr = &NumericError{Stage: stage, Field: field, I: i, J: j, K: k}
				}
				mu.Unlock()
				return
			}
		}
	})
	return firstErr
}

package grid

import "testing"

func TestRefreshScalarPeriodicXY(t *testing.T) {
	ix := NewIndexer(Dims{Nx: 4, Ny: 4, Nz: 4})
	buf := newTestScalar(ix)
	for k := 0; k < 4; k++ {
		for j := 0; j < 4; j++ {
			for i := 0; i < 4; i++ {
				buf.Set(i, j, k, float64(i+10*j+100*k))
			}
		}
	}
	rules := NewGhostRules(ix, BoundaryConfig{Bot: Dirichlet, Top: Dirichlet})
	rules.RefreshScalar(buf)

	for k := 0; k < 4; k++ {
		for j := 0; j < 4; j++ {
			if got, want := buf.At(-1, j, k), buf.At(3, j, k); got != want {
				t.Errorf("x-lo ghost at j=%d k=%d = %v, want %v", j, k, got, want)
			}
			if got, want := buf.At(4, j, k), buf.At(0, j, k); got != want {
				t.Errorf("x-hi ghost at j=%d k=%d = %v, want %v", j, k, got, want)
			}
		}
	}
	for k := 0; k < 4; k++ {
		for i := -1; i <= 4; i++ {
			if got, want := buf.At(i, -1, k), buf.At(i, 3, k); got != want {
				t.Errorf("y-lo ghost at i=%d k=%d = %v, want %v", i, k, got, want)
			}
			if got, want := buf.At(i, 4, k), buf.At(i, 0, k); got != want {
				t.Errorf("y-hi ghost at i=%d k=%d = %v, want %v", i, k, got, want)
			}
		}
	}
}

func TestRefreshScalarZDirichletMirrors(t *testing.T) {
	ix := NewIndexer(Dims{Nx: 3, Ny: 3, Nz: 3})
	buf := newTestScalar(ix)
	for k := 0; k < 3; k++ {
		for j := 0; j < 3; j++ {
			for i := 0; i < 3; i++ {
				buf.Set(i, j, k, float64(1+i+j+k))
			}
		}
	}
	rules := NewGhostRules(ix, BoundaryConfig{Bot: Dirichlet, Top: Dirichlet})
	rules.RefreshScalar(buf)

	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			if got, want := buf.At(i, j, -1), buf.At(i, j, 0); got != want {
				t.Errorf("z-bot mirror at i=%d j=%d = %v, want %v", i, j, got, want)
			}
			if got, want := buf.At(i, j, 3), buf.At(i, j, 2); got != want {
				t.Errorf("z-top mirror at i=%d j=%d = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestRefreshScalarZNeumannZeroGradient(t *testing.T) {
	ix := NewIndexer(Dims{Nx: 2, Ny: 2, Nz: 2})
	buf := newTestScalar(ix)
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				buf.Set(i, j, k, 7.0)
			}
		}
	}
	rules := NewGhostRules(ix, BoundaryConfig{Bot: Neumann, Top: Dirichlet})
	rules.RefreshScalar(buf)

	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			if got := buf.At(i, j, -1); got != buf.At(i, j, 0) {
				t.Errorf("neumann ghost at i=%d j=%d = %v, want equal to interior %v", i, j, got, buf.At(i, j, 0))
			}
		}
	}
}

func TestRefreshScalarZPeriodicWrap(t *testing.T) {
	ix := NewIndexer(Dims{Nx: 2, Ny: 2, Nz: 4})
	buf := newTestScalar(ix)
	for k := 0; k < 4; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				buf.Set(i, j, k, float64(k))
			}
		}
	}
	rules := NewGhostRules(ix, BoundaryConfig{Bot: Periodic, Top: Periodic})
	rules.RefreshScalar(buf)

	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			if got, want := buf.At(i, j, -1), buf.At(i, j, 3); got != want {
				t.Errorf("z-lo periodic wrap at i=%d j=%d = %v, want %v", i, j, got, want)
			}
			if got, want := buf.At(i, j, 4), buf.At(i, j, 0); got != want {
				t.Errorf("z-hi periodic wrap at i=%d j=%d = %v, want %v", i, j, got, want)
			}
		}
	}
}

// testScalar is a minimal in-package ScalarBuffer used only by this
// file's tests so grid's tests don't depend on the fields package.
type testScalar struct {
	ix   *Indexer
	data []float64
}

func newTestScalar(ix *Indexer) *testScalar {
	return &testScalar{ix: ix, data: make([]float64, ix.CellCount())}
}

func (s *testScalar) At(i, j, k int) float64    { return s.data[s.ix.CellIndex(i, j, k)] }
func (s *testScalar) Set(i, j, k int, v float64) { s.data[s.ix.CellIndex(i, j, k)] = v }

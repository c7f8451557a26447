package nscore

import (
	"math"
	"testing"

	"github.com/gekko3d/nsfluid/config"
	"github.com/gekko3d/nsfluid/grid"
	"github.com/gekko3d/nsfluid/internal/testfixture"
	"github.com/gekko3d/nsfluid/logging"
	"github.com/gekko3d/nsfluid/particles"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestCore(t *testing.T, mutate func(*config.Config)) *NSCore {
	t.Helper()
	cfg := *config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	core, err := New(cfg, logging.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return core
}

func emptySnapshot() *particles.Snapshot {
	return testfixture.Build(grid.Dims{Nx: 4, Ny: 4, Nz: 4}, grid.Extent{Lx: 1, Ly: 1, Lz: 1}, nil)
}

// P2: a cell with no overlapping particles gets phi=1, vp_avg=v, and
// dphi=0 on the very first step.
func TestProjectParticlesEmptyCellDefaults(t *testing.T) {
	core := newTestCore(t, func(c *config.Config) {
		c.Grid.Nx, c.Grid.Ny, c.Grid.Nz = 4, 4, 4
	})
	snap := testfixture.Build(core.Dims, core.Ext, nil)

	if err := core.ProjectParticles(snap); err != nil {
		t.Fatalf("ProjectParticles: %v", err)
	}

	core.Ix.ForEachCell(func(i, j, k int) {
		if phi := core.Phi.At(i, j, k); phi != 1.0 {
			t.Errorf("phi(%d,%d,%d) = %v, want 1.0", i, j, k, phi)
		}
		if dphi := core.DPhi.At(i, j, k); dphi != 0.0 {
			t.Errorf("dphi(%d,%d,%d) = %v, want 0 on first step", i, j, k, dphi)
		}
		vpAvg := core.VPAvg.At(i, j, k)
		v := core.V.At(i, j, k)
		if vpAvg != v {
			t.Errorf("vp_avg(%d,%d,%d) = %v, want v = %v", i, j, k, vpAvg, v)
		}
	})
}

// P2: phi stays within [0,1] and reflects the single sphere's overlap
// with the cell it is centred in (scenario 3: single settled sphere,
// placed at the centre of cell (2,2,2) so it lies wholly inside that
// cell's sphere).
func TestProjectParticlesSingleSphereBounds(t *testing.T) {
	core := newTestCore(t, func(c *config.Config) {
		c.Grid.Nx, c.Grid.Ny, c.Grid.Nz = 4, 4, 4
		c.Grid.Lx, c.Grid.Ly, c.Grid.Lz = 1, 1, 1
	})
	snap := testfixture.Build(core.Dims, core.Ext, []testfixture.ParticleSpec{
		{X: 0.625, Y: 0.625, Z: 0.625, Radius: 0.1},
	})

	if err := core.ProjectParticles(snap); err != nil {
		t.Fatalf("ProjectParticles: %v", err)
	}

	centerPhi := core.Phi.At(2, 2, 2)
	if centerPhi < 0 || centerPhi > 1 {
		t.Fatalf("center phi = %v, out of [0,1]", centerPhi)
	}
	R := math.Min(core.dx, math.Min(core.dy, core.dz)) / 2
	cellSphereVol := 4.0 / 3.0 * math.Pi * R * R * R
	particleVol := 4.0 / 3.0 * math.Pi * 0.1 * 0.1 * 0.1
	maxExpected := clamp01((cellSphereVol - particleVol) / cellSphereVol)
	if centerPhi > maxExpected+1e-9 {
		t.Errorf("center phi = %v, want <= %v", centerPhi, maxExpected)
	}

	farPhi := core.Phi.At(0, 0, 0)
	if farPhi < 0.999 {
		t.Errorf("far cell phi = %v, want >= 0.999 (no overlap)", farPhi)
	}
}

// P3: the reconstructed stress tensor is symmetric by construction.
func TestStressTensorSymmetric(t *testing.T) {
	core := newTestCore(t, nil)
	core.Ix.ForEachCell(func(i, j, k int) {
		core.V.Set(i, j, k, mgl64.Vec3{
			float64(i) * 0.1,
			float64(j) * 0.2,
			float64(k) * 0.3,
		})
	})
	core.Ghost.RefreshVector(core.V)
	core.computeStressTensor()

	core.Ix.ForEachCell(func(i, j, k int) {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				if core.Tau.Elem(i, j, k, a, b) != core.Tau.Elem(i, j, k, b, a) {
					t.Fatalf("tau(%d,%d,%d)[%d][%d] != tau[%d][%d]", i, j, k, a, b, b, a)
				}
			}
		}
	})
}

// P4: a single Jacobi sweep against a prescribed Laplacian-consistent
// epsilon barely moves the interior values.
func TestJacobiSweepLaplacianConsistency(t *testing.T) {
	core := newTestCore(t, func(c *config.Config) {
		c.Grid.Nx, c.Grid.Ny, c.Grid.Nz = 8, 8, 8
		c.Boundary.BcBot, c.Boundary.BcTop = 0, 0 // Dirichlet
	})
	// eps = z^2, so grad^2(eps) = 2 everywhere; set f1 = 2, f2 = 0 so
	// f = f1 - f2.grad(eps) = 2 matches the prescribed field exactly.
	core.Ix.ForEachCell(func(i, j, k int) {
		z := (float64(k) + 0.5) * core.dz
		core.Epsilon.Set(i, j, k, z*z)
		core.F1.Set(i, j, k, 2.0)
		core.F2.Set(i, j, k, mgl64.Vec3{})
	})
	core.Ghost.RefreshScalar(core.Epsilon)

	residuals := make([]float64, core.Ix.CellCount())
	core.jacobiSweep(1.0, residuals)

	const tolCheck = 1e-6
	core.Ix.ForEachCell(func(i, j, k int) {
		if core.onDirichletZPlane(k) {
			return
		}
		before := core.Epsilon.At(i, j, k)
		idx := core.Ix.CellIndex(i, j, k)
		after := core.EpsilonNew.Raw()[idx]
		if d := math.Abs(after - before); d >= tolCheck {
			t.Errorf("cell (%d,%d,%d): |eps_new - eps| = %v, want < %v", i, j, k, d, tolCheck)
		}
	})
}

// Scenario 6 (adapted to the grid's mandatory x/y periodicity): solve
// grad^2(eps) = 2 on a z-Dirichlet slab with eps(z=0)=0, eps(z=1)=1, and
// check convergence to the analytic solution eps = z^2.
func TestSolvePoissonAnalyticalZSquared(t *testing.T) {
	core := newTestCore(t, func(c *config.Config) {
		c.Grid.Nx, c.Grid.Ny, c.Grid.Nz = 4, 4, 16
		c.Grid.Lx, c.Grid.Ly, c.Grid.Lz = 1, 1, 1
		c.Boundary.BcBot, c.Boundary.BcTop = 0, 0 // Dirichlet
		c.Poisson.Theta = 1.0
		c.Poisson.Tol = 1e-9
		c.Poisson.MaxIter = 20000
	})
	core.Ix.ForEachCell(func(i, j, k int) {
		core.F1.Set(i, j, k, 2.0)
		core.F2.Set(i, j, k, mgl64.Vec3{})

		z := (float64(k) + 0.5) * core.dz
		if core.onDirichletZPlane(k) {
			core.Epsilon.Set(i, j, k, z*z)
			core.EpsilonNew.Set(i, j, k, z*z)
		}
	})
	core.Ghost.RefreshScalar(core.Epsilon)
	core.Ghost.RefreshScalar(core.EpsilonNew)

	result, err := core.SolvePoisson()
	if err != nil {
		t.Fatalf("SolvePoisson: %v", err)
	}
	if !result.Converged {
		t.Fatalf("did not converge: %+v", result)
	}

	core.Ix.ForEachCell(func(i, j, k int) {
		z := (float64(k) + 0.5) * core.dz
		want := z * z
		got := core.Epsilon.At(i, j, k)
		if d := math.Abs(got - want); d > 1e-3 {
			t.Errorf("eps(%d,%d,%d) = %v, want ~%v (diff %v)", i, j, k, got, want, d)
		}
	})
}

// Scenario 4: Ergun regime drag closure.
func TestDragForceDensityErgun(t *testing.T) {
	phi, dAvg, speed := 0.5, 0.01, 0.01
	rho, nu := 1000.0, 1e-6
	mu := rho * nu
	vRel := mgl64.Vec3{speed, 0, 0}

	fi := dragForceDensity(phi, dAvg, speed, mu, rho, vRel)

	want := 150*mu*(1-phi)*(1-phi)/(phi*dAvg*dAvg) + 1.75*(1-phi)*rho*speed/dAvg
	want *= speed
	if d := math.Abs(fi.Len() - want); d > 1e-9 {
		t.Errorf("|f_i| = %v, want %v (diff %v)", fi.Len(), want, d)
	}
}

// Scenario 5: Wen-Yu regime drag closure.
func TestDragForceDensityWenYu(t *testing.T) {
	phi, dAvg, speed := 0.9, 0.01, 0.01
	rho, nu := 1000.0, 1e-6
	mu := rho * nu
	vRel := mgl64.Vec3{speed, 0, 0}

	re := phi * rho * dAvg * speed / mu
	var cd float64
	if re >= 1000 {
		cd = 0.44
	} else {
		cd = 24 / re * (1 + 0.15*math.Pow(re, 0.687))
	}
	want := 0.75 * cd * (1 - phi) * math.Pow(phi, -2.65) * mu * rho * speed / dAvg * speed

	fi := dragForceDensity(phi, dAvg, speed, mu, rho, vRel)
	if d := math.Abs(fi.Len() - want); d > 1e-9 {
		t.Errorf("|f_i| = %v, want %v (diff %v)", fi.Len(), want, d)
	}
}

// Scenario 1: empty box at rest stays at rest.
func TestStepEmptyBoxAtRest(t *testing.T) {
	core := newTestCore(t, func(c *config.Config) {
		c.Grid.Nx, c.Grid.Ny, c.Grid.Nz = 4, 4, 4
		c.Boundary.BcBot, c.Boundary.BcTop = 0, 0 // Dirichlet
		c.Fluid.Rho = 1000
		c.Fluid.Nu = 1e-6
		c.Time.Dt = 1e-3
	})
	snap := emptySnapshot()
	forces := particles.NewForces(0)

	for step := 0; step < 10; step++ {
		report, err := core.Step(snap, forces)
		if err != nil {
			t.Fatalf("step %d: Step: %v", step, err)
		}
		if report.Iterations > 1 {
			t.Errorf("step %d: took %d Jacobi iterations, want <= 1", step, report.Iterations)
		}
	}

	core.Ix.ForEachCell(func(i, j, k int) {
		if p := core.P.At(i, j, k); math.Abs(p) > 1e-9 {
			t.Errorf("p(%d,%d,%d) = %v, want ~0", i, j, k, p)
		}
		v := core.V.At(i, j, k)
		if v.Len() > 1e-9 {
			t.Errorf("v(%d,%d,%d) = %v, want ~0", i, j, k, v)
		}
	})
}

// P7: with bc_top = Neumann and a quiescent initial state, v_z at the
// top boundary is unchanged by the corrector.
func TestStepNeumannTopNoFlux(t *testing.T) {
	core := newTestCore(t, func(c *config.Config) {
		c.Grid.Nx, c.Grid.Ny, c.Grid.Nz = 4, 4, 4
		c.Boundary.BcBot, c.Boundary.BcTop = 0, 1 // Dirichlet bottom, Neumann top
		c.Fluid.Nu = 1e-6
	})
	snap := emptySnapshot()
	forces := particles.NewForces(0)

	top := core.Dims.Nz - 1
	before := make([]float64, core.Dims.Nx*core.Dims.Ny)
	for j := 0; j < core.Dims.Ny; j++ {
		for i := 0; i < core.Dims.Nx; i++ {
			before[i+j*core.Dims.Nx] = core.V.At(i, j, top)[2]
		}
	}

	if _, err := core.Step(snap, forces); err != nil {
		t.Fatalf("Step: %v", err)
	}

	for j := 0; j < core.Dims.Ny; j++ {
		for i := 0; i < core.Dims.Nx; i++ {
			got := core.V.At(i, j, top)[2]
			want := before[i+j*core.Dims.Nx]
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("v_z(%d,%d,%d) = %v, want unchanged %v", i, j, top, got, want)
			}
		}
	}
}

// P6: for a single particle alone in its cell, the drag scattered onto
// that particle is f_i * (4/3 pi r^3) / (1-phi), which for a particle
// wholly inside the cell sphere equals f_i times the cell-sphere volume.
func TestScatterToParticlesMatchesForceDensity(t *testing.T) {
	core := newTestCore(t, func(c *config.Config) {
		c.Grid.Nx, c.Grid.Ny, c.Grid.Nz = 2, 2, 2
		c.Grid.Lx, c.Grid.Ly, c.Grid.Lz = 1, 1, 1
		c.Fluid.Nu = 1e-6
		c.Fluid.Rho = 1000
	})
	snap := testfixture.Build(core.Dims, core.Ext, []testfixture.ParticleSpec{
		{X: 0.25, Y: 0.25, Z: 0.25, Radius: 0.05, VX: 0, VY: 0, VZ: 0},
	})
	if err := core.ProjectParticles(snap); err != nil {
		t.Fatalf("ProjectParticles: %v", err)
	}
	core.V.Set(0, 0, 0, mgl64.Vec3{0.01, 0, 0})
	core.Ghost.RefreshVector(core.V)
	if err := core.ComputeForceDensity(); err != nil {
		t.Fatalf("ComputeForceDensity: %v", err)
	}

	forces := particles.NewForces(1)
	if err := core.ScatterToParticles(snap, forces); err != nil {
		t.Fatalf("ScatterToParticles: %v", err)
	}

	phi := core.Phi.At(0, 0, 0)
	fi := core.Fi.At(0, 0, 0)
	r := 0.05
	particleVol := 4.0 / 3.0 * math.Pi * r * r * r
	wantCoef := particleVol / (1 - phi)
	want := fi.Mul(wantCoef)

	got := forces.Raw()[0]
	for a := 0; a < 3; a++ {
		if d := math.Abs(got[a] - want[a]); d > 1e-9 {
			t.Errorf("forces[0][%d] = %v, want %v (diff %v)", a, got[a], want[a], d)
		}
	}
}

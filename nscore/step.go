package nscore

import "github.com/gekko3d/nsfluid/particles"

// StepReport summarizes one fluid step's Poisson solve outcome. A
// non-nil Warning does not mean Step failed (§7(c)): the step still
// applied its best-effort correction.
type StepReport struct {
	Iterations int
	Norm       float64
	Converged  bool
	Warning    *NotConvergedWarning
}

// Step is C8: the one-step orchestration of C2 through C7 in the order
// fixed by §2's data flow, with a ghost refresh between every stencil
// stage (I1), each stage's own method taking care of its own refreshes.
//
// A fatal error (ConfigError never reaches here; NumericError,
// DivergenceError, DeviceError) aborts the step immediately. A
// NotConvergedWarning from the Poisson solve is folded into the
// returned StepReport instead of the error return, per §7(c).
func (c *NSCore) Step(snap *particles.Snapshot, forces *particles.Forces) (*StepReport, error) {
	if err := c.ProjectParticles(snap); err != nil {
		return nil, c.failStep(err)
	}
	if err := c.ComputeForceDensity(); err != nil {
		return nil, c.failStep(err)
	}
	c.ApplyTopPressure()
	if err := c.Predict(); err != nil {
		return nil, c.failStep(err)
	}
	if err := c.AssembleForcing(); err != nil {
		return nil, c.failStep(err)
	}

	result, perr := c.SolvePoisson()
	var warning *NotConvergedWarning
	if perr != nil {
		if w, ok := perr.(*NotConvergedWarning); ok {
			warning = w
			c.log.Warnf("%s: %v", c.ID, w)
		} else {
			return nil, c.failStep(perr)
		}
	}

	if err := c.Correct(); err != nil {
		return nil, c.failStep(err)
	}
	if err := c.ScatterToParticles(snap, forces); err != nil {
		return nil, c.failStep(err)
	}

	c.firstStep = false

	return &StepReport{
		Iterations: result.Iterations,
		Norm:       result.Norm,
		Converged:  result.Converged,
		Warning:    warning,
	}, nil
}

// failStep logs a fatal step error (§7(b)/(e): NumericError,
// DivergenceError, DeviceError) before returning it, tagged with the
// core's identity so log lines from concurrent solver instances can be
// told apart.
func (c *NSCore) failStep(err error) error {
	c.log.Errorf("%s: %v", c.ID, err)
	return err
}

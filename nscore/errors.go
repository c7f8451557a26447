package nscore

import "fmt"

// NumericError is the §7(b) numeric-taxonomy failure: a non-finite
// value appeared in a field. Fatal; aborts the current step.
type NumericError struct {
	Stage string
	Field string
	I, J, K int
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("nscore: non-finite value in %s at stage %s, cell (%d,%d,%d)", e.Field, e.Stage, e.I, e.J, e.K)
}

// DivergenceError is the §7(b)/§4.5 fatal solver error surfaced when the
// Jacobi state machine reaches DIVERGED: SolvePoisson returns it when any
// epsilon_new is non-finite mid-solve. Reaching max_iter without reaching
// tol is reported as the non-fatal NotConvergedWarning instead (§7(c)).
type DivergenceError struct {
	Iterations int
	Norm       float64
	NonFinite  bool
}

func (e *DivergenceError) Error() string {
	if e.NonFinite {
		return fmt.Sprintf("nscore: poisson solve diverged (non-finite epsilon) after %d iterations", e.Iterations)
	}
	return fmt.Sprintf("nscore: poisson solve diverged: max_iter=%d exhausted, norm=%g", e.Iterations, e.Norm)
}

// NotConvergedWarning is the §7(c) non-convergence taxonomy item: the
// Poisson solver reached max_iter without reaching tol. It is not a
// fatal error — the step proceeds with the best available epsilon — so
// callers that only check `err != nil` on Step's returned error will not
// see this; it is instead reported alongside a successful StepReport
// (see StepReport.Warning).
type NotConvergedWarning struct {
	Iterations int
	Norm       float64
	Tol        float64
}

func (w *NotConvergedWarning) Error() string {
	return fmt.Sprintf("nscore: poisson solve did not converge: %d iterations, norm=%g (tol=%g)", w.Iterations, w.Norm, w.Tol)
}

// DeviceError wraps a fault reported by the accelerator runtime (§7(e)).
// Fatal, never retried.
type DeviceError struct {
	Cause error
}

func (e *DeviceError) Error() string { return fmt.Sprintf("nscore: device fault: %v", e.Cause) }
func (e *DeviceError) Unwrap() error { return e.Cause }

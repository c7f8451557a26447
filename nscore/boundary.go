package nscore

// ApplyTopPressure is the C1 behavior triggered by the optional p_top
// configuration option (§6): when set, it overwrites the top z-plane of
// p, epsilon and epsilon_new with the externally scheduled value before
// the Poisson solve runs.
func (c *NSCore) ApplyTopPressure() {
	if c.Cfg.Boundary.PTop == nil {
		return
	}
	val := *c.Cfg.Boundary.PTop
	nx, ny, nz := c.Dims.Nx, c.Dims.Ny, c.Dims.Nz
	k := nz - 1
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			c.P.Set(i, j, k, val)
			c.Epsilon.Set(i, j, k, val)
			c.EpsilonNew.Set(i, j, k, val)
		}
	}
	c.Ghost.RefreshScalar(c.P)
	c.Ghost.RefreshScalar(c.Epsilon)
	c.Ghost.RefreshScalar(c.EpsilonNew)
}

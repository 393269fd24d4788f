package engine

// The constructors below create a unit through the engine's factory and
// register it.

// NewOscillator creates and registers an oscillator.
func (e *Engine) NewOscillator() (Oscillator, error) {
	if e.factory == nil {
		return nil, ErrNoFactory
	}
	u := e.factory.NewOscillator(e.cfg)
	return u, e.AddUnit(u)
}

// NewFilter creates and registers a filter.
func (e *Engine) NewFilter() (Filter, error) {
	if e.factory == nil {
		return nil, ErrNoFactory
	}
	u := e.factory.NewFilter(e.cfg)
	return u, e.AddUnit(u)
}

// NewEnvelope creates and registers an envelope.
func (e *Engine) NewEnvelope() (Envelope, error) {
	if e.factory == nil {
		return nil, ErrNoFactory
	}
	u := e.factory.NewEnvelope(e.cfg)
	return u, e.AddUnit(u)
}

// NewDelay creates and registers a delay of up to maxSeconds.
func (e *Engine) NewDelay(maxSeconds float64) (Delay, error) {
	if e.factory == nil {
		return nil, ErrNoFactory
	}
	u := e.factory.NewDelay(e.cfg, maxSeconds)
	return u, e.AddUnit(u)
}

// NewVCA creates and registers a VCA.
func (e *Engine) NewVCA() (VCA, error) {
	if e.factory == nil {
		return nil, ErrNoFactory
	}
	u := e.factory.NewVCA(e.cfg)
	return u, e.AddUnit(u)
}

// NewPeakFollower creates and registers a peak follower.
func (e *Engine) NewPeakFollower(halfLife float64) (PeakFollower, error) {
	if e.factory == nil {
		return nil, ErrNoFactory
	}
	u := e.factory.NewPeakFollower(e.cfg, halfLife)
	return u, e.AddUnit(u)
}

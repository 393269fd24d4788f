package engine

import "errors"

var (
	// ErrRunning is returned by topology changes made after Start.
	ErrRunning = errors.New("engine is running")
	// ErrForeignUnit is returned when a unit or connector belongs to another
	// engine or is not registered with this one.
	ErrForeignUnit = errors.New("unit not registered with this engine")
	// ErrInvalidConfig is returned for unusable configurations.
	ErrInvalidConfig = errors.New("invalid engine configuration")
	// ErrTooManyUnits is returned when Config.MaxUnits would be exceeded.
	ErrTooManyUnits = errors.New("too many units")
	// ErrNoFactory is returned by the unit constructors of an engine built
	// without a factory.
	ErrNoFactory = errors.New("engine has no unit factory")
)

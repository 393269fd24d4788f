// Package plugin defines the plugin contract and the Base every plugin embeds
// to get its port list and control registry.
package plugin

import (
	"errors"

	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/port"
)

// ErrNoEngine is returned by Initialize when no engine is supplied.
var ErrNoEngine = errors.New("no engine")

// Plugin is a URI-addressed unit owning audio units, a port list and named
// connectors.
//
// Lifecycle: construct, Initialize with the shared engine, OnStart, repeated
// Run from the audio thread, OnStop. Control setters are safe from any
// goroutine; everything else runs on a single goroutine at a time.
type Plugin interface {
	Info() Info
	// Ports returns the immutable port list. Callers must not modify it.
	Ports() []port.Port
	// SetPortValue stores a control value. It returns false for unknown
	// symbols, non-control ports, wrong tags and rejected values.
	SetPortValue(symbol string, value port.Value) bool
	// PortValue returns the current value of a control port.
	PortValue(symbol string) (port.Value, bool)
	// ConnectPort binds an external buffer to a port. Block based plugins
	// ignore it.
	ConnectPort(index int, data []float32)

	// Initialize creates and registers the plugin's units.
	Initialize(e *engine.Engine) error
	// OnStart and OnStop run on the audio thread at the block boundary
	// after the engine starts or stops.
	OnStart()
	OnStop()
	// Run consumes control changes for the next block. It is called on the
	// audio thread before any unit is processed.
	Run(frames int)

	Inputs() map[string]*engine.Input
	Outputs() map[string]*engine.Output
}

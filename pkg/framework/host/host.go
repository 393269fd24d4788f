// Package host is the composition root of a synthesizer: it owns the single
// engine, registers plugins, wires them and drives block processing.
package host

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/justyntemme/synthgraph/pkg/framework/debug"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
	"github.com/justyntemme/synthgraph/pkg/framework/port"
)

var (
	// ErrDuplicateURI is returned when a plugin URI is already registered.
	ErrDuplicateURI = errors.New("duplicate plugin uri")
	// ErrUnknownPlugin is returned for addresses naming no registered plugin.
	ErrUnknownPlugin = errors.New("unknown plugin")
	// ErrUnknownPort is returned for connector names a plugin does not have.
	ErrUnknownPort = errors.New("unknown port")
	// ErrRejected is returned by Apply for values a plugin refused.
	ErrRejected = errors.New("value rejected")
	// ErrIncomplete is returned by Start after an Add failed part way. The
	// failed plugin may have left units in the engine; discard the host.
	ErrIncomplete = errors.New("host has a partially added plugin")
)

// Host owns one engine and the plugins running on it.
type Host struct {
	engine  *engine.Engine
	plugins []plugin.Plugin
	byURI   map[string]plugin.Plugin
	log     *debug.Logger
	failed  error
}

// New creates a host with a fresh engine.
func New(cfg engine.Config, factory engine.Factory) (*Host, error) {
	e, err := engine.New(cfg, factory)
	if err != nil {
		return nil, err
	}
	return &Host{
		engine: e,
		byURI:  make(map[string]plugin.Plugin),
		log:    debug.Default().Named("host"),
	}, nil
}

// Engine returns the shared engine.
func (h *Host) Engine() *engine.Engine {
	return h.engine
}

// Add initializes p on the shared engine and schedules its Run. An error
// from Initialize leaves the host unable to Start.
func (h *Host) Add(p plugin.Plugin) error {
	uri := p.Info().URI
	if _, exists := h.byURI[uri]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateURI, uri)
	}
	if err := p.Initialize(h.engine); err != nil {
		return h.fail(fmt.Errorf("initialize %s: %w", uri, err))
	}
	if err := h.engine.AddRunner(p); err != nil {
		return h.fail(fmt.Errorf("add %s: %w", uri, err))
	}
	h.plugins = append(h.plugins, p)
	h.byURI[uri] = p
	h.log.Debug("added %s (%s, %d ports)", uri, p.Info().Name, len(p.Ports()))
	return nil
}

// fail remembers the first Add error that may have left units behind.
func (h *Host) fail(err error) error {
	if h.failed == nil {
		h.failed = err
	}
	return err
}

// Plugin returns the plugin registered under uri.
func (h *Host) Plugin(uri string) (plugin.Plugin, bool) {
	p, ok := h.byURI[uri]
	return p, ok
}

// Plugins returns the plugins in registration order.
func (h *Host) Plugins() []plugin.Plugin {
	return h.plugins
}

// Connect sums the output of one plugin into the input of another.
func (h *Host) Connect(srcURI, output, dstURI, input string) error {
	out, err := h.output(srcURI, output)
	if err != nil {
		return err
	}
	dst, ok := h.byURI[dstURI]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlugin, dstURI)
	}
	in, ok := dst.Inputs()[input]
	if !ok {
		return fmt.Errorf("%w: %s:%s", ErrUnknownPort, dstURI, input)
	}
	return h.engine.Connect(out, in)
}

// ConnectMaster sums a plugin output into the engine master bus.
func (h *Host) ConnectMaster(srcURI, output string) error {
	out, err := h.output(srcURI, output)
	if err != nil {
		return err
	}
	return h.engine.Connect(out, h.engine.Master())
}

func (h *Host) output(uri, name string) (*engine.Output, error) {
	p, ok := h.byURI[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, uri)
	}
	out, ok := p.Outputs()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s", ErrUnknownPort, uri, name)
	}
	return out, nil
}

// Start starts the engine. Each plugin's OnStart runs on the audio thread
// before its first Run.
func (h *Host) Start() error {
	if h.failed != nil {
		return fmt.Errorf("%w: %v", ErrIncomplete, h.failed)
	}
	return h.engine.Start()
}

// Stop stops the engine at the next block boundary. Each plugin's OnStop runs
// on the audio thread at that boundary, so Stop is safe while Process runs.
func (h *Host) Stop() {
	h.engine.Stop()
}

// Process renders dst from the audio thread.
func (h *Host) Process(dst []float32) {
	h.engine.Render(dst)
}

// SplitAddress splits "uri:symbol" at the last colon, so URIs may contain
// colons themselves.
func SplitAddress(address string) (uri, symbol string, ok bool) {
	i := strings.LastIndexByte(address, ':')
	if i <= 0 || i == len(address)-1 {
		return "", "", false
	}
	return address[:i], address[i+1:], true
}

// Address joins a plugin URI and a port symbol.
func Address(uri, symbol string) string {
	return uri + ":" + symbol
}

// Set writes a control value by "uri:symbol" address.
func (h *Host) Set(address string, v port.Value) bool {
	uri, symbol, ok := SplitAddress(address)
	if !ok {
		return false
	}
	p, ok := h.byURI[uri]
	if !ok {
		return false
	}
	return p.SetPortValue(symbol, v)
}

// Get reads a control value by "uri:symbol" address.
func (h *Host) Get(address string) (port.Value, bool) {
	uri, symbol, ok := SplitAddress(address)
	if !ok {
		return port.Value{}, false
	}
	p, ok := h.byURI[uri]
	if !ok {
		return port.Value{}, false
	}
	return p.PortValue(symbol)
}

// Snapshot returns every settable control value keyed by address. Trigger
// and read-only controls are left out.
func (h *Host) Snapshot() map[string]port.Value {
	values := make(map[string]port.Value)
	for _, p := range h.plugins {
		uri := p.Info().URI
		for _, pt := range p.Ports() {
			if pt.Kind != port.Control || pt.Trigger || pt.ReadOnly {
				continue
			}
			if v, ok := p.PortValue(pt.Symbol); ok {
				values[Address(uri, pt.Symbol)] = v
			}
		}
	}
	return values
}

// Apply writes every value in a snapshot. All values are attempted; the
// error lists the addresses that failed.
func (h *Host) Apply(values map[string]port.Value) error {
	addresses := make([]string, 0, len(values))
	for a := range values {
		addresses = append(addresses, a)
	}
	sort.Strings(addresses)

	var errs []error
	for _, a := range addresses {
		if !h.Set(a, values[a]) {
			errs = append(errs, fmt.Errorf("%w: %s = %v", ErrRejected, a, values[a]))
		}
	}
	return errors.Join(errs...)
}

// EstimatedLoad returns the engine's advisory load estimate in percent.
func (h *Host) EstimatedLoad() float64 {
	return h.engine.EstimatedLoad()
}

// MeasuredLoad returns the last block's wall time as a percentage of its
// real-time budget.
func (h *Host) MeasuredLoad() float64 {
	return h.engine.MeasuredLoad()
}

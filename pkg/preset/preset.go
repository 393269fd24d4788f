// Package preset reads and writes patch files: the engine configuration, the
// plugins to load, how they are wired, their control values and an optional
// list of timed control changes for offline rendering.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/host"
	"github.com/justyntemme/synthgraph/pkg/framework/port"
	"github.com/justyntemme/synthgraph/pkg/plugins"
)

// Version is the newest patch format this package reads.
const Version = 1

var (
	// ErrBadAddress is returned for addresses that do not name a control or
	// connector of a loaded plugin.
	ErrBadAddress = errors.New("bad address")
	// ErrBadValue is returned for values that do not fit the port type.
	ErrBadValue = errors.New("bad value")
	// ErrVersion is returned for files written by a newer format.
	ErrVersion = errors.New("unsupported patch version")
)

// Connection routes a plugin output into a plugin input. Both ends are
// "uri:connector" addresses.
type Connection struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Cue is a control change at a time offset in seconds. A missing value fires
// a trigger.
type Cue struct {
	At      float64 `yaml:"at"`
	Address string  `yaml:"address"`
	Value   any     `yaml:"value,omitempty"`
}

// File is one patch.
type File struct {
	Version     int            `yaml:"version"`
	Engine      engine.Config  `yaml:"engine"`
	Plugins     []string       `yaml:"plugins"`
	Connections []Connection   `yaml:"connections,omitempty"`
	Out         []string       `yaml:"out"`
	Values      map[string]any `yaml:"values,omitempty"`
	Cues        []Cue          `yaml:"cues,omitempty"`
}

// Parse decodes a patch. Missing engine fields take their defaults.
func Parse(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}
	if f.Version > Version {
		return nil, fmt.Errorf("%w: %d is newer than %d", ErrVersion, f.Version, Version)
	}
	def := engine.DefaultConfig()
	if f.Engine.SampleRate == 0 {
		f.Engine.SampleRate = def.SampleRate
	}
	if f.Engine.BlockSize == 0 {
		f.Engine.BlockSize = def.BlockSize
	}
	if f.Engine.MaxUnits == 0 {
		f.Engine.MaxUnits = def.MaxUnits
	}
	if err := f.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}
	return f, nil
}

// Load reads a patch file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load patch: %w", err)
	}
	return Parse(data)
}

// Encode writes f as YAML.
func (f *File) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}
	return enc.Close()
}

// Save writes f to path.
func (f *File) Save(path string) error {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Build creates a host, loads and wires the plugins and applies the values.
// The host is not started.
func (f *File) Build(factory engine.Factory) (*host.Host, error) {
	h, err := host.New(f.Engine, factory)
	if err != nil {
		return nil, err
	}
	for _, uri := range f.Plugins {
		p, err := plugins.New(uri)
		if err != nil {
			return nil, err
		}
		if err := h.Add(p); err != nil {
			return nil, err
		}
	}
	for _, c := range f.Connections {
		src, out, ok := host.SplitAddress(c.From)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadAddress, c.From)
		}
		dst, in, ok := host.SplitAddress(c.To)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadAddress, c.To)
		}
		if err := h.Connect(src, out, dst, in); err != nil {
			return nil, err
		}
	}
	for _, a := range f.Out {
		src, out, ok := host.SplitAddress(a)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadAddress, a)
		}
		if err := h.ConnectMaster(src, out); err != nil {
			return nil, err
		}
	}
	values, err := f.Resolve(h)
	if err != nil {
		return nil, err
	}
	if err := h.Apply(values); err != nil {
		return nil, err
	}
	return h, nil
}

// Resolve converts the file's values into tagged port values using the
// port types of the plugins loaded in h.
func (f *File) Resolve(h *host.Host) (map[string]port.Value, error) {
	values := make(map[string]port.Value, len(f.Values))
	var errs []error
	for a, raw := range f.Values {
		v, err := Value(h, a, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values[a] = v
	}
	return values, errors.Join(errs...)
}

// Capture stores every settable control of h in f.Values.
func (f *File) Capture(h *host.Host) {
	snap := h.Snapshot()
	f.Values = make(map[string]any, len(snap))
	for a, v := range snap {
		switch v.Type() {
		case port.Int:
			n, _ := v.Int()
			f.Values[a] = n
		case port.Bool:
			b, _ := v.Bool()
			f.Values[a] = b
		default:
			x, _ := v.Float()
			f.Values[a] = x
		}
	}
}

// Lookup finds the control port an address names.
func Lookup(h *host.Host, address string) (port.Port, error) {
	uri, symbol, ok := host.SplitAddress(address)
	if !ok {
		return port.Port{}, fmt.Errorf("%w: %q", ErrBadAddress, address)
	}
	p, ok := h.Plugin(uri)
	if !ok {
		return port.Port{}, fmt.Errorf("%w: %q names no loaded plugin", ErrBadAddress, address)
	}
	for _, pt := range p.Ports() {
		if pt.Symbol == symbol && pt.Kind == port.Control {
			return pt, nil
		}
	}
	return port.Port{}, fmt.Errorf("%w: %q names no control", ErrBadAddress, address)
}

// Value converts a decoded YAML scalar into the tagged value the addressed
// port expects. Whole floats are accepted for integer ports and integers for
// float ports.
func Value(h *host.Host, address string, raw any) (port.Value, error) {
	pt, err := Lookup(h, address)
	if err != nil {
		return port.Value{}, err
	}
	switch pt.Type {
	case port.Bool:
		if b, ok := raw.(bool); ok {
			return port.BoolValue(b), nil
		}
	case port.Int:
		switch x := raw.(type) {
		case int:
			return port.IntValue(int64(x)), nil
		case int64:
			return port.IntValue(x), nil
		case float64:
			if x == math.Trunc(x) {
				return port.IntValue(int64(x)), nil
			}
		}
	default:
		switch x := raw.(type) {
		case int:
			return port.FloatValue(float64(x)), nil
		case int64:
			return port.FloatValue(float64(x)), nil
		case float64:
			return port.FloatValue(x), nil
		}
	}
	return port.Value{}, fmt.Errorf("%w: %s = %v (%T)", ErrBadValue, address, raw, raw)
}

// Event is a resolved cue at a frame offset.
type Event struct {
	Frame   int
	Address string
	Value   port.Value
}

// Schedule resolves the cues against h and orders them by frame. Cues with
// no value fire triggers.
func (f *File) Schedule(h *host.Host) ([]Event, error) {
	events := make([]Event, 0, len(f.Cues))
	for _, c := range f.Cues {
		if c.At < 0 {
			return nil, fmt.Errorf("%w: cue at %gs", ErrBadValue, c.At)
		}
		raw := c.Value
		if raw == nil {
			raw = true
		}
		v, err := Value(h, c.Address, raw)
		if err != nil {
			return nil, err
		}
		events = append(events, Event{
			Frame:   int(math.Round(c.At * f.Engine.SampleRate)),
			Address: c.Address,
			Value:   v,
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Frame < events[j].Frame })
	return events, nil
}

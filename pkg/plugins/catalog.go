// Package plugins lists the built-in plugins by URI so that patch files and
// command-line tools can instantiate them by name.
package plugins

import (
	"errors"
	"fmt"
	"sort"

	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
	"github.com/justyntemme/synthgraph/pkg/plugins/bender"
	"github.com/justyntemme/synthgraph/pkg/plugins/drums"
	"github.com/justyntemme/synthgraph/pkg/plugins/fx"
	"github.com/justyntemme/synthgraph/pkg/plugins/granular"
	"github.com/justyntemme/synthgraph/pkg/plugins/resonator"
	"github.com/justyntemme/synthgraph/pkg/plugins/voice"
	"github.com/justyntemme/synthgraph/pkg/plugins/wavetable"
)

// ErrUnknownURI is returned for URIs with no built-in plugin.
var ErrUnknownURI = errors.New("unknown plugin uri")

var constructors = map[string]func() plugin.Plugin{
	drums.KickURI:  func() plugin.Plugin { return drums.NewKick() },
	drums.SnareURI: func() plugin.Plugin { return drums.NewSnare() },
	drums.HiHatURI: func() plugin.Plugin { return drums.NewHiHat() },
	resonator.URI:  func() plugin.Plugin { return resonator.New() },
	wavetable.URI:  func() plugin.Plugin { return wavetable.New() },
	granular.URI:   func() plugin.Plugin { return granular.New() },
	bender.URI:     func() plugin.Plugin { return bender.New() },
	voice.URI:      func() plugin.Plugin { return voice.New() },
	fx.DelayURI:    func() plugin.Plugin { return fx.NewDelay() },
	fx.MasterURI:   func() plugin.Plugin { return fx.NewMaster() },
}

// New creates a fresh instance of the plugin registered under uri.
func New(uri string) (plugin.Plugin, error) {
	c, ok := constructors[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownURI, uri)
	}
	return c(), nil
}

// URIs returns the built-in plugin URIs in sorted order.
func URIs() []string {
	uris := make([]string, 0, len(constructors))
	for uri := range constructors {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

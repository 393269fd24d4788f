//go:build headless

// Package oto plays a driver.Source through the system mixer using oto.
// Headless builds carry no audio output.
package oto

import "github.com/justyntemme/synthgraph/pkg/driver"

// Player is unavailable in headless builds.
type Player struct{}

// New reports driver.ErrUnavailable.
func New(src driver.Source, opts driver.Options) (*Player, error) {
	return nil, driver.ErrUnavailable
}

func (p *Player) Start() error { return driver.ErrUnavailable }
func (p *Player) Close() error { return nil }

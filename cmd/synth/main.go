// Command synth plays a patch in real time and turns the keyboard into a
// small performance surface.
//
// Usage:
//
//	synth [-driver oto|portaudio|clock] [-patch kit.yaml]
//
// Keys: k, s and h fire the kick, snare and hi-hat; 1-9 bend; 0 releases
// the bend; q quits.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"github.com/justyntemme/synthgraph/pkg/backend/native"
	"github.com/justyntemme/synthgraph/pkg/driver"
	"github.com/justyntemme/synthgraph/pkg/driver/oto"
	"github.com/justyntemme/synthgraph/pkg/driver/portaudio"
	"github.com/justyntemme/synthgraph/pkg/dsp/analysis"
	"github.com/justyntemme/synthgraph/pkg/framework/debug"
	"github.com/justyntemme/synthgraph/pkg/framework/host"
	"github.com/justyntemme/synthgraph/pkg/plugins/fx"
	"github.com/justyntemme/synthgraph/pkg/preset"
)

//go:embed default.yaml
var defaultPatch []byte

func main() {
	var (
		drv      = flag.String("driver", "oto", "audio driver: oto, portaudio or clock")
		patch    = flag.String("patch", "", "patch file (default: built-in kit)")
		channels = flag.Int("channels", 2, "output channels: 1 or 2")
		frames   = flag.Int("frames", 0, "device buffer in frames (0: driver default)")
		level    = flag.String("log", "info", "log level: debug, info, warn, error, off")
	)
	flag.Parse()

	lvl, err := debug.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	debug.SetLevel(lvl)
	log := debug.Default().Named("synth")

	if err := run(log, *drv, *patch, driver.Options{Channels: *channels, Frames: *frames}); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(log *debug.Logger, name, patchPath string, opts driver.Options) error {
	f, err := loadPatch(patchPath)
	if err != nil {
		return err
	}
	h, err := f.Build(native.NewFactory())
	if err != nil {
		return err
	}
	if err := h.Start(); err != nil {
		return err
	}
	defer h.Stop()

	opts.SampleRate = int(f.Engine.SampleRate)
	out, err := openDriver(name, h, opts)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.Start(); err != nil {
		return err
	}
	log.Info("playing %d plugins at %g Hz through %s", len(f.Plugins), f.Engine.SampleRate, name)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer term.Restore(fd, state)
		debug.SetOutput(crlf{os.Stderr})
		defer debug.SetOutput(os.Stderr)
	}
	log.Info("keys: k s h drums, 1-9 bend, 0 release, q quit")

	keys := make(chan byte)
	go readKeys(keys)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	var master *fx.Master
	if p, ok := h.Plugin(fx.MasterURI); ok {
		master, _ = p.(*fx.Master)
	}
	stats := time.NewTicker(time.Second)
	defer stats.Stop()

	for {
		select {
		case b, ok := <-keys:
			if !ok {
				return nil
			}
			a, ok := keyAction(b)
			if !ok {
				continue
			}
			if a.quit {
				return nil
			}
			if !h.Set(a.address, a.value) {
				log.Debug("no control %s in this patch", a.address)
			}
		case <-interrupt:
			return nil
		case <-stats.C:
			logStats(log, h, master)
		}
	}
}

func loadPatch(path string) (*preset.File, error) {
	if path == "" {
		return preset.Parse(defaultPatch)
	}
	return preset.Load(path)
}

func openDriver(name string, src driver.Source, opts driver.Options) (driver.Driver, error) {
	switch name {
	case "oto":
		return oto.New(src, opts)
	case "portaudio":
		return portaudio.New(src, opts)
	case "clock":
		return driver.NewClock(src, opts), nil
	}
	return nil, fmt.Errorf("unknown driver %q", name)
}

// readKeys forwards stdin bytes until it closes.
func readKeys(keys chan<- byte) {
	defer close(keys)
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n == 1 {
			keys <- buf[0]
		}
		if err != nil {
			return
		}
	}
}

func logStats(log *debug.Logger, h *host.Host, master *fx.Master) {
	var peak, hold float64
	if master != nil {
		peak, hold = master.Peak(), master.Hold()
	}
	log.Info("peak %6.1f dBFS  hold %6.1f dBFS  cpu %5.1f%% (estimated %5.1f%%)",
		dbfs(peak), dbfs(hold), h.MeasuredLoad(), h.EstimatedLoad())
}

// dbfs converts a linear level for display, flooring silence at -120 dB.
func dbfs(v float64) float64 {
	return math.Max(analysis.LinearToDB(v), -120)
}

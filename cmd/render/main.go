// Command render plays patch files offline into WAV files.
//
// Usage:
//
//	render -patch kit.yaml -seconds 4 -out kit.wav
//	render -seconds 2 -bits 24 -dir renders kit.yaml pad.yaml
//
// Patches are rendered concurrently, each on its own engine. Cues in a
// patch fire at their frame offsets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/synthgraph/pkg/framework/debug"
)

func main() {
	var (
		patch   = flag.String("patch", "", "patch file to render")
		out     = flag.String("out", "", "output file for -patch (default: patch name with .wav)")
		dir     = flag.String("dir", "", "output directory for patches without -out")
		seconds = flag.Float64("seconds", 4, "length of each render in seconds")
		bits    = flag.Int("bits", 16, "sample depth: 16 or 24")
		level   = flag.String("log", "info", "log level: debug, info, warn, error, off")
	)
	flag.Parse()

	lvl, err := debug.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	debug.SetLevel(lvl)
	log := debug.Default().Named("render")

	var jobs []job
	if *patch != "" {
		jobs = append(jobs, job{patch: *patch, out: *out})
	}
	for _, p := range flag.Args() {
		jobs = append(jobs, job{patch: p})
	}
	if len(jobs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: render [-patch file.yaml -out file.wav] [flags] [more.yaml...]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	for i := range jobs {
		if jobs[i].out == "" {
			jobs[i].out = outputPath(jobs[i].patch, *dir)
		}
	}

	opts := options{seconds: *seconds, bits: *bits}
	if err := opts.validate(); err != nil {
		log.Error("%v", err)
		os.Exit(2)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for _, j := range jobs {
		g.Go(func() error {
			if err := render(ctx, j.patch, j.out, opts); err != nil {
				return fmt.Errorf("%s: %w", j.patch, err)
			}
			log.Info("rendered %s -> %s", j.patch, j.out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

type job struct {
	patch string
	out   string
}

// outputPath replaces the patch extension with .wav, in dir when given.
func outputPath(patch, dir string) string {
	base := strings.TrimSuffix(filepath.Base(patch), filepath.Ext(patch)) + ".wav"
	if dir == "" {
		return filepath.Join(filepath.Dir(patch), base)
	}
	return filepath.Join(dir, base)
}

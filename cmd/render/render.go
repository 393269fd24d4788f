package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/justyntemme/synthgraph/pkg/backend/native"
	"github.com/justyntemme/synthgraph/pkg/framework/debug"
	"github.com/justyntemme/synthgraph/pkg/preset"
)

const (
	chunkFrames  = 4096
	wavFormatPCM = 1
)

var errOptions = errors.New("invalid render options")

type options struct {
	seconds float64
	bits    int
}

func (o options) validate() error {
	if !(o.seconds > 0 && o.seconds <= 3600) {
		return fmt.Errorf("%w: seconds %g out of range", errOptions, o.seconds)
	}
	if o.bits != 16 && o.bits != 24 {
		return fmt.Errorf("%w: %d-bit output unsupported", errOptions, o.bits)
	}
	return nil
}

// render plays one patch into a mono PCM WAV file.
func render(ctx context.Context, patchPath, outPath string, o options) error {
	f, err := preset.Load(patchPath)
	if err != nil {
		return err
	}
	h, err := f.Build(native.NewFactory())
	if err != nil {
		return err
	}
	events, err := f.Schedule(h)
	if err != nil {
		return err
	}
	if err := h.Start(); err != nil {
		return err
	}
	defer h.Stop()

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	sr := int(f.Engine.SampleRate)
	enc := wav.NewEncoder(file, sr, o.bits, 1, wavFormatPCM)

	total := int(math.Round(o.seconds * f.Engine.SampleRate))
	samples := make([]float32, chunkFrames)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sr},
		Data:           make([]int, chunkFrames),
		SourceBitDepth: o.bits,
	}
	scale := math.Exp2(float64(o.bits-1)) - 1

	log := debug.Default().Named("render")
	inspect := log.Enabled(debug.LogLevelDebug)

	next := 0
	for frame := 0; frame < total; {
		if err := ctx.Err(); err != nil {
			file.Close()
			return err
		}
		for next < len(events) && events[next].Frame <= frame {
			h.Set(events[next].Address, events[next].Value)
			next++
		}
		n := min(chunkFrames, total-frame)
		if next < len(events) {
			n = min(n, events[next].Frame-frame)
		}
		h.Process(samples[:n])
		if inspect {
			log.LogBufferStats(samples[:n], fmt.Sprintf("%s@%d", outPath, frame))
		}
		buf.Data = buf.Data[:n]
		quantize(buf.Data, samples[:n], scale)
		if err := enc.Write(buf); err != nil {
			file.Close()
			return fmt.Errorf("write samples: %w", err)
		}
		frame += n
	}
	if err := enc.Close(); err != nil {
		file.Close()
		return fmt.Errorf("finish wav: %w", err)
	}
	return file.Close()
}

// quantize converts samples to integers, clipping at full scale.
func quantize(dst []int, src []float32, scale float64) {
	for i, x := range src {
		v := math.Max(-1, math.Min(1, float64(x)))
		dst[i] = int(math.Round(v * scale))
	}
}

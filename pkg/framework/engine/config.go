package engine

import "fmt"

// Config fixes the sample rate and block size for the lifetime of an engine.
type Config struct {
	SampleRate float64 `yaml:"sample_rate"`
	BlockSize  int     `yaml:"block_size"`
	MaxUnits   int     `yaml:"max_units"` // 0 means unlimited
}

// DefaultConfig returns 44.1 kHz with 256 frame blocks.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		BlockSize:  256,
		MaxUnits:   4096,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if !(c.SampleRate >= 8000 && c.SampleRate <= 384000) {
		return fmt.Errorf("%w: sample rate %g out of range", ErrInvalidConfig, c.SampleRate)
	}
	if c.BlockSize < 1 || c.BlockSize > 8192 {
		return fmt.Errorf("%w: block size %d out of range", ErrInvalidConfig, c.BlockSize)
	}
	if c.MaxUnits < 0 {
		return fmt.Errorf("%w: negative unit limit", ErrInvalidConfig)
	}
	return nil
}

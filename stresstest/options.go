package stresstest

import (
	"io"

	"github.com/moffa90/go-rawnand/flash"
)

// DefaultMaxECCBits is the largest corrected-bit count with its own
// histogram bucket.
const DefaultMaxECCBits = 8

// Config holds the engine configuration.
type Config struct {
	// ProgressCallback is called during the run to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger flash.Logger

	// MaxECCBits is the number of histogram buckets
	MaxECCBits int

	// Report receives mismatch and failure reports (optional)
	Report io.Writer

	// MemoryProbe returns the bytes of memory available for buffers
	MemoryProbe MemoryProbe
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		MaxECCBits:  DefaultMaxECCBits,
		MemoryProbe: HostMemory,
	}
}

// Option is a functional option for configuring the Engine.
type Option func(*Config)

// WithProgressCallback sets a callback function to track test progress.
//
// Example:
//
//	eng := stresstest.New(nand,
//	    stresstest.WithProgressCallback(func(p stresstest.Progress) {
//	        fmt.Printf("%.1f%% complete\n", p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for engine operations.
func WithLogger(logger flash.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMaxECCBits sets the number of histogram buckets. Default is 8.
func WithMaxECCBits(bits int) Option {
	return func(c *Config) {
		if bits > 0 {
			c.MaxECCBits = bits
		}
	}
}

// WithReportWriter sets where mismatch and failure reports are printed.
//
// Example:
//
//	eng := stresstest.New(nand, stresstest.WithReportWriter(os.Stderr))
func WithReportWriter(w io.Writer) Option {
	return func(c *Config) {
		c.Report = w
	}
}

// WithMemoryProbe replaces the host memory probe used before allocating the
// block buffers. A nil probe disables the check.
func WithMemoryProbe(probe MemoryProbe) Option {
	return func(c *Config) {
		c.MemoryProbe = probe
	}
}

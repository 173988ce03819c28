package rawpage

import "github.com/moffa90/go-rawnand/flash"

// Config holds the translator configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger flash.Logger

	// AllowBadErase lets Erase erase blocks the device reports bad
	AllowBadErase bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		AllowBadErase: false,
	}
}

// Option is a functional option for configuring a Device.
type Option func(*Config)

// WithLogger sets a logger for translator operations.
//
// Example:
//
//	dev, err := rawpage.New(nand, rawpage.WithLogger(myLogger))
func WithLogger(logger flash.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithAllowBadErase enables or disables erasing blocks reported bad.
// Default is false.
func WithAllowBadErase(allow bool) Option {
	return func(c *Config) {
		c.AllowBadErase = allow
	}
}

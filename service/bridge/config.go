package bridge

import (
	"fmt"
	"time"
)

// Config holds the defaults applied to flow endpoints.
type Config struct {
	// Timeout bounds how long a signal waits for the target execution.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// TimeResolution is the polling interval while waiting.
	TimeResolution time.Duration `json:"timeResolution,omitempty" yaml:"timeResolution,omitempty"`
	// ProcessInitiatorHeaderName names the header carrying the initiator.
	ProcessInitiatorHeaderName string `json:"processInitiatorHeaderName,omitempty" yaml:"processInitiatorHeaderName,omitempty"`
}

// DefaultConfig returns the endpoint defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        5 * time.Second,
		TimeResolution: 100 * time.Millisecond,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("bridge timeout must not be negative")
	}
	if c.TimeResolution <= 0 {
		return fmt.Errorf("bridge timeResolution must be positive")
	}
	return nil
}

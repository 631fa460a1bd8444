package flowbridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/flowbridge/internal/env"
	"github.com/viant/flowbridge/service/bridge"
	"github.com/viant/flowbridge/service/messaging"
	"github.com/viant/flowbridge/service/processor"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from JSON or YAML; LoadConfig starts from DefaultConfig so a
// partial document only overrides what it names.
type Config struct {
	Processor processor.Config `json:"processor" yaml:"processor"`
	Store     StoreConfig      `json:"store" yaml:"store"`
	Queue     QueueConfig      `json:"queue" yaml:"queue"`
	Events    EventsConfig     `json:"events" yaml:"events"`
	Bridge    bridge.Config    `json:"bridge" yaml:"bridge"`
	Log       LogConfig        `json:"log" yaml:"log"`
	Tracing   TracingConfig    `json:"tracing" yaml:"tracing"`

	// Definitions is an optional location of YAML process definitions
	// deployed when the service is created.
	Definitions string `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

// StoreConfig selects the process, execution and task store.
type StoreConfig struct {
	Vendor  messaging.Vendor `json:"vendor" yaml:"vendor"`
	BaseURL string           `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// QueueConfig selects the async job queue and the queue route endpoints.
type QueueConfig struct {
	Vendor       messaging.Vendor `json:"vendor" yaml:"vendor"`
	BaseURL      string           `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	MaxRetries   int              `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`
	RetryDelay   time.Duration    `json:"retryDelay,omitempty" yaml:"retryDelay,omitempty"`
	PollInterval time.Duration    `json:"pollInterval,omitempty" yaml:"pollInterval,omitempty"`
}

type EventsConfig struct {
	Enabled bool             `json:"enabled" yaml:"enabled"`
	Vendor  messaging.Vendor `json:"vendor" yaml:"vendor"`
	BaseURL string           `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

type LogConfig struct {
	Level   string `json:"level" yaml:"level"`
	Service string `json:"service" yaml:"service"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// TracingConfig enables the OpenTelemetry stdout exporter; OutputFile
// redirects spans to a file.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Service    string `json:"service,omitempty" yaml:"service,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config with in-memory stores and queues.
func DefaultConfig() *Config {
	return &Config{
		Processor: processor.DefaultConfig(),
		Store:     StoreConfig{Vendor: messaging.VendorMemory},
		Queue: QueueConfig{
			Vendor:       messaging.VendorMemory,
			MaxRetries:   3,
			RetryDelay:   100 * time.Millisecond,
			PollInterval: 50 * time.Millisecond,
		},
		Events: EventsConfig{Vendor: messaging.VendorMemory},
		Bridge: bridge.DefaultConfig(),
		Log:    LogConfig{Level: "info", Service: "flowbridge"},
		Tracing: TracingConfig{
			Service: "flowbridge",
		},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Processor.Workers <= 0 {
		errs = append(errs, fmt.Errorf("processor.workers must be > 0"))
	}
	if c.Processor.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("processor.maxRetries must be >= 0"))
	}
	if err := validateVendor("store", c.Store.Vendor, c.Store.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateVendor("queue", c.Queue.Vendor, c.Queue.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.Events.Enabled {
		if err := validateVendor("events", c.Events.Vendor, c.Events.BaseURL); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.Bridge.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("bridge: %w", err))
	}
	return errors.Join(errs...)
}

func validateVendor(name string, vendor messaging.Vendor, baseURL string) error {
	switch vendor {
	case messaging.VendorMemory:
		return nil
	case messaging.VendorFS:
		if baseURL == "" {
			return fmt.Errorf("%s.baseURL is required for %s vendor", name, vendor)
		}
		return nil
	}
	return fmt.Errorf("%s.vendor %q is not supported", name, vendor)
}

// LoadConfig reads a YAML or JSON configuration from URL, expanding
// ${env.KEY} expressions.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	config := DefaultConfig()
	if err = yaml.Unmarshal([]byte(env.Expand(string(data))), config); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return config, nil
}

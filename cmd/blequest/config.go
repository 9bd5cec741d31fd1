package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"gopkg.in/yaml.v3"

	"github.com/srg/blequest/request"
)

// filterConfig is one acceptance criterion. A candidate matches when every
// present field matches; the request completes on the first candidate that
// satisfies any criterion.
type filterConfig struct {
	Name       string   `yaml:"name"`
	NamePrefix string   `yaml:"namePrefix"`
	Services   []string `yaml:"services"`
}

// requestConfig mirrors the request command's flags so a request can be kept
// in a YAML file and replayed. Flags override file values.
type requestConfig struct {
	AcceptAll        bool           `yaml:"acceptAll"`
	Filters          []filterConfig `yaml:"filters"`
	OptionalServices []string       `yaml:"optionalServices"`
	ScanTime         string         `yaml:"scanTime" default:"10.24s"`
}

func newRequestConfig() *requestConfig {
	cfg := &requestConfig{}
	defaults.SetDefaults(cfg)
	return cfg
}

func loadRequestConfig(path string) (*requestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := newRequestConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// toOptions translates the file/flag representation into request options.
// Validation of the criteria themselves happens in the request package.
func (c *requestConfig) toOptions() (*request.Options, error) {
	opts := &request.Options{
		AcceptAllDevices: c.AcceptAll,
		OptionalServices: c.OptionalServices,
	}

	if c.ScanTime != "" {
		d, err := time.ParseDuration(c.ScanTime)
		if err != nil {
			return nil, fmt.Errorf("invalid scanTime %q: %w", c.ScanTime, err)
		}
		opts.ScanTime = d
	}

	for _, f := range c.Filters {
		filter := request.Filter{Services: f.Services}
		if f.Name != "" {
			name := f.Name
			filter.Name = &name
		}
		if f.NamePrefix != "" {
			prefix := f.NamePrefix
			filter.NamePrefix = &prefix
		}
		opts.Filters = append(opts.Filters, filter)
	}

	return opts, nil
}

// Package config loads the optional alien.yaml file that seeds the
// CLI's default flag values: the GC's initial collection threshold,
// whether --trace-gc is on by default, and whether --disassemble is on
// by default. Absence of the file is not an error — every field falls
// back to the VM's and CLI's own defaults.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors alien.yaml's top-level keys.
type Config struct {
	GCInitialThreshold int  `yaml:"gc_initial_threshold"`
	TraceGC            bool `yaml:"trace_gc"`
	Disassemble        bool `yaml:"disassemble"`
}

// Default returns the configuration used when no alien.yaml is found.
func Default() Config {
	return Config{GCInitialThreshold: 50}
}

// Load reads and parses path. A missing file returns Default() with a
// nil error, since alien.yaml is optional; any other read or parse
// failure is returned as-is.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

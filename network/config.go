package network

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrUnknownNetwork is returned when a network name has no definition.
var ErrUnknownNetwork = errors.New("unknown network")

// Manifest is the YAML representation of network definitions.
type Manifest struct {
	// A YAML array of networks.
	Networks []Definition `yaml:"networks"`
}

// Config is a collection of network definitions keyed by name.
type Config struct {
	networks map[string]Definition
}

// NewConfig creates a new config from a slice of definitions. Any duplicate names will be
// overwritten.
func NewConfig(defs []Definition) *Config {
	nmap := make(map[string]Definition, len(defs))

	for _, def := range defs {
		nmap[def.Name] = def.clone()
	}

	return &Config{
		networks: nmap,
	}
}

// Validate ensures that all definitions are valid.
func (c *Config) Validate() error {
	for _, name := range c.Names() {
		def := c.networks[name]
		if err := def.Validate(); err != nil {
			return fmt.Errorf("network %s: %w", name, err)
		}
	}

	return nil
}

// Names returns the sorted names of all networks in the config.
func (c *Config) Names() []string {
	return slices.Sorted(maps.Keys(c.networks))
}

// Lookup retrieves a network by name. Unlike a bare map access it never returns an empty
// record: unknown names fail with ErrUnknownNetwork.
func (c *Config) Lookup(name string) (Definition, error) {
	def, ok := c.networks[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w %q: expected one of %v", ErrUnknownNetwork, name, c.Names())
	}

	return def.clone(), nil
}

// Merge merges another config into the current config.
// It overwrites any networks with the same name.
func (c *Config) Merge(other *Config) {
	maps.Copy(c.networks, other.networks)
}

// MarshalYAML implements the yaml.Marshaler interface for the Config struct.
func (c *Config) MarshalYAML() (any, error) {
	defs := make([]Definition, 0, len(c.networks))
	for _, name := range c.Names() {
		defs = append(defs, c.networks[name])
	}

	return Manifest{Networks: defs}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for the Config struct.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	node := Manifest{}

	if err := value.Decode(&node); err != nil {
		return err
	}

	*c = *NewConfig(node.Networks)

	return nil
}

// Load starts from the compiled-in definitions and merges the YAML manifests at filePaths on
// top, in order. The result is validated.
func Load(filePaths ...string) (*Config, error) {
	cfg := Defaults()

	for _, fp := range filePaths {
		data, err := os.ReadFile(fp)
		if err != nil {
			return nil, fmt.Errorf("failed to read networks file: %w", err)
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal networks YAML: %w", err)
		}

		cfg.Merge(&fileCfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate networks configuration: %w", err)
	}

	return cfg, nil
}

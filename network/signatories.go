package network

import (
	"encoding/json"
	"fmt"
	"os"
)

// Signatories maps a signatories file key (e.g. "amplitudeSignatories") to its set.
type Signatories map[string]SignatorySet

// LoadSignatories reads a signatories JSON file of the form
//
//	{"pendulumSignatories": {"fixed": ["6a...", "6b..."]}, ...}
func LoadSignatories(path string) (Signatories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signatories file: %w", err)
	}

	var sigs Signatories
	if err := json.Unmarshal(data, &sigs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signatories JSON: %w", err)
	}

	return sigs, nil
}

// AttachSignatories fills the signatory set of every definition whose SignatoriesKey is present
// in sigs. Definitions without a matching key keep whatever set they already had. The result is
// validated so a threshold larger than its set is caught before anything is signed.
func (c *Config) AttachSignatories(sigs Signatories) error {
	for name, def := range c.networks {
		set, ok := sigs[def.SignatoriesKey]
		if !ok {
			continue
		}

		def.Signatories = SignatorySet{Fixed: append([]string(nil), set.Fixed...)}
		c.networks[name] = def
	}

	return c.Validate()
}

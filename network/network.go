package network

import (
	"errors"
	"maps"
	"math/big"
	"slices"

	"github.com/shopspring/decimal"
)

// SignatorySet is the list of accounts allowed to co-sign a multisig call on a network.
type SignatorySet struct {
	Fixed []string `yaml:"fixed" json:"fixed"`
}

// Definition describes one deployment of the parachain. Definitions are static: they are
// compiled in and may be overridden by a YAML manifest, but never change during a run.
type Definition struct {
	Name                   string `yaml:"name"`
	WebsocketURL           string `yaml:"websocket_url"`
	RelayChainWebsocketURL string `yaml:"relay_chain_websocket_url,omitempty"`
	GenesisAccount         string `yaml:"genesis_account"`
	SecondsPerBlock        uint32 `yaml:"seconds_per_block"`

	// MultisigThreshold is the number of approvals the governance multisig requires.
	MultisigThreshold uint16 `yaml:"multisig_threshold"`
	// SignatoriesKey names the entry of the signatories file that holds this network's
	// signatory set, e.g. "pendulumSignatories".
	SignatoriesKey string       `yaml:"signatories_key"`
	Signatories    SignatorySet `yaml:"signatories"`

	ExistentialDeposit uint64 `yaml:"existential_deposit"`
	Unit               uint64 `yaml:"unit"`
	RelayChainUnit     uint64 `yaml:"relay_chain_unit,omitempty"`

	DistributionAccounts    map[string]string `yaml:"distribution_accounts"`
	Sudo                    string            `yaml:"sudo,omitempty"`
	InitialStakingCollators []string          `yaml:"initial_staking_collators"`

	SS58Prefix   uint16            `yaml:"ss58_prefix"`
	ParaID       *uint32           `yaml:"para_id,omitempty"`
	OtherParaIDs map[string]uint32 `yaml:"other_para_ids,omitempty"`
}

// Validate validates the definition to ensure that all required fields are set.
func (d Definition) Validate() error {
	if d.Name == "" {
		return errors.New("name is required")
	}

	if d.WebsocketURL == "" {
		return errors.New("websocket url is required")
	}

	if d.Unit == 0 {
		return errors.New("unit is required")
	}

	if d.MultisigThreshold == 0 {
		return errors.New("multisig threshold is required")
	}

	if n := len(d.Signatories.Fixed); n > 0 && int(d.MultisigThreshold) > n {
		return errors.New("multisig threshold exceeds the number of signatories")
	}

	return nil
}

// HasRelayChain reports whether the network is a parachain with a reachable relay chain.
func (d Definition) HasRelayChain() bool {
	return d.ParaID != nil && d.RelayChainWebsocketURL != ""
}

// UnitAmount returns count whole units expressed in the smallest denomination.
func (d Definition) UnitAmount(count uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(count), new(big.Int).SetUint64(d.Unit))
}

// FormatUnits renders an amount given in the smallest denomination as whole units.
func (d Definition) FormatUnits(amount *big.Int) string {
	if d.Unit == 0 {
		return amount.String()
	}

	return decimal.NewFromBigInt(amount, 0).
		Div(decimal.NewFromBigInt(new(big.Int).SetUint64(d.Unit), 0)).
		String()
}

// clone returns a deep copy so callers can never mutate the compiled-in records.
func (d Definition) clone() Definition {
	d.Signatories.Fixed = slices.Clone(d.Signatories.Fixed)
	d.DistributionAccounts = maps.Clone(d.DistributionAccounts)
	d.InitialStakingCollators = slices.Clone(d.InitialStakingCollators)
	d.OtherParaIDs = maps.Clone(d.OtherParaIDs)
	if d.ParaID != nil {
		id := *d.ParaID
		d.ParaID = &id
	}

	return d
}

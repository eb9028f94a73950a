package launch

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Node is one node process of the local network.
type Node struct {
	Name    string `toml:"name"`
	Port    int    `toml:"port"`
	RPCPort int    `toml:"rpc_port,omitempty"`
	WSPort  int    `toml:"ws_port"`
	// Flags are appended to the command line. For collators, flags after "--" are passed to
	// the embedded relay chain node.
	Flags []string `toml:"flags,omitempty"`
}

// RelayChain describes the relay chain validators.
type RelayChain struct {
	Bin   string `toml:"bin"`
	Chain string `toml:"chain"`
	Nodes []Node `toml:"nodes"`
	// Genesis overrides values of the runtime genesis config, e.g.
	// configuration.config.validation_upgrade_delay.
	Genesis map[string]any `toml:"genesis,omitempty"`
}

// Parachain describes a parachain registered at genesis and its collators.
type Parachain struct {
	Bin string `toml:"bin"`
	// Chain is the parachain spec passed to the collators. Empty uses the binary's default.
	Chain string `toml:"chain,omitempty"`
	ID    string `toml:"id"`
	// Balance funds the parachain sovereign account on the relay chain.
	Balance string `toml:"balance,omitempty"`
	Nodes   []Node `toml:"nodes"`
}

// Topology is the layout of a local test network.
type Topology struct {
	RelayChain RelayChain  `toml:"relaychain"`
	Parachains []Parachain `toml:"parachains"`
}

// collatorFlags are the flags of the default pendulum collator.
var collatorFlags = []string{
	"--unsafe-rpc-external",
	"--unsafe-ws-external",
	"--rpc-cors=all",
	"--force-authoring",
	"--",
	"--execution=wasm",
}

// DefaultTopology is a rococo-local relay chain with two validators and one pendulum
// collator. Binaries are relative to the launch directory.
func DefaultTopology() Topology {
	return Topology{
		RelayChain: RelayChain{
			Bin:   "../../bin/polkadot",
			Chain: "rococo-local",
			Nodes: []Node{
				{Name: "alice", Port: 10000, RPCPort: 20000, WSPort: 30000},
				{Name: "bob", Port: 10001, RPCPort: 20002, WSPort: 30003},
			},
		},
		Parachains: []Parachain{
			{
				Bin:     "../../bin/polkadot-collator",
				ID:      "200",
				Balance: "1000000",
				Nodes: []Node{
					{Name: "alice", Port: 10002, RPCPort: 20002, WSPort: 30002, Flags: append([]string(nil), collatorFlags...)},
				},
			},
		},
	}
}

// LoadTopology reads a TOML topology file.
func LoadTopology(path string) (Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return Topology{}, fmt.Errorf("failed to read topology file: %w", err)
	}
	defer f.Close()

	var t Topology
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&t); err != nil {
		return Topology{}, fmt.Errorf("failed to decode topology TOML: %w", err)
	}

	if err := t.Validate(); err != nil {
		return Topology{}, fmt.Errorf("invalid topology: %w", err)
	}

	return t, nil
}

// Validate checks the topology can be launched.
func (t Topology) Validate() error {
	if t.RelayChain.Bin == "" {
		return errors.New("relay chain bin is required")
	}
	if t.RelayChain.Chain == "" {
		return errors.New("relay chain chain is required")
	}
	if len(t.RelayChain.Nodes) == 0 {
		return errors.New("relay chain needs at least one node")
	}

	wsPorts := make(map[int]string)
	checkNode := func(owner string, n Node) error {
		if n.Name == "" {
			return fmt.Errorf("%s: node name is required", owner)
		}
		if n.WSPort == 0 || n.Port == 0 {
			return fmt.Errorf("%s node %s: port and ws_port are required", owner, n.Name)
		}
		if other, ok := wsPorts[n.WSPort]; ok {
			return fmt.Errorf("%s node %s: ws_port %d already used by %s", owner, n.Name, n.WSPort, other)
		}
		wsPorts[n.WSPort] = owner + " node " + n.Name

		return nil
	}

	for _, n := range t.RelayChain.Nodes {
		if err := checkNode("relay chain", n); err != nil {
			return err
		}
	}

	for _, p := range t.Parachains {
		owner := "parachain " + p.ID
		if p.Bin == "" {
			return fmt.Errorf("%s: bin is required", owner)
		}
		if _, err := p.ParaID(); err != nil {
			return err
		}
		if p.Balance != "" {
			if _, ok := new(big.Int).SetString(p.Balance, 10); !ok {
				return fmt.Errorf("%s: invalid balance %q", owner, p.Balance)
			}
		}
		if len(p.Nodes) == 0 {
			return fmt.Errorf("%s: needs at least one collator", owner)
		}
		for _, n := range p.Nodes {
			if err := checkNode(owner, n); err != nil {
				return err
			}
		}
	}

	return nil
}

// ParaID parses the parachain id.
func (p Parachain) ParaID() (uint32, error) {
	id, err := strconv.ParseUint(p.ID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid parachain id %q: %w", p.ID, err)
	}

	return uint32(id), nil
}

// resolveBins makes relative binary paths relative to baseDir.
func (t Topology) resolveBins(baseDir string) Topology {
	resolve := func(bin string) string {
		if filepath.IsAbs(bin) || filepath.Base(bin) == bin {
			return bin
		}

		return filepath.Join(baseDir, bin)
	}

	t.RelayChain.Bin = resolve(t.RelayChain.Bin)
	paras := make([]Parachain, len(t.Parachains))
	for i, p := range t.Parachains {
		p.Bin = resolve(p.Bin)
		paras[i] = p
	}
	t.Parachains = paras

	return t
}

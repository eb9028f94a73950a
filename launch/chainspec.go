package launch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate"
)

// Runtime genesis roots of a plain relay chain spec, newest layout first.
var runtimeRoots = []string{
	"genesis.runtime.runtime_genesis_config",
	"genesis.runtime",
}

// relayChainSS58Prefix is the generic substrate prefix used by the local relay chains.
const relayChainSS58Prefix = 42

// GenesisParachain is a parachain registered in the relay chain genesis.
type GenesisParachain struct {
	ID      uint32
	Head    string
	Wasm    string
	Balance string
}

// runtimeRoot returns the path of the runtime genesis config in a plain chain spec.
func runtimeRoot(spec []byte) (string, error) {
	for _, root := range runtimeRoots {
		if gjson.GetBytes(spec, root+".paras").Exists() {
			return root, nil
		}
	}

	return "", errors.New("chain spec has no paras genesis config, is it a plain relay chain spec?")
}

// AddParachains registers paras in the plain relay chain spec and funds their sovereign
// accounts.
func AddParachains(spec []byte, paras []GenesisParachain) ([]byte, error) {
	root, err := runtimeRoot(spec)
	if err != nil {
		return nil, err
	}

	for _, p := range paras {
		spec, err = sjson.SetBytes(spec, root+".paras.paras.-1", []any{p.ID, []any{p.Head, p.Wasm, true}})
		if err != nil {
			return nil, fmt.Errorf("failed to add parachain %d: %w", p.ID, err)
		}

		if p.Balance == "" {
			continue
		}
		amount, ok := new(big.Int).SetString(p.Balance, 10)
		if !ok {
			return nil, fmt.Errorf("invalid balance %q for parachain %d", p.Balance, p.ID)
		}
		entry := fmt.Sprintf("[%q,%s]", SovereignAccount(p.ID).SS58(relayChainSS58Prefix), amount.String())
		spec, err = sjson.SetRawBytes(spec, root+".balances.balances.-1", []byte(entry))
		if err != nil {
			return nil, fmt.Errorf("failed to fund parachain %d: %w", p.ID, err)
		}
	}

	return spec, nil
}

// ApplyGenesis overrides values of the runtime genesis config. Nested maps address nested
// keys.
func ApplyGenesis(spec []byte, overrides map[string]any) ([]byte, error) {
	if len(overrides) == 0 {
		return spec, nil
	}

	root, err := runtimeRoot(spec)
	if err != nil {
		return nil, err
	}

	leaves := make(map[string]any)
	flatten("", overrides, leaves)

	paths := make([]string, 0, len(leaves))
	for p := range leaves {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		spec, err = sjson.SetBytes(spec, root+"."+p, leaves[p])
		if err != nil {
			return nil, fmt.Errorf("failed to set genesis %s: %w", p, err)
		}
	}

	return spec, nil
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		key := escapePathKey(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}

func escapePathKey(k string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(k)
}

// SovereignAccount returns the relay chain account of a parachain: "para" followed by the
// little endian id, zero padded.
func SovereignAccount(paraID uint32) substrate.AccountID {
	var id substrate.AccountID
	copy(id[:], "para")
	binary.LittleEndian.PutUint32(id[4:8], paraID)

	return id
}

package network

// Names of the compiled-in networks.
const (
	Local     = "local"
	Foucoco   = "foucoco"
	Amplitude = "amplitude"
	Pendulum  = "pendulum"
)

const unit12 uint64 = 1_000_000_000_000

func paraID(id uint32) *uint32 { return &id }

var foucocoDistribution = map[string]string{
	"crowdloanReserve":     "6nHM6jraY47FQqKvCY6yHGDiB2U1JMhhKbKeDv2DCc68A5Gh",
	"ecosystemDevelopment": "6hZFMaTFbRkqwuZ7B4zEDWUQe11UvAE4KbPNsTjZEu13w9vz",
	"liquidityIncentives":  "6nAgoYasDAzqYZVN67zwWUgNdTcTV4bKDhYmqs1iaDXcKeLZ",
	"protocolInitiatives":  "6hpW4pn1pMoaPwKGwzbDNuv6v7tD8fnWqpMzkYaiUNNZdA23",
	"marketing":            "6kYPzPsBbNun6LXrTbq9UwZPh7sn6zQkX1p8BezX54BqEGqH",
}

func localDefinition() Definition {
	return Definition{
		Name:                    Local,
		WebsocketURL:            "ws://127.0.0.1:9944",
		GenesisAccount:          "6hESxBrhZ9ThDDsB1kGWpzj1jc3RMeb6QTGuHx6cb3F4YH2S",
		SecondsPerBlock:         6,
		MultisigThreshold:       3,
		SignatoriesKey:          "foucocoSignatories",
		ExistentialDeposit:      500,
		Unit:                    unit12,
		DistributionAccounts:    foucocoDistribution,
		Sudo:                    "6ftBYTotU4mmCuvUqJvk6qEP7uCzzz771pTMoxcbHFb9rcPv",
		InitialStakingCollators: []string{},
		SS58Prefix:              42,
	}
}

func foucocoDefinition() Definition {
	return Definition{
		Name:                   Foucoco,
		WebsocketURL:           "wss://rpc-foucoco.pendulumchain.tech",
		RelayChainWebsocketURL: "wss://rococo-rpc.polkadot.io",
		GenesisAccount:         "6hESxBrhZ9ThDDsB1kGWpzj1jc3RMeb6QTGuHx6cb3F4YH2S",
		SecondsPerBlock:        12,
		MultisigThreshold:      3,
		SignatoriesKey:         "foucocoSignatories",
		ExistentialDeposit:     1_000_000_000,
		Unit:                   unit12,
		RelayChainUnit:         unit12,
		DistributionAccounts:   foucocoDistribution,
		InitialStakingCollators: []string{
			"6ihktBwyFJYjE1LKdqoAWzo5VDPJJGso9D5iASZyhuN5JvGH",
			"6mbXa9Qca6B6cX51cbtfWWLhup84rMoMFCxNHjso15GBFyGh",
			"6mMdv2wmb4Cp8PAtDLF1WTh1wLPwPbETwtcjqgJLskdB8EYo",
			"6kL1dzcBJiLgMdAT1qDFD79CLupX1gCCF8RSg5Dh5qRgQeCx",
		},
		SS58Prefix: 57,
		ParaID:     paraID(2124),
		OtherParaIDs: map[string]uint32{
			"statemine": 1000,
			"moonbase":  1000,
			"bifrost":   2030,
		},
	}
}

func amplitudeDefinition() Definition {
	return Definition{
		Name:                   Amplitude,
		WebsocketURL:           "wss://rpc-amplitude.pendulumchain.tech",
		RelayChainWebsocketURL: "wss://kusama-rpc.dwellir.com",
		GenesisAccount:         "6nCzN2oTHkm5VV5CW2q9StXtd3J4CpuRHtQaYiBssCLxq6Dv",
		SecondsPerBlock:        12,
		MultisigThreshold:      3,
		SignatoriesKey:         "amplitudeSignatories",
		ExistentialDeposit:     1_000_000_000,
		Unit:                   unit12,
		RelayChainUnit:         unit12,
		DistributionAccounts: map[string]string{
			"crowdloanReserve":     "6kkrogmET4ULqTYXWa8UVqhaYgZMTEf2C7MgQtpFH3CXB783",
			"ecosystemDevelopment": "6kw7NZVJMWh6fgwUSzzSUhf9pQSxBXCzJPrm7cRrN3ZzWuJS",
			"liquidityIncentives":  "6i6pdBXuzNH9m2bM4ipdiMGWSpfz3uDMriHCBdAVXTtzBNPA",
			"protocolInitiatives":  "6hj43L8TpPqFTLuyUTVqfQJPow57oi1ArNTJs5spVYAkFVqJ",
			"marketing":            "6kToZCN5iATwXSR3CKQeHDMcR543FMDUtp1fr5AA9RK6mygn",
		},
		InitialStakingCollators: []string{
			"6mTATq7Ug9RPk4s8aMv5H7WVZ7RvwrJ1JitbYMXWPhanzqiv",
			"6n8WiWqjEB8nCNRo5mxXc89FqhuMd2dgXNSrzuPxoZSnatnL",
			"6ic56zZmjqo746yifWzcNxxzxLe3pRo8WNitotniUQvgKnyU",
			"6gvFApEyYj4EavJP26mwbVu7YxFBYZ9gaJFB7gv5gA6vNfze",
			"6mz3ymVAsfHotEhHphVRvLLBhMZ2frnwbuvW5QZiMRwJghxE",
			"6mpD3zcHcUBkxCjTsGg2tMTfmQZdXLVYZnk4UkN2XAUTLkRe",
			"6mGcZntk59RK2JfxfdmprgDJeByVUgaffMQYkp1ZeoEKeBJA",
			"6jq7obxC7AxhWeJNzopwYidKNNe48cLrbGSgB2zs2SuRTWGA",
		},
		SS58Prefix: 57,
		ParaID:     paraID(2124),
		OtherParaIDs: map[string]uint32{
			"statemine": 1000,
			"bifrost":   2001,
			"picasso":   2087,
		},
	}
}

func pendulumDefinition() Definition {
	return Definition{
		Name:                   Pendulum,
		WebsocketURL:           "wss://rpc-pendulum.prd.pendulumchain.tech",
		RelayChainWebsocketURL: "wss://polkadot-rpc.dwellir.com",
		GenesisAccount:         "6cY3Zrb2gr1xt3BczzJ3xoMpF7UyrcGNfR3cjkjcF7auq2Y9",
		SecondsPerBlock:        12,
		MultisigThreshold:      4,
		SignatoriesKey:         "pendulumSignatories",
		ExistentialDeposit:     1_000_000_000,
		Unit:                   unit12,
		// DOT has 10 decimals, unlike the 12 of KSM and ROC.
		RelayChainUnit: 10_000_000_000,
		DistributionAccounts: map[string]string{
			"genesis":             "6cY3Zrb2gr1xt3BczzJ3xoMpF7UyrcGNfR3cjkjcF7auq2Y9",
			"team":                "6gfLdZvfW2w6fDaPpVfUs53W8Aay17s1bjwcFaqDaBVt7Muo",
			"crowdloanReserve":    "6biLQnLREwRd9aSPiN9xxR2UDCPa1XL3ZSwqNUxNEr3QvGDk",
			"liquidityIncentives": "6eiGivQB9dtQUMs1VpxATipDYrewWSr4kGsvgjELgqnvRYyx",
			"marketing":           "6gKuTtzLBtgYyW3SP6jh7DnXbNU8fDVFG2AxHCLbGYqaspe7",
			"treasury":            "6dZRnXfN7nnrAUDWykWc7gpHpByVBj9HTRpFNNQyENh11xjq",
		},
		InitialStakingCollators: []string{
			"6gUmMnikYxEkk4H7RdnsLRrzNRuDrGAh8JgSiCghG39qenX9",
			"6cgKZANaeUJ42VC7iAXrTzX8NC2gdn4WmYAHRo1RBjBfVvnk",
			"6bh2t6KMJ9BKgCs1B6qcrp5BjMyv2azmgBC6ySwZ3wrTeW5s",
			"6bBH94XAkscX5Q1oswuPSenUzjb9f2iPcfhTKdu1XCK1uwVS",
			"6emSrvAgGZXGBu255njQg3pBxDyQN47T7H2XDZuS5V5epHaX",
			"6fciE2ek1AMFUaFm4nizaHEZtXBy6eRxEcoygr3SFKfddBBK",
			"6ftBtHvYrThAv1xHYDnYrm2qQLFcj2rhkaU5GqNuqvKp57v6",
			"6feqfoP5htFpSriTd9oomDa1dZDmcM4XpjKEq8dfdcADCfGt",
		},
		SS58Prefix: 56,
		ParaID:     paraID(2094),
		OtherParaIDs: map[string]uint32{
			"statemint":   1000,
			"moonbeam":    2004,
			"bifrost":     2030,
			"equilibrium": 2011,
			"polkadex":    2040,
		},
	}
}

// Defaults returns a fresh Config holding the compiled-in definitions for local, foucoco,
// amplitude and pendulum. Signatory sets are empty until AttachSignatories is called.
func Defaults() *Config {
	return NewConfig([]Definition{
		localDefinition(),
		foucocoDefinition(),
		amplitudeDefinition(),
		pendulumDefinition(),
	})
}

// Lookup returns the compiled-in definition for name, or ErrUnknownNetwork.
func Lookup(name string) (Definition, error) {
	return Defaults().Lookup(name)
}

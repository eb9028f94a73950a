package governance

import (
	"fmt"
	"math/big"

	"github.com/pendulum-chain/pendulum-ops/network"
)

// Mode selects how a call is wrapped and routed. The set of modes is closed: Direct, Sudo,
// SimpleSudo, Multisig and Democracy.
type Mode interface {
	// Name returns the mode as given on the command line.
	Name() string

	mode()
}

// Direct prints the call without wrapping or submitting it.
type Direct struct{}

// Sudo wraps the call in Sudo.sudo_unchecked_weight and proposes that through the governance
// multisig.
type Sudo struct {
	Signatories []string
	Threshold   uint16
}

// SimpleSudo wraps the call in Sudo.sudo_unchecked_weight and submits it with the sudo key.
type SimpleSudo struct{}

// Multisig proposes the call through the governance multisig.
type Multisig struct {
	Signatories []string
	Threshold   uint16
}

// Democracy registers the call as a preimage and proposes it as a referendum.
type Democracy struct {
	Kind ProposalKind
	// Deposit locked by a public proposal, in the smallest denomination.
	Deposit *big.Int
	// NotePreimage also builds the Preimage.note_preimage call.
	NotePreimage bool
	// Submit signs and submits the preimage and proposal. When false the calls are only
	// built and logged.
	Submit bool
}

func (Direct) Name() string     { return "direct" }
func (Sudo) Name() string       { return "sudo" }
func (SimpleSudo) Name() string { return "simpleSudo" }
func (Multisig) Name() string   { return "multisig" }
func (Democracy) Name() string  { return "democracy" }

func (Direct) mode()     {}
func (Sudo) mode()       {}
func (SimpleSudo) mode() {}
func (Multisig) mode()   {}
func (Democracy) mode()  {}

// ModeNames lists the accepted mode names.
var ModeNames = []string{"direct", "sudo", "simpleSudo", "multisig", "democracy"}

// ParseMode returns the mode called name, parameterized for the network: the network's
// signatory set and threshold for the multisig modes, an external majority proposal with a
// deposit of one unit for democracy.
func ParseMode(name string, def network.Definition) (Mode, error) {
	switch name {
	case "direct":
		return Direct{}, nil
	case "sudo":
		return Sudo{Signatories: def.Signatories.Fixed, Threshold: def.MultisigThreshold}, nil
	case "simpleSudo":
		return SimpleSudo{}, nil
	case "multisig":
		return Multisig{Signatories: def.Signatories.Fixed, Threshold: def.MultisigThreshold}, nil
	case "democracy":
		return Democracy{Kind: ExternalMajority, Deposit: def.UnitAmount(1), NotePreimage: true}, nil
	default:
		return nil, fmt.Errorf("unknown governance mode %q: expected one of %v", name, ModeNames)
	}
}

// ProposalKind is the democracy track a proposal is made on.
type ProposalKind string

const (
	// Public is a public proposal backed by a deposit.
	Public ProposalKind = "public"
	// External is a council proposal decided by super majority approve.
	External ProposalKind = "external"
	// ExternalMajority is a council proposal decided by simple majority.
	ExternalMajority ProposalKind = "externalMajority"
	// ExternalDefault is a council proposal decided by super majority against.
	ExternalDefault ProposalKind = "externalDefault"
)

// councilMotion returns the democracy call and council threshold of an external proposal.
func (k ProposalKind) councilMotion() (method string, threshold uint32, ok bool) {
	switch k {
	case External:
		return "external_propose", 3, true
	case ExternalMajority:
		return "external_propose_majority", 3, true
	case ExternalDefault:
		return "external_propose_default", 5, true
	case Public:
		return "", 0, false
	default:
		return "", 0, false
	}
}

// ParseProposalKind validates a proposal kind name.
func ParseProposalKind(name string) (ProposalKind, error) {
	switch k := ProposalKind(name); k {
	case Public, External, ExternalMajority, ExternalDefault:
		return k, nil
	default:
		return "", fmt.Errorf("unknown proposal kind %q", name)
	}
}

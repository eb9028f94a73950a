package governance

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate"
	"github.com/pendulum-chain/pendulum-ops/network"
	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
	"github.com/pendulum-chain/pendulum-ops/pkg/prompt"
)

const (
	aliceAddress   = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	bobAddress     = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"
	charlieAddress = "5FLSigC9HGRKVhB9FiEo4Y3koPsNmBmLJbpXg2mp1hXcS59Y"
)

var testIndexes = substrate.StaticCallIndexes{
	"Sudo.sudo_unchecked_weight":          {SectionIndex: 0x1f, MethodIndex: 0x01},
	"Multisig.as_multi":                   {SectionIndex: 0x1e, MethodIndex: 0x01},
	"Preimage.note_preimage":              {SectionIndex: 0x0e, MethodIndex: 0x00},
	"Democracy.propose":                   {SectionIndex: 0x0f, MethodIndex: 0x00},
	"Democracy.external_propose":          {SectionIndex: 0x0f, MethodIndex: 0x04},
	"Democracy.external_propose_majority": {SectionIndex: 0x0f, MethodIndex: 0x05},
	"Democracy.external_propose_default":  {SectionIndex: 0x0f, MethodIndex: 0x06},
	"Council.propose":                     {SectionIndex: 0x10, MethodIndex: 0x02},
}

type submission struct {
	call   substrate.Call
	signer string
}

// fakeChain records submissions instead of sending them.
type fakeChain struct {
	mu        sync.Mutex
	submitted []submission
	err       error
}

func (*fakeChain) Builder() *substrate.Builder {
	return substrate.NewBuilder(testIndexes)
}

func (f *fakeChain) Submit(_ context.Context, call substrate.Call, signer substrate.Keypair, _ substrate.SubmitOptions) (substrate.Inclusion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.submitted = append(f.submitted, submission{call: call, signer: signer.Address})

	return substrate.Inclusion{BlockHash: types.NewHash([]byte{0x01})}, f.err
}

func testNetwork() network.Definition {
	return network.Definition{
		Name:              network.Local,
		WebsocketURL:      "ws://127.0.0.1:9944",
		MultisigThreshold: 2,
		Signatories:       network.SignatorySet{Fixed: []string{aliceAddress, bobAddress, charlieAddress}},
		Unit:              1_000_000_000_000,
		SS58Prefix:        42,
	}
}

type fixture struct {
	dispatcher *Dispatcher
	chain      *fakeChain
	prompter   *prompt.Scripted
	out        *bytes.Buffer
}

func newFixture(t *testing.T, dryRun bool, answers ...string) fixture {
	t.Helper()

	f := fixture{
		chain:    &fakeChain{},
		prompter: prompt.NewScripted(answers...),
		out:      &bytes.Buffer{},
	}

	d, err := NewDispatcher(Config{
		Network:  testNetwork(),
		Chain:    f.chain,
		Prompter: f.prompter,
		Out:      f.out,
		Logger:   logger.Test(t),
		DryRun:   dryRun,
	})
	require.NoError(t, err)
	f.dispatcher = d

	return f
}

func testCall(t *testing.T) substrate.Call {
	t.Helper()

	call, err := substrate.ParseCall("0x0a0001020304")
	require.NoError(t, err)

	return call
}

func mustAccount(t *testing.T, addr string) substrate.AccountID {
	t.Helper()

	id, err := substrate.DecodeAddress(addr)
	require.NoError(t, err)

	return id
}

func Test_OtherSignatories(t *testing.T) {
	t.Parallel()

	low := "0x" + strings.Repeat("01", 32)
	high := "0x" + strings.Repeat("ff", 32)
	mid := "0x" + strings.Repeat("80", 32)
	submitter := "0x" + strings.Repeat("aa", 32)

	got, err := OtherSignatories([]string{high, submitter, low, mid}, mustAccount(t, submitter))
	require.NoError(t, err)

	hexes := make([]string, 0, len(got))
	for _, id := range got {
		hexes = append(hexes, id.Hex())
	}
	assert.Equal(t, []string{
		strings.Repeat("01", 32),
		strings.Repeat("80", 32),
		strings.Repeat("ff", 32),
	}, hexes)
}

func Test_OtherSignatories_MatchesAcrossFormats(t *testing.T) {
	t.Parallel()

	// The submitter is given as a public key while the set holds SS58 addresses.
	alice := mustAccount(t, aliceAddress)

	got, err := OtherSignatories([]string{aliceAddress, bobAddress, charlieAddress}, alice)
	require.NoError(t, err)
	assert.Equal(t, []substrate.AccountID{mustAccount(t, bobAddress), mustAccount(t, charlieAddress)}, got)
}

func Test_OtherSignatories_Errors(t *testing.T) {
	t.Parallel()

	_, err := OtherSignatories(nil, substrate.AccountID{})
	require.ErrorIs(t, err, ErrNoSignatories)

	_, err = OtherSignatories([]string{"bogus"}, substrate.AccountID{})
	require.ErrorContains(t, err, "invalid signatory")
}

func Test_Config_Validate(t *testing.T) {
	t.Parallel()

	err := Config{}.Validate()
	require.EqualError(t, err, "governance.Config: missing required fields: Network, Chain, Prompter, Out, Logger")

	_, err = NewDispatcher(Config{Network: testNetwork()})
	require.EqualError(t, err, "governance.Config: missing required fields: Chain, Prompter, Out, Logger")
}

func Test_Dispatch_DryRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		mode          Mode
		answers       []string
		wantReported  func(b *substrate.Builder, call substrate.Call) (substrate.Call, error)
		wantQuestions []string
	}{
		{
			name: "direct",
			mode: Direct{},
			wantReported: func(_ *substrate.Builder, call substrate.Call) (substrate.Call, error) {
				return call, nil
			},
		},
		{
			name:    "sudo",
			mode:    Sudo{Signatories: testNetwork().Signatories.Fixed, Threshold: 2},
			answers: []string{aliceAddress},
			wantReported: func(b *substrate.Builder, call substrate.Call) (substrate.Call, error) {
				return b.SudoUncheckedWeight(call, substrate.NewWeight(0, 0))
			},
			wantQuestions: []string{"Enter the address of the sudo signatory: "},
		},
		{
			name:    "simple sudo",
			mode:    SimpleSudo{},
			answers: []string{aliceAddress},
			wantReported: func(b *substrate.Builder, call substrate.Call) (substrate.Call, error) {
				return b.SudoUncheckedWeight(call, substrate.NewWeight(0, 0))
			},
			wantQuestions: []string{"Enter the address of the sudo signatory: "},
		},
		{
			name:    "multisig",
			mode:    Multisig{Signatories: testNetwork().Signatories.Fixed, Threshold: 2},
			answers: []string{bobAddress},
			wantReported: func(_ *substrate.Builder, call substrate.Call) (substrate.Call, error) {
				return call, nil
			},
			wantQuestions: []string{"Enter the address of the initiating signatory: "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, true, tt.answers...)
			call := testCall(t)

			require.NoError(t, f.dispatcher.Dispatch(t.Context(), call, tt.mode))

			assert.Empty(t, f.chain.submitted, "a dry run must never submit")
			assert.Equal(t, tt.wantQuestions, f.prompter.Questions)

			reported, err := tt.wantReported(f.chain.Builder(), call)
			require.NoError(t, err)
			assert.Equal(t,
				"Transaction size\n "+strconv.Itoa(reported.Size())+"\n"+
					"Transaction data:\n"+reported.Hex()+"\n"+
					"\n\nTransaction hash: "+reported.Hash().Hex()+"\n",
				f.out.String(),
			)
		})
	}
}

func Test_Dispatch_SudoMultisig(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "//Alice")
	call := testCall(t)

	require.NoError(t, f.dispatcher.Dispatch(t.Context(), call, Sudo{
		Signatories: testNetwork().Signatories.Fixed,
		Threshold:   2,
	}))

	require.Len(t, f.chain.submitted, 1)
	got := f.chain.submitted[0]
	assert.Equal(t, aliceAddress, got.signer)
	assert.Equal(t, []string{"Enter the secret mnemonic seed of the sudo signatory: "}, f.prompter.Questions)

	b := f.chain.Builder()
	sudoCall, err := b.SudoUncheckedWeight(call, substrate.NewWeight(0, 0))
	require.NoError(t, err)
	want, err := b.AsMulti(2,
		[]substrate.AccountID{mustAccount(t, bobAddress), mustAccount(t, charlieAddress)},
		sudoCall,
		substrate.NewWeight(1_000_000_000, 100_000),
	)
	require.NoError(t, err)
	assert.Equal(t, want.Hex(), got.call.Hex())

	// as_multi(sudo_unchecked_weight(call)) carries the submitted call bytes unchanged.
	outer := got.call.Bytes()
	assert.Equal(t, []byte{0x1e, 0x01}, outer[:2])
	assert.True(t, bytes.Contains(outer, sudoCall.Bytes()))
	assert.True(t, bytes.Contains(sudoCall.Bytes(), call.Bytes()))
	assert.Equal(t, []byte{0x1f, 0x01}, sudoCall.Bytes()[:2])
}

func Test_Dispatch_Live(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		mode          Mode
		answers       []string
		wantSubmitted func(b *substrate.Builder, call substrate.Call) (substrate.Call, error)
		wantQuestion  string
	}{
		{
			name:    "simple sudo",
			mode:    SimpleSudo{},
			answers: []string{"//Alice"},
			wantSubmitted: func(b *substrate.Builder, call substrate.Call) (substrate.Call, error) {
				return b.SudoUncheckedWeight(call, substrate.NewWeight(0, 0))
			},
			wantQuestion: "Enter the secret mnemonic seed of the sudo signatory: ",
		},
		{
			name:    "multisig",
			mode:    Multisig{Signatories: testNetwork().Signatories.Fixed, Threshold: 2},
			answers: []string{"//Alice"},
			wantSubmitted: func(b *substrate.Builder, call substrate.Call) (substrate.Call, error) {
				return b.AsMulti(2,
					[]substrate.AccountID{mustAccount(t, bobAddress), mustAccount(t, charlieAddress)},
					call,
					substrate.NewWeight(1_000_000_000, 100_000),
				)
			},
			wantQuestion: "Enter the secret mnemonic seed of the multisig account signatory: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, false, tt.answers...)
			call := testCall(t)

			require.NoError(t, f.dispatcher.Dispatch(t.Context(), call, tt.mode))

			want, err := tt.wantSubmitted(f.chain.Builder(), call)
			require.NoError(t, err)
			require.Len(t, f.chain.submitted, 1)
			assert.Equal(t, want.Hex(), f.chain.submitted[0].call.Hex())
			assert.Equal(t, aliceAddress, f.chain.submitted[0].signer)
			assert.Equal(t, []string{tt.wantQuestion}, f.prompter.Questions)
		})
	}
}

func Test_Dispatch_ConfiguredSigner(t *testing.T) {
	t.Parallel()

	kp, err := substrate.KeypairFromSecret("//Bob", 42)
	require.NoError(t, err)

	chain := &fakeChain{}
	prompter := prompt.NewScripted()
	d, err := NewDispatcher(Config{
		Network:  testNetwork(),
		Chain:    chain,
		Prompter: prompter,
		Out:      &bytes.Buffer{},
		Logger:   logger.Test(t),
		Signer:   &kp,
	})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(t.Context(), testCall(t), SimpleSudo{}))

	assert.Empty(t, prompter.Questions)
	require.Len(t, chain.submitted, 1)
	assert.Equal(t, bobAddress, chain.submitted[0].signer)
}

func Test_Dispatch_SubmitError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "//Alice")
	f.chain.err = substrate.ErrDispatchFailed

	err := f.dispatcher.Dispatch(t.Context(), testCall(t), SimpleSudo{})
	require.ErrorIs(t, err, substrate.ErrDispatchFailed)
}

func Test_Dispatch_PromptError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)

	err := f.dispatcher.Dispatch(t.Context(), testCall(t), Multisig{Signatories: testNetwork().Signatories.Fixed, Threshold: 2})
	require.ErrorIs(t, err, prompt.ErrNoMoreAnswers)
	assert.Empty(t, f.chain.submitted)
}

func Test_Dispatch_NoSignatories(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true, aliceAddress)

	err := f.dispatcher.Dispatch(t.Context(), testCall(t), Multisig{Threshold: 2})
	require.ErrorIs(t, err, ErrNoSignatories)
}

func Test_Dispatch_Democracy(t *testing.T) {
	t.Parallel()

	call := testCall(t)
	lookup := substrate.BoundedLookup{Hash: call.Hash(), Len: uint32(call.Size())}

	t.Run("builds without submitting by default", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, false)
		mode, err := ParseMode("democracy", testNetwork())
		require.NoError(t, err)

		require.NoError(t, f.dispatcher.Dispatch(t.Context(), call, mode))

		assert.Empty(t, f.chain.submitted)
		assert.Empty(t, f.prompter.Questions)
		assert.Equal(t,
			"Preimage data "+call.Hex()+"\nPreimage hash "+call.Hash().Hex()+"\n",
			f.out.String(),
		)
	})

	t.Run("submits preimage and council motion", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, false, "//Alice")

		require.NoError(t, f.dispatcher.Dispatch(t.Context(), call, Democracy{
			Kind:         ExternalDefault,
			NotePreimage: true,
			Submit:       true,
		}))

		b := f.chain.Builder()
		note, err := b.NotePreimage(call)
		require.NoError(t, err)
		external, err := b.ExternalPropose("external_propose_default", lookup)
		require.NoError(t, err)
		motion, err := b.CouncilPropose(5, external)
		require.NoError(t, err)

		require.Len(t, f.chain.submitted, 2)
		assert.Equal(t, note.Hex(), f.chain.submitted[0].call.Hex())
		assert.Equal(t, motion.Hex(), f.chain.submitted[1].call.Hex())
		assert.Equal(t, []string{"Enter the secret mnemonic seed of the council member: "}, f.prompter.Questions)
	})

	t.Run("dry run never submits", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)

		require.NoError(t, f.dispatcher.Dispatch(t.Context(), call, Democracy{Kind: Public, Submit: true}))
		assert.Empty(t, f.chain.submitted)
		assert.Empty(t, f.prompter.Questions)
	})
}

func Test_democracyCalls(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	call := testCall(t)
	b := f.chain.Builder()
	lookup := substrate.BoundedLookup{Hash: call.Hash(), Len: uint32(call.Size())}
	deposit := testNetwork().UnitAmount(1)

	public, err := b.DemocracyPropose(lookup, substrate.CompactBalance{Amount: deposit})
	require.NoError(t, err)
	external, err := b.ExternalPropose("external_propose", lookup)
	require.NoError(t, err)
	externalMotion, err := b.CouncilPropose(3, external)
	require.NoError(t, err)
	majority, err := b.ExternalPropose("external_propose_majority", lookup)
	require.NoError(t, err)
	majorityMotion, err := b.CouncilPropose(3, majority)
	require.NoError(t, err)

	tests := []struct {
		name string
		kind ProposalKind
		want substrate.Call
	}{
		{name: "public", kind: Public, want: public},
		{name: "external", kind: External, want: externalMotion},
		{name: "external majority", kind: ExternalMajority, want: majorityMotion},
		{name: "default kind", kind: "", want: majorityMotion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := f.dispatcher.democracyCalls(call, Democracy{Kind: tt.kind, Deposit: deposit})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want.Hex(), got[0].Hex())
		})
	}

	_, err = f.dispatcher.democracyCalls(call, Democracy{Kind: "referendum"})
	require.EqualError(t, err, `unknown proposal kind "referendum"`)
}

func Test_SubmitFor(t *testing.T) {
	t.Parallel()

	t.Run("submits with the matching key", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, false, "//Alice")
		call := testCall(t)

		require.NoError(t, f.dispatcher.SubmitFor(t.Context(), call, aliceAddress))

		require.Len(t, f.chain.submitted, 1)
		assert.Equal(t, call.Hex(), f.chain.submitted[0].call.Hex())
		assert.Equal(t, []string{`Enter the secret mnemonic seed of address "` + aliceAddress + `": `}, f.prompter.Questions)
	})

	t.Run("rejects another key", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, false, "//Alice")

		err := f.dispatcher.SubmitFor(t.Context(), testCall(t), bobAddress)
		require.ErrorIs(t, err, ErrKeyMismatch)
		require.EqualError(t, err, "incorrect private key for address: expected "+bobAddress+", got: "+aliceAddress)
		assert.Empty(t, f.chain.submitted)
	})

	t.Run("dry run prints only", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true, "//Alice")

		require.NoError(t, f.dispatcher.SubmitFor(t.Context(), testCall(t), aliceAddress))
		assert.Empty(t, f.chain.submitted)
		assert.Contains(t, f.out.String(), "Transaction hash: ")
	})
}

func Test_ParseMode(t *testing.T) {
	t.Parallel()

	def := testNetwork()

	tests := []struct {
		give    string
		want    Mode
		wantErr string
	}{
		{give: "direct", want: Direct{}},
		{give: "sudo", want: Sudo{Signatories: def.Signatories.Fixed, Threshold: 2}},
		{give: "simpleSudo", want: SimpleSudo{}},
		{give: "multisig", want: Multisig{Signatories: def.Signatories.Fixed, Threshold: 2}},
		{give: "democracy", want: Democracy{Kind: ExternalMajority, Deposit: def.UnitAmount(1), NotePreimage: true}},
		{give: "council", wantErr: `unknown governance mode "council": expected one of [direct sudo simpleSudo multisig democracy]`},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMode(tt.give, def)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.give, got.Name())
		})
	}
}

func Test_ParseProposalKind(t *testing.T) {
	t.Parallel()

	got, err := ParseProposalKind("externalDefault")
	require.NoError(t, err)
	assert.Equal(t, ExternalDefault, got)

	_, err = ParseProposalKind("majority")
	require.Error(t, err)
}

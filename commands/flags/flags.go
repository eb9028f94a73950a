// Package flags provides the flags shared by the pendulum-ops commands.
//
// Only flags used by more than one command belong here so their names and defaults stay the
// same everywhere. Command specific flags are defined next to the command.
package flags

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pendulum-chain/pendulum-ops/governance"
)

// MustString returns the string value, ignoring the error.
// Safe to use with registered flags where GetString cannot fail.
func MustString(s string, _ error) string { return s }

// MustBool returns the bool value, ignoring the error.
// Safe to use with registered flags where GetBool cannot fail.
func MustBool(b bool, _ error) bool { return b }

// MustUint64 returns the uint64 value, ignoring the error.
// Safe to use with registered flags where GetUint64 cannot fail.
func MustUint64(u uint64, _ error) uint64 { return u }

// DryRun adds the --dry-run flag. Addresses are asked instead of secrets and nothing is
// submitted.
func DryRun(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Print the payload without signing or submitting it")
}

// Governance adds the --mode flag with defaultMode, together with the flags that tune the
// democracy mode and the submission watch.
//
// Usage:
//
//	flags.Governance(cmd, "multisig")
//	// later in RunE:
//	mode, _ := cmd.Flags().GetString("mode")
func Governance(cmd *cobra.Command, defaultMode string) {
	cmd.Flags().StringP("mode", "m", defaultMode,
		"Governance mode, one of: "+strings.Join(governance.ModeNames, ", "))
	cmd.Flags().String("proposal", string(governance.ExternalMajority),
		"Democracy proposal kind: public, external, externalMajority or externalDefault")
	cmd.Flags().Uint64("deposit", 1, "Deposit of a public democracy proposal, in whole units")
	cmd.Flags().Bool("submit-proposal", false, "Sign and submit the democracy preimage and proposal")
	cmd.Flags().Bool("finalized", false, "Wait for finalization instead of block inclusion")
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pendulum-chain/pendulum-ops/commands/text"
)

var (
	networksShort = "List the known networks or print one definition"

	networksLong = text.LongDesc(`
		Without arguments lists every known network with its websocket endpoint. With a network
		name prints the full definition as YAML, including the attached signatory set.
	`)

	networksExample = text.Examples(`
		# List the networks
		pendulum-ops networks

		# Print the amplitude definition
		pendulum-ops networks amplitude
	`)
)

func newNetworksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "networks [name]",
		Short:   networksShort,
		Long:    networksLong,
		Example: networksExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runListNetworks(cmd, a)
			}

			return runShowNetwork(cmd, a, args[0])
		},
	}
}

func runListNetworks(cmd *cobra.Command, a *app) error {
	for _, name := range a.cfg.Networks.Names() {
		def, err := a.cfg.Networks.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", name, def.WebsocketURL)
	}

	return nil
}

func runShowNetwork(cmd *cobra.Command, a *app, name string) error {
	def, err := a.cfg.Networks.Lookup(name)
	if err != nil {
		return newUsageError(err)
	}

	out, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal network definition: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))

	return nil
}

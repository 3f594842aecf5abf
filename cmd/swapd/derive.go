package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/x/escrow"
)

func newDeriveCmd() *cobra.Command {
	var seed string

	cmd := &cobra.Command{
		Use:   "derive [program-address]",
		Short: "Print the derived custody address of an escrow program",
		Long: `Print the derived custody address of an escrow program.

Without an argument the scenario runner's own escrow program identity is
used, so the output matches what "swapd run" computes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program := escrowProgramID
			if len(args) == 1 {
				var err error
				if program, err = ledger.ParseAddress(args[0]); err != nil {
					return err
				}
			}
			addr, bump, err := ledger.DeriveAddress(program, []byte(seed))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "address: %s\nbump: %d\n", addr, bump)
			return nil
		},
	}
	cmd.Flags().StringVar(&seed, "seed", string(escrow.Seed), "derivation seed")
	return cmd
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eduardolat/nanogen/internal/nanoid"
)

func newAlphabetsCmd() *cobra.Command {
	var showSymbols bool

	cmd := &cobra.Command{
		Use:   "alphabets",
		Short: "List the named alphabets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			header := "NAME\tLENGTH\tMASK\tBITS/SYMBOL"
			if showSymbols {
				header += "\tSYMBOLS"
			}
			fmt.Fprintln(tw, header)

			for _, name := range nanoid.AlphabetNames() {
				alphabet, _ := nanoid.Alphabet(name)
				row := fmt.Sprintf("%s\t%d\t%#02x\t%.2f", name, len(alphabet), nanoid.Mask(len(alphabet)), nanoid.EntropyBits(len(alphabet), 1))
				if showSymbols {
					row += "\t" + alphabet
				}
				fmt.Fprintln(tw, row)
			}

			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&showSymbols, "symbols", false, "Also print the symbols of each alphabet")
	return cmd
}

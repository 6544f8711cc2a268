package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/pegast/internal/calc"
	"github.com/dhamidi/pegast/peg"
	"github.com/spf13/cobra"
)

func newCalcCmd() *cobra.Command {
	var showTree bool

	cmd := &cobra.Command{
		Use:          "calc <expr>...",
		Short:        "Evaluate an arithmetic program such as 'x = 2; x * (x + 1)'",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := calc.NewParser()

			prog, diags, err := p.Parse(strings.Join(args, " "), peg.WithFilename("<args>"))
			for _, d := range diags {
				fmt.Fprintln(cmd.ErrOrStderr(), d)
			}
			if err != nil {
				return err
			}

			if showTree {
				fmt.Fprintln(cmd.OutOrStdout(), prog)
			}

			v, err := prog.Eval()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTree, "print", false, "print the parsed program before its value")

	return cmd
}

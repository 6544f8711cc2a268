package main

import (
	"github.com/dhamidi/pegast/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var flags parserFlags

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a Language Server that reports parse errors for a grammar",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.parser()
			if err != nil {
				return err
			}
			server := lsp.NewServer(p, version)
			return server.RunStdio()
		},
	}

	flags.register(cmd)

	return cmd
}

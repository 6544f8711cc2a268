package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/pegast/cst"
	"github.com/dhamidi/pegast/format"
	"github.com/dhamidi/pegast/grammar"
	"github.com/dhamidi/pegast/peg"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

type parserFlags struct {
	grammarFile string
	start       string
	whitespace  string
	skip        []string
}

func (f *parserFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.grammarFile, "grammar", "g", "", "EBNF grammar file")
	cmd.Flags().StringVar(&f.start, "start", "", "start production")
	cmd.Flags().StringVar(&f.whitespace, "ws", "WhiteSpace", "production skipped between tokens")
	cmd.Flags().StringSliceVar(&f.skip, "skip", nil, "productions that produce no node")
	_ = cmd.MarkFlagRequired("grammar")
	_ = cmd.MarkFlagRequired("start")
}

func (f *parserFlags) parser() (*cst.Parser, error) {
	g, err := grammar.Load(f.grammarFile, grammar.WithWhitespace(f.whitespace))
	if err != nil {
		return nil, err
	}
	return cst.NewParser(g, f.start, cst.Skip(f.skip...))
}

func newParseCmd() *cobra.Command {
	var flags parserFlags
	var outputFormat string
	var normalize bool

	cmd := &cobra.Command{
		Use:          "parse <file>",
		Short:        "Parse a file with an EBNF grammar and dump its syntax tree",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			p, err := flags.parser()
			if err != nil {
				printErrors(cmd, err)
				return fmt.Errorf("load grammar %s: %w", flags.grammarFile, err)
			}

			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			opts := []peg.InputOption{peg.WithFilename(filename)}
			if normalize {
				opts = append(opts, peg.WithNormalization(norm.NFC))
			}
			root, diags, err := p.Parse(peg.NewInput(string(data), opts...))
			for _, d := range diags {
				fmt.Fprintln(cmd.ErrOrStderr(), d)
			}
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}

			if err := enc.Encode(root); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (json, tree)")
	cmd.Flags().BoolVar(&normalize, "nfc", false, "normalize the input to NFC before parsing")

	return cmd
}

func printErrors(cmd *cobra.Command, err error) {
	for _, e := range grammar.Errors(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), e)
	}
}

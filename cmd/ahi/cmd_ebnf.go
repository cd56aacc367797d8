package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/dhamidi/simtok/grammar"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfLexCmd())
	cmd.AddCommand(newEbnfParseCmd())
	cmd.AddCommand(newEbnfDumpCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check [file]",
		Short:         "Parse and verify an EBNF grammar file (default: the embedded Scheme grammar)",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) == 1 {
				filename = args[0]
			} else if !cmd.Flags().Changed("start") {
				startProduction = grammar.Start
			}

			g, err := grammar.Load(filename)
			if err != nil {
				printErrors(err)
				return err
			}

			if startProduction == "" {
				return nil
			}
			if err := ebnf.Verify(g, startProduction); err != nil {
				printErrors(err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfLexCmd() *cobra.Command {
	var grammarFile string

	cmd := &cobra.Command{
		Use:           "lex <file>",
		Short:         "Tokenize a Scheme file with the grammar-driven reference lexer",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			g, err := grammar.Load(grammarFile)
			if err != nil {
				printErrors(err)
				return err
			}

			input, err := os.ReadFile(filename)
			if err != nil {
				err = fmt.Errorf("read file: %w", err)
				printErrors(err)
				return err
			}

			tokens, err := grammar.NewLexer(g, input, filename).Tokenize()
			if err != nil {
				printErrors(err)
				return err
			}
			for _, tok := range tokens {
				fmt.Println(tok)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarFile, "grammar", "g", "", "grammar file (default: the embedded Scheme grammar)")

	return cmd
}

func newEbnfParseCmd() *cobra.Command {
	var grammarFile string
	var startProduction string

	cmd := &cobra.Command{
		Use:           "parse <file>",
		Short:         "Recognize a Scheme file against the grammar with an Earley chart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			g, err := grammar.Load(grammarFile)
			if err != nil {
				printErrors(err)
				return err
			}
			r, err := grammar.NewRecognizer(g, startProduction)
			if err != nil {
				printErrors(err)
				return err
			}

			input, err := os.ReadFile(filename)
			if err != nil {
				err = fmt.Errorf("read file: %w", err)
				printErrors(err)
				return err
			}
			tokens, err := grammar.NewLexer(g, input, filename).Tokenize()
			if err != nil {
				printErrors(err)
				return err
			}

			if err := r.Recognize(tokens); err != nil {
				printErrors(err)
				return err
			}
			fmt.Printf("%s: ok (%d tokens)\n", filename, len(tokens)-1)
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarFile, "grammar", "g", "", "grammar file (default: the embedded Scheme grammar)")
	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production")

	return cmd
}

func newEbnfDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "dump",
		Short:         "Print the embedded Scheme grammar",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := os.Stdout.Write(grammar.Source())
			return err
		},
	}
}

// printErrors prints one line per error when err wraps an error list, as
// ebnf.Parse and ebnf.Verify return.
func printErrors(err error) {
	for inner := err; inner != nil; inner = errors.Unwrap(inner) {
		v := reflect.ValueOf(inner)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Println(v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Println(err)
}

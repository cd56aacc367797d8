package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/simtok/format"
	"github.com/dhamidi/simtok/scheme/frontend"
	"github.com/dhamidi/simtok/scheme/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool
	var maxDepth int

	cmd := &cobra.Command{
		Use:          "tokens <file>",
		Short:        "Print the semantic token stream of a Scheme file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			encoder, err := format.NewEncoder(outputFormat, os.Stdout, includePositions)
			if err != nil {
				return err
			}

			var buf parser.Buffer
			driver := frontend.New(frontend.WithMaxDepth(maxDepth))
			if result := driver.ParsePath(filename, &buf); !result.Success {
				return result.Err
			}

			if err := encoder.Encode(format.Stream{File: filename, Tokens: buf.Tokens()}); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include line and column of each token")
	cmd.Flags().IntVar(&maxDepth, "max-depth", parser.DefaultMaxDepth, "maximum nesting depth")

	return cmd
}

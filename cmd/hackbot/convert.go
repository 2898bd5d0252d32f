package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/hackbot/internal/apperr"
	"github.com/hrygo/hackbot/plugin/tabular"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> [output]",
	Short: "Convert a table between CSV and XLSX",
	Long: `Convert a CSV file to XLSX or an XLSX file to CSV. The target format
defaults to the opposite of the input, and the output to converted_output.<ext>
next to the input. Use "-" as output for stdout.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")

		input := args[0]
		data, err := os.ReadFile(input)
		if err != nil {
			return errors.Wrapf(apperr.ErrIO, "read %s: %v", input, err)
		}

		source, err := tabular.ParseFormat(input)
		if err != nil {
			source = tabular.DetectFormat(data)
		}
		target := source.Target()
		if to != "" {
			if target, err = tabular.ParseFormat(to); err != nil {
				return err
			}
		}

		artifact, err := tabular.NewConverter().Convert(cmd.Context(), source, target, bytes.NewReader(data))
		if err != nil {
			return err
		}

		output := filepath.Join(filepath.Dir(input), artifact.Filename)
		if len(args) == 2 {
			output = args[1]
		}
		return writeOutput(cmd, output, bytes.NewReader(artifact.Data))
	},
}

func init() {
	convertCmd.Flags().String("to", "", "target format: csv or xlsx")
}

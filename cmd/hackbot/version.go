package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hrygo/hackbot/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.StringFull())
		return err
	},
}

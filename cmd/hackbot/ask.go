package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask the assistant a hackathon question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := loadProfile()
		if err := p.Validate(); err != nil {
			return err
		}
		llmService, err := newLLMService(p)
		if err != nil {
			return err
		}

		result, err := newAnswerService(p, llmService).Answer(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		return err
	},
}

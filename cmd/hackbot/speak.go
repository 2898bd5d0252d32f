package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hrygo/hackbot/ai/speech"
)

var speakCmd = &cobra.Command{
	Use:   "speak <text...>",
	Short: "Render text to an MP3 file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")
		out, _ := cmd.Flags().GetString("out")

		p := loadProfile()
		if err := p.Validate(); err != nil {
			return err
		}
		if err := p.ValidateSpeech(); err != nil {
			return err
		}
		renderer, err := newRenderer(p)
		if err != nil {
			return err
		}

		artifact, err := renderer.Render(cmd.Context(), strings.Join(args, " "), lang)
		if err != nil {
			return err
		}
		return writeOutput(cmd, out, artifact.NewReader())
	},
}

func init() {
	speakCmd.Flags().String("lang", "", "language code (default from HACKBOT_AI_SPEECH_LANG, then en)")
	speakCmd.Flags().StringP("out", "o", speech.Filename, `output file, "-" for stdout`)
}

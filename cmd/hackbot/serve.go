package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/hrygo/hackbot/ai/metrics"
	"github.com/hrygo/hackbot/internal/profile"
	"github.com/hrygo/hackbot/plugin/tabular"
	"github.com/hrygo/hackbot/server"
	apiv1 "github.com/hrygo/hackbot/server/router/api/v1"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		instanceProfile := loadProfile()
		if err := instanceProfile.Validate(); err != nil {
			return err
		}
		if err := instanceProfile.ValidateSpeech(); err != nil {
			return err
		}

		llmService, err := newLLMService(instanceProfile)
		if err != nil {
			return err
		}
		renderer, err := newRenderer(instanceProfile)
		if err != nil {
			return err
		}
		slog.Info("LLM service initialized",
			"provider", instanceProfile.LLMProvider,
			"model", instanceProfile.LLMModel,
		)

		// Warm up the LLM connection in the background; failures only log.
		go func() {
			warmupCtx, warmupCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer warmupCancel()
			llmService.Warmup(warmupCtx)
		}()

		api := apiv1.NewAPIV1Service(instanceProfile,
			newAnswerService(instanceProfile, llmService),
			renderer,
			tabular.NewConverter(),
			metrics.NewPrometheusExporter(metrics.DefaultConfig()),
		)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s, err := server.NewServer(ctx, instanceProfile, api)
		if err != nil {
			return err
		}

		c := make(chan os.Signal, 1)
		// Trigger graceful shutdown on SIGINT or SIGTERM.
		signal.Notify(c, terminationSignals...)
		defer signal.Stop(c)

		if err := s.Start(ctx); err != nil {
			return err
		}
		printGreetings(cmd, instanceProfile, s.Addr())

		// Wait for CTRL-C.
		select {
		case <-c:
		case <-ctx.Done():
		}
		s.Shutdown(context.Background())
		return nil
	},
}

func printGreetings(cmd *cobra.Command, p *profile.Profile, addr string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "hackbot %s started successfully!\n", p.Version)
	if p.IsDev() {
		fmt.Fprint(cmd.ErrOrStderr(), "Development mode is enabled\n")
	}
	fmt.Fprintf(out, "Mode: %s\n", p.Mode)
	fmt.Fprintf(out, "LLM: %s (%s)\n", p.LLMModel, p.LLMProvider)
	fmt.Fprintf(out, "Speech: %s voice %s, default language %s\n", p.SpeechModel, p.SpeechVoice, p.SpeechLang)
	fmt.Fprintf(out, "Server running on %s\n", addr)
	fmt.Fprintf(out, "API: http://%s/api/v1\n", addr)
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/hackbot/ai/observability/logging"
	"github.com/hrygo/hackbot/internal/profile"
	"github.com/hrygo/hackbot/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "hackbot",
	Short:         `A hackathon assistant: answers questions with an LLM, reads answers aloud and converts CSV and XLSX tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Load .env from the working directory unless running under systemd,
		// which supplies the environment itself. A missing file is fine.
		if !isRunningAsSystemdService() {
			_ = godotenv.Load()
		}

		format := logging.FormatJSON
		if viper.GetString("mode") != "prod" {
			format = logging.FormatText
		}
		_, err := logging.Setup(logging.Options{
			Level:  viper.GetString("log-level"),
			Format: format,
			Output: cmd.ErrOrStderr(),
		})
		return err
	},
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("port", 8501)
	viper.SetDefault("log-level", "info")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8501, "port of server")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")

	for _, name := range []string{"mode", "addr", "port", "log-level"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("hackbot")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.Version = version.String()
	rootCmd.AddCommand(serveCmd, askCmd, speakCmd, convertCmd, versionCmd)
}

// loadProfile resolves the profile from flags and environment.
func loadProfile() *profile.Profile {
	p := &profile.Profile{
		Mode:     viper.GetString("mode"),
		Addr:     viper.GetString("addr"),
		Port:     viper.GetInt("port"),
		LogLevel: viper.GetString("log-level"),
		Version:  version.GetCurrentVersion(viper.GetString("mode")),
	}
	p.FromEnv()
	return p
}

// isRunningAsSystemdService detects if the process is running under systemd.
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Command schedctl drives the roster pipeline from the terminal: build the
// prompt for a form file, request a schedule, and render schedules as a
// table or CSV.
package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/shift-roster-ai/pkg/config"
	"github.com/arnavshah/shift-roster-ai/pkg/i18n"
	"github.com/arnavshah/shift-roster-ai/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var (
	langFlag    string
	verboseFlag bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "schedctl",
	Short:         "Shift roster tooling",
	Long:          `Builds roster prompts, requests schedules from Gemini and renders them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := "warn"
		if verboseFlag {
			level = "debug"
		}
		logger, err = logging.New(logging.Options{Level: level, Format: "console"})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&langFlag, "lang", "l", "", "prompt and label language (en, th); defaults to DEFAULT_LANG")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(promptCmd, generateCmd, renderCmd, sessionCmd)
}

// selectedLang resolves --lang, then the configured default
func selectedLang() (language.Tag, error) {
	value := langFlag
	if value == "" {
		value = cfg.DefaultLang
	}
	tag, ok := i18n.Parse(value)
	if !ok {
		return language.Und, fmt.Errorf("unsupported language %q", value)
	}
	return tag, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

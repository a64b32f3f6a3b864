package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/arnavshah/shift-roster-ai/pkg/generation"
	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"github.com/arnavshah/shift-roster-ai/pkg/prompt"
	"github.com/arnavshah/shift-roster-ai/pkg/review"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	schemaFlag bool
	formatFlag string
	outFlag    string
	reviewFlag bool
	formFlag   string
)

var promptCmd = &cobra.Command{
	Use:   "prompt <form.yaml>",
	Short: "Print the prompt sent for a form file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrompt,
}

var generateCmd = &cobra.Command{
	Use:   "generate <form.yaml>",
	Short: "Request a schedule for a form file",
	Long: `Sends one request to Gemini for the form and prints the result.
Needs GEMINI_API_KEY (or API_KEY) in the environment or .env.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var renderCmd = &cobra.Command{
	Use:   "render <schedule.json>",
	Short: "Render a saved schedule as a table or CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	promptCmd.Flags().BoolVar(&schemaFlag, "schema", false, "print the response schema as JSON instead")

	generateCmd.Flags().StringVarP(&formatFlag, "format", "f", "table", "output format: table, csv, json")
	generateCmd.Flags().StringVarP(&outFlag, "out", "o", "", "also save the raw schedule JSON to this file")
	generateCmd.Flags().BoolVar(&reviewFlag, "review", false, "print advisory findings after the table")

	renderCmd.Flags().StringVarP(&formatFlag, "format", "f", "table", "output format: table, csv, json")
	renderCmd.Flags().StringVar(&formFlag, "form", "", "form file to review the schedule against")
}

// readInput reads a file, or stdin for "-"
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// loadForm reads a FormInput from YAML or JSON
func loadForm(path string) (models.FormInput, error) {
	var in models.FormInput
	data, err := readInput(path)
	if err != nil {
		return in, err
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse form %s: %w", path, err)
	}
	return in, nil
}

// loadSchedule reads a schedule with the same root check the client applies
func loadSchedule(path string) (models.Schedule, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	schedule, err := generation.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse schedule %s: %w", path, err)
	}
	return schedule, nil
}

func runPrompt(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if schemaFlag {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(prompt.Schema())
	}

	in, err := loadForm(args[0])
	if err != nil {
		return err
	}
	lang, err := selectedLang()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, prompt.Build(in, lang))
	return err
}

func runGenerate(cmd *cobra.Command, args []string) error {
	in, err := loadForm(args[0])
	if err != nil {
		return err
	}
	if !in.Complete() {
		return fmt.Errorf("form %s needs personnel, shifts and a date range", args[0])
	}
	lang, err := selectedLang()
	if err != nil {
		return err
	}

	client, err := generation.NewGeminiClient(generation.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GenerationTimeout,
	}, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Requesting schedule from %s...\n", client.Model())
	schedule, err := client.GenerateSchedule(context.Background(), in, lang)
	if err != nil {
		return err
	}

	if outFlag != "" {
		data, err := json.MarshalIndent(schedule, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(outFlag, data, 0o644); err != nil {
			return fmt.Errorf("save schedule: %w", err)
		}
	}

	if err := writeSchedule(cmd.OutOrStdout(), schedule, formatFlag, lang); err != nil {
		return err
	}
	if reviewFlag {
		printReview(cmd.OutOrStdout(), review.NewReviewer(review.DefaultOptions()).Check(schedule, in))
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	schedule, err := loadSchedule(args[0])
	if err != nil {
		return err
	}
	lang, err := selectedLang()
	if err != nil {
		return err
	}

	if err := writeSchedule(cmd.OutOrStdout(), schedule, formatFlag, lang); err != nil {
		return err
	}
	if formFlag != "" {
		in, err := loadForm(formFlag)
		if err != nil {
			return err
		}
		printReview(cmd.OutOrStdout(), review.NewReviewer(review.DefaultOptions()).Check(schedule, in))
	}
	return nil
}

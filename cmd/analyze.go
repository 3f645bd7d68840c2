package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/foogie-app/foogie/internal/analysis"
	"github.com/foogie-app/foogie/internal/api"
	"github.com/foogie-app/foogie/internal/config"

	"github.com/spf13/cobra"
)

var (
	flagAnalyzeFile string
	flagAnalyzeURL  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Estimate calories and freshness from a food photo",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagAnalyzeFile, "file", "f", "", "Image file to upload")
	analyzeCmd.Flags().StringVarP(&flagAnalyzeURL, "url", "u", "", "Image URL to analyze")
	analyzeCmd.MarkFlagsMutuallyExclusive("file", "url")
	analyzeCmd.MarkFlagsOneRequired("file", "url")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	in := api.AnalyzeInput{URL: flagAnalyzeURL}
	if flagAnalyzeFile != "" {
		//nolint:gosec // image path is supplied by the local user
		data, err := os.ReadFile(flagAnalyzeFile)
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		if len(data) == 0 {
			return errors.New("image file is empty")
		}
		in.Image = data
		in.Filename = filepath.Base(flagAnalyzeFile)
	}

	progress("  Analyzing...\n")
	reply, err := newClient(cfg).Analyze(context.Background(), in)
	if err != nil {
		return err
	}

	fmt.Println()
	for _, line := range analysis.Parse(reply).Lines() {
		fmt.Println("  " + line)
	}
	fmt.Println()
	return nil
}

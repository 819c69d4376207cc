// Command analyze runs the statement analysis pipeline over a local
// export file and prints the report pages.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dkomarov/finsight/internal/categorize"
	"github.com/dkomarov/finsight/internal/config"
	"github.com/dkomarov/finsight/internal/intake"
	"github.com/dkomarov/finsight/internal/logger"
	"github.com/dkomarov/finsight/internal/pipeline"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "analyze <statement file>",
	Short: "Analyze a bank statement export",
	Long: `Analyze a bank statement export (.xlsx or .csv) and print the
financial report: spending breakdown, recurring payments, unusual
transactions, behavior analysis and the savings estimate.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log := logger.New()
	if verbose || cfg.Verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}
	ctx := logger.WithContext(context.Background(), log)

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read statement: %w", err)
	}

	embedder, err := categorize.NewGeminiEmbedder(ctx, cfg.EmbeddingModel)
	if err != nil {
		return err
	}

	service := intake.NewService(pipeline.NewAnalyzer(embedder))
	pages, err := service.Process(ctx, filepath.Base(path), content)
	if err != nil {
		return err
	}

	for i, page := range pages {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(stripBold(page))
	}
	return nil
}

func stripBold(s string) string {
	s = strings.ReplaceAll(s, "<b>", "")
	return strings.ReplaceAll(s, "</b>", "")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pwellner/go-ai-researcher/internal/core/pricing"
	"github.com/pwellner/go-ai-researcher/internal/openrouter"
	"github.com/pwellner/go-ai-researcher/internal/presentation/formatter"
	"github.com/pwellner/go-ai-researcher/internal/researcher"
	"github.com/pwellner/go-ai-researcher/internal/util"
)

var (
	// Logging related
	debug bool

	// Request related
	modelName string
	baseURL   string
	timeout   time.Duration

	// Pricing related
	pricingFile string

	// Mode selection
	interactive bool

	rootCmd = &cobra.Command{
		Use:   "go-ai-researcher [flags]",
		Short: "Streaming OpenRouter research client with cost tracking",
		Long: `go-ai-researcher issues chat and vision completion requests against
the OpenRouter API, streams responses to the console, and keeps an
approximate running total of what the session cost.

Examples:
  go-ai-researcher                                  # run the three built-in demo requests
  go-ai-researcher --interactive                    # read research queries from stdin
  go-ai-researcher --model openai/gpt-4o-mini -i    # pick a different model
  go-ai-researcher --pricing-file prices.json       # override the built-in price table`,
		SilenceUsage: true,
		RunE:         run,
	}
)

const defaultLogFile = "~/.go-ai-researcher/logs/app.log"

func init() {
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"Start an interactive research query loop")
	rootCmd.Flags().StringVarP(&modelName, "model", "m", pricing.DefaultModel,
		"Model identifier to request")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "",
		"API base URL (default "+openrouter.DefaultBaseURL+")")
	rootCmd.Flags().DurationVar(&timeout, "timeout", openrouter.DefaultTimeout,
		"Timeout for blocking requests")
	rootCmd.Flags().StringVar(&pricingFile, "pricing-file", "",
		"JSON file with per-model pricing overrides (reloaded on change)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func run(cmd *cobra.Command, args []string) error {
	// Pick up OPENROUTER_API_KEY and friends from a local .env, matching
	// what users of similar tools expect.
	_ = godotenv.Load()

	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		logFile = ""
	}
	util.InitLogger(logLevel, logFile, debug)

	client, err := openrouter.NewClient(openrouter.Config{
		BaseURL: baseURL,
		Timeout: timeout,
	})
	if err != nil {
		var cfgErr *openrouter.ConfigError
		if errors.As(err, &cfgErr) {
			printConfigHelp()
		}
		return err
	}

	table := pricing.NewTable()
	if pricingFile != "" {
		watcher, err := pricing.WatchOverrides(table, expandPath(pricingFile))
		if err != nil {
			return fmt.Errorf("loading pricing overrides: %w", err)
		}
		defer watcher.Close()
		util.LogInfof("Loaded %d pricing overrides from %s", table.OverrideCount(), pricingFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := researcher.New(researcher.Config{
		Client: client,
		Model:  modelName,
		Table:  table,
		Output: os.Stdout,
	})
	renderer := formatter.NewConsoleRenderer(os.Stdout)

	if interactive {
		return runInteractive(ctx, r, renderer)
	}
	return runExamples(ctx, r, renderer)
}

func printConfigHelp() {
	fmt.Println("❌ Configuration Error: no API key found")
	fmt.Println()
	fmt.Println("To fix this:")
	fmt.Printf("1. Set your %s environment variable\n", openrouter.EnvAPIKey)
	fmt.Printf("2. You can set it by running: export %s='your_api_key_here'\n", openrouter.EnvAPIKey)
	fmt.Printf("3. Or create a .env file with: %s=your_api_key_here\n", openrouter.EnvAPIKey)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

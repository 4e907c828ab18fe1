package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saveit/shopping-service/config"
	"github.com/saveit/shopping-service/internal/httpclient"
	"github.com/saveit/shopping-service/internal/httpclient/ratelimit"
	"github.com/saveit/shopping-service/internal/llm"
	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/recipe"
	"github.com/saveit/shopping-service/internal/search"
	"github.com/saveit/shopping-service/internal/selector"
	"github.com/saveit/shopping-service/internal/shopping"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shopping-service",
	Short: "Shopping Service CLI - recipe ingredient price comparison tool",
	Long: `A CLI tool for resolving recipes into ingredients and comparing grocery
prices across quick-commerce platforms such as Swiggy Instamart, Zepto, and
Blinkit. The same pipeline that backs the HTTP API runs behind each command.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config is optional for some commands, don't fail here
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	// normalize is pure and needs no config; everything else calls out.
	if cmd.Name() == "normalize" {
		return nil
	}
	if cfg == nil {
		return fmt.Errorf("config required for %s command but not loaded", cmd.Name())
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.WarnLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stdout
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zlog.Logger = log
	return &log
}

// buildOrchestrator assembles the full pipeline from the loaded config.
func buildOrchestrator() (*shopping.Orchestrator, error) {
	llmClient, err := llm.NewClient(llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	httpClient := httpclient.New(ratelimit.Config{
		RequestsPerSecond: cfg.Aggregator.RequestsPerSecond,
		MaxRetries:        cfg.Aggregator.MaxRetries,
		InitialBackoffMs:  cfg.Aggregator.InitialBackoffMs,
		MaxBackoffMs:      cfg.Aggregator.MaxBackoffMs,
	})
	searchClient := search.NewClient(httpClient, cfg.Aggregator.BaseURL, search.Location{
		Lat: cfg.Aggregator.Lat,
		Lon: cfg.Aggregator.Lon,
	}, nil)

	costs := platform.DefaultCostTable()
	sel := selector.New(selector.NewLLMPicker(llmClient), costs)
	finder := recipe.NewDiscovery(llmClient)

	return shopping.New(searchClient, sel, finder, shopping.NewLLMFallback(llmClient), shopping.Config{
		MaxConcurrentSearches:   cfg.Shopping.MaxConcurrentSearches,
		MaxConcurrentSelections: cfg.Shopping.MaxConcurrentSelections,
	}), nil
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

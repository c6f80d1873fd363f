package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-compass/internal/config"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full guidance pipeline end-to-end",
	Long: `Generates the complete guidance set from an intake profile: career recommendations first, then roadmap, market insights, action plan, learning plan, interview prep, and networking strategy.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath  string
	runProfile     string
	runOwnerID     string
	runAPIKey      string
	runProvider    string
	runModel       string
	runCachePath   string
	runDatabaseURL string
	runVerbose     bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runProfile, "profile", "p", "", "Path to intake profile JSON file")
	runCommand.Flags().StringVar(&runOwnerID, "owner", "", "Owner id for cache scoping (random when omitted)")
	runCommand.Flags().StringVar(&runProvider, "provider", "", "Content service provider: anthropic (default) or gemini")
	runCommand.Flags().StringVar(&runModel, "model", "", "Model override")
	runCommand.Flags().StringVar(&runCachePath, "cache-path", "", "SQLite session cache path (in-memory cache when omitted)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress information")

	// API key can be passed as a flag, or read from the provider's env var
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Content service API key (optional, defaults to ANTHROPIC_API_KEY or GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

// mergedRunConfig combines the config file, CLI overrides, and env defaults.
func mergedRunConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// CLI overrides only apply when the flag was explicitly set
	if cmd.Flags().Changed("profile") {
		cfg.ProfilePath = runProfile
	}
	if cmd.Flags().Changed("owner") {
		cfg.OwnerID = runOwnerID
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = runProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = runModel
	}
	if cmd.Flags().Changed("cache-path") {
		cfg.CachePath = runCachePath
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := mergedRunConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.ProfilePath == "" {
		return fmt.Errorf("--profile is required")
	}

	profile, err := loadProfile(cfg.ProfilePath)
	if err != nil {
		return err
	}

	session, err := newCLISession(ctx, cfg)
	if err != nil {
		return err
	}
	defer session.close()

	session.orchestrator.UpdateProfile(profile)

	fmt.Println("Generating career guidance...")
	if err := session.orchestrator.GenerateAll(ctx); err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	printArtifacts(session.orchestrator, session.printer)
	fmt.Println("Done.")
	return nil
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-compass/internal/pipeline"
	"github.com/jonathan/career-compass/internal/types"
)

var generateCommand = &cobra.Command{
	Use:   "generate <stage>",
	Short: "Generate a single pipeline stage",
	Long: `Generates one stage of the guidance pipeline. Stages other than "recommendations" require a cached recommendations result (use --cache-path to reuse a prior session).

Available stages: ` + strings.Join(stageNames(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: runGenerateCmd,
}

func init() {
	generateCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCommand.Flags().StringVarP(&runProfile, "profile", "p", "", "Path to intake profile JSON file (optional when cached)")
	generateCommand.Flags().StringVar(&runOwnerID, "owner", "", "Owner id for cache scoping")
	generateCommand.Flags().StringVar(&runProvider, "provider", "", "Content service provider: anthropic (default) or gemini")
	generateCommand.Flags().StringVar(&runModel, "model", "", "Model override")
	generateCommand.Flags().StringVar(&runCachePath, "cache-path", "", "SQLite session cache path")
	generateCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Content service API key (optional, defaults to ANTHROPIC_API_KEY or GEMINI_API_KEY env var)")
	generateCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	generateCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(generateCommand)
}

func stageNames() []string {
	names := make([]string, 0, len(pipeline.StageRegistry))
	for _, id := range pipeline.Stages() {
		names = append(names, string(id))
	}
	return names
}

func runGenerateCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	stage := types.StageID(args[0])
	if _, ok := pipeline.StageRegistry[stage]; !ok {
		return fmt.Errorf("unknown stage %q (available: %s)", args[0], strings.Join(stageNames(), ", "))
	}

	cfg, err := mergedRunConfig(cmd)
	if err != nil {
		return err
	}

	session, err := newCLISession(ctx, cfg)
	if err != nil {
		return err
	}
	defer session.close()

	if cfg.ProfilePath != "" {
		profile, err := loadProfile(cfg.ProfilePath)
		if err != nil {
			return err
		}
		session.orchestrator.UpdateProfile(profile)
	}
	if session.orchestrator.Profile() == nil {
		return fmt.Errorf("no profile available: pass --profile or reuse a cached session")
	}

	fmt.Printf("Generating %s...\n", stage)
	if err := session.orchestrator.Generate(ctx, stage); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	switch session.orchestrator.Status(stage) {
	case types.StatusReady:
		printArtifacts(session.orchestrator, session.printer)
	case types.StatusIdle:
		fmt.Printf("Stage %s was skipped: its dependency is not ready. Generate recommendations first.\n", stage)
	}
	return nil
}

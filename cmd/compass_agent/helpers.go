package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/career-compass/internal/cache"
	"github.com/jonathan/career-compass/internal/config"
	"github.com/jonathan/career-compass/internal/db"
	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/observability"
	"github.com/jonathan/career-compass/internal/pipeline"
	"github.com/jonathan/career-compass/internal/types"
)

// resolveAPIKey returns the content service API key from the flag value or
// the provider's environment variable.
func resolveAPIKey(flagValue, provider string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	envVar := "ANTHROPIC_API_KEY"
	if provider == string(llm.ProviderGemini) {
		envVar = "GEMINI_API_KEY"
	}

	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		return "", fmt.Errorf("API key is required: pass --api-key or set %s", envVar)
	}
	return apiKey, nil
}

// cliSession bundles everything a CLI command needs to drive the pipeline.
type cliSession struct {
	orchestrator *pipeline.Orchestrator
	printer      *observability.Printer
	client       llm.Client
	backend      cache.Backend
	archive      *db.DB
}

// newCLISession wires the content service client, cache store, and optional
// archive from the merged config, then restores any cached session state.
func newCLISession(ctx context.Context, cfg config.Config) (*cliSession, error) {
	apiKey, err := resolveAPIKey(cfg.APIKey, cfg.Provider)
	if err != nil {
		return nil, err
	}

	llmCfg := llm.DefaultConfig()
	if cfg.Provider == string(llm.ProviderGemini) {
		llmCfg = llm.DefaultGeminiConfig()
	}
	if cfg.Model != "" {
		llmCfg.Model = cfg.Model
	}

	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create content service client: %w", err)
	}

	var backend cache.Backend
	if cfg.CachePath != "" {
		sqlite, err := cache.OpenSQLite(cfg.CachePath)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to open session cache: %w", err)
		}
		backend = sqlite
	} else {
		backend = cache.NewMemoryBackend()
	}

	var archive *db.DB
	if cfg.DatabaseURL != "" {
		archive, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	ownerID := cfg.OwnerID
	if ownerID == "" {
		ownerID = uuid.NewString()
	}

	printer := observability.NewPrinter(os.Stdout)
	opts := pipeline.Options{
		Client:  client,
		Store:   cache.NewStore(backend),
		Archive: archive,
		OwnerID: ownerID,
	}
	if cfg.Verbose {
		opts.OnProgress = func(event pipeline.ProgressEvent) {
			printer.PrintStageEvent(event.Stage, event.Status, event.Message)
		}
	}

	s := &cliSession{
		orchestrator: pipeline.New(opts),
		printer:      printer,
		client:       client,
		backend:      backend,
		archive:      archive,
	}

	if s.orchestrator.Restore() && cfg.Verbose {
		fmt.Printf("Restored cached session for owner %s\n", ownerID)
	}

	return s, nil
}

// close flushes pending autosaves and releases every resource.
func (s *cliSession) close() {
	s.orchestrator.Close()
	if err := s.client.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close content service client: %v\n", err)
	}
	if closer, ok := s.backend.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close session cache: %v\n", err)
		}
	}
	if s.archive != nil {
		s.archive.Close()
	}
}

// loadProfile reads and validates the intake profile JSON file.
func loadProfile(path string) (*types.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	var profile types.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	return &profile, nil
}

// printArtifacts renders every ready artifact in a fixed order.
func printArtifacts(orch *pipeline.Orchestrator, printer *observability.Printer) {
	printer.PrintRecommendations(orch.Recommendations())

	if artifact := orch.Artifact(types.StageRoadmap); artifact != nil && !artifact.IsEmpty() {
		var roadmap types.Roadmap
		if json.Unmarshal(artifact.Data, &roadmap) == nil {
			printer.PrintRoadmap(&roadmap)
		}
	}
	if artifact := orch.Artifact(types.StageMarketInsights); artifact != nil && !artifact.IsEmpty() {
		var insights types.MarketInsights
		if json.Unmarshal(artifact.Data, &insights) == nil {
			printer.PrintMarketInsights(&insights)
		}
	}
	if artifact := orch.Artifact(types.StageActionPlan); artifact != nil && !artifact.IsEmpty() {
		var items []types.ActionItem
		if json.Unmarshal(artifact.Data, &items) == nil {
			printer.PrintActionPlan(items)
		}
	}
	if artifact := orch.Artifact(types.StageLearningPlan); artifact != nil && !artifact.IsEmpty() {
		var plan types.LearningPlan
		if json.Unmarshal(artifact.Data, &plan) == nil {
			printer.PrintLearningPlan(&plan)
		}
	}
	if artifact := orch.Artifact(types.StageInterviewQuestions); artifact != nil && !artifact.IsEmpty() {
		var questions []types.InterviewQuestion
		if json.Unmarshal(artifact.Data, &questions) == nil {
			printer.PrintInterviewQuestions(questions)
		}
	}
	if artifact := orch.Artifact(types.StageNetworkingStrategy); artifact != nil && !artifact.IsEmpty() {
		var strategy types.NetworkingStrategy
		if json.Unmarshal(artifact.Data, &strategy) == nil {
			printer.PrintNetworkingStrategy(&strategy)
		}
	}
}

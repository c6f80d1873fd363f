package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-compass/internal/cache"
	"github.com/jonathan/career-compass/internal/pipeline"
)

var (
	sessionCachePath string
	sessionOwnerID   string
)

var sessionCommand = &cobra.Command{
	Use:   "session",
	Short: "Inspect or clear the cached session",
}

var sessionShowCommand = &cobra.Command{
	Use:   "show",
	Short: "Show the cached session state",
	RunE:  runSessionShow,
}

var sessionClearCommand = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached session data",
	RunE:  runSessionClear,
}

func init() {
	sessionCommand.PersistentFlags().StringVar(&sessionCachePath, "cache-path", "", "SQLite session cache path")
	sessionCommand.PersistentFlags().StringVar(&sessionOwnerID, "owner", "", "Owner id the cached session belongs to")
	sessionCommand.AddCommand(sessionShowCommand)
	sessionCommand.AddCommand(sessionClearCommand)
	rootCmd.AddCommand(sessionCommand)
}

func openSessionStore() (*cache.Store, *cache.SQLiteBackend, error) {
	if sessionCachePath == "" {
		return nil, nil, fmt.Errorf("--cache-path is required")
	}
	backend, err := cache.OpenSQLite(sessionCachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session cache: %w", err)
	}
	return cache.NewStore(backend), backend, nil
}

func runSessionShow(_ *cobra.Command, _ []string) error {
	if sessionOwnerID == "" {
		return fmt.Errorf("--owner is required")
	}

	store, backend, err := openSessionStore()
	if err != nil {
		return err
	}
	defer backend.Close()

	// A stub client is fine: show never generates, it only restores.
	orch := pipeline.New(pipeline.Options{
		Store:   store,
		OwnerID: sessionOwnerID,
	})
	if !orch.Restore() {
		fmt.Println("No cached session found for this owner.")
		return nil
	}

	if profile := orch.Profile(); profile != nil {
		fmt.Printf("Profile: %s (%s, %d years experience)\n", profile.Name, profile.CurrentRole, profile.YearsExperience)
	}

	fmt.Println("Stages:")
	for _, id := range pipeline.Stages() {
		status := orch.Status(id)
		line := fmt.Sprintf("  %-22s %s", id, status)
		if artifact := orch.Artifact(id); artifact != nil && artifact.Degraded {
			line += " (degraded)"
		}
		fmt.Println(line)
	}

	if recs := orch.Recommendations(); len(recs) > 0 {
		fmt.Printf("Recommendations: %d cached\n", len(recs))
	}
	return nil
}

func runSessionClear(_ *cobra.Command, _ []string) error {
	store, backend, err := openSessionStore()
	if err != nil {
		return err
	}
	defer backend.Close()

	if sessionOwnerID != "" {
		// Clear both namespaces for one owner's session
		orch := pipeline.New(pipeline.Options{
			Store:   store,
			OwnerID: sessionOwnerID,
		})
		orch.ClearSession()
	} else {
		store.ClearAll()
	}

	fmt.Println("Session cache cleared.")
	return nil
}

// Package main provides the entry point for the Career Compass agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "compass_agent",
	Short: "Career Compass guidance pipeline",
	Long:  "Career Compass generates personalized career recommendations, roadmaps, and preparation plans from an intake profile via CLI or REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

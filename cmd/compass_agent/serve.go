package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-compass/internal/server"
)

var (
	servePort      int
	serveProvider  string
	serveModel     string
	serveCachePath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for the career guidance pipeline.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "Content service provider: anthropic (default) or gemini")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Model override")
	serveCmd.Flags().StringVar(&serveCachePath, "cache-path", "", "SQLite session cache path (in-memory cache when omitted)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	apiKey, err := resolveAPIKey("", serveProvider)
	if err != nil {
		return err
	}

	cfg := server.Config{
		Port:        servePort,
		APIKey:      apiKey,
		Provider:    serveProvider,
		Model:       serveModel,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CachePath:   serveCachePath,
	}

	srv, err := server.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

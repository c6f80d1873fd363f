package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-compass/internal/cache"
	"github.com/jonathan/career-compass/internal/config"
	"github.com/jonathan/career-compass/internal/db"
	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/pipeline"
	"github.com/jonathan/career-compass/internal/server/middleware"
)

// Server represents the HTTP server. Each authenticated owner gets a
// lazily created orchestrator that lives for the life of the process.
type Server struct {
	httpServer *http.Server
	client     llm.Client
	store      *cache.Store
	backend    cache.Backend
	archive    *db.DB // optional; nil disables the Postgres archive
	jwtService *JWTService

	mu       sync.Mutex
	sessions map[uuid.UUID]*pipeline.Orchestrator
}

// Config holds server configuration
type Config struct {
	Port        int
	APIKey      string
	Provider    string
	Model       string
	DatabaseURL string
	CachePath   string
}

// New creates a new server instance
func New(ctx context.Context, cfg Config) (*Server, error) {
	llmCfg := llm.DefaultConfig()
	if cfg.Provider != "" {
		llmCfg.Provider = llm.Provider(cfg.Provider)
		if llmCfg.Provider == llm.ProviderGemini {
			llmCfg = llm.DefaultGeminiConfig()
		}
	}
	if cfg.Model != "" {
		llmCfg.Model = cfg.Model
	}

	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create content service client: %w", err)
	}

	var backend cache.Backend
	if cfg.CachePath != "" {
		sqlite, err := cache.OpenSQLite(cfg.CachePath)
		if err != nil {
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
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		client:     client,
		store:      cache.NewStore(backend),
		backend:    backend,
		archive:    archive,
		jwtService: NewJWTService(jwtConfig),
		sessions:   make(map[uuid.UUID]*pipeline.Orchestrator),
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/session", s.handleCreateAuthSession)

	// Authenticated session endpoints
	auth := middleware.Auth(s.jwtService.AsTokenValidator())
	protected := http.NewServeMux()
	protected.HandleFunc("POST /profile", s.handlePutProfile)
	protected.HandleFunc("PUT /profile", s.handlePutProfile)
	protected.HandleFunc("GET /profile", s.handleGetProfile)
	protected.HandleFunc("GET /stages", s.handleListStages)
	protected.HandleFunc("POST /stages/generate-all", s.handleGenerateAll)
	protected.HandleFunc("POST /stages/{stage}/generate", s.handleGenerateStage)
	protected.HandleFunc("POST /stages/{stage}/reset", s.handleResetStage)
	protected.HandleFunc("GET /stages/{stage}", s.handleGetStage)
	protected.HandleFunc("GET /snapshot", s.handleSnapshot)
	protected.HandleFunc("DELETE /session", s.handleClearSession)
	protected.HandleFunc("GET /sessions", s.handleListSessions)
	mux.Handle("/", auth(protected))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for full generation runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Flush pending autosaves before tearing down storage
	s.mu.Lock()
	for _, orch := range s.sessions {
		orch.Close()
	}
	s.mu.Unlock()

	if err := s.client.Close(); err != nil {
		log.Printf("Error closing content service client: %v", err)
	}
	if closer, ok := s.backend.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("Error closing session cache: %v", err)
		}
	}
	if s.archive != nil {
		s.archive.Close()
	}

	log.Println("Server stopped")
	return nil
}

// orchestratorFor returns the orchestrator for an owner, creating one and
// restoring its cached session on first use.
func (s *Server) orchestratorFor(ownerID uuid.UUID) *pipeline.Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()

	if orch, ok := s.sessions[ownerID]; ok {
		return orch
	}

	orch := pipeline.New(pipeline.Options{
		Client:  s.client,
		Store:   s.store,
		Archive: s.archive,
		OwnerID: ownerID.String(),
	})
	if orch.Restore() {
		log.Printf("Restored cached session for owner %s", ownerID)
	}
	s.sessions[ownerID] = orch
	return orch
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/career-compass/internal/pipeline"
	"github.com/jonathan/career-compass/internal/server/middleware"
	"github.com/jonathan/career-compass/internal/types"
)

// AuthSessionResponse represents the response for /auth/session
type AuthSessionResponse struct {
	OwnerID string `json:"owner_id"`
	Token   string `json:"token"`
}

// StageResponse represents the state of a single stage
type StageResponse struct {
	Stage    types.StageID            `json:"stage"`
	Status   types.StageStatus        `json:"status"`
	Artifact *types.GeneratedArtifact `json:"artifact,omitempty"`
}

// SnapshotResponse represents the response for /snapshot
type SnapshotResponse struct {
	Profile  *types.UserProfile              `json:"profile,omitempty"`
	Stages   map[types.StageID]StageResponse `json:"stages"`
	Analysis []types.CareerRecommendation    `json:"analysis,omitempty"`
}

// handleCreateAuthSession mints a token for a fresh anonymous owner. Clients
// keep the token for the life of their session; the owner ID scopes all
// cached state.
func (s *Server) handleCreateAuthSession(w http.ResponseWriter, _ *http.Request) {
	ownerID := uuid.New()
	token, err := s.jwtService.GenerateToken(ownerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, AuthSessionResponse{
		OwnerID: ownerID.String(),
		Token:   token,
	})
}

// handlePutProfile submits or replaces the intake profile for the session.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var profile types.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := profile.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile: "+err.Error())
		return
	}

	orch := s.orchestratorFor(ownerID)
	orch.UpdateProfile(&profile)

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetProfile returns the current intake profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile := s.orchestratorFor(ownerID).Profile()
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "No profile submitted for this session")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleGenerateStage runs a single generation stage synchronously.
func (s *Server) handleGenerateStage(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stage := types.StageID(r.PathValue("stage"))
	if _, ok := pipeline.StageRegistry[stage]; !ok {
		s.errorResponse(w, http.StatusNotFound, (&ErrUnknownStage{Stage: string(stage)}).Error())
		return
	}

	orch := s.orchestratorFor(ownerID)
	if orch.Profile() == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrNoProfile{}).Error())
		return
	}

	if err := orch.Generate(r.Context(), stage); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, StageResponse{
		Stage:    stage,
		Status:   orch.Status(stage),
		Artifact: orch.Artifact(stage),
	})
}

// handleGenerateAll runs the root stage and then every dependent stage.
func (s *Server) handleGenerateAll(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orch := s.orchestratorFor(ownerID)
	if orch.Profile() == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrNoProfile{}).Error())
		return
	}

	if err := orch.GenerateAll(r.Context()); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.writeSnapshot(w, orch)
}

// handleResetStage returns a failed stage to idle.
func (s *Server) handleResetStage(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stage := types.StageID(r.PathValue("stage"))
	if _, ok := pipeline.StageRegistry[stage]; !ok {
		s.errorResponse(w, http.StatusNotFound, (&ErrUnknownStage{Stage: string(stage)}).Error())
		return
	}

	orch := s.orchestratorFor(ownerID)
	orch.Reset(stage)

	s.jsonResponse(w, http.StatusOK, StageResponse{
		Stage:  stage,
		Status: orch.Status(stage),
	})
}

// handleGetStage returns the status and artifact of a single stage.
func (s *Server) handleGetStage(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stage := types.StageID(r.PathValue("stage"))
	if _, ok := pipeline.StageRegistry[stage]; !ok {
		s.errorResponse(w, http.StatusNotFound, (&ErrUnknownStage{Stage: string(stage)}).Error())
		return
	}

	orch := s.orchestratorFor(ownerID)
	s.jsonResponse(w, http.StatusOK, StageResponse{
		Stage:    stage,
		Status:   orch.Status(stage),
		Artifact: orch.Artifact(stage),
	})
}

// handleListStages returns the status of every stage without artifacts.
func (s *Server) handleListStages(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orch := s.orchestratorFor(ownerID)
	stages := make([]StageResponse, 0, len(pipeline.StageRegistry))
	for _, id := range pipeline.Stages() {
		stages = append(stages, StageResponse{
			Stage:  id,
			Status: orch.Status(id),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"stages": stages})
}

// handleSnapshot returns the full session state.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.writeSnapshot(w, s.orchestratorFor(ownerID))
}

// handleClearSession wipes all cached data and in-memory state for the owner.
func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.orchestratorFor(ownerID).ClearSession()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleListSessions lists archived sessions for the owner.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if s.archive == nil {
		s.errorResponse(w, http.StatusNotFound, "Session archive is not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
	}

	sessions, err := s.archive.ListSessions(r.Context(), ownerID.String(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (s *Server) writeSnapshot(w http.ResponseWriter, orch *pipeline.Orchestrator) {
	stages := make(map[types.StageID]StageResponse, len(pipeline.StageRegistry))
	for _, id := range pipeline.Stages() {
		stages[id] = StageResponse{
			Stage:    id,
			Status:   orch.Status(id),
			Artifact: orch.Artifact(id),
		}
	}

	s.jsonResponse(w, http.StatusOK, SnapshotResponse{
		Profile:  orch.Profile(),
		Stages:   stages,
		Analysis: orch.Recommendations(),
	})
}

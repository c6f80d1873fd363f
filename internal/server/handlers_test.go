package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-compass/internal/cache"
	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/pipeline"
	"github.com/jonathan/career-compass/internal/server/middleware"
	"github.com/jonathan/career-compass/internal/types"
)

// scriptedClient returns canned responses per stage.
type scriptedClient struct {
	responses map[types.StageID]string
	errs      map[types.StageID]error
}

func (c *scriptedClient) Generate(_ context.Context, stage types.StageID, _ string, _ int) (string, error) {
	if err := c.errs[stage]; err != nil {
		return "", err
	}
	return c.responses[stage], nil
}

func (c *scriptedClient) Close() error { return nil }

func newTestServer(client llm.Client) *Server {
	backend := cache.NewMemoryBackend()
	return &Server{
		client:     client,
		store:      cache.NewStore(backend),
		backend:    backend,
		jwtService: testJWTService(),
		sessions:   make(map[uuid.UUID]*pipeline.Orchestrator),
	}
}

func authedRequest(method, target, body string, ownerID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middleware.OwnerIDKey(), ownerID)
	return req.WithContext(ctx)
}

const validProfileJSON = `{"name": "Alice", "current_role": "Analyst", "years_experience": 5, "interests": ["data"]}`

func TestHandleCreateAuthSession(t *testing.T) {
	s := newTestServer(&scriptedClient{})

	rec := httptest.NewRecorder()
	s.handleCreateAuthSession(rec, httptest.NewRequest(http.MethodPost, "/auth/session", nil))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthSessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)

	ownerID, err := uuid.Parse(resp.OwnerID)
	require.NoError(t, err)

	claims, err := s.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, ownerID, claims.OwnerID)
}

func TestHandlePutProfile(t *testing.T) {
	s := newTestServer(&scriptedClient{})
	ownerID := uuid.New()

	rec := httptest.NewRecorder()
	s.handlePutProfile(rec, authedRequest(http.MethodPut, "/profile", validProfileJSON, ownerID))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handleGetProfile(rec, authedRequest(http.MethodGet, "/profile", "", ownerID))
	require.Equal(t, http.StatusOK, rec.Code)

	var profile types.UserProfile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&profile))
	assert.Equal(t, "Alice", profile.Name)
}

func TestHandlePutProfileInvalidBody(t *testing.T) {
	s := newTestServer(&scriptedClient{})

	rec := httptest.NewRecorder()
	s.handlePutProfile(rec, authedRequest(http.MethodPut, "/profile", `{not json`, uuid.New()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePutProfileFailsValidation(t *testing.T) {
	s := newTestServer(&scriptedClient{})

	// Missing interests
	rec := httptest.NewRecorder()
	s.handlePutProfile(rec, authedRequest(http.MethodPut, "/profile", `{"name": "Alice"}`, uuid.New()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetProfileMissing(t *testing.T) {
	s := newTestServer(&scriptedClient{})

	rec := httptest.NewRecorder()
	s.handleGetProfile(rec, authedRequest(http.MethodGet, "/profile", "", uuid.New()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGenerateStage(t *testing.T) {
	client := &scriptedClient{responses: map[types.StageID]string{
		types.StageRecommendations: `[{"title": "Data Engineer", "description": "Build pipelines"}]`,
	}}
	s := newTestServer(client)
	ownerID := uuid.New()

	rec := httptest.NewRecorder()
	s.handlePutProfile(rec, authedRequest(http.MethodPut, "/profile", validProfileJSON, ownerID))
	require.Equal(t, http.StatusOK, rec.Code)

	req := authedRequest(http.MethodPost, "/stages/recommendations/generate", "", ownerID)
	req.SetPathValue("stage", "recommendations")
	rec = httptest.NewRecorder()
	s.handleGenerateStage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp StageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, types.StatusReady, resp.Status)
	require.NotNil(t, resp.Artifact)
	assert.False(t, resp.Artifact.Degraded)
}

func TestHandleGenerateStageUnknown(t *testing.T) {
	s := newTestServer(&scriptedClient{})

	req := authedRequest(http.MethodPost, "/stages/bogus/generate", "", uuid.New())
	req.SetPathValue("stage", "bogus")
	rec := httptest.NewRecorder()
	s.handleGenerateStage(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGenerateStageWithoutProfile(t *testing.T) {
	s := newTestServer(&scriptedClient{})

	req := authedRequest(http.MethodPost, "/stages/recommendations/generate", "", uuid.New())
	req.SetPathValue("stage", "recommendations")
	rec := httptest.NewRecorder()
	s.handleGenerateStage(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGenerateStageTransportFailure(t *testing.T) {
	client := &scriptedClient{errs: map[types.StageID]error{
		types.StageRecommendations: &llm.TransportError{Status: 503, Body: "overloaded"},
	}}
	s := newTestServer(client)
	ownerID := uuid.New()

	rec := httptest.NewRecorder()
	s.handlePutProfile(rec, authedRequest(http.MethodPut, "/profile", validProfileJSON, ownerID))
	require.Equal(t, http.StatusOK, rec.Code)

	req := authedRequest(http.MethodPost, "/stages/recommendations/generate", "", ownerID)
	req.SetPathValue("stage", "recommendations")
	rec = httptest.NewRecorder()
	s.handleGenerateStage(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleSnapshot(t *testing.T) {
	s := newTestServer(&scriptedClient{})
	ownerID := uuid.New()

	rec := httptest.NewRecorder()
	s.handlePutProfile(rec, authedRequest(http.MethodPut, "/profile", validProfileJSON, ownerID))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handleSnapshot(rec, authedRequest(http.MethodGet, "/snapshot", "", ownerID))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SnapshotResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Stages, len(pipeline.StageRegistry))
	require.NotNil(t, resp.Profile)
	assert.Equal(t, "Alice", resp.Profile.Name)
	for _, stage := range resp.Stages {
		assert.Equal(t, types.StatusIdle, stage.Status)
	}
}

func TestHandleResetStage(t *testing.T) {
	client := &scriptedClient{errs: map[types.StageID]error{
		types.StageRecommendations: &llm.TransportError{Status: 500, Body: "boom"},
	}}
	s := newTestServer(client)
	ownerID := uuid.New()

	rec := httptest.NewRecorder()
	s.handlePutProfile(rec, authedRequest(http.MethodPut, "/profile", validProfileJSON, ownerID))
	require.Equal(t, http.StatusOK, rec.Code)

	req := authedRequest(http.MethodPost, "/stages/recommendations/generate", "", ownerID)
	req.SetPathValue("stage", "recommendations")
	rec = httptest.NewRecorder()
	s.handleGenerateStage(rec, req)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	req = authedRequest(http.MethodPost, "/stages/recommendations/reset", "", ownerID)
	req.SetPathValue("stage", "recommendations")
	rec = httptest.NewRecorder()
	s.handleResetStage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, types.StatusIdle, resp.Status)
}

func TestHandleClearSession(t *testing.T) {
	s := newTestServer(&scriptedClient{})
	ownerID := uuid.New()

	rec := httptest.NewRecorder()
	s.handlePutProfile(rec, authedRequest(http.MethodPut, "/profile", validProfileJSON, ownerID))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handleClearSession(rec, authedRequest(http.MethodDelete, "/session", "", ownerID))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handleGetProfile(rec, authedRequest(http.MethodGet, "/profile", "", ownerID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListSessionsWithoutArchive(t *testing.T) {
	s := newTestServer(&scriptedClient{})

	rec := httptest.NewRecorder()
	s.handleListSessions(rec, authedRequest(http.MethodGet, "/sessions", "", uuid.New()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUnauthenticatedContext(t *testing.T) {
	s := newTestServer(&scriptedClient{})

	rec := httptest.NewRecorder()
	s.handleSnapshot(rec, httptest.NewRequest(http.MethodGet, "/snapshot", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "transport", err: &llm.TransportError{Status: 503}, want: http.StatusBadGateway},
		{name: "envelope", err: &llm.EnvelopeFormatError{Body: "{}"}, want: http.StatusBadGateway},
		{name: "no profile", err: &ErrNoProfile{}, want: http.StatusNotFound},
		{name: "unknown stage", err: &ErrUnknownStage{Stage: "x"}, want: http.StatusNotFound},
		{name: "validation", err: &ErrValidation{Message: "bad"}, want: http.StatusBadRequest},
		{name: "generic", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

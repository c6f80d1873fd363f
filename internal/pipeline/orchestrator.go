package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-compass/internal/cache"
	"github.com/jonathan/career-compass/internal/db"
	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/parsing"
	"github.com/jonathan/career-compass/internal/prompts"
	"github.com/jonathan/career-compass/internal/schemas"
	"github.com/jonathan/career-compass/internal/types"
)

// DefaultAutosaveInterval is the trailing-edge debounce window for session
// snapshots: every state mutation resets the timer, and a burst of mutations
// produces exactly one write containing the latest state.
const DefaultAutosaveInterval = 2 * time.Second

// jsonOnlyInstruction terminates every stage prompt. Models still wrap output
// in prose or fences sometimes; the normalizer handles those.
const jsonOnlyInstruction = "IMPORTANT: Reply with ONLY the JSON, no markdown, no explanation, no surrounding prose."

// ProgressEvent represents a progress update during generation.
type ProgressEvent struct {
	Stage   types.StageID     `json:"stage"`
	Status  types.StageStatus `json:"status"`
	Message string            `json:"message"`
}

// ProgressCallback is called when a stage changes status.
type ProgressCallback func(event ProgressEvent)

// stageState is the volatile per-stage generation state.
type stageState struct {
	status   types.StageStatus
	artifact *types.GeneratedArtifact
}

// Orchestrator owns the stage dependency graph. It enforces at most one
// in-flight generation per stage, merges results into session state, and
// schedules debounced persistence through the cache store. Distinct stages
// may generate concurrently; each writes a disjoint slice of session state.
type Orchestrator struct {
	mu              sync.Mutex
	profile         *types.UserProfile
	states          map[types.StageID]*stageState
	recommendations []types.CareerRecommendation
	sessionID       uuid.UUID

	ownerID    string
	client     llm.Client
	store      *cache.Store
	archive    *db.DB
	saver      *Debouncer
	onProgress ProgressCallback
}

// Options holds configuration for constructing an Orchestrator.
type Options struct {
	Client  llm.Client
	Store   *cache.Store // optional; nil disables persistence
	Archive *db.DB       // optional; nil disables the Postgres archive
	OwnerID string
	Profile *types.UserProfile
	// AutosaveInterval overrides the debounce window (tests use short ones).
	AutosaveInterval time.Duration
	OnProgress       ProgressCallback
}

// New creates an Orchestrator with every stage idle.
func New(opts Options) *Orchestrator {
	interval := opts.AutosaveInterval
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}

	o := &Orchestrator{
		profile:    opts.Profile,
		ownerID:    opts.OwnerID,
		client:     opts.Client,
		store:      opts.Store,
		archive:    opts.Archive,
		onProgress: opts.OnProgress,
		states:     make(map[types.StageID]*stageState, len(StageRegistry)),
	}
	for id := range StageRegistry {
		o.states[id] = &stageState{status: types.StatusIdle}
	}
	o.saver = NewDebouncer(interval, o.persistSnapshot)
	return o
}

// Generate runs one stage end to end: prompt, content-service call,
// normalization, state merge, autosave scheduling.
//
// It is a no-op (no content-service call) when the stage is already
// generating, or when its dependency is not ready with a non-empty artifact.
// Transport and envelope failures mark the stage failed and surface to the
// caller; the previous artifact, if any, is retained untouched. Parse
// degradation is not a failure: the stage ends ready with the fallback
// default and only a diagnostic is logged.
func (o *Orchestrator) Generate(ctx context.Context, stage types.StageID) error {
	def, ok := StageRegistry[stage]
	if !ok {
		return fmt.Errorf("unknown stage: %s", stage)
	}

	o.mu.Lock()
	st := o.states[stage]
	if st.status == types.StatusGenerating {
		o.mu.Unlock()
		return nil
	}
	if !o.dependenciesMetLocked(def) {
		o.mu.Unlock()
		return nil
	}
	prompt, err := o.buildPromptLocked(def)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	st.status = types.StatusGenerating
	o.mu.Unlock()

	o.emit(stage, types.StatusGenerating, "generation started")

	text, err := o.client.Generate(ctx, stage, prompt, def.MaxTokens)
	if err != nil {
		o.mu.Lock()
		st.status = types.StatusFailed
		o.mu.Unlock()
		o.emit(stage, types.StatusFailed, err.Error())
		return err
	}

	// The root stage decodes into its typed shape as part of normalization:
	// a structurally valid response that is not a recommendation list degrades
	// to the empty-list fallback instead of poisoning dependent stages.
	var outcome parsing.Outcome
	var recs []types.CareerRecommendation
	if stage == types.StageRecommendations {
		outcome = parsing.NormalizeInto(text, def.Shape.FallbackValue(), &recs)
	} else {
		outcome = parsing.Normalize(text, def.Shape.FallbackValue())
	}
	if !outcome.Degraded {
		if verr := schemas.ValidateArtifact(stage, outcome.Value); verr != nil {
			log.Printf("pipeline: artifact for %s does not match schema: %v", stage, verr)
		}
	}

	artifact := &types.GeneratedArtifact{
		Stage:       stage,
		Data:        outcome.Value,
		Degraded:    outcome.Degraded,
		GeneratedAt: time.Now(),
	}

	o.mu.Lock()
	st.artifact = artifact
	st.status = types.StatusReady
	if stage == types.StageRecommendations {
		o.recommendations = recs
	}
	o.mu.Unlock()

	o.emit(stage, types.StatusReady, "generation complete")
	o.archiveArtifact(ctx, artifact)
	o.saver.Schedule()
	return nil
}

// GenerateAll generates the root stage, then every dependent stage
// concurrently. Dependent stages whose guard is still unmet (an empty root
// result) no-op rather than fail.
func (o *Orchestrator) GenerateAll(ctx context.Context) error {
	if err := o.Generate(ctx, types.StageRecommendations); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, id := range Stages() {
		if id == types.StageRecommendations {
			continue
		}
		stage := id
		g.Go(func() error {
			return o.Generate(gCtx, stage)
		})
	}
	return g.Wait()
}

// dependenciesMetLocked reports whether every dependency stage is ready with
// a non-empty artifact. Caller holds o.mu.
func (o *Orchestrator) dependenciesMetLocked(def StageDefinition) bool {
	for _, dep := range def.Dependencies {
		st := o.states[dep]
		if st.status != types.StatusReady || st.artifact.IsEmpty() {
			return false
		}
		if dep == types.StageRecommendations && len(o.recommendations) == 0 {
			return false
		}
	}
	return true
}

// buildPromptLocked renders the stage prompt template with the current
// profile and primary analysis. Caller holds o.mu.
func (o *Orchestrator) buildPromptLocked(def StageDefinition) (string, error) {
	if o.profile == nil {
		return "", fmt.Errorf("no profile loaded for stage %s", def.ID)
	}

	profileJSON, err := json.MarshalIndent(o.profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize profile: %w", err)
	}

	data := map[string]string{
		"Profile": string(profileJSON),
	}
	if len(o.recommendations) > 0 {
		recsJSON, err := json.MarshalIndent(o.recommendations, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to serialize recommendations: %w", err)
		}
		data["Recommendations"] = string(recsJSON)
		data["Career"] = o.recommendations[0].Title
	}

	template, err := prompts.Get("stages.json", string(def.ID))
	if err != nil {
		return "", err
	}
	return prompts.Format(template, data) + "\n\n" + jsonOnlyInstruction, nil
}

// decodeRecommendations decodes the root artifact for dependency checks and
// dependent prompts. A shape mismatch decodes to nil, which keeps dependent
// stages gated.
func decodeRecommendations(data json.RawMessage) []types.CareerRecommendation {
	var recs []types.CareerRecommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil
	}
	return recs
}

// Reset returns a failed stage to idle so the user can retry it.
func (o *Orchestrator) Reset(stage types.StageID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.states[stage]; ok && st.status == types.StatusFailed {
		st.status = types.StatusIdle
	}
}

// Status returns the current status of a stage.
func (o *Orchestrator) Status(stage types.StageID) types.StageStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.states[stage]; ok {
		return st.status
	}
	return types.StatusIdle
}

// Artifact returns the current artifact for a stage, or nil. Artifacts are
// replaced wholesale on regeneration and must never be mutated by callers.
func (o *Orchestrator) Artifact(stage types.StageID) *types.GeneratedArtifact {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.states[stage]; ok {
		return st.artifact
	}
	return nil
}

// Snapshot returns a read-only view of all currently ready artifacts.
func (o *Orchestrator) Snapshot() map[types.StageID]*types.GeneratedArtifact {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[types.StageID]*types.GeneratedArtifact)
	for id, st := range o.states {
		if st.status == types.StatusReady && st.artifact != nil {
			out[id] = st.artifact
		}
	}
	return out
}

// Profile returns the current user profile.
func (o *Orchestrator) Profile() *types.UserProfile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.profile
}

// Recommendations returns the decoded primary analysis.
func (o *Orchestrator) Recommendations() []types.CareerRecommendation {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]types.CareerRecommendation, len(o.recommendations))
	copy(out, o.recommendations)
	return out
}

// UpdateProfile replaces the session profile and schedules an autosave.
func (o *Orchestrator) UpdateProfile(profile *types.UserProfile) {
	o.mu.Lock()
	o.profile = profile
	o.mu.Unlock()
	o.saver.Schedule()
}

// ClearSession wipes every cached namespace and resets all in-memory state.
// Invoked on logout and explicit "clear all data".
func (o *Orchestrator) ClearSession() {
	o.saver.Stop()
	o.mu.Lock()
	o.profile = nil
	o.recommendations = nil
	o.sessionID = uuid.Nil
	for _, st := range o.states {
		st.status = types.StatusIdle
		st.artifact = nil
	}
	o.mu.Unlock()
	if o.store != nil {
		o.store.ClearAll()
	}
}

// Close flushes any pending autosave. Safe to call more than once.
func (o *Orchestrator) Close() {
	o.saver.Flush()
}

func (o *Orchestrator) emit(stage types.StageID, status types.StageStatus, message string) {
	if o.onProgress != nil {
		o.onProgress(ProgressEvent{Stage: stage, Status: status, Message: message})
	}
}

// archiveArtifact persists a ready artifact to the optional Postgres archive.
// Archive failures degrade with a warning; the session continues from memory.
func (o *Orchestrator) archiveArtifact(ctx context.Context, artifact *types.GeneratedArtifact) {
	if o.archive == nil {
		return
	}

	o.mu.Lock()
	sessionID := o.sessionID
	profile := o.profile
	o.mu.Unlock()

	if sessionID == uuid.Nil {
		id, err := o.archive.CreateSession(ctx, o.ownerID, profile)
		if err != nil {
			log.Printf("pipeline: warning: failed to create archive session: %v", err)
			return
		}
		o.mu.Lock()
		o.sessionID = id
		o.mu.Unlock()
		sessionID = id
	}

	if err := o.archive.SaveStageArtifact(ctx, sessionID, string(artifact.Stage), artifact); err != nil {
		log.Printf("pipeline: warning: failed to archive %s artifact: %v", artifact.Stage, err)
	}
}

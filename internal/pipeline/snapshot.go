package pipeline

import (
	"github.com/jonathan/career-compass/internal/cache"
	"github.com/jonathan/career-compass/internal/types"
)

// profileRecord is the payload persisted under the profile namespace: the
// intake profile plus the primary analysis that everything else derives from.
type profileRecord struct {
	Profile  *types.UserProfile           `json:"profile"`
	Analysis []types.CareerRecommendation `json:"analysis,omitempty"`
}

// artifactBundle is the payload persisted under the artifacts namespace: one
// merged record of every currently ready artifact.
type artifactBundle map[types.StageID]*types.GeneratedArtifact

// persistSnapshot is the debounced autosave target. It takes a full snapshot
// of the latest state and writes one merged record per namespace. Cache
// failures degrade to session-only persistence.
func (o *Orchestrator) persistSnapshot() {
	if o.store == nil {
		return
	}

	o.mu.Lock()
	rec := profileRecord{
		Profile:  o.profile,
		Analysis: o.recommendations,
	}
	bundle := make(artifactBundle)
	for id, st := range o.states {
		if st.status == types.StatusReady && st.artifact != nil {
			bundle[id] = st.artifact
		}
	}
	ownerID := o.ownerID
	o.mu.Unlock()

	if rec.Profile != nil {
		o.store.Put(cache.NamespaceProfile, ownerID, rec)
	}
	o.store.Put(cache.NamespaceArtifacts, ownerID, bundle)
}

// Restore loads the cached session for the orchestrator's owner, if any.
// It returns true when anything was restored. Records belonging to another
// owner or past their lifetime read as absent and are purged by the store.
func (o *Orchestrator) Restore() bool {
	if o.store == nil {
		return false
	}

	restored := false

	var rec profileRecord
	if o.store.Get(cache.NamespaceProfile, o.ownerID, &rec) && rec.Profile != nil {
		o.mu.Lock()
		o.profile = rec.Profile
		o.recommendations = rec.Analysis
		o.mu.Unlock()
		restored = true
	}

	var bundle artifactBundle
	if o.store.Get(cache.NamespaceArtifacts, o.ownerID, &bundle) {
		o.mu.Lock()
		for id, artifact := range bundle {
			st, ok := o.states[id]
			if !ok || artifact.IsEmpty() {
				continue
			}
			st.artifact = artifact
			st.status = types.StatusReady
			if id == types.StageRecommendations && len(o.recommendations) == 0 {
				o.recommendations = decodeRecommendations(artifact.Data)
			}
		}
		o.mu.Unlock()
		restored = true
	}

	return restored
}

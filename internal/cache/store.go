package cache

import (
	"encoding/json"
	"log"
	"time"
)

// Namespace is a fixed persistence key grouping one category of cached data.
//
// The storage key for a namespace deliberately does not include the owner id,
// so only one owner's record can exist per namespace at a time; a second
// owner's successful Put displaces the first owner's record. Ownership is
// validated on read instead.
type Namespace string

// Namespaces managed by the Store.
const (
	// NamespaceProfile holds the user profile plus the primary analysis.
	NamespaceProfile Namespace = "compass.profile"
	// NamespaceArtifacts holds the generated-artifacts bundle.
	NamespaceArtifacts Namespace = "compass.artifacts"
)

// Record lifetimes per namespace.
const (
	ProfileTTL   = 7 * 24 * time.Hour
	ArtifactsTTL = 3 * 24 * time.Hour
)

// Namespaces lists every namespace the Store manages. ClearAll must cover all
// of them.
var Namespaces = []Namespace{NamespaceProfile, NamespaceArtifacts}

// TTL returns the record lifetime for the namespace.
func (n Namespace) TTL() time.Duration {
	if n == NamespaceProfile {
		return ProfileTTL
	}
	return ArtifactsTTL
}

// record wraps a cached payload with ownership and expiry metadata.
type record struct {
	OwnerID   string          `json:"owner_id"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Store is a namespaced, owner-scoped, time-limited cache over a Backend.
// All failure modes degrade to cache misses; nothing here is fatal.
type Store struct {
	backend Backend
	now     func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the time source, for expiry tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store over the given backend.
func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put wraps payload with ownership and expiry metadata and writes it under the
// namespace key. It returns false, never an error, when serialization or the
// backend fails; the caller continues from in-memory state only.
func (s *Store) Put(ns Namespace, ownerID string, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("cache: failed to serialize payload for %s: %v", ns, err)
		return false
	}

	now := s.now()
	rec := record{
		OwnerID:   ownerID,
		CreatedAt: now,
		ExpiresAt: now.Add(ns.TTL()),
		Payload:   data,
	}

	encoded, err := json.Marshal(rec)
	if err != nil {
		log.Printf("cache: failed to serialize record for %s: %v", ns, err)
		return false
	}

	if err := s.backend.Set(string(ns), string(encoded)); err != nil {
		log.Printf("cache: write to %s failed: %v", ns, err)
		return false
	}
	return true
}

// Get reads the record stored under the namespace key into out. A missing
// record, an owner mismatch, or an expired record all report false; the two
// latter cases also purge the stale record (lazy expiry, no background sweep).
func (s *Store) Get(ns Namespace, ownerID string, out any) bool {
	raw, ok, err := s.backend.Get(string(ns))
	if err != nil {
		log.Printf("cache: read from %s failed: %v", ns, err)
		return false
	}
	if !ok {
		return false
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		// Corrupt record: treat as absent and purge.
		_ = s.backend.Delete(string(ns))
		return false
	}

	if rec.OwnerID != ownerID || !s.now().Before(rec.ExpiresAt) {
		_ = s.backend.Delete(string(ns))
		return false
	}

	if err := json.Unmarshal(rec.Payload, out); err != nil {
		_ = s.backend.Delete(string(ns))
		return false
	}
	return true
}

// Clear removes the record stored under the namespace key.
func (s *Store) Clear(ns Namespace) {
	if err := s.backend.Delete(string(ns)); err != nil {
		log.Printf("cache: clear of %s failed: %v", ns, err)
	}
}

// ClearAll removes every namespace this store manages. It is the single
// operation invoked on logout and session teardown.
func (s *Store) ClearAll() {
	for _, ns := range Namespaces {
		s.Clear(ns)
	}
}

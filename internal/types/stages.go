// Package types provides type definitions for structured data used throughout the career-compass system.
package types

import (
	"bytes"
	"encoding/json"
	"time"
)

// StageID identifies one named unit of content generation.
type StageID string

// Stage identifiers for the guidance pipeline.
const (
	StageRecommendations    StageID = "recommendations"
	StageRoadmap            StageID = "roadmap"
	StageMarketInsights     StageID = "market-insights"
	StageActionPlan         StageID = "action-plan"
	StageLearningPlan       StageID = "learning-plan"
	StageInterviewQuestions StageID = "interview-questions"
	StageNetworkingStrategy StageID = "networking-strategy"
)

// StageStatus is the volatile generation status of a stage.
type StageStatus string

// Stage status values.
const (
	StatusIdle       StageStatus = "idle"
	StatusGenerating StageStatus = "generating"
	StatusReady      StageStatus = "ready"
	StatusFailed     StageStatus = "failed"
)

// StageShape describes the expected top-level shape of a stage's output.
type StageShape string

// Stage output shapes.
const (
	ShapeList   StageShape = "list"
	ShapeObject StageShape = "object"
)

// FallbackValue returns the safe default for the shape: an empty list for
// list-shaped stages, null for object-shaped stages.
func (s StageShape) FallbackValue() json.RawMessage {
	if s == ShapeList {
		return json.RawMessage("[]")
	}
	return json.RawMessage("null")
}

// GeneratedArtifact is the normalized payload produced for a stage.
// Artifacts are replaced wholesale on regeneration, never mutated in place.
type GeneratedArtifact struct {
	Stage       StageID         `json:"stage"`
	Data        json.RawMessage `json:"data"`
	Degraded    bool            `json:"degraded,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// IsEmpty reports whether the artifact carries no usable content.
func (a *GeneratedArtifact) IsEmpty() bool {
	if a == nil || len(a.Data) == 0 {
		return true
	}
	trimmed := bytes.TrimSpace(a.Data)
	switch string(trimmed) {
	case "null", "[]", "{}", `""`:
		return true
	}
	return false
}

// Package types provides type definitions for structured data used throughout the career-compass system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// UserProfile represents the intake answers used to build generation prompts.
// It is assembled by the intake flow and treated as immutable once handed to
// the orchestrator.
type UserProfile struct {
	Name            string   `json:"name" validate:"required,min=1"`
	CurrentRole     string   `json:"current_role,omitempty"`
	YearsExperience int      `json:"years_experience" validate:"gte=0,lte=60"`
	Education       string   `json:"education,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Interests       []string `json:"interests" validate:"required,min=1,dive,min=1"`
	WorkStyle       string   `json:"work_style,omitempty"` // e.g. "remote", "hybrid", "on-site"
	Constraints     []string `json:"constraints,omitempty"`
	Goals           string   `json:"goals,omitempty"`
}

// Validate validates the UserProfile using the validator.
func (p *UserProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

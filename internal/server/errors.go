package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/career-compass/internal/llm"
)

// ErrNoProfile indicates no intake profile has been submitted for this owner.
type ErrNoProfile struct{}

func (e *ErrNoProfile) Error() string {
	return "no profile submitted for this session"
}

// ErrUnknownStage indicates an unrecognized stage identifier.
type ErrUnknownStage struct {
	Stage string
}

func (e *ErrUnknownStage) Error() string {
	return fmt.Sprintf("unknown stage: %s", e.Stage)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var transport *llm.TransportError
	var envelope *llm.EnvelopeFormatError
	switch {
	case errors.As(err, &transport), errors.As(err, &envelope):
		return http.StatusBadGateway
	}

	switch err.(type) {
	case *ErrNoProfile, *ErrUnknownStage:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

package llm

import "fmt"

// TransportError indicates a network failure or non-success status from the
// content service. The calling stage is marked failed and the error surfaces
// to the user as a retryable notification.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("content service returned status %d: %s", e.Status, e.Body)
}

// EnvelopeFormatError indicates a success status whose body matched neither
// recognized envelope shape. Handled identically to a TransportError.
type EnvelopeFormatError struct {
	Body string
}

func (e *EnvelopeFormatError) Error() string {
	return fmt.Sprintf("unrecognized content service response envelope: %s", e.Body)
}

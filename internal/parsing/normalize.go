// Package parsing turns unreliable content-service response text into
// structured data with defensive fallback strategies.
package parsing

import (
	"encoding/json"
	"log"
	"strings"
)

// maxDiagnosticPrefix bounds how much raw response text a diagnostic line may
// contain, so a multi-kilobyte response never floods the log.
const maxDiagnosticPrefix = 256

// Outcome is the result of normalizing response text. A degraded outcome
// carries the caller-supplied fallback default and is a legitimate stage
// result, not a failure signal.
type Outcome struct {
	Value    json.RawMessage
	Degraded bool
}

// Parsed wraps a successfully recovered structure.
func Parsed(value json.RawMessage) Outcome {
	return Outcome{Value: value}
}

// DegradedTo wraps the fallback default.
func DegradedTo(fallback json.RawMessage) Outcome {
	return Outcome{Value: fallback, Degraded: true}
}

// Normalize recovers structured data from raw response text. Strategies are
// tried in order, first success wins:
//
//  1. strict parse of the full (fence-stripped) text
//  2. extraction of the first embedded [...] or {...} span
//  3. the caller-supplied fallback default
//
// Normalize never returns an error; exhausting every strategy is a
// degraded-success, logged with a bounded prefix of the raw text.
func Normalize(text string, fallback json.RawMessage) Outcome {
	cleaned := strings.TrimSpace(cleanJSONBlock(text))

	if cleaned != "" && json.Valid([]byte(cleaned)) {
		return Parsed(json.RawMessage(cleaned))
	}

	if embedded, ok := extractEmbedded(cleaned); ok {
		return Parsed(embedded)
	}

	log.Printf("parsing: no structured data recovered, using fallback (response prefix: %q)", boundedPrefix(text))
	return DegradedTo(fallback)
}

// NormalizeInto recovers structured data and decodes it into out. A recovered
// structure that does not decode into out's shape is treated the same as no
// structure at all: the fallback wins and out is left untouched.
func NormalizeInto(text string, fallback json.RawMessage, out any) Outcome {
	outcome := Normalize(text, fallback)
	if outcome.Degraded {
		return outcome
	}
	if err := json.Unmarshal(outcome.Value, out); err != nil {
		log.Printf("parsing: recovered structure does not match expected shape: %v", err)
		return DegradedTo(fallback)
	}
	return outcome
}

// extractEmbedded scans for the first occurrence of '[' or '{' and the last
// occurrence of the matching closing bracket, and attempts to parse the span
// between them. This salvages structures wrapped in conversational prose.
func extractEmbedded(text string) (json.RawMessage, bool) {
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	var start int
	var closer byte
	switch {
	case arrStart >= 0 && (objStart < 0 || arrStart < objStart):
		start, closer = arrStart, ']'
	case objStart >= 0:
		start, closer = objStart, '}'
	default:
		return nil, false
	}

	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return nil, false
	}

	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
// Models often wrap JSON in ```json ... ``` fences even when instructed not to.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	return text
}

func boundedPrefix(s string) string {
	if len(s) <= maxDiagnosticPrefix {
		return s
	}
	return s[:maxDiagnosticPrefix]
}

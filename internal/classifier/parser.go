package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/citypages/sentinel/internal/core"
)

// parseVerdict extracts a classification verdict from the model's reply.
// The reply is expected to be a single JSON object, but models routinely
// wrap it in a code fence or surround it with prose, so the parser locates
// the object first. Missing fields keep their safe zero values.
func parseVerdict(raw string) (core.Verdict, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return core.Verdict{}, err
	}

	var v core.Verdict
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return core.Verdict{}, fmt.Errorf("failed to parse classification response: %w", err)
	}

	v.ConfidenceScore = clampScore(v.ConfidenceScore)
	if v.Categories == nil {
		v.Categories = []string{}
	}
	return v, nil
}

// parseValidation extracts a listing validation result from the model's
// reply. A reply that omits is_valid is treated as invalid JSON rather
// than a rejection, so the caller's fail-open path decides.
func parseValidation(raw string) (core.ValidationResult, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return core.ValidationResult{}, err
	}

	var r core.ValidationResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return core.ValidationResult{}, fmt.Errorf("failed to parse validation response: %w", err)
	}

	r.ConfidenceScore = clampScore(r.ConfidenceScore)
	if r.Issues == nil {
		r.Issues = []string{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	return r, nil
}

// extractJSONObject returns the outermost {...} object in s, stripping a
// wrapping ```json fence if the model added one.
func extractJSONObject(s string) (string, error) {
	s = stripCodeFence(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object found in model response")
	}
	return s[start : end+1], nil
}

// stripCodeFence removes ```json ... ``` wrapping that some models add
// around their output.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}

	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return s
	}
	inner := trimmed[idx+1:]
	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

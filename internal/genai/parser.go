package genai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls the JSON object out of raw model output by slicing
// between the first "{" and the last "}". Best effort: it tolerates
// surrounding prose and code-fence markers but does not repair malformed
// JSON. Absence of braces or a decode failure yields ErrUnparsableOutput.
func ExtractJSON(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrUnparsableOutput
	}
	var candidate map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &candidate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsableOutput, err)
	}
	return candidate, nil
}

// decodeRecord converts an accepted candidate into a ChallengeRecord via
// a JSON round trip. Called only after Validate has passed.
func decodeRecord(candidate map[string]any) (ChallengeRecord, error) {
	raw, err := json.Marshal(candidate)
	if err != nil {
		return ChallengeRecord{}, &ValidationError{Reason: "candidate not serializable"}
	}
	var record ChallengeRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return ChallengeRecord{}, &ValidationError{Reason: "candidate field types invalid"}
	}
	return record, nil
}

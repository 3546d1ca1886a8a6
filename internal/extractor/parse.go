package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Candidate is one transaction as extracted by the model, prior to type
// coercion and validation against the closed enums.
type Candidate struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Currency    string      `json:"currency"`
	Category    string      `json:"category"`
	Bank        string      `json:"bank"`
}

var ErrNotAList = errors.New("model output is not a JSON array")

// ParseCandidates decodes the raw model output into candidates. Markdown
// fences are stripped first since models add them despite instructions.
// Candidates missing a required field are logged and dropped, not fatal.
func ParseCandidates(raw string, logger *slog.Logger) ([]Candidate, error) {
	clean := cleanModelJSON(raw)

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(clean), &items); err != nil {
		var probe any
		if probeErr := json.Unmarshal([]byte(clean), &probe); probeErr == nil {
			return nil, ErrNotAList
		}
		return nil, fmt.Errorf("decode model output: %w", err)
	}

	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			logger.Warn("skipping malformed candidate", "error", err)
			continue
		}
		if missing := missingFields(fields); len(missing) > 0 {
			logger.Warn("skipping candidate missing fields", "missing", missing)
			continue
		}

		var candidate Candidate
		if err := json.Unmarshal(item, &candidate); err != nil {
			logger.Warn("skipping malformed candidate", "error", err)
			continue
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

var requiredFields = []string{"date", "description", "amount", "currency", "category", "bank"}

func missingFields(fields map[string]json.RawMessage) []string {
	var missing []string
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// cleanModelJSON strips markdown fences and any surrounding junk so only the
// JSON array remains.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

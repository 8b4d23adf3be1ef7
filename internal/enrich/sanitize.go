package enrich

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// cleanJSON extracts a JSON object from model output that may be
// wrapped in markdown code fences or surrounding prose.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Slice from the first { to the last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// decodeJSON sanitizes raw model output and unmarshals it into out.
func decodeJSON(raw string, out any) error {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return eris.New("enrich: empty model output")
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return eris.Wrap(err, "enrich: parse model output")
	}
	return nil
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package ai

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls a JSON object out of a model response that may wrap it in
// prose or markdown fencing. It takes the slice between the first '{' and the
// last '}' and unmarshals it into out. Returns false when no parseable object
// is present; the caller decides what to do with the raw text.
func ExtractJSON(text string, out interface{}) bool {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return false
	}

	return json.Unmarshal([]byte(text[start:end+1]), out) == nil
}

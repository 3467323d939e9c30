package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// jsonBlock spans from the first '{' to the last '}'.
var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

var ErrNoJSON = errors.New("llm: answer contains no JSON object")

// extractJSON pulls the JSON object out of a free text answer, which models
// like to wrap in prose or markdown fences.
func extractJSON(text string) ([]byte, error) {
	candidate := jsonBlock.FindString(text)
	if candidate == "" {
		candidate = strings.TrimSpace(text)
	}
	if !json.Valid([]byte(candidate)) {
		return nil, ErrNoJSON
	}
	return []byte(candidate), nil
}

package llm

import (
	"encoding/json"
	"strings"
)

// CleanModelJSON strips markdown code fences and stray control characters
// from a model response, then verifies the remainder parses as JSON.
// Models wrap JSON in ```json fences often enough that every response
// goes through here.
func CleanModelJSON(raw []byte) (json.RawMessage, error) {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	s = stripControl(s)
	if s == "" {
		return nil, ErrInvalidJSON
	}
	var scratch any
	if err := json.Unmarshal([]byte(s), &scratch); err != nil {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(s), nil
}

// stripControl removes C0 control characters and DEL, keeping \n and \t
// so multi-line string values survive.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, s)
}

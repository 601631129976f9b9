package generator

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject finds the first balanced top-level JSON object in text and
// returns it. Generation models wrap JSON in prose or markdown fences often
// enough that callers must not assume the response parses as-is.
func ExtractJSONObject(text string) (json.RawMessage, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := text[start : i+1]
				if json.Valid([]byte(candidate)) {
					return json.RawMessage(candidate), true
				}
				return nil, false
			}
		}
	}

	return nil, false
}

// DecodeObject extracts the first JSON object from text and unmarshals it
// into v. When no parseable object exists, it returns false and leaves v
// untouched; callers degrade to a raw-response passthrough instead of
// failing the step.
func DecodeObject(text string, v any) bool {
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

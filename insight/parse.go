package insight

import (
	"fmt"
	"strings"

	"github.com/reverblab/reverb/core"
	"github.com/tidwall/gjson"
)

// ExtractJSONObject returns the first balanced JSON object found in free text,
// skipping anything around it (prose, markdown code fences, stray formatting).
// The boolean reports whether an object was found; braces inside JSON strings
// are handled.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
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
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseVerdict decodes a structured worthiness verdict from raw completion
// output. The output may wrap the JSON in code fences or commentary; only the
// first balanced object is considered. A missing object, invalid JSON or a
// missing boolean "worth" field yields an error wrapping
// core.ErrMalformedResponse — the caller treats that as data ("not worth"),
// never as an abort.
func ParseVerdict(raw string) (core.Verdict, error) {
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		return core.Verdict{}, fmt.Errorf("no JSON object in completion output: %w", core.ErrMalformedResponse)
	}
	if !gjson.Valid(obj) {
		return core.Verdict{}, fmt.Errorf("invalid JSON object in completion output: %w", core.ErrMalformedResponse)
	}

	worth := gjson.Get(obj, "worth")
	if !worth.Exists() || !worth.IsBool() {
		return core.Verdict{}, fmt.Errorf("verdict missing boolean worth field: %w", core.ErrMalformedResponse)
	}

	return core.Verdict{
		Worth:     worth.Bool(),
		Question:  strings.TrimSpace(gjson.Get(obj, "question").String()),
		Rationale: strings.TrimSpace(gjson.Get(obj, "rationale").String()),
	}, nil
}

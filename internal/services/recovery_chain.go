package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"voyago/internal/models/response_models"
)

const maxNestedDecodeDepth = 3

// RecoveryFailure is returned when no stage produced a schema-valid object.
// Title and Subtitle carry whatever headline text the chain managed to
// extract, so callers can reuse it when synthesizing a replacement plan.
type RecoveryFailure struct {
	Stage    string
	Title    string
	Subtitle string
	Err      error
}

func (f *RecoveryFailure) Error() string {
	return fmt.Sprintf("response recovery failed after stage %q: %v", f.Stage, f.Err)
}

func (f *RecoveryFailure) Unwrap() error { return f.Err }

type RecoveryChainInterface interface {
	Recover(ctx context.Context, text string) (response_models.Itinerary, error)
}

// RecoveryChain walks raw generation output through progressively more
// aggressive repairs. The first stage whose output parses and survives
// schema validation wins.
type RecoveryChain struct {
	validator SchemaValidatorInterface
}

func NewRecoveryChain(validator SchemaValidatorInterface) RecoveryChainInterface {
	return &RecoveryChain{validator: validator}
}

type recoveryStage struct {
	name      string
	candidate func(string) string
}

var recoveryStages = []recoveryStage{
	{"direct", func(s string) string { return s }},
	{"extract-object", extractObjectCandidate},
	{"repair-syntax", func(s string) string {
		return repairSyntaxCandidate(extractObjectCandidate(s))
	}},
	{"quote-bare-values", func(s string) string {
		return quoteBareValuesCandidate(repairSyntaxCandidate(extractObjectCandidate(s)))
	}},
	{"skeleton", skeletonCandidate},
	{"general-repair", func(s string) string {
		return balanceDelimiters(repairSyntaxCandidate(extractObjectCandidate(s)))
	}},
}

func (r *RecoveryChain) Recover(ctx context.Context, text string) (response_models.Itinerary, error) {
	title, subtitle := headlineFields(text)
	lastErr := errors.New("no stage produced a parseable object")
	lastStage := ""

	for _, st := range recoveryStages {
		if err := ctx.Err(); err != nil {
			return response_models.Itinerary{}, &RecoveryFailure{Stage: st.name, Title: title, Subtitle: subtitle, Err: err}
		}
		candidate := st.candidate(text)
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		raw, err := parseObject(candidate)
		if err != nil {
			lastErr, lastStage = err, st.name
			continue
		}
		it, err := r.validator.ValidateAndFix(raw)
		if err != nil {
			lastErr, lastStage = err, st.name
			continue
		}
		return it, nil
	}

	return response_models.Itinerary{}, &RecoveryFailure{Stage: lastStage, Title: title, Subtitle: subtitle, Err: lastErr}
}

// parseObject parses candidate text into a canonical JSON object, unwrapping
// double-encoded payloads and JSON-looking string fields along the way.
func parseObject(candidate string) (json.RawMessage, error) {
	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return nil, err
	}
	v = decodeNested(v, maxNestedDecodeDepth)
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parsed value is %T, not an object", v)
	}
	return json.Marshal(obj)
}

// decodeNested re-parses string values that look like JSON. Backends
// sometimes double-encode whole payloads or individual fields.
func decodeNested(v any, depth int) any {
	if depth <= 0 {
		return v
	}
	switch t := v.(type) {
	case string:
		trimmed := strings.TrimSpace(t)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var inner any
			if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
				return decodeNested(inner, depth-1)
			}
		}
		return t
	case map[string]any:
		for k, val := range t {
			t[k] = decodeNested(val, depth-1)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = decodeNested(val, depth-1)
		}
		return t
	default:
		return v
	}
}

// extractObjectCandidate strips markdown fences and surrounding prose, then
// cuts the substring from the first '{' to its matching '}', honoring
// strings and escapes. An unterminated object is returned as-is from the
// first '{' so later stages can close it.
func extractObjectCandidate(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	if start < 0 {
		return ""
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
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}

var (
	smartQuoteReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
	trailingCommaRe     = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	singleQuotedKeyRe   = regexp.MustCompile(`'([^']*)'(\s*:)`)
	singleQuotedValueRe = regexp.MustCompile(`(:\s*)'([^']*)'`)
	singleQuotedItemRe  = regexp.MustCompile(`([\[,]\s*)'([^']*)'`)
)

// repairSyntaxCandidate fixes the syntax slips models make most: trailing
// commas, smart or single quotes, control characters, unquoted keys.
func repairSyntaxCandidate(s string) string {
	if s == "" {
		return ""
	}
	s = smartQuoteReplacer.Replace(s)
	s = stripControlChars(s)
	s = singleQuotedKeyRe.ReplaceAllString(s, `"$1"$2`)
	s = singleQuotedValueRe.ReplaceAllString(s, `$1"$2"`)
	s = singleQuotedItemRe.ReplaceAllString(s, `$1"$2"`)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = unquotedKeyRe.ReplaceAllString(s, `$1"$2":`)
	return s
}

func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
}

var (
	bareValueRe     = regexp.MustCompile(`(:\s*)([^"\s{}\[\],][^,}\]\n]*)`)
	bareArrayItemRe = regexp.MustCompile(`([\[,]\s*)([^"\s{}\[\],][^,\]}\n]*)`)
)

// quoteBareValuesCandidate wraps any bare token in quotes, numbers and
// booleans included, looping until the text stops changing. Crude, and known
// to corrupt legitimate non-string literals, but it only runs after the
// gentler stages have already failed to produce a valid object.
func quoteBareValuesCandidate(s string) string {
	if s == "" {
		return ""
	}
	for i := 0; i < 3; i++ {
		fixed := bareValueRe.ReplaceAllStringFunc(s, quoteBareMatch(bareValueRe))
		fixed = bareArrayItemRe.ReplaceAllStringFunc(fixed, quoteBareMatch(bareArrayItemRe))
		if fixed == s {
			break
		}
		s = fixed
	}
	return s
}

func quoteBareMatch(re *regexp.Regexp) func(string) string {
	return func(m string) string {
		parts := re.FindStringSubmatch(m)
		return parts[1] + `"` + strings.TrimSpace(parts[2]) + `"`
	}
}

var (
	titleFieldRe    = regexp.MustCompile(`"?title"?\s*[:=]\s*"([^"\n]+)"`)
	subtitleFieldRe = regexp.MustCompile(`"?subtitle"?\s*[:=]\s*"([^"\n]+)"`)
)

// skeletonCandidate rebuilds a minimal object from whatever headline fields
// are still recognizable in the text.
func skeletonCandidate(s string) string {
	title, subtitle := headlineFields(s)
	if title == "" {
		return ""
	}
	skeleton := map[string]any{
		"title":    title,
		"subtitle": subtitle,
		"items":    []any{},
	}
	b, err := json.Marshal(skeleton)
	if err != nil {
		return ""
	}
	return string(b)
}

func headlineFields(s string) (title, subtitle string) {
	if m := titleFieldRe.FindStringSubmatch(s); len(m) > 1 {
		title = strings.TrimSpace(m[1])
	}
	if m := subtitleFieldRe.FindStringSubmatch(s); len(m) > 1 {
		subtitle = strings.TrimSpace(m[1])
	}
	return title, subtitle
}

// balanceDelimiters is the broadest repair: it closes unterminated strings,
// drops dangling separators and balances braces and brackets so a truncated
// payload parses with whatever fields survived.
func balanceDelimiters(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
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
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if inString {
		s += `"`
	}

	for {
		trimmed := strings.TrimRight(s, " \t\n\r")
		if strings.HasSuffix(trimmed, ",") {
			s = trimmed[:len(trimmed)-1]
			continue
		}
		if strings.HasSuffix(trimmed, ":") {
			// a key with no value; give it an empty one
			s = trimmed + ` ""`
		}
		break
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			s += "}"
		} else {
			s += "]"
		}
	}
	return s
}

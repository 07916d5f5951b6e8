package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"voyago/internal/models/response_models"
)

const minDescLength = 8

const (
	defaultItineraryTitle    = "Your Travel Itinerary"
	defaultItinerarySubtitle = "A day-by-day plan for your trip"
	defaultPeriodLabel       = "Flexible"
	defaultActivityTitle     = "Local Experience"
	defaultActivityTime      = "Flexible"
	defaultActivityImage     = "/images/activity-placeholder.jpg"
	defaultActivityDesc      = "A recommended local experience."
	genericTag               = "Sightseeing"
)

// tagHints maps keywords found in an activity's text to an inferred tag.
// First hit wins.
var tagHints = []struct {
	keyword string
	tag     string
}{
	{"food", "Food & Culinary"},
	{"restaurant", "Food & Culinary"},
	{"culinary", "Food & Culinary"},
	{"cafe", "Food & Culinary"},
	{"coffee", "Food & Culinary"},
	{"street food", "Food & Culinary"},
	{"market", "Food & Culinary"},
	{"nature", "Nature"},
	{"park", "Nature"},
	{"garden", "Nature"},
	{"hike", "Nature"},
	{"trail", "Nature"},
	{"lake", "Nature"},
	{"beach", "Nature"},
	{"museum", "Culture"},
	{"gallery", "Culture"},
	{"temple", "Culture"},
	{"pagoda", "Culture"},
	{"history", "Culture"},
	{"heritage", "Culture"},
}

// ValidationError reports every shape problem found in one validation pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "itinerary shape invalid: " + strings.Join(e.Problems, "; ")
}

type SchemaValidatorInterface interface {
	ValidateAndFix(raw json.RawMessage) (response_models.Itinerary, error)
}

type SchemaValidator struct{}

func NewSchemaValidator() SchemaValidatorInterface {
	return &SchemaValidator{}
}

// ValidateAndFix checks a parsed object against the itinerary shape. On
// failure it runs exactly one structural fix pass and re-validates; a second
// miss is final.
func (v *SchemaValidator) ValidateAndFix(raw json.RawMessage) (response_models.Itinerary, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return response_models.Itinerary{}, &ValidationError{Problems: []string{fmt.Sprintf("payload is not an object: %v", err)}}
	}

	if verr := validateShape(obj); verr != nil {
		fixShape(obj)
		if verr = validateShape(obj); verr != nil {
			return response_models.Itinerary{}, verr
		}
	}
	return toItinerary(obj)
}

func validateShape(obj map[string]any) *ValidationError {
	var problems []string

	if !isNonBlankString(obj["title"]) {
		problems = append(problems, "title missing or blank")
	}
	if !isNonBlankString(obj["subtitle"]) {
		problems = append(problems, "subtitle missing or blank")
	}

	items, ok := obj["items"].([]any)
	if !ok || len(items) == 0 {
		problems = append(problems, "items missing or empty")
	}

	for i, rawItem := range items {
		item, ok := rawItem.(map[string]any)
		if !ok {
			problems = append(problems, fmt.Sprintf("items[%d] is not an object", i))
			continue
		}
		if !isNonBlankString(item["period"]) {
			problems = append(problems, fmt.Sprintf("items[%d].period missing or blank", i))
		}
		activities, ok := item["activities"].([]any)
		if !ok {
			problems = append(problems, fmt.Sprintf("items[%d].activities is not an array", i))
			continue
		}
		for j, rawAct := range activities {
			act, ok := rawAct.(map[string]any)
			if !ok {
				problems = append(problems, fmt.Sprintf("items[%d].activities[%d] is not an object", i, j))
				continue
			}
			if _, ok := act["image"].(string); !ok {
				problems = append(problems, fmt.Sprintf("items[%d].activities[%d].image missing", i, j))
			}
			if !isNonBlankString(act["title"]) {
				problems = append(problems, fmt.Sprintf("items[%d].activities[%d].title missing or blank", i, j))
			}
			if !isNonBlankString(act["time"]) {
				problems = append(problems, fmt.Sprintf("items[%d].activities[%d].time missing or blank", i, j))
			}
			desc, _ := act["desc"].(string)
			if len(strings.TrimSpace(desc)) < minDescLength {
				problems = append(problems, fmt.Sprintf("items[%d].activities[%d].desc shorter than %d chars", i, j, minDescLength))
			}
			if !isStringArray(act["tags"]) {
				problems = append(problems, fmt.Sprintf("items[%d].activities[%d].tags missing or empty", i, j))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// fixShape mutates the object in place, coercing every recoverable problem
// to a safe value. Runs at most once per payload.
func fixShape(obj map[string]any) {
	if !isNonBlankString(obj["title"]) {
		obj["title"] = defaultItineraryTitle
	}
	if !isNonBlankString(obj["subtitle"]) {
		obj["subtitle"] = defaultItinerarySubtitle
	}

	items, ok := obj["items"].([]any)
	if !ok {
		// a single object is recoverable; anything else becomes an empty list
		if single, isMap := obj["items"].(map[string]any); isMap {
			items = []any{single}
		} else {
			items = []any{}
		}
		obj["items"] = items
	}

	for _, rawItem := range items {
		item, ok := rawItem.(map[string]any)
		if !ok {
			continue
		}
		if !isNonBlankString(item["period"]) {
			item["period"] = defaultPeriodLabel
		}
		activities, ok := item["activities"].([]any)
		if !ok {
			if single, isMap := item["activities"].(map[string]any); isMap {
				activities = []any{single}
			} else {
				activities = []any{}
			}
			item["activities"] = activities
		}
		for _, rawAct := range activities {
			act, ok := rawAct.(map[string]any)
			if !ok {
				continue
			}
			fixActivity(act, item)
		}
	}
}

func fixActivity(act, item map[string]any) {
	if !isNonBlankString(act["image"]) {
		act["image"] = defaultActivityImage
	}
	if !isNonBlankString(act["title"]) {
		act["title"] = defaultActivityTitle
	}
	if !isNonBlankString(act["time"]) {
		act["time"] = defaultActivityTime
	}
	desc, _ := act["desc"].(string)
	desc = strings.TrimSpace(desc)
	switch {
	case desc == "":
		act["desc"] = defaultActivityDesc
	case len(desc) < minDescLength:
		act["desc"] = desc + ". " + defaultActivityDesc
	}
	act["tags"] = coerceTags(act["tags"], act, item)
}

func coerceTags(raw any, act, item map[string]any) []any {
	switch t := raw.(type) {
	case []any:
		kept := make([]any, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			return kept
		}
	case string:
		if strings.TrimSpace(t) != "" {
			return []any{t}
		}
	}
	return []any{inferTag(act, item)}
}

// inferTag guesses a tag from contextual hints in the activity text; when
// nothing matches it falls back to a generic one.
func inferTag(act, item map[string]any) string {
	title, _ := act["title"].(string)
	desc, _ := act["desc"].(string)
	period, _ := item["period"].(string)
	text := strings.ToLower(title + " " + desc + " " + period)

	for _, h := range tagHints {
		if strings.Contains(text, h.keyword) {
			return h.tag
		}
	}
	return genericTag
}

func toItinerary(obj map[string]any) (response_models.Itinerary, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return response_models.Itinerary{}, &ValidationError{Problems: []string{fmt.Sprintf("re-encode failed: %v", err)}}
	}
	var it response_models.Itinerary
	if err := json.Unmarshal(b, &it); err != nil {
		return response_models.Itinerary{}, &ValidationError{Problems: []string{fmt.Sprintf("decode into itinerary failed: %v", err)}}
	}
	return it, nil
}

func isNonBlankString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

func isStringArray(v any) bool {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return false
	}
	for _, item := range arr {
		if s, ok := item.(string); !ok || strings.TrimSpace(s) == "" {
			return false
		}
	}
	return true
}

package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"voyago/internal/models/request_models"
)

const maxTripDays = 14

// itinerarySchemaHint is the exact response shape the structured strategy
// asks the backend to honor.
const itinerarySchemaHint = `{
  "title": "string",
  "subtitle": "string",
  "items": [
    {
      "period": "Day 1 - Morning",
      "activities": [
        {
          "image": "string",
          "title": "string",
          "time": "string",
          "desc": "string",
          "tags": ["string"]
        }
      ],
      "reason": "only when activities is empty"
    }
  ]
}`

// BuildItineraryPrompt assembles the full generation prompt: the traveller's
// request, the candidate pool and the hard output constraints.
func BuildItineraryPrompt(userPrompt string, pool *CandidatePool, dayCount int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Create a detailed %d-day travel itinerary.\n\n", dayCount))

	if pool.Len() > 0 {
		b.WriteString("Available activities (use these titles exactly):\n")
		for _, a := range pool.Items() {
			b.WriteString(fmt.Sprintf("- %s | %s | %s | %s\n",
				a.Title, orFlexible(a.TimeWindow), strings.Join(a.Tags, ", "), shorten(a.Description, 120)))
		}
		b.WriteString("\n")
	}

	b.WriteString("User Request: " + userPrompt + "\n\n")

	b.WriteString("CRITICAL REQUIREMENTS:\n")
	b.WriteString(fmt.Sprintf("1. Generate exactly %d days, three periods per day: Morning, Afternoon, Evening\n", dayCount))
	b.WriteString("2. Label every period \"Day <n> - <Morning|Afternoon|Evening>\"\n")
	b.WriteString("3. Use only activity titles from the list above\n")
	b.WriteString("4. Never repeat an activity title anywhere in the plan\n")
	b.WriteString("5. Every activity needs image, title, time, desc and at least one tag\n")
	b.WriteString("6. Return ONLY valid JSON, no extra text\n")

	return b.String()
}

// strictRetryPrompt escalates the formatting constraints for late attempts.
func strictRetryPrompt(prompt string) string {
	var b strings.Builder
	b.WriteString("=== CRITICAL INSTRUCTIONS ===\n")
	b.WriteString("You MUST return valid JSON only. No explanations, no markdown fences.\n")
	b.WriteString("Every string value MUST be double-quoted.\n\n")
	b.WriteString(prompt)
	b.WriteString("\n\n=== REMINDER ===\nReturn exactly the JSON structure described above. Nothing else.\n")
	return b.String()
}

// buildBackfillPrompt asks for activities for specific still-empty periods
// only, restricted to titles already considered admissible.
func buildBackfillPrompt(userPrompt string, emptyPeriods []string, organized *OrganizedItinerary) string {
	var b strings.Builder
	b.WriteString("Some periods of this itinerary are still empty. Propose activities for ONLY these periods:\n")
	for _, label := range emptyPeriods {
		b.WriteString("- " + label + "\n")
	}
	b.WriteString("\nChoose titles exclusively from this list:\n")
	for _, title := range organized.AdmissibleTitles() {
		b.WriteString("- " + title + "\n")
	}
	b.WriteString("\nOriginal request: " + userPrompt + "\n")
	b.WriteString("Return ONLY valid JSON with the same itinerary structure, items containing ONLY the periods listed above.\n")
	return b.String()
}

var writtenDayNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// ExtractDayCount derives the trip length from free text when the request
// carries no explicit duration. Defaults to a single day.
func ExtractDayCount(prompt string) int {
	lower := strings.ToLower(prompt)

	// Descending so "11 days" is not claimed by the "1 day" pattern.
	for i := maxTripDays; i >= 1; i-- {
		for _, pattern := range []string{
			fmt.Sprintf("%d days", i),
			fmt.Sprintf("%d day", i),
			fmt.Sprintf("%d-day", i),
		} {
			if strings.Contains(lower, pattern) {
				return i
			}
		}
	}

	for word, num := range writtenDayNumbers {
		if strings.Contains(lower, word+" day") || strings.Contains(lower, word+"-day") {
			return num
		}
	}

	if strings.Contains(lower, "weekend") {
		return 2
	}
	if strings.Contains(lower, "fortnight") {
		return 14
	}
	if strings.Contains(lower, "week") {
		return 7
	}
	return 1
}

func clampDayCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxTripDays {
		return maxTripDays
	}
	return n
}

var destinationRe = regexp.MustCompile(`\b(?:in|to|around|at|visiting)\s+((?:[A-Z][a-zA-Z]*)(?:\s+[A-Z][a-zA-Z]*)*)`)

// ExtractDestination pulls a capitalized place name out of the prompt, e.g.
// "three days in Da Nang" -> "Da Nang". Empty when nothing matches.
func ExtractDestination(prompt string) string {
	m := destinationRe.FindStringSubmatch(prompt)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// NormalizeBudget renders the wire budget, which may arrive as a string or a
// number, into display text.
func NormalizeBudget(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', 2, 64)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func buildSearchQueries(req request_models.ItineraryRequest, destination string) []string {
	queries := []string{req.Prompt}
	for _, interest := range req.Interests {
		q := interest + " activities"
		if destination != "" {
			q += " in " + destination
		}
		queries = append(queries, q)
	}
	return queries
}

func orFlexible(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Flexible"
	}
	return s
}

func shorten(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

package request_models

// ItineraryRequest is the normalized generation request. Budget accepts a
// string or a number on the wire; DurationDays may be null, in which case the
// day count is derived from the prompt text.
type ItineraryRequest struct {
	Prompt          string   `json:"prompt" binding:"required"`
	WeatherCategory string   `json:"weatherCategory"`
	Interests       []string `json:"interests"`
	DurationDays    *int     `json:"durationDays"`
	Budget          any      `json:"budget"`
	GroupSize       int      `json:"groupSize"`
}

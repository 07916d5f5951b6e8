package response_models

type SavedItinerarySummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	DurationDays int    `json:"duration_days"`
	Source       string `json:"source"`
	CreatedAt    string `json:"created_at"`
}

type SavedItineraryDetail struct {
	ID           string    `json:"id"`
	DurationDays int       `json:"duration_days"`
	Source       string    `json:"source"`
	CreatedAt    string    `json:"created_at"`
	Itinerary    Itinerary `json:"itinerary"`
}

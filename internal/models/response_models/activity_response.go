package response_models

type ActivityResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	TimeWindow  string   `json:"time_window"`
	Image       string   `json:"image"`
	PeakHours   string   `json:"peak_hours"`
	CrowdLevel  string   `json:"crowd_level"`
	Tags        []string `json:"tags"`
}

type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type DestinationResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	Timezone string `json:"timezone"`
}

package request_models

type UpsertActivityRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category"`
	TimeWindow  string   `json:"time_window"`
	Image       string   `json:"image"`
	PeakHours   string   `json:"peak_hours"`
	CrowdLevel  string   `json:"crowd_level"`
	Destination string   `json:"destination"`
	Tags        []string `json:"tags"`
}

package response_models

// DashboardStats combines corpus counts with the in-process generation
// counters since the last restart.
type DashboardStats struct {
	TotalAccounts    int64 `json:"total_accounts"`
	TotalActivities  int64 `json:"total_activities"`
	TotalItineraries int64 `json:"total_itineraries"`

	Generation GenerationStats `json:"generation"`
}

type GenerationStats struct {
	Attempts       int64            `json:"attempts"`
	Fallbacks      int64            `json:"fallbacks"`
	WinsByStrategy map[string]int64 `json:"wins_by_strategy"`
}

package response_models

// Itinerary is the outbound wire shape. Field names are part of the client
// contract and must not change.
type Itinerary struct {
	Title    string            `json:"title"`
	Subtitle string            `json:"subtitle"`
	Items    []ItineraryPeriod `json:"items"`
}

type ItineraryPeriod struct {
	Period     string              `json:"period"`
	Activities []ItineraryActivity `json:"activities"`
	Reason     string              `json:"reason,omitempty"`
}

type ItineraryActivity struct {
	Image string   `json:"image"`
	Title string   `json:"title"`
	Time  string   `json:"time"`
	Desc  string   `json:"desc"`
	Tags  []string `json:"tags"`
}

// ActivityCount sums activities across all periods.
func (it Itinerary) ActivityCount() int {
	n := 0
	for _, p := range it.Items {
		n += len(p.Activities)
	}
	return n
}

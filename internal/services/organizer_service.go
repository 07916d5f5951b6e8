package services

import (
	"fmt"
	"regexp"

	"voyago/internal/models/response_models"
)

const (
	SlotMorning   = "Morning"
	SlotAfternoon = "Afternoon"
	SlotEvening   = "Evening"
	slotFlexible  = "Flexible"
)

var daySlots = []string{SlotMorning, SlotAfternoon, SlotEvening}

var (
	morningSlotRe   = regexp.MustCompile(`(?i)(^|[^a-z])(am|morning)($|[^a-z])`)
	afternoonSlotRe = regexp.MustCompile(`(?i)(^|[^a-z])(pm|afternoon)($|[^a-z])`)
	eveningSlotRe   = regexp.MustCompile(`(?i)(^|[^a-z])(evening|night)($|[^a-z])`)
)

// Gap reasons rotate per slot; selection is dayNumber % len(table).
var (
	morningGapReasons = []string{
		"A relaxed morning to enjoy breakfast and recharge before the day begins.",
		"Morning kept free for a slow start and a stroll near your accommodation.",
		"No scheduled stop this morning, perfect for revisiting a favorite spot.",
		"An open morning to explore the neighborhood at your own pace.",
	}
	afternoonGapReasons = []string{
		"A free afternoon to wander wherever the day takes you.",
		"Afternoon left open to linger over lunch and browse local shops.",
		"No afternoon booking, a good window for spontaneous discoveries.",
		"An unplanned afternoon to rest or catch what you missed earlier.",
	}
	eveningGapReasons = []string{
		"A quiet evening to unwind and enjoy dinner at leisure.",
		"Evening kept open for a relaxed meal and a night walk.",
		"No evening plan, ideal for resting up before tomorrow.",
		"A free evening to soak in the local atmosphere at your own pace.",
	}
)

const (
	arrivalMorningReason   = "Morning reserved for your arrival, check-in and settling in."
	departureEveningReason = "Evening kept free to pack up and prepare for your departure."
)

// OrganizedItinerary is an itinerary normalized onto the day/period grid,
// plus the bookkeeping needed to vet later backfill suggestions.
type OrganizedItinerary struct {
	itinerary     response_models.Itinerary
	pool          *CandidatePool
	allowed       map[string]struct{}
	allowedTitles []string
	placed        map[string]struct{}
	totalDays     int
}

type OrganizerServiceInterface interface {
	Organize(it response_models.Itinerary, pool *CandidatePool, durationDays int) *OrganizedItinerary
}

type OrganizerService struct{}

func NewOrganizerService() OrganizerServiceInterface {
	return &OrganizerService{}
}

// Organize redistributes a validated itinerary onto the full
// day-by-day/period grid: duplicates removed, fields repaired from the
// canonical pool, every period present, empty ones carrying a reason.
func (o *OrganizerService) Organize(it response_models.Itinerary, pool *CandidatePool, durationDays int) *OrganizedItinerary {
	if durationDays < 1 {
		durationDays = 1
	}

	allowed := make(map[string]struct{})
	var allowedTitles []string
	admit := func(title string) {
		key := normalizeTitle(title)
		if key == "" {
			return
		}
		if _, ok := allowed[key]; ok {
			return
		}
		allowed[key] = struct{}{}
		allowedTitles = append(allowedTitles, title)
	}
	for _, title := range pool.Titles() {
		admit(title)
	}

	// Dedupe in document order, first occurrence wins, enriching each kept
	// activity from its canonical record.
	queues := map[string][]response_models.ItineraryActivity{}
	seen := make(map[string]struct{})
	for _, period := range it.Items {
		for _, act := range period.Activities {
			key := normalizeTitle(act.Title)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			admit(act.Title)
			enriched := enrichFromPool(act, pool)
			slot := inferSlot(enriched.Time)
			queues[slot] = append(queues[slot], enriched)
		}
	}

	periods := make([]response_models.ItineraryPeriod, 0, durationDays*len(daySlots))
	for day := 1; day <= durationDays; day++ {
		for _, slot := range daySlots {
			periods = append(periods, response_models.ItineraryPeriod{
				Period:     fmt.Sprintf("Day %d - %s", day, slot),
				Activities: []response_models.ItineraryActivity{},
			})
		}
	}

	// Multi-pass distribution: each pass hands every period at most one new
	// activity, exact slot first, then Flexible, then whatever remains.
	placed := make(map[string]struct{})
	for queuesRemain(queues) {
		for i := range periods {
			act, ok := takeForSlot(queues, daySlots[i%len(daySlots)])
			if !ok {
				continue
			}
			periods[i].Activities = append(periods[i].Activities, act)
			placed[normalizeTitle(act.Title)] = struct{}{}
		}
	}

	for i := range periods {
		if len(periods[i].Activities) == 0 {
			day := i/len(daySlots) + 1
			periods[i].Reason = gapReason(day, daySlots[i%len(daySlots)], durationDays)
		}
	}

	return &OrganizedItinerary{
		itinerary: response_models.Itinerary{
			Title:    it.Title,
			Subtitle: it.Subtitle,
			Items:    periods,
		},
		pool:          pool,
		allowed:       allowed,
		allowedTitles: allowedTitles,
		placed:        placed,
		totalDays:     durationDays,
	}
}

// inferSlot classifies a free-text time window; anything unmatched is
// Flexible.
func inferSlot(timeWindow string) string {
	switch {
	case morningSlotRe.MatchString(timeWindow):
		return SlotMorning
	case afternoonSlotRe.MatchString(timeWindow):
		return SlotAfternoon
	case eveningSlotRe.MatchString(timeWindow):
		return SlotEvening
	default:
		return slotFlexible
	}
}

func takeForSlot(queues map[string][]response_models.ItineraryActivity, slot string) (response_models.ItineraryActivity, bool) {
	order := []string{slot, slotFlexible}
	for _, other := range daySlots {
		if other != slot {
			order = append(order, other)
		}
	}
	for _, q := range order {
		if len(queues[q]) > 0 {
			act := queues[q][0]
			queues[q] = queues[q][1:]
			return act, true
		}
	}
	return response_models.ItineraryActivity{}, false
}

func queuesRemain(queues map[string][]response_models.ItineraryActivity) bool {
	for _, q := range queues {
		if len(q) > 0 {
			return true
		}
	}
	return false
}

func gapReason(day int, slot string, totalDays int) string {
	if day == 1 && slot == SlotMorning {
		return arrivalMorningReason
	}
	if day == totalDays && slot == SlotEvening {
		return departureEveningReason
	}
	var table []string
	switch slot {
	case SlotMorning:
		table = morningGapReasons
	case SlotAfternoon:
		table = afternoonGapReasons
	default:
		table = eveningGapReasons
	}
	return table[day%len(table)]
}

// enrichFromPool overwrites a generated activity's fields from the canonical
// corpus record when one exists for its title. The description is only
// replaced when the canonical one meets the minimum length.
func enrichFromPool(act response_models.ItineraryActivity, pool *CandidatePool) response_models.ItineraryActivity {
	canonical, ok := pool.Lookup(act.Title)
	if !ok {
		return act
	}
	if canonical.Image != "" {
		act.Image = canonical.Image
	}
	if canonical.TimeWindow != "" {
		act.Time = canonical.TimeWindow
	}
	if len(canonical.Description) >= minDescLength {
		act.Desc = canonical.Description
	}
	if len(canonical.Tags) > 0 {
		act.Tags = append([]string(nil), canonical.Tags...)
	}
	return act
}

func (o *OrganizedItinerary) Itinerary() response_models.Itinerary {
	return o.itinerary
}

func (o *OrganizedItinerary) TotalDays() int {
	return o.totalDays
}

func (o *OrganizedItinerary) EmptyPeriodLabels() []string {
	var out []string
	for _, p := range o.itinerary.Items {
		if len(p.Activities) == 0 {
			out = append(out, p.Period)
		}
	}
	return out
}

// AdmissibleTitles lists every title the pool or the winning generation has
// actually seen, in first-seen order.
func (o *OrganizedItinerary) AdmissibleTitles() []string {
	return append([]string(nil), o.allowedTitles...)
}

// Admits reports whether a title belongs to the admissible set. Titles
// invented by a later backfill pass are rejected.
func (o *OrganizedItinerary) Admits(title string) bool {
	_, ok := o.allowed[normalizeTitle(title)]
	return ok
}

// Backfill merges re-generated activities into still-empty periods. A
// proposal is accepted only when its title is admissible and not already
// placed. Returns the number of activities accepted.
func (o *OrganizedItinerary) Backfill(proposals map[string][]response_models.ItineraryActivity) int {
	accepted := 0
	for i := range o.itinerary.Items {
		period := &o.itinerary.Items[i]
		if len(period.Activities) > 0 {
			continue
		}
		for _, act := range proposals[period.Period] {
			key := normalizeTitle(act.Title)
			if key == "" || !o.Admits(act.Title) {
				continue
			}
			if _, dup := o.placed[key]; dup {
				continue
			}
			period.Activities = append(period.Activities, enrichFromPool(act, o.pool))
			o.placed[key] = struct{}{}
			accepted++
		}
		if len(period.Activities) > 0 {
			period.Reason = ""
		}
	}
	return accepted
}

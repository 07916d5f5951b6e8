package services

import (
	"fmt"
	"strings"

	"voyago/internal/models/response_models"
)

const (
	fallbackActivityCap = 6
	fallbackPerPeriod   = 2

	fallbackSubtitle          = "A starter plan built from top-rated local picks."
	fallbackEmptyPoolSubtitle = "We're preparing fresh recommendations; this plan was generated in reduced mode."
	fallbackPeriodReason      = "We're still lining up picks for this part of the day; check back shortly."
)

type FallbackServiceInterface interface {
	Synthesize(pool *CandidatePool) response_models.Itinerary
}

// FallbackService builds a guaranteed-valid day-one plan straight from the
// candidate pool when every generation strategy has failed.
type FallbackService struct{}

func NewFallbackService() FallbackServiceInterface {
	return &FallbackService{}
}

// Synthesize is total: any pool, including nil or empty, yields a usable
// schema-valid plan.
func (f *FallbackService) Synthesize(pool *CandidatePool) response_models.Itinerary {
	picks := pool.Items()
	if len(picks) > fallbackActivityCap {
		picks = picks[:fallbackActivityCap]
	}

	subtitle := fallbackSubtitle
	if len(picks) == 0 {
		subtitle = fallbackEmptyPoolSubtitle
	}

	periods := make([]response_models.ItineraryPeriod, 0, len(daySlots))
	for i, slot := range daySlots {
		period := response_models.ItineraryPeriod{
			Period:     fmt.Sprintf("Day 1 - %s", slot),
			Activities: []response_models.ItineraryActivity{},
		}
		lo := i * fallbackPerPeriod
		for j := lo; j < lo+fallbackPerPeriod && j < len(picks); j++ {
			period.Activities = append(period.Activities, fallbackActivity(picks[j]))
		}
		if len(period.Activities) == 0 {
			period.Reason = fallbackPeriodReason
		}
		periods = append(periods, period)
	}

	return response_models.Itinerary{
		Title:    defaultItineraryTitle,
		Subtitle: subtitle,
		Items:    periods,
	}
}

// fallbackActivity fills every blank field so the result stays schema-valid.
func fallbackActivity(a RankedActivity) response_models.ItineraryActivity {
	act := response_models.ItineraryActivity{
		Image: a.Image,
		Title: a.Title,
		Time:  a.TimeWindow,
		Desc:  strings.TrimSpace(a.Description),
		Tags:  append([]string(nil), a.Tags...),
	}
	if act.Image == "" {
		act.Image = defaultActivityImage
	}
	if act.Title == "" {
		act.Title = defaultActivityTitle
	}
	if act.Time == "" {
		act.Time = defaultActivityTime
	}
	switch {
	case act.Desc == "":
		act.Desc = defaultActivityDesc
	case len(act.Desc) < minDescLength:
		act.Desc = act.Desc + ". " + defaultActivityDesc
	}
	if len(act.Tags) == 0 {
		act.Tags = []string{genericTag}
	}
	return act
}

package db_models

import "github.com/google/uuid"

// Activity is a corpus entry: one bookable or visitable thing at a
// destination, with the scheduling metadata the ranking stage reads.
type Activity struct {
	BaseModel
	Title         string `gorm:"uniqueIndex"`
	Description   string
	Category      string
	TimeWindow    string // free text, e.g. "morning", "09:00-11:00"
	Image         string
	PeakHours     string // free text, e.g. "weekend mornings", "17:00-20:00"
	CrowdLevel    string // low | moderate | high
	DestinationID uuid.UUID

	Tags []Tag `gorm:"many2many:activity_tags"`
}

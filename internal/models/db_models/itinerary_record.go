package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ItineraryRecord stores one generated itinerary. Payload is the exact JSON
// returned to the client, so re-reads never depend on the generation stack.
type ItineraryRecord struct {
	BaseModel
	AccountID    uuid.UUID `gorm:"type:uuid;index"`
	Title        string
	Subtitle     string
	DurationDays int
	Source       string         // "generated" | "fallback"
	Payload      datatypes.JSON `gorm:"type:jsonb"`
}

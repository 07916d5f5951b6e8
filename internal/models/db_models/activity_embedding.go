package db_models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// ActivityEmbedding denormalizes everything the ranker needs so a similarity
// query returns complete candidate rows without joins.
type ActivityEmbedding struct {
	ActivityID  string `gorm:"primaryKey;column:activity_id"`
	Title       string
	Description string
	TimeWindow  string
	Image       string
	PeakHours   string
	CrowdLevel  string
	Tags        pq.StringArray  `gorm:"type:text[]"`
	Embedding   pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

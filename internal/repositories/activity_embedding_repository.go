package repositories

import (
	"context"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"voyago/internal/models/db_models"
)

// ActivityMatch is one similarity-search row: the denormalized candidate
// fields plus the cosine similarity against the query vector.
type ActivityMatch struct {
	ActivityID  string         `gorm:"column:activity_id"`
	Title       string         `gorm:"column:title"`
	Description string         `gorm:"column:description"`
	TimeWindow  string         `gorm:"column:time_window"`
	Image       string         `gorm:"column:image"`
	PeakHours   string         `gorm:"column:peak_hours"`
	CrowdLevel  string         `gorm:"column:crowd_level"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	Similarity  float64        `gorm:"column:similarity"`
}

type ActivityEmbeddingRepository interface {
	SearchSimilar(ctx context.Context, vector pgvector.Vector, limit int) ([]ActivityMatch, error)
	UpsertEmbedding(ctx context.Context, embedding db_models.ActivityEmbedding) error
	CountEmbeddings(ctx context.Context) (int64, error)
}

type activityEmbeddingRepository struct {
	db *gorm.DB
}

func NewActivityEmbeddingRepository(db *gorm.DB) ActivityEmbeddingRepository {
	return &activityEmbeddingRepository{db: db}
}

func (r *activityEmbeddingRepository) SearchSimilar(ctx context.Context, vector pgvector.Vector, limit int) ([]ActivityMatch, error) {
	var results []ActivityMatch

	if limit <= 0 {
		limit = 15
	}
	vecStr := vector.String()

	query := `
        SELECT activity_id, title, description, time_window, image, peak_hours, crowd_level, tags,
               (1 - (embedding <=> $1)) AS similarity
        FROM activity_embeddings
        WHERE (1 - (embedding <=> $1)) > 0.3
        ORDER BY embedding <=> $1
        LIMIT $2
    `

	err := r.db.WithContext(ctx).Raw(query, vecStr, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *activityEmbeddingRepository) UpsertEmbedding(ctx context.Context, embedding db_models.ActivityEmbedding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "activity_id"}},
			UpdateAll: true,
		}).
		Create(&embedding).Error
}

func (r *activityEmbeddingRepository) CountEmbeddings(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.ActivityEmbedding{}).Count(&n).Error
	return n, err
}

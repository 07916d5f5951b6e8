package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"voyago/internal/models/db_models"
)

type ItineraryRepository interface {
	SaveItinerary(ctx context.Context, record *db_models.ItineraryRecord) (uuid.UUID, error)
	GetItineraryById(ctx context.Context, id string) (*db_models.ItineraryRecord, error)
	ListItinerariesByAccount(ctx context.Context, page, pageSize int, accountID string) ([]db_models.ItineraryRecord, error)
	CountItineraries(ctx context.Context) (int64, error)
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

func (r *itineraryRepository) SaveItinerary(ctx context.Context, record *db_models.ItineraryRecord) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

func (r *itineraryRepository) GetItineraryById(ctx context.Context, id string) (*db_models.ItineraryRecord, error) {
	var record db_models.ItineraryRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *itineraryRepository) ListItinerariesByAccount(ctx context.Context, page, pageSize int, accountID string) ([]db_models.ItineraryRecord, error) {
	var records []db_models.ItineraryRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error

	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *itineraryRepository) CountItineraries(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.ItineraryRecord{}).Count(&n).Error
	return n, err
}

package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"voyago/internal/models/db_models"
)

type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *db_models.Activity) (uuid.UUID, error)
	UpdateActivity(ctx context.Context, activity *db_models.Activity) error
	GetActivityById(ctx context.Context, id string) (*db_models.Activity, error)
	FindByTitle(ctx context.Context, title string) (*db_models.Activity, error)
	SearchByKeyword(ctx context.Context, keyword string, limit int) ([]db_models.Activity, error)
	List(ctx context.Context, page, pageSize int) ([]db_models.Activity, error)
	CountActivities(ctx context.Context) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) CreateActivity(ctx context.Context, activity *db_models.Activity) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return uuid.Nil, err
	}
	return activity.ID, nil
}

func (r *activityRepository) UpdateActivity(ctx context.Context, activity *db_models.Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Save(activity)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Read helpers return default value + nil error when no rows are found.

func (r *activityRepository) GetActivityById(ctx context.Context, id string) (*db_models.Activity, error) {
	var activity db_models.Activity
	err := r.db.WithContext(ctx).
		Preload("Tags").
		First(&activity, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) FindByTitle(ctx context.Context, title string) (*db_models.Activity, error) {
	var activity db_models.Activity
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("LOWER(title) = LOWER(?)", title).
		First(&activity).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) SearchByKeyword(ctx context.Context, keyword string, limit int) ([]db_models.Activity, error) {
	var activities []db_models.Activity
	pattern := "%" + keyword + "%"

	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("title ILIKE ? OR description ILIKE ?", pattern, pattern).
		Limit(limit).
		Find(&activities).Error

	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) List(ctx context.Context, page, pageSize int) ([]db_models.Activity, error) {
	var activities []db_models.Activity
	offset := (page - 1) * pageSize

	err := r.db.WithContext(ctx).
		Preload("Tags").
		Offset(offset).
		Limit(pageSize).
		Find(&activities).Error

	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) CountActivities(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Activity{}).Count(&n).Error
	return n, err
}

package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"voyago/internal/models/db_models"
)

type DestinationRepository interface {
	GetOrCreateByName(ctx context.Context, name string) (*db_models.Destination, error)
	GetListOfDestinations(ctx context.Context, page int, pageSize int) ([]db_models.Destination, error)
	SearchByKeyword(ctx context.Context, keyword string, page int, pageSize int) ([]db_models.Destination, error)
}

type destinationRepository struct {
	db *gorm.DB
}

func NewDestinationRepository(db *gorm.DB) DestinationRepository {
	return &destinationRepository{db: db}
}

func (d *destinationRepository) GetOrCreateByName(ctx context.Context, name string) (*db_models.Destination, error) {
	var destination db_models.Destination
	err := d.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&destination).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		destination = db_models.Destination{Name: name}
		if err := d.db.WithContext(ctx).Create(&destination).Error; err != nil {
			return nil, err
		}
		return &destination, nil
	}
	if err != nil {
		return nil, err
	}
	return &destination, nil
}

func (d *destinationRepository) GetListOfDestinations(ctx context.Context, page int, pageSize int) ([]db_models.Destination, error) {
	var destinations []db_models.Destination
	err := d.db.WithContext(ctx).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&destinations).Error
	if err != nil {
		return nil, err
	}
	return destinations, nil
}

func (d *destinationRepository) SearchByKeyword(ctx context.Context, keyword string, page int, pageSize int) ([]db_models.Destination, error) {
	var destinations []db_models.Destination
	err := d.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+keyword+"%").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&destinations).Error
	if err != nil {
		return nil, err
	}
	return destinations, nil
}

package repositories

import (
	"context"

	"gorm.io/gorm"
	dbm "voyago/internal/models/db_models"
)

type DashboardRepository interface {
	CountTotalAccounts(ctx context.Context) (int64, error)
	CountTotalActivities(ctx context.Context) (int64, error)
	CountTotalItineraries(ctx context.Context) (int64, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountTotalAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Account{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountTotalActivities(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Activity{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountTotalItineraries(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.ItineraryRecord{}).Count(&n).Error
	return n, err
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"eld-trip-service/internal/model"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create stores a trip and its generated day logs in one transaction.
func (r *TripRepository) Create(ctx context.Context, trip *model.Trip, logs []model.EldLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trip).Error; err != nil {
			return err
		}
		for i := range logs {
			logs[i].TripRecordID = trip.ID
		}
		if len(logs) == 0 {
			return nil
		}
		return tx.Create(&logs).Error
	})
}

func (r *TripRepository) GetByTripID(ctx context.Context, tripID string) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.WithContext(ctx).
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("eld_logs.day_number ASC")
		}).
		Where("trip_id = ?", tripID).
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

type TripFilter struct {
	Limit  int
	Offset int
}

func (r *TripRepository) List(ctx context.Context, filter TripFilter) ([]model.Trip, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Trip{}).
		Order("created_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var trips []model.Trip
	if err := query.Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
)

type MetricRepo struct{ db *gorm.DB }

func NewMetricRepo(db *gorm.DB) *MetricRepo { return &MetricRepo{db: db} }

func (r *MetricRepo) List(ctx context.Context, sector string) ([]domain.ImpactMetric, error) {
	q := r.db.WithContext(ctx).Model(&domain.ImpactMetric{})
	if sector != "" {
		q = q.Where("sector = ?", sector)
	}
	var rows []domain.ImpactMetric
	err := q.Find(&rows).Error
	return rows, err
}

// Upsert updates the metric with the given label or, when no such label
// exists, creates it under the catch-all "general" sector. Returns whether a
// new row was created.
func (r *MetricRepo) Upsert(ctx context.Context, label, value string) (bool, error) {
	var m domain.ImpactMetric
	err := r.db.WithContext(ctx).First(&m, "label = ?", label).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		m = domain.ImpactMetric{Sector: "general", Label: label, Val: value}
		return true, r.db.WithContext(ctx).Create(&m).Error
	case err != nil:
		return false, err
	default:
		return false, r.db.WithContext(ctx).Model(&domain.ImpactMetric{}).
			Where("label = ?", label).Update("val", value).Error
	}
}

func (r *MetricRepo) CompletionRates(ctx context.Context, sector string) ([]domain.CompletionRate, error) {
	q := r.db.WithContext(ctx).Model(&domain.CompletionRate{})
	if sector != "" {
		q = q.Where("sector = ?", sector)
	}
	var rows []domain.CompletionRate
	err := q.Find(&rows).Error
	return rows, err
}

package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
)

type ScholarshipRepo struct{ db *gorm.DB }

func NewScholarshipRepo(db *gorm.DB) *ScholarshipRepo { return &ScholarshipRepo{db: db} }

func (r *ScholarshipRepo) List(ctx context.Context, year string) ([]domain.Scholarship, error) {
	q := r.db.WithContext(ctx).Model(&domain.Scholarship{})
	if year != "" {
		q = q.Where("year = ?", year)
	}
	var rows []domain.Scholarship
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *ScholarshipRepo) FindByID(ctx context.Context, id uint) (*domain.Scholarship, error) {
	var s domain.Scholarship
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *ScholarshipRepo) Create(ctx context.Context, s *domain.Scholarship) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ScholarshipRepo) Update(ctx context.Context, s *domain.Scholarship) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ScholarshipRepo) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Scholarship{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// Stats feeds the synthesized Scholarships and Total Investment metrics.
func (r *ScholarshipRepo) Stats(ctx context.Context) (count int64, amount float64, err error) {
	m := r.db.WithContext(ctx).Model(&domain.Scholarship{})
	if err = m.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return
	}
	err = m.Session(&gorm.Session{}).Select("COALESCE(SUM(amount), 0)").Scan(&amount).Error
	return
}

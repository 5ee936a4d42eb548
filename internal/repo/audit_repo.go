package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
)

type AuditRepo struct{ db *gorm.DB }

func NewAuditRepo(db *gorm.DB) *AuditRepo { return &AuditRepo{db: db} }

func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AuditRepo) CountByAction(ctx context.Context, action string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.AuditLog{}).
		Where("action = ?", action).Count(&n).Error
	return n, err
}

package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
	"github.com/hamdansalifupolibu/hondandaawa/pkg/utils"
)

// ProjectFilter combines listing filters with AND semantics. Archived rows
// are always excluded from listings; only FindByID sees them.
type ProjectFilter struct {
	Sector    string
	YearStart string
	YearEnd   string
	Search    string
	Status    string
	Funding   string
	Page      int
	Limit     int
}

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) List(ctx context.Context, f ProjectFilter) ([]domain.Project, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}

	q := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("status <> ?", domain.ProjectArchived)

	if f.Sector != "" && f.Sector != "all" {
		q = q.Where("sector = ?", f.Sector)
	}
	if f.YearStart != "" && f.YearEnd != "" {
		q = q.Where("year >= ? AND year <= ?", f.YearStart, f.YearEnd)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR locations LIKE ? OR contractor LIKE ? OR description LIKE ?",
			like, like, like, like)
	}
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Funding != "" && f.Funding != "all" {
		q = q.Where("funding_source LIKE ?", "%"+f.Funding+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []domain.Project
	err := q.Order("id DESC").
		Limit(f.Limit).Offset((f.Page - 1) * f.Limit).
		Find(&projects).Error
	return projects, total, err
}

// FindByID looks a project up directly, archived rows included.
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Archive is the delete path: a status transition, never a row removal.
func (r *ProjectRepo) Archive(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ? AND status <> ?", id, domain.ProjectArchived).
		Update("status", domain.ProjectArchived)
	return res.RowsAffected > 0, res.Error
}

// BulkInsert writes a validated ingest batch inside the caller's transaction.
func (r *ProjectRepo) BulkInsert(tx *gorm.DB, rows []domain.Project) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

type CommunityStat struct {
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Ongoing   int    `json:"ongoing"`
}

func (r *ProjectRepo) Communities(ctx context.Context) ([]CommunityStat, error) {
	var stats []CommunityStat
	err := r.db.WithContext(ctx).Model(&domain.Project{}).
		Select(`community AS name,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS ongoing`,
			domain.ProjectCompleted, domain.ProjectOngoing).
		Where("status <> ?", domain.ProjectArchived).
		Group("community").
		Scan(&stats).Error
	return stats, err
}

// TotalCost sums the free-text cost column for non-archived projects. Rows
// whose cost does not parse are skipped, not errors.
func (r *ProjectRepo) TotalCost(ctx context.Context, sector string) (float64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("status <> ?", domain.ProjectArchived)
	if sector != "" {
		q = q.Where("sector = ?", sector)
	}
	var raws []string
	if err := q.Pluck("project_cost", &raws).Error; err != nil {
		return 0, err
	}
	var total float64
	for _, raw := range raws {
		if v, ok := utils.ParseAmount(raw); ok {
			total += v
		}
	}
	return total, nil
}

type ProjectCounts struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Ongoing   int64 `json:"ongoing"`
}

func (r *ProjectRepo) Counts(ctx context.Context) (ProjectCounts, error) {
	var c ProjectCounts
	m := r.db.WithContext(ctx).Model(&domain.Project{})
	if err := m.Session(&gorm.Session{}).Count(&c.Total).Error; err != nil {
		return c, err
	}
	if err := m.Session(&gorm.Session{}).Where("LOWER(status) = ?", domain.ProjectCompleted).Count(&c.Completed).Error; err != nil {
		return c, err
	}
	if err := m.Session(&gorm.Session{}).Where("LOWER(status) = ?", domain.ProjectOngoing).Count(&c.Ongoing).Error; err != nil {
		return c, err
	}
	return c, nil
}

// CountBySector counts non-archived projects in a sector; used to fold
// sector=scholarship projects into the Scholarships headline number.
func (r *ProjectRepo) CountBySector(ctx context.Context, sector string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("sector = ? AND status <> ?", sector, domain.ProjectArchived).
		Count(&n).Error
	return n, err
}

package domain

import (
	"strings"
	"time"
)

const (
	ProjectPlanned   = "planned"
	ProjectOngoing   = "ongoing"
	ProjectCompleted = "completed"
	// ProjectArchived is the soft-delete state: excluded from default
	// listings and aggregates, still reachable by direct id lookup.
	ProjectArchived = "archived"

	CategoryInfra   = "infra"
	CategorySupport = "support"
)

// Project keeps year, cost and beneficiary count as free text: rows arrive
// from spreadsheets typed however the author felt like. Aggregation sanitizes
// at read time instead.
type Project struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Locations        string    `gorm:"size:255" json:"locations"`
	Sector           string    `gorm:"size:32;index;not null" json:"sector"`
	Year             string    `gorm:"size:16" json:"year"`
	Status           string    `gorm:"size:16;index;not null;default:planned" json:"status"`
	Category         string    `gorm:"size:16;not null;default:infra" json:"category"`
	Community        string    `gorm:"size:128" json:"community"`
	ImageURL         string    `gorm:"size:255" json:"image_url"`
	ProjectCost      string    `gorm:"size:64" json:"project_cost"`
	FundingSource    string    `gorm:"size:128" json:"funding_source"`
	BeneficiaryCount string    `gorm:"size:64" json:"beneficiary_count"`
	Contractor       string    `gorm:"size:128" json:"contractor"`
	Description      string    `gorm:"type:text" json:"description"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Project) TableName() string { return "projects" }

// CommunityOf derives the community from the first comma segment of a
// free-text locations value.
func CommunityOf(locations string) string {
	seg, _, _ := strings.Cut(locations, ",")
	return strings.TrimSpace(seg)
}

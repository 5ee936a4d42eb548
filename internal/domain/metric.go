package domain

// ImpactMetric rows are freeform (sector, label, value) triples shown on the
// dashboard. Some labels, e.g. "Scholarships" and "Total Investment", are
// synthesized from aggregate queries at read time rather than stored.
type ImpactMetric struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Sector string `gorm:"size:32;index" json:"sector"`
	Label  string `gorm:"size:128;not null" json:"label"`
	Val    string `gorm:"column:val;size:64" json:"val"`
}

func (ImpactMetric) TableName() string { return "impact_metrics" }

// CompletionRate is a manually maintained percentage per sector. It is not
// derived from project counts so an admin can override the headline number.
type CompletionRate struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Sector string `gorm:"size:32;uniqueIndex" json:"sector"`
	Rate   int    `json:"rate"`
}

func (CompletionRate) TableName() string { return "completion_rates" }

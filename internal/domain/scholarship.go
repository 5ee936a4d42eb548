package domain

import "time"

type Scholarship struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BeneficiaryName string    `gorm:"size:128;not null" json:"beneficiary_name"`
	Institution     string    `gorm:"size:128;not null" json:"institution"`
	Amount          float64   `json:"amount"`
	Year            string    `gorm:"size:16" json:"year"`
	Status          string    `gorm:"size:32;default:Pending" json:"status"`
	Category        string    `gorm:"size:32;default:Tertiary" json:"category"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Scholarship) TableName() string { return "scholarships" }

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// VisitResult is the durable outcome of one customer visit. Created once by
// the sync path, never mutated.
type VisitResult struct {
	ID           snowflake.ID    `json:"id" gorm:"primaryKey"`
	VendorID     snowflake.ID    `json:"vendor_id" gorm:"not null;index"`
	CustomerID   *snowflake.ID   `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name" gorm:"type:text"`
	Interest     string          `json:"interest" gorm:"type:text"`
	Probability  string          `json:"probability" gorm:"type:text"`
	Notes        string          `json:"notes" gorm:"type:text"`
	Potential    decimal.Decimal `json:"potential" gorm:"type:numeric(14,2);not null"`
	FollowUpAt   *time.Time      `json:"follow_up_at,omitempty"`
	VisitedAt    time.Time       `json:"visited_at" gorm:"not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (VisitResult) TableName() string { return "visit_results" }

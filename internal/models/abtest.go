package models

import "time"

type ABTestStatus string

const (
	ABTestActive    ABTestStatus = "active"
	ABTestCompleted ABTestStatus = "completed"
)

type TargetMetric string

const (
	MetricOrderValue     TargetMetric = "order_value"
	MetricConversionRate TargetMetric = "conversion_rate"
	MetricUserEngagement TargetMetric = "user_engagement"
)

func (m TargetMetric) Valid() bool {
	switch m {
	case MetricOrderValue, MetricConversionRate, MetricUserEngagement:
		return true
	}
	return false
}

type ABTest struct {
	ID           uint               `gorm:"primaryKey" json:"-"`
	TestID       string             `gorm:"column:test_id;uniqueIndex;not null" json:"test_id"`
	Name         string             `gorm:"column:name;not null" json:"name"`
	Variants     []string           `gorm:"column:variants;serializer:json;not null" json:"variants"`
	TargetMetric TargetMetric       `gorm:"column:target_metric;not null" json:"target_metric"`
	StartDate    time.Time          `gorm:"column:start_date" json:"start_date"`
	EndDate      time.Time          `gorm:"column:end_date" json:"end_date"`
	Status       ABTestStatus       `gorm:"column:status;not null" json:"status"`
	Assignments  []ABAssignment     `gorm:"foreignKey:TestRef" json:"assignments"`
	Results      map[string]float64 `gorm:"column:results;serializer:json" json:"results"`
}

// ABAssignment is an append-only log row; the composite unique index backs the
// sticky-assignment guarantee at the storage level.
type ABAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	TestRef   uint      `gorm:"index;not null;uniqueIndex:idx_test_user" json:"-"`
	UserID    string    `gorm:"column:user_id;not null;uniqueIndex:idx_test_user" json:"user_id"`
	Variant   string    `gorm:"column:variant;not null" json:"variant"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

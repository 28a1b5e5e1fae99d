package models

// ShippingPlan is read-only reference data: a weight-banded rate/carrier tier
// used to price standalone (non-pooled) shipments.
type ShippingPlan struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	PlanID       string  `gorm:"column:plan_id;uniqueIndex;not null" json:"plan_id"`
	MinWeight    float64 `gorm:"column:min_weight;not null" json:"min_weight"`
	MaxWeight    float64 `gorm:"column:max_weight;not null" json:"max_weight"`
	RatePerKg    float64 `gorm:"column:rate_per_kg;not null" json:"rate_per_kg"`
	DeliveryTime string  `gorm:"column:delivery_time" json:"delivery_time"`
	Carrier      string  `gorm:"column:carrier" json:"carrier"`
}

// Covers reports whether the plan's band contains the given total weight.
func (p *ShippingPlan) Covers(weightKg float64) bool {
	return p.MinWeight <= weightKg && weightKg <= p.MaxWeight
}

package models

type Product struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	ProductID   string  `gorm:"column:product_id;uniqueIndex;not null" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	WeightKg    float64 `gorm:"column:weight_kg;not null" json:"weight_kg"`
	Price       float64 `gorm:"not null" json:"price"`
	Currency    string  `gorm:"not null;default:USD" json:"currency"`
	Description string  `json:"description"`
}

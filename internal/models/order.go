package models

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderPaid       OrderStatus = "paid"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
)

// statusRank orders the lifecycle; transitions only move forward.
var statusRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderPaid:       1,
	OrderProcessing: 2,
	OrderShipped:    3,
	OrderDelivered:  4,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal forward
// step. Orders are never deleted, only superseded by status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from, okFrom := statusRank[s]
	to, okTo := statusRank[next]
	return okFrom && okTo && to > from
}

type ShippingAddress struct {
	Street     string `gorm:"column:ship_street" json:"street"`
	City       string `gorm:"column:ship_city" json:"city"`
	State      string `gorm:"column:ship_state" json:"state"`
	PostalCode string `gorm:"column:ship_postal_code" json:"postal_code"`
	Country    string `gorm:"column:ship_country" json:"country"`
}

type ContactInfo struct {
	Name  string `gorm:"column:contact_name" json:"name"`
	Email string `gorm:"column:contact_email" json:"email"`
	Phone string `gorm:"column:contact_phone" json:"phone"`
}

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"-"`
	OrderID         string          `gorm:"column:order_id;uniqueIndex;not null" json:"order_id"`
	UserID          string          `gorm:"column:user_id;index;not null" json:"user_id"`
	Items           []OrderItem     `gorm:"foreignKey:OrderRef" json:"items"`
	TotalWeightKg   float64         `gorm:"column:total_weight_kg;not null" json:"total_weight_kg"`
	TotalPrice      float64         `gorm:"column:total_price;not null" json:"total_price"`
	Currency        string          `gorm:"column:currency;not null;default:USD" json:"currency"`
	Status          OrderStatus     `gorm:"column:status;index;not null" json:"status"`
	ShippingPlan    *string         `gorm:"column:shipping_plan" json:"shipping_plan,omitempty"`
	TruckID         *string         `gorm:"column:truck_id;index" json:"truck_id,omitempty"`
	PaymentMethod   string          `gorm:"column:payment_method" json:"payment_method"`
	ShippingAddress ShippingAddress `gorm:"embedded" json:"shipping_address"`
	ContactInfo     ContactInfo     `gorm:"embedded" json:"contact_info"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

// OrderItem is immutable once attached to an order.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	OrderRef  uint    `gorm:"index;not null" json:"-"`
	ProductID string  `gorm:"column:product_id;not null" json:"product_id"`
	Name      string  `gorm:"column:name;not null" json:"name"`
	Quantity  int     `gorm:"column:quantity;not null" json:"quantity"`
	WeightKg  float64 `gorm:"column:weight_kg;not null" json:"weight_kg"`
	Price     float64 `gorm:"column:price;not null" json:"price"`
	Currency  string  `gorm:"column:currency;not null;default:USD" json:"currency"`
}

// CartLine is a cart row already resolved against the product catalog.
// Weight and price are per unit.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	WeightKg  float64 `json:"weight_kg"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
}

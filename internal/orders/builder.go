package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

// BuildFromCart assembles an order from resolved cart lines. Totals are
// recomputed from the lines; caller-supplied totals are never trusted.
func BuildFromCart(lines []models.CartLine, user *models.User) *models.Order {
	now := time.Now()
	items := make([]models.OrderItem, 0, len(lines))
	var totalPrice, totalWeight float64
	currency := "USD"
	for _, line := range lines {
		if line.Currency != "" {
			currency = line.Currency
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			WeightKg:  line.WeightKg,
			Price:     line.Price,
			Currency:  currency,
		})
		totalPrice += line.Price * float64(line.Quantity)
		totalWeight += line.WeightKg * float64(line.Quantity)
	}

	return &models.Order{
		OrderID:       NewOrderID(now),
		UserID:        user.UserID,
		Items:         items,
		TotalPrice:    totalPrice,
		TotalWeightKg: totalWeight,
		Currency:      currency,
		ShippingAddress: models.ShippingAddress{
			Street: user.Address.Street, City: user.Address.City,
			State: user.Address.State, PostalCode: user.Address.PostalCode,
			Country: user.Address.Country,
		},
		ContactInfo: models.ContactInfo{Name: user.Name, Email: user.Email, Phone: user.Phone},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewOrderID keeps the human-scannable timestamp prefix and appends a short
// random suffix so concurrent checkouts never collide.
func NewOrderID(at time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102150405"), uuid.NewString()[:8])
}

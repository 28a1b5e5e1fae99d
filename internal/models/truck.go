package models

import "time"

type TruckStatus string

const (
	TruckCollecting TruckStatus = "collecting"
	TruckApproved   TruckStatus = "approved"
	TruckInTransit  TruckStatus = "in_transit"
	TruckDelivered  TruckStatus = "delivered"
)

type Truck struct {
	ID            uint        `gorm:"primaryKey" json:"-"`
	TruckID       string      `gorm:"column:truck_id;uniqueIndex;not null" json:"truck_id"`
	Status        TruckStatus `gorm:"column:status;not null" json:"status"`
	CurrentWeight float64     `gorm:"column:current_weight;not null" json:"current_weight"`
	MaxWeight     float64     `gorm:"column:max_weight;not null" json:"max_weight"`
	Items         []TruckItem `gorm:"foreignKey:TruckRef" json:"items"`
	Location      string      `gorm:"column:location" json:"location"`
	Destination   string      `gorm:"column:destination" json:"destination"`
	DepartureDate time.Time   `gorm:"column:departure_date" json:"departure_date"`
	ArrivalDate   time.Time   `gorm:"column:arrival_date" json:"arrival_date"`
	Progress      int         `gorm:"column:progress" json:"progress"` // display only
}

func (t *Truck) RemainingCapacity() float64 {
	return t.MaxWeight - t.CurrentWeight
}

// TruckItem is a denormalized manifest line; it does not reference orders.
type TruckItem struct {
	ID       uint    `gorm:"primaryKey" json:"-"`
	TruckRef uint    `gorm:"index;not null" json:"-"`
	Name     string  `gorm:"column:name;not null" json:"name"`
	Quantity int     `gorm:"column:quantity;not null" json:"quantity"`
	Weight   float64 `gorm:"column:weight;not null" json:"weight"`
}

package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

// Seed populates reference data on first run. Trucks are only inserted when
// the table is empty so operational state survives restarts.
func Seed(gdb *gorm.DB) error {
	if err := seedTrucks(gdb); err != nil {
		return err
	}
	if err := seedProducts(gdb); err != nil {
		return err
	}
	return seedShippingPlans(gdb)
}

func seedTrucks(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&models.Truck{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	day := 24 * time.Hour
	trucks := []models.Truck{
		{
			TruckID: "TRUCK-001", Status: models.TruckCollecting,
			CurrentWeight: 1500, MaxWeight: 2000,
			Items: []models.TruckItem{
				{Name: "Haldiram's Bhujia", Quantity: 50, Weight: 50},
				{Name: "Lays Magic Masala", Quantity: 100, Weight: 50},
				{Name: "Parle-G Biscuits", Quantity: 200, Weight: 60},
			},
			Location: "Mumbai, India", Destination: "New York, USA",
			DepartureDate: now.Add(3 * day), ArrivalDate: now.Add(10 * day), Progress: 75,
		},
		{
			TruckID: "TRUCK-002", Status: models.TruckCollecting,
			CurrentWeight: 1200, MaxWeight: 2000,
			Items: []models.TruckItem{
				{Name: "Maggi Noodles", Quantity: 150, Weight: 60},
				{Name: "Kurkure", Quantity: 80, Weight: 40},
				{Name: "Bournvita", Quantity: 50, Weight: 25},
			},
			Location: "Delhi, India", Destination: "New York, USA",
			DepartureDate: now.Add(5 * day), ArrivalDate: now.Add(12 * day), Progress: 60,
		},
		{
			TruckID: "TRUCK-003", Status: models.TruckCollecting,
			CurrentWeight: 1800, MaxWeight: 2000,
			Items: []models.TruckItem{
				{Name: "Amul Butter", Quantity: 100, Weight: 50},
				{Name: "Britannia Biscuits", Quantity: 150, Weight: 75},
				{Name: "Cadbury Dairy Milk", Quantity: 200, Weight: 100},
			},
			Location: "Bangalore, India", Destination: "New York, USA",
			DepartureDate: now.Add(2 * day), ArrivalDate: now.Add(9 * day), Progress: 90,
		},
		{
			TruckID: "TRUCK-004", Status: models.TruckCollecting,
			CurrentWeight: 1600, MaxWeight: 2000,
			Items: []models.TruckItem{
				{Name: "Tata Tea", Quantity: 100, Weight: 50},
				{Name: "Nescafe Coffee", Quantity: 80, Weight: 40},
				{Name: "Horlicks", Quantity: 120, Weight: 60},
			},
			Location: "Chennai, India", Destination: "New York, USA",
			DepartureDate: now.Add(4 * day), ArrivalDate: now.Add(11 * day), Progress: 80,
		},
		{
			TruckID: "TRUCK-005", Status: models.TruckCollecting,
			CurrentWeight: 1400, MaxWeight: 2000,
			Items: []models.TruckItem{
				{Name: "Dabur Honey", Quantity: 60, Weight: 30},
				{Name: "Patanjali Ghee", Quantity: 40, Weight: 20},
				{Name: "Fortune Oil", Quantity: 50, Weight: 25},
			},
			Location: "Kolkata, India", Destination: "New York, USA",
			DepartureDate: now.Add(6 * day), ArrivalDate: now.Add(13 * day), Progress: 70,
		},
	}
	return gdb.Create(&trucks).Error
}

func seedProducts(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{ProductID: "P001", Name: "Haldiram's Bhujia", WeightKg: 1.0, Price: 5.99, Currency: "USD", Description: "Popular Indian snack"},
		{ProductID: "P002", Name: "Maggi Noodles", WeightKg: 0.5, Price: 3.99, Currency: "USD", Description: "Instant noodles"},
		{ProductID: "P003", Name: "Tata Tea Premium", WeightKg: 0.25, Price: 4.99, Currency: "USD", Description: "Premium Indian tea"},
		{ProductID: "P004", Name: "MTR Sambar Powder", WeightKg: 0.2, Price: 6.99, Currency: "USD", Description: "Authentic sambar mix"},
		{ProductID: "P005", Name: "Amul Ghee", WeightKg: 1.0, Price: 12.99, Currency: "USD", Description: "Pure cow ghee"},
		{ProductID: "P006", Name: "Britannia Good Day", WeightKg: 0.3, Price: 2.99, Currency: "USD", Description: "Butter cookies"},
		{ProductID: "P007", Name: "MDH Garam Masala", WeightKg: 0.1, Price: 3.99, Currency: "USD", Description: "Mixed Indian spices"},
		{ProductID: "P008", Name: "Lijjat Papad", WeightKg: 0.2, Price: 4.99, Currency: "USD", Description: "Crispy Indian papad"},
	}
	return gdb.Create(&products).Error
}

func seedShippingPlans(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&models.ShippingPlan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plans := []models.ShippingPlan{
		{PlanID: "PLAN-AIR-S", MinWeight: 0, MaxWeight: 10, RatePerKg: 12.50, DeliveryTime: "3-5 days", Carrier: "AirExpress"},
		{PlanID: "PLAN-AIR-M", MinWeight: 10, MaxWeight: 50, RatePerKg: 9.75, DeliveryTime: "4-7 days", Carrier: "AirExpress"},
		{PlanID: "PLAN-SEA-M", MinWeight: 50, MaxWeight: 200, RatePerKg: 4.20, DeliveryTime: "14-21 days", Carrier: "OceanLine"},
		{PlanID: "PLAN-SEA-L", MinWeight: 200, MaxWeight: 1000, RatePerKg: 2.80, DeliveryTime: "21-30 days", Carrier: "OceanLine"},
		{PlanID: "PLAN-FRT-XL", MinWeight: 1000, MaxWeight: 5000, RatePerKg: 1.95, DeliveryTime: "30-45 days", Carrier: "GlobalFreight"},
	}
	return gdb.Create(&plans).Error
}

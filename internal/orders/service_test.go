package orders_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/orders"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []string
	updates       []string
}

func (n *recordingNotifier) SendOrderConfirmation(email, name string, order *models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, order.OrderID)
	return nil
}

func (n *recordingNotifier) SendStatusUpdate(email, name string, order *models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, order.OrderID)
	return nil
}

func newService(t *testing.T) (*orders.Service, *gorm.DB, *recordingNotifier) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.ShippingPlan{}))

	log := logger.NewNop()
	mailer := &recordingNotifier{}
	svc := orders.NewService(repos.NewOrderRepo(gdb, log), repos.NewShippingPlanRepo(gdb, log), mailer, log)
	return svc, gdb, mailer
}

func buyer(id string) *models.User {
	return &models.User{
		UserID: id,
		Name:   "Asha Mollel",
		Email:  id + "@example.com",
		Phone:  "+255700000002",
		Address: models.ShippingAddress{
			Street: "44 Lakeview Ave", City: "Dar es Salaam", State: "DSM",
			PostalCode: "11101", Country: "Tanzania",
		},
	}
}

func cart() []models.CartLine {
	return []models.CartLine{
		{ProductID: "P001", Name: "Standing Desk", Quantity: 1, WeightKg: 28, Price: 320, Currency: "USD"},
		{ProductID: "P002", Name: "Desk Lamp", Quantity: 2, WeightKg: 1.5, Price: 24, Currency: "USD"},
	}
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a paid order with recomputed totals", func(t *testing.T) {
		svc, _, _ := newService(t)

		order, err := svc.PlaceOrder(ctx, cart(), buyer("u-1"), "card")
		require.NoError(t, err)

		assert.Equal(t, models.OrderPaid, order.Status)
		assert.Equal(t, "card", order.PaymentMethod)
		assert.InDelta(t, 31.0, order.TotalWeightKg, 1e-9)
		assert.InDelta(t, 368.0, order.TotalPrice, 1e-9)
		assert.True(t, strings.HasPrefix(order.OrderID, "ORD-"))

		stored, err := svc.Get(ctx, order.OrderID)
		require.NoError(t, err)
		assert.Len(t, stored.Items, 2)
		assert.Equal(t, "Dar es Salaam", stored.ShippingAddress.City)
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.PlaceOrder(ctx, nil, buyer("u-1"), "card")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects a buyer with an incomplete address", func(t *testing.T) {
		svc, _, _ := newService(t)
		user := buyer("u-1")
		user.Address.PostalCode = ""
		_, err := svc.PlaceOrder(ctx, cart(), user, "card")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestPay(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := newService(t)

	user := buyer("u-1")
	pending := orders.BuildFromCart(cart(), user)
	pending.Status = models.OrderPending
	require.NoError(t, gdb.Create(pending).Error)

	t.Run("another user cannot pay the order", func(t *testing.T) {
		_, err := svc.Pay(ctx, pending.OrderID, "u-other")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("the owner moves it to paid exactly once", func(t *testing.T) {
		paid, err := svc.Pay(ctx, pending.OrderID, user.UserID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderPaid, paid.Status)

		_, err = svc.Pay(ctx, pending.OrderID, user.UserID)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	order, err := svc.PlaceOrder(ctx, cart(), buyer("u-1"), "card")
	require.NoError(t, err)

	t.Run("walks the forward chain", func(t *testing.T) {
		for _, next := range []models.OrderStatus{models.OrderProcessing, models.OrderShipped, models.OrderDelivered} {
			updated, err := svc.UpdateStatus(ctx, order.OrderID, next)
			require.NoError(t, err)
			assert.Equal(t, next, updated.Status)
		}
	})

	t.Run("refuses to move backwards or to unknown states", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, order.OrderID, models.OrderPending)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		_, err = svc.UpdateStatus(ctx, order.OrderID, models.OrderStatus("cancelled"))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestPendingWeight(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := newService(t)

	weight, err := svc.PendingWeight(ctx)
	require.NoError(t, err)
	assert.Zero(t, weight)

	for i, w := range []float64{12.5, 30} {
		order := orders.BuildFromCart([]models.CartLine{
			{ProductID: "P001", Name: "Crate", Quantity: 1, WeightKg: w, Price: 10, Currency: "USD"},
		}, buyer(fmt.Sprintf("u-%d", i)))
		order.Status = models.OrderPending
		require.NoError(t, gdb.Create(order).Error)
	}
	// paid orders are excluded
	paid := orders.BuildFromCart([]models.CartLine{
		{ProductID: "P002", Name: "Crate", Quantity: 1, WeightKg: 99, Price: 10, Currency: "USD"},
	}, buyer("u-9"))
	paid.Status = models.OrderPaid
	require.NoError(t, gdb.Create(paid).Error)

	weight, err = svc.PendingWeight(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 42.5, weight, 1e-9)
}

func TestAssignShippingPlan(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := newService(t)

	require.NoError(t, gdb.Create(&models.ShippingPlan{
		PlanID: "PLAN-AIR-M", MinWeight: 10, MaxWeight: 50, RatePerKg: 8.5,
		DeliveryTime: "3-5 days", Carrier: "SkyBridge Air",
	}).Error)
	require.NoError(t, gdb.Create(&models.ShippingPlan{
		PlanID: "PLAN-FRT-XL", MinWeight: 1000, MaxWeight: 5000, RatePerKg: 1.2,
		DeliveryTime: "30-45 days", Carrier: "Overland Freight",
	}).Error)

	order, err := svc.PlaceOrder(ctx, cart(), buyer("u-1"), "card") // 31 kg
	require.NoError(t, err)

	t.Run("rejects a plan whose band does not cover the order", func(t *testing.T) {
		_, err := svc.AssignShippingPlan(ctx, order.OrderID, "PLAN-FRT-XL")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("attaches an eligible plan", func(t *testing.T) {
		updated, err := svc.AssignShippingPlan(ctx, order.OrderID, "PLAN-AIR-M")
		require.NoError(t, err)
		require.NotNil(t, updated.ShippingPlan)
		assert.Equal(t, "PLAN-AIR-M", *updated.ShippingPlan)
	})
}

// Package consolidation implements the shared-shipping engine: pooled carts
// are merged into capacity-bounded trucks, and each accepted join emits a
// pending order linked to the truck.
package consolidation

import (
	"context"

	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/orders"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

const PaymentMethodSharedShipping = "shared_shipping"

type Engine struct {
	db     *gorm.DB
	trucks repos.TruckRepo
	orders repos.OrderRepo
	log    *logger.Logger
}

func NewEngine(db *gorm.DB, trucks repos.TruckRepo, orders repos.OrderRepo, baseLog *logger.Logger) *Engine {
	return &Engine{db: db, trucks: trucks, orders: orders, log: baseLog.With("component", "ConsolidationEngine")}
}

// RequestedWeight is the admission-control figure for a cart: the sum of
// per-unit weight times quantity across all lines.
func RequestedWeight(lines []models.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.WeightKg * float64(line.Quantity)
	}
	return total
}

func validateCart(lines []models.CartLine) error {
	if len(lines) == 0 {
		return apperr.New(apperr.KindValidation, "cart is empty")
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return apperr.New(apperr.KindValidation, "line %s: quantity must be positive", line.ProductID)
		}
		if line.WeightKg <= 0 {
			return apperr.New(apperr.KindValidation, "line %s: weight must be positive", line.ProductID)
		}
		if line.Price < 0 {
			return apperr.New(apperr.KindValidation, "line %s: price must not be negative", line.ProductID)
		}
	}
	return nil
}

// JoinTruck merges the cart into the truck's manifest and creates the linked
// pending order. The capacity check and the weight increment are a single
// conditional update, and the manifest append, weight increment and order
// insert commit together or not at all. There are no partial joins: a cart
// either fits entirely or the join is rejected.
func (e *Engine) JoinTruck(ctx context.Context, truckID string, lines []models.CartLine, user *models.User) (*models.Order, error) {
	if err := validateCart(lines); err != nil {
		return nil, err
	}
	requested := RequestedWeight(lines)

	order := orders.BuildFromCart(lines, user)
	order.Status = models.OrderPending
	order.PaymentMethod = PaymentMethodSharedShipping
	order.TruckID = &truckID

	err := e.db.Transaction(func(tx *gorm.DB) error {
		reserved, err := e.trucks.ReserveCapacity(ctx, tx, truckID, requested)
		if err != nil {
			return err
		}
		if !reserved {
			return e.rejectionFor(ctx, tx, truckID, requested)
		}

		items := make([]models.TruckItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.TruckItem{
				Name:     line.Name,
				Quantity: line.Quantity,
				Weight:   line.WeightKg * float64(line.Quantity),
			})
		}
		if err := e.trucks.AppendItems(ctx, tx, truckID, items); err != nil {
			return err
		}
		return e.orders.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("cart joined truck",
		"truck_id", truckID, "order_id", order.OrderID,
		"user_id", user.UserID, "weight_kg", requested)
	return order, nil
}

// rejectionFor classifies a failed conditional update: the truck may be
// missing, no longer collecting, or simply out of capacity.
func (e *Engine) rejectionFor(ctx context.Context, tx *gorm.DB, truckID string, requested float64) error {
	truck, err := e.trucks.GetByTruckID(ctx, tx, truckID)
	if err != nil {
		return err
	}
	if truck.Status != models.TruckCollecting {
		return apperr.New(apperr.KindValidation, "truck %s is %s and no longer accepts joins", truckID, truck.Status)
	}
	remaining := truck.RemainingCapacity()
	return apperr.New(apperr.KindCapacityExceeded,
		"truck %s cannot take %.1f kg, %.1f kg remaining", truckID, requested, remaining).
		WithField("remaining_kg", remaining).
		WithField("requested_kg", requested)
}

// Approve transitions a collecting truck to approved. It is permitted only
// once the truck has reached its capacity ceiling, and is irreversible.
func (e *Engine) Approve(ctx context.Context, truckID string) (*models.Truck, error) {
	approved, err := e.trucks.Approve(ctx, nil, truckID)
	if err != nil {
		return nil, err
	}
	if !approved {
		truck, err := e.trucks.GetByTruckID(ctx, nil, truckID)
		if err != nil {
			return nil, err
		}
		if truck.Status != models.TruckCollecting {
			return nil, apperr.New(apperr.KindValidation, "truck %s is already %s", truckID, truck.Status)
		}
		needed := truck.MaxWeight - truck.CurrentWeight
		return nil, apperr.New(apperr.KindNotReady,
			"truck %s needs %.1f kg more before approval", truckID, needed).
			WithField("needed_kg", needed)
	}

	e.log.Info("truck approved for dispatch", "truck_id", truckID)
	return e.trucks.GetByTruckID(ctx, nil, truckID)
}

// Dispatch and Deliver advance the post-approval legs of the truck lifecycle.
func (e *Engine) Dispatch(ctx context.Context, truckID string) error {
	return e.advance(ctx, truckID, models.TruckApproved, models.TruckInTransit)
}

func (e *Engine) Deliver(ctx context.Context, truckID string) error {
	return e.advance(ctx, truckID, models.TruckInTransit, models.TruckDelivered)
}

func (e *Engine) advance(ctx context.Context, truckID string, from, to models.TruckStatus) error {
	truck, err := e.trucks.GetByTruckID(ctx, nil, truckID)
	if err != nil {
		return err
	}
	if truck.Status != from {
		return apperr.New(apperr.KindValidation, "truck %s is %s, expected %s", truckID, truck.Status, from)
	}
	return e.trucks.SetStatus(ctx, nil, truckID, to)
}


// Package orders covers the standalone (non-pooled) order lifecycle: checkout,
// tracking, status transitions and shipping-plan assignment.
package orders

import (
	"context"
	"strings"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

// Notifier sends customer-facing mail. Delivery failures are logged, never
// surfaced to the caller.
type Notifier interface {
	SendOrderConfirmation(email, name string, order *models.Order) error
	SendStatusUpdate(email, name string, order *models.Order) error
}

type Service struct {
	orders   repos.OrderRepo
	plans    repos.ShippingPlanRepo
	notifier Notifier
	log      *logger.Logger
}

func NewService(orders repos.OrderRepo, plans repos.ShippingPlanRepo, notifier Notifier, baseLog *logger.Logger) *Service {
	return &Service{
		orders:   orders,
		plans:    plans,
		notifier: notifier,
		log:      baseLog.With("component", "OrderService"),
	}
}

// PlaceOrder creates a standalone paid order from a resolved cart.
func (s *Service) PlaceOrder(ctx context.Context, lines []models.CartLine, user *models.User, paymentMethod string) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, apperr.New(apperr.KindValidation, "cart is empty")
	}
	for _, line := range lines {
		if line.Quantity <= 0 || line.WeightKg <= 0 {
			return nil, apperr.New(apperr.KindValidation, "line %s: quantity and weight must be positive", line.ProductID)
		}
	}
	order := BuildFromCart(lines, user)
	if err := validateShippingAddress(order.ShippingAddress); err != nil {
		return nil, err
	}
	if err := validateContactInfo(order.ContactInfo); err != nil {
		return nil, err
	}
	order.Status = models.OrderPaid
	order.PaymentMethod = paymentMethod

	if err := s.orders.Create(ctx, nil, order); err != nil {
		return nil, err
	}
	s.log.Info("order placed", "order_id", order.OrderID, "user_id", user.UserID, "total", order.TotalPrice)

	go func(order models.Order) {
		if err := s.notifier.SendOrderConfirmation(order.ContactInfo.Email, order.ContactInfo.Name, &order); err != nil {
			s.log.Warn("order confirmation mail failed", "order_id", order.OrderID, "err", err)
		}
	}(*order)

	return order, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return s.orders.GetByOrderID(ctx, nil, orderID)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*models.Order, error) {
	return s.orders.ListByUser(ctx, nil, userID)
}

func (s *Service) ListByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.New(apperr.KindValidation, "unknown order status %q", status)
	}
	return s.orders.ListByStatus(ctx, nil, status)
}

// Pay transitions a pending order (typically a shared-shipping join) to paid.
func (s *Service) Pay(ctx context.Context, orderID, userID string) (*models.Order, error) {
	order, err := s.orders.GetByOrderID(ctx, nil, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperr.New(apperr.KindNotFound, "order %s not found", orderID)
	}
	return s.transition(ctx, order, models.OrderPaid)
}

// UpdateStatus performs an explicit admin status transition and notifies the
// customer.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.GetByOrderID(ctx, nil, orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, next)
}

func (s *Service) transition(ctx context.Context, order *models.Order, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, apperr.New(apperr.KindValidation, "unknown order status %q", next)
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, apperr.New(apperr.KindValidation, "order %s cannot move from %s to %s", order.OrderID, order.Status, next)
	}
	if err := s.orders.UpdateStatus(ctx, nil, order.OrderID, next); err != nil {
		return nil, err
	}
	order.Status = next
	s.log.Info("order status updated", "order_id", order.OrderID, "status", next)

	go func(order models.Order) {
		if err := s.notifier.SendStatusUpdate(order.ContactInfo.Email, order.ContactInfo.Name, &order); err != nil {
			s.log.Warn("status mail failed", "order_id", order.OrderID, "err", err)
		}
	}(*order)

	return order, nil
}

// PendingWeight reports the total weight awaiting shipment across all
// pending orders.
func (s *Service) PendingWeight(ctx context.Context) (float64, error) {
	return s.orders.SumWeightByStatus(ctx, nil, models.OrderPending)
}

// AssignShippingPlan attaches a rate plan to an order after verifying the
// plan's weight band contains the order's total weight.
func (s *Service) AssignShippingPlan(ctx context.Context, orderID, planID string) (*models.Order, error) {
	order, err := s.orders.GetByOrderID(ctx, nil, orderID)
	if err != nil {
		return nil, err
	}
	eligible, err := s.plans.ListEligible(ctx, nil, order.TotalWeightKg)
	if err != nil {
		return nil, err
	}
	var match *models.ShippingPlan
	for _, plan := range eligible {
		if plan.PlanID == planID {
			match = plan
			break
		}
	}
	if match == nil {
		return nil, apperr.New(apperr.KindValidation,
			"plan %s does not cover %.1f kg", planID, order.TotalWeightKg)
	}
	if err := s.orders.AssignShippingPlan(ctx, nil, orderID, planID); err != nil {
		return nil, err
	}
	order.ShippingPlan = &planID
	return order, nil
}

func validateShippingAddress(addr models.ShippingAddress) error {
	missing := []string{}
	for field, value := range map[string]string{
		"street": addr.Street, "city": addr.City, "state": addr.State,
		"postal_code": addr.PostalCode, "country": addr.Country,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return apperr.New(apperr.KindValidation, "shipping address incomplete")
	}
	return nil
}

func validateContactInfo(contact models.ContactInfo) error {
	if strings.TrimSpace(contact.Name) == "" || strings.TrimSpace(contact.Email) == "" {
		return apperr.New(apperr.KindValidation, "contact info requires name and email")
	}
	if !strings.Contains(contact.Email, "@") {
		return apperr.New(apperr.KindValidation, "contact email is malformed")
	}
	return nil
}

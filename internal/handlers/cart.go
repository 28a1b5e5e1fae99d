package handlers

import (
	"context"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

// CartItemRequest is the wire shape of a cart row; weight and price come from
// the catalog, never from the client.
type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

func resolveCart(ctx context.Context, products repos.ProductRepo, items []CartItemRequest) ([]models.CartLine, error) {
	if len(items) == 0 {
		return nil, apperr.New(apperr.KindValidation, "cart is empty")
	}

	lines := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		product, err := products.GetByProductID(ctx, nil, item.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.CartLine{
			ProductID: product.ProductID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			WeightKg:  product.WeightKg,
			Price:     product.Price,
			Currency:  product.Currency,
		})
	}
	return lines, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

type ProductHandler struct {
	products repos.ProductRepo
}

func NewProductHandler(products repos.ProductRepo) *ProductHandler {
	return &ProductHandler{products: products}
}

// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	list, err := h.products.ListAll(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/products/:product_id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.GetByProductID(c.Request.Context(), nil, c.Param("product_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

package handler

import (
	"github.com/Nitesh-Kashyap/Bill-desk/internal/application/service"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ProductHandler serves the catalog the billing screen picks from
type ProductHandler struct {
	billingService *service.BillingService
}

// NewProductHandler creates a new product handler
func NewProductHandler(billingService *service.BillingService) *ProductHandler {
	return &ProductHandler{billingService: billingService}
}

// List handles listing every product with its price and stock
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.billingService.ListProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products retrieved successfully", products)
}

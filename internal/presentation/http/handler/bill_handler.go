package handler

import (
	"errors"
	"net/http"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/application/service"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/dto/request"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/dto/response"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/apperror"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billingService *service.BillingService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billingService *service.BillingService) *BillHandler {
	return &BillHandler{billingService: billingService}
}

// Create handles submitting a cart as a new bill
func (h *BillHandler) Create(c *gin.Context) {
	cashier, ok := GetCashier(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	req, err := bindCreateBill(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	discount, err := req.Discount()
	if err != nil {
		response.Error(c, err)
		return
	}

	bill, err := h.billingService.CreateBill(c.Request.Context(), &service.CreateBillInput{
		Cashier:  cashier,
		Lines:    req.CartLines(),
		Discount: discount,
	})
	if err != nil {
		if bill != nil && errors.Is(err, apperror.ErrRenderFailure) {
			response.SuccessWithWarning(c, http.StatusCreated, "Bill created but invoice generation failed", bill,
				"Invoice could not be generated; retry with POST /api/v1/bills/:id/invoice")
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// bindCreateBill reads a JSON cart or a form post with parallel product_id and quantity lists
func bindCreateBill(c *gin.Context) (*request.CreateBillRequest, error) {
	var req request.CreateBillRequest

	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperror.NewBadRequestError("Invalid request body: " + err.Error())
		}
		return &req, nil
	}

	items, err := request.ItemsFromForm(c.PostFormArray("product_id"), c.PostFormArray("quantity"))
	if err != nil {
		return nil, err
	}
	req.Items = items
	req.DiscountType = c.PostForm("discount_type")
	req.DiscountValue = request.DiscountValue(c.PostForm("discount_value"))
	return &req, nil
}

// List handles the bill history of the authenticated user
func (h *BillHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var filter request.ListBillsRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.billingService.ListBills(c.Request.Context(), *userID, &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Bills retrieved successfully", result)
}

// Get handles getting a single bill with its items
func (h *BillHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	billID, ok := parseBillID(c)
	if !ok {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	detail, err := h.billingService.GetBill(c.Request.Context(), billID, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", detail)
}

// RenderInvoice handles regenerating the invoice of a bill
func (h *BillHandler) RenderInvoice(c *gin.Context) {
	cashier, ok := GetCashier(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	billID, ok := parseBillID(c)
	if !ok {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	detail, err := h.billingService.RenderInvoice(c.Request.Context(), billID, cashier)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice generated successfully", detail)
}

// DownloadInvoice streams the stored invoice PDF of a bill
func (h *BillHandler) DownloadInvoice(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	billID, ok := parseBillID(c)
	if !ok {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	key, data, err := h.billingService.DownloadInvoice(c.Request.Context(), billID, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+key+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

package handler

import (
	"github.com/Nitesh-Kashyap/Bill-desk/internal/application/service"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/dto/request"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus()
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		// the receipt is still useful when no printer is attached
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{
		"receipt": receipt,
	})
}

// PrintBill prints the thermal receipt of a bill.
func (h *PrinterHandler) PrintBill(c *gin.Context) {
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

	var req request.PrintBillRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request: "+err.Error())
			return
		}
	}
	if req.Cashier != "" {
		cashier.Name = req.Cashier
	}

	receipt, err := h.printerService.PrintBillReceipt(c.Request.Context(), billID, cashier)
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}

package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/enum"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/apperror"
	"github.com/shopspring/decimal"
)

// BillItemRequest is one cart line of a bill submission
type BillItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// DiscountValue accepts the discount as a JSON number or a numeric string
type DiscountValue string

// UnmarshalJSON keeps the raw text of the value so it can be parsed as a decimal
func (v *DiscountValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = DiscountValue(s)
		return nil
	}
	*v = DiscountValue(data)
	return nil
}

// CreateBillRequest represents a bill submission.
// JSON bodies carry items; form posts carry parallel product_id and quantity lists.
type CreateBillRequest struct {
	Items         []BillItemRequest `json:"items" binding:"dive"`
	DiscountType  string            `json:"discount_type" form:"discount_type"`
	DiscountValue DiscountValue     `json:"discount_value" form:"discount_value"`
}

// CartLines returns the submitted lines in order
func (r *CreateBillRequest) CartLines() []entity.CartLine {
	lines := make([]entity.CartLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, entity.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

// Discount parses the discount fields. A blank value means no discount.
func (r *CreateBillRequest) Discount() (entity.Discount, error) {
	dt, err := enum.ParseDiscountType(r.DiscountType)
	if err != nil {
		return entity.Discount{}, apperror.NewInvalidDiscountError(fmt.Sprintf("Unknown discount type %q", r.DiscountType))
	}

	raw := strings.TrimSpace(string(r.DiscountValue))
	if raw == "" {
		return entity.Discount{Type: dt, Value: decimal.Zero}, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return entity.Discount{}, apperror.NewInvalidDiscountError("Discount must be a number")
	}
	return entity.Discount{Type: dt, Value: value}, nil
}

// ItemsFromForm pairs the parallel product_id and quantity lists of a form post.
// Blank quantities count as zero and are dropped later with the other empty lines.
func ItemsFromForm(productIDs, quantities []string) ([]BillItemRequest, error) {
	if len(productIDs) != len(quantities) {
		return nil, apperror.NewBadRequestError("product_id and quantity lists must have the same length")
	}

	items := make([]BillItemRequest, 0, len(productIDs))
	for i := range productIDs {
		id, err := strconv.ParseUint(strings.TrimSpace(productIDs[i]), 10, 64)
		if err != nil {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid product_id %q", productIDs[i]))
		}

		qty := 0
		if q := strings.TrimSpace(quantities[i]); q != "" {
			qty, err = strconv.Atoi(q)
			if err != nil {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid quantity %q", quantities[i]))
			}
		}
		items = append(items, BillItemRequest{ProductID: uint(id), Quantity: qty})
	}
	return items, nil
}

// ListBillsRequest represents bill history query parameters
type ListBillsRequest struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// PrintBillRequest optionally overrides the cashier name printed on the receipt
type PrintBillRequest struct {
	Cashier string `json:"cashier" binding:"omitempty,max=255"`
}

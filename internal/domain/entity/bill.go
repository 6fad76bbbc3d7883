package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrBillImmutable is returned by the ORM hooks when anything tries to change an issued bill
var ErrBillImmutable = errors.New("bills are immutable once issued")

var hundred = decimal.NewFromInt(100)

// CartLine is one product/quantity pair of an incoming cart. It is never persisted.
type CartLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Discount is the bill-level discount entered at the till
type Discount struct {
	Type  enum.DiscountType `json:"type"`
	Value decimal.Decimal   `json:"value"`
}

// AmountFor resolves the discount to money for the given subtotal
func (d Discount) AmountFor(subtotal decimal.Decimal) decimal.Decimal {
	if d.Type.IsPercent() {
		return d.Value.Mul(subtotal).Div(hundred)
	}
	return d.Value
}

// Label is the caption of the discount row on printed documents
func (d Discount) Label() string {
	if d.Type.IsPercent() {
		return fmt.Sprintf("Discount (%s%%)", d.Value.String())
	}
	return "Discount"
}

// GrandTotal applies a resolved discount; the result never goes below zero
func GrandTotal(subtotal, discountAmount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discountAmount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// FormatMoney renders an amount with two decimal places
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Bill is an issued invoice. Its items and totals never change after commit.
type Bill struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	DiscountType  enum.DiscountType `gorm:"size:16;not null;default:'amount'" json:"discount_type"`
	DiscountValue decimal.Decimal   `gorm:"type:decimal(20,6);not null;default:0" json:"-"`
	Subtotal      decimal.Decimal   `gorm:"type:decimal(20,6);not null" json:"-"`
	Total         decimal.Decimal   `gorm:"type:decimal(20,6);not null" json:"-"`
	CreatedAt     time.Time         `gorm:"not null;index" json:"created_at"`

	Items []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// Discount returns the discount the bill was issued with
func (b *Bill) Discount() Discount {
	return Discount{Type: b.DiscountType, Value: b.DiscountValue}
}

// DiscountAmount is the resolved monetary discount of the bill
func (b *Bill) DiscountAmount() decimal.Decimal {
	return b.Discount().AmountFor(b.Subtotal)
}

// MarshalJSON renders money as two-decimal strings for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		DiscountValue  string `json:"discount_value"`
		DiscountAmount string `json:"discount_amount"`
		Subtotal       string `json:"subtotal"`
		Total          string `json:"total"`
	}{
		Alias:          Alias(b),
		DiscountValue:  b.DiscountValue.String(),
		DiscountAmount: FormatMoney(b.DiscountAmount()),
		Subtotal:       FormatMoney(b.Subtotal),
		Total:          FormatMoney(b.Total),
	})
}

// BeforeUpdate refuses to rewrite an issued bill
func (b *Bill) BeforeUpdate(tx *gorm.DB) error {
	return ErrBillImmutable
}

// BeforeDelete refuses to remove an issued bill
func (b *Bill) BeforeDelete(tx *gorm.DB) error {
	return ErrBillImmutable
}

// BillItem is a line of a bill with the product name and price frozen at sale time
type BillItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	BillID    uint            `gorm:"not null;index" json:"bill_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	LineTotal decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"-"`
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

// MarshalJSON renders money as two-decimal strings for API responses
func (bi BillItem) MarshalJSON() ([]byte, error) {
	type Alias BillItem
	return json.Marshal(&struct {
		Alias
		Price     string `json:"price"`
		LineTotal string `json:"line_total"`
	}{
		Alias:     Alias(bi),
		Price:     FormatMoney(bi.Price),
		LineTotal: FormatMoney(bi.LineTotal),
	})
}

// BeforeUpdate refuses to rewrite an issued bill line
func (bi *BillItem) BeforeUpdate(tx *gorm.DB) error {
	return ErrBillImmutable
}

// BeforeDelete refuses to remove an issued bill line
func (bi *BillItem) BeforeDelete(tx *gorm.DB) error {
	return ErrBillImmutable
}

// NewBillItem prices a line from a catalog snapshot
func NewBillItem(p *Product, qty int) BillItem {
	return BillItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
		LineTotal: p.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// DraftBill is a validated, fully priced bill that has not been persisted yet
type DraftBill struct {
	Lines          []BillItem
	Discount       Discount
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// NewDraftBill totals the given lines and applies the discount. An empty discount
// type is a flat amount.
func NewDraftBill(lines []BillItem, discount Discount) *DraftBill {
	if discount.Type == "" {
		discount.Type = enum.DiscountTypeAmount
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	amount := discount.AmountFor(subtotal)
	return &DraftBill{
		Lines:          lines,
		Discount:       discount,
		Subtotal:       subtotal,
		DiscountAmount: amount,
		Total:          GrandTotal(subtotal, amount),
	}
}

// ToBill turns the draft into the rows to insert for userID
func (d *DraftBill) ToBill(userID uuid.UUID, at time.Time) *Bill {
	items := make([]BillItem, len(d.Lines))
	copy(items, d.Lines)
	return &Bill{
		UserID:        userID,
		DiscountType:  d.Discount.Type,
		DiscountValue: d.Discount.Value,
		Subtotal:      d.Subtotal,
		Total:         d.Total,
		CreatedAt:     at,
		Items:         items,
	}
}

// ErrInvalidQuantity is returned for a non-positive line quantity or a per-product
// total that does not fit in an int
var ErrInvalidQuantity = errors.New("invalid line quantity")

// Quantities sums requested units per product
func (d *DraftBill) Quantities() (map[uint]int, error) {
	q := make(map[uint]int, len(d.Lines))
	for _, l := range d.Lines {
		if l.Quantity <= 0 || l.Quantity > math.MaxInt-q[l.ProductID] {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, l.ProductID)
		}
		q[l.ProductID] += l.Quantity
	}
	return q, nil
}

// BillSummary is a bill header as shown in the history listing
type BillSummary struct {
	ID            uint              `json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	DiscountType  enum.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal   `json:"-"`
	Subtotal      decimal.Decimal   `json:"-"`
	Total         decimal.Decimal   `json:"-"`
}

// MarshalJSON renders money as two-decimal strings for API responses
func (s BillSummary) MarshalJSON() ([]byte, error) {
	type Alias BillSummary
	return json.Marshal(&struct {
		Alias
		DiscountValue  string `json:"discount_value"`
		DiscountAmount string `json:"discount_amount"`
		Subtotal       string `json:"subtotal"`
		Total          string `json:"total"`
	}{
		Alias:          Alias(s),
		DiscountValue:  s.DiscountValue.String(),
		DiscountAmount: FormatMoney(Discount{Type: s.DiscountType, Value: s.DiscountValue}.AmountFor(s.Subtotal)),
		Subtotal:       FormatMoney(s.Subtotal),
		Total:          FormatMoney(s.Total),
	})
}

// BillDetail is a bill with its lines plus whether its invoice can be downloaded
type BillDetail struct {
	Bill             *Bill  `json:"bill"`
	InvoiceKey       string `json:"invoice_key"`
	InvoiceAvailable bool   `json:"invoice_available"`
}

// InvoiceKey is the artifact name of a bill's rendered invoice
func InvoiceKey(billID uint) string {
	return fmt.Sprintf("INVOICE-%d.pdf", billID)
}

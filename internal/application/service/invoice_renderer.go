package service

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/apperror"
	"github.com/phpdave11/gofpdf"
)

const invoiceTitle = "Shopkeeper Billing - Invoice"

// table geometry in mm
const (
	colItem      = 80.0
	colPrice     = 30.0
	colQty       = 30.0
	colLineTotal = 40.0
	colLabel     = colItem + colPrice + colQty
	rowHeight    = 8.0
)

// InvoiceRenderer lays a persisted bill out as a printable PDF invoice
type InvoiceRenderer struct{}

// NewInvoiceRenderer creates a new invoice renderer
func NewInvoiceRenderer() *InvoiceRenderer {
	return &InvoiceRenderer{}
}

// Layout builds the document a bill is printed as. It depends only on the bill,
// so the same bill always lays out the same way.
func (r *InvoiceRenderer) Layout(bill *entity.Bill, issuedTo string) entity.InvoiceDocument {
	doc := entity.InvoiceDocument{
		Title:          invoiceTitle,
		InvoiceNo:      strconv.FormatUint(uint64(bill.ID), 10),
		IssuedTo:       issuedTo,
		Rows:           make([]entity.InvoiceRow, 0, len(bill.Items)),
		Subtotal:       entity.FormatMoney(bill.Subtotal),
		DiscountLabel:  bill.Discount().Label(),
		DiscountAmount: entity.FormatMoney(bill.DiscountAmount()),
		GrandTotal:     entity.FormatMoney(bill.Total),
	}
	for _, item := range bill.Items {
		doc.Rows = append(doc.Rows, entity.InvoiceRow{
			Item:      item.Name,
			Price:     entity.FormatMoney(item.Price),
			Quantity:  strconv.Itoa(item.Quantity),
			LineTotal: entity.FormatMoney(item.LineTotal),
		})
	}
	return doc
}

// Render produces the PDF bytes of a bill's invoice
func (r *InvoiceRenderer) Render(bill *entity.Bill, issuedTo string) ([]byte, error) {
	if bill == nil || bill.ID == 0 {
		return nil, apperror.NewRenderError(fmt.Errorf("bill is not persisted"))
	}
	doc := r.Layout(bill, issuedTo)

	pdf := gofpdf.New("P", "mm", "A4", "")
	// fixed metadata keeps the output byte-stable for a given bill
	pdf.SetCreationDate(bill.CreatedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(fmt.Sprintf("Invoice %s", doc.InvoiceNo), true)
	pdf.SetCreator("Bill-desk", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, rowHeight, "Invoice #: "+doc.InvoiceNo, "", 1, "", false, 0, "")
	pdf.CellFormat(0, rowHeight, "Issued to: "+tr(doc.IssuedTo), "", 1, "", false, 0, "")
	pdf.Ln(rowHeight)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(colItem, rowHeight, "Item", "1", 0, "", false, 0, "")
	pdf.CellFormat(colPrice, rowHeight, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colQty, rowHeight, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colLineTotal, rowHeight, "Line Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	for _, row := range doc.Rows {
		pdf.CellFormat(colItem, rowHeight, tr(row.Item), "1", 0, "", false, 0, "")
		pdf.CellFormat(colPrice, rowHeight, row.Price, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colQty, rowHeight, row.Quantity, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colLineTotal, rowHeight, row.LineTotal, "1", 1, "R", false, 0, "")
	}

	totalRow := func(style, label, value string) {
		pdf.SetFont("Arial", style, 12)
		pdf.CellFormat(colLabel, rowHeight, label, "1", 0, "", false, 0, "")
		pdf.CellFormat(colLineTotal, rowHeight, value, "1", 1, "R", false, 0, "")
	}
	totalRow("B", "Subtotal", doc.Subtotal)
	totalRow("", doc.DiscountLabel, doc.DiscountAmount)
	totalRow("B", "Grand Total", doc.GrandTotal)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperror.NewRenderError(err)
	}
	return buf.Bytes(), nil
}

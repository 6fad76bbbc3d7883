package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/apperror"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/printer"
	"go.uber.org/zap"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	billRepo    repository.BillRepository
	header      entity.ReceiptHeader
	printerType string
	width       int
	logger      *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	billRepo repository.BillRepository,
	header entity.ReceiptHeader,
	printerType string,
	width int,
	logger *zap.Logger,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		billRepo:    billRepo,
		header:      header,
		printerType: printerType,
		width:       width,
		logger:      logger,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// The receipt is returned either way so it can be shown when no printer is attached.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:    entity.ReceiptHeader{StoreName: "PRINTER TEST"},
		InvoiceNo: "TEST",
		Date:      "-",
		Cashier:   "System",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: "10.00", Total: "10.00"},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: "5.00", Total: "10.00"},
		},
		SubTotal:       "20.00",
		DiscountLabel:  "Discount",
		DiscountAmount: "0.00",
		Total:          "20.00",
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// PrintBillReceipt prints the receipt of a bill owned by the cashier.
func (s *PrinterService) PrintBillReceipt(ctx context.Context, billID uint, cashier Cashier) (*entity.Receipt, error) {
	bill, err := s.billRepo.GetForUser(ctx, billID, cashier.ID)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	receipt := NewBillReceipt(bill, s.header, cashier.Name)
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		s.logger.Error("printer error", zap.Uint("bill_id", bill.ID), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// NewBillReceipt composes the receipt of a persisted bill.
func NewBillReceipt(bill *entity.Bill, header entity.ReceiptHeader, cashier string) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:         header,
		InvoiceNo:      strconv.FormatUint(uint64(bill.ID), 10),
		Date:           bill.CreatedAt.Format("2006-01-02 15:04"),
		Cashier:        cashier,
		Items:          make([]entity.ReceiptItem, 0, len(bill.Items)),
		SubTotal:       entity.FormatMoney(bill.Subtotal),
		DiscountLabel:  bill.Discount().Label(),
		DiscountAmount: entity.FormatMoney(bill.DiscountAmount()),
		Total:          entity.FormatMoney(bill.Total),
	}
	for _, item := range bill.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: entity.FormatMoney(item.Price),
			Total:     entity.FormatMoney(item.LineTotal),
		})
	}
	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Invoice #:", r.InvoiceNo).
		KeyValue("Date:", r.Date)
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, item.Total)
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", item.UnitPrice)
		}
	}

	doc.Separator('-').
		KeyValue("Subtotal:", r.SubTotal).
		KeyValue(r.DiscountLabel+":", r.DiscountAmount).
		SetBold(true).
		KeyValue("TOTAL:", r.Total).
		SetBold(false).
		Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for shopping with us!").
		LineFeed().
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/enum"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/apperror"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func cashier() Cashier {
	return Cashier{ID: uuid.New(), Name: "asha"}
}

func TestBillingServiceCreateBill(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	user := cashier()

	bill, err := f.service.CreateBill(ctx, &CreateBillInput{
		Cashier: user,
		Lines: []entity.CartLine{
			{ProductID: f.catalog.milk.ID, Quantity: 3},
			{ProductID: f.catalog.bread.ID, Quantity: 2},
		},
		Discount: entity.Discount{Type: enum.DiscountTypePercent, Value: decimal.NewFromInt(10)},
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if entity.FormatMoney(bill.Total) != "228.60" {
		t.Fatalf("unexpected total %s", bill.Total)
	}
	if stockOf(t, f.db, f.catalog.milk.ID) != 47 || stockOf(t, f.db, f.catalog.bread.ID) != 28 {
		t.Fatal("unexpected stock after billing")
	}

	detail, err := f.service.GetBill(ctx, bill.ID, user.ID)
	if err != nil {
		t.Fatalf("get bill: %v", err)
	}
	if !detail.InvoiceAvailable || detail.InvoiceKey != entity.InvoiceKey(bill.ID) {
		t.Fatalf("invoice should be available: %+v", detail)
	}
	if len(detail.Bill.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(detail.Bill.Items))
	}

	key, data, err := f.service.DownloadInvoice(ctx, bill.ID, user.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if key != entity.InvoiceKey(bill.ID) || !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("unexpected artifact %s (%d bytes)", key, len(data))
	}

	if len(f.publisher.events) != 1 || f.publisher.events[0].BillID != bill.ID || f.publisher.events[0].Total != "228.60" {
		t.Fatalf("expected one BillCreated event, got %+v", f.publisher.events)
	}
}

func TestBillingServiceCreateBillValidationWritesNothing(t *testing.T) {
	f := newBillingFixture(t)

	tests := []struct {
		name    string
		input   *CreateBillInput
		wantErr error
	}{
		{
			name:    "empty cart",
			input:   &CreateBillInput{Cashier: cashier(), Discount: noDiscount()},
			wantErr: apperror.ErrEmptyCart,
		},
		{
			name: "insufficient stock",
			input: &CreateBillInput{
				Cashier:  cashier(),
				Lines:    []entity.CartLine{{ProductID: f.catalog.milk.ID, Quantity: 1}, {ProductID: f.catalog.sugar.ID, Quantity: 2}},
				Discount: noDiscount(),
			},
			wantErr: apperror.ErrInsufficientStock,
		},
		{
			name: "invalid discount",
			input: &CreateBillInput{
				Cashier:  cashier(),
				Lines:    []entity.CartLine{{ProductID: f.catalog.milk.ID, Quantity: 1}},
				Discount: entity.Discount{Type: enum.DiscountTypeAmount, Value: decimal.NewFromInt(-3)},
			},
			wantErr: apperror.ErrInvalidDiscount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill, err := f.service.CreateBill(context.Background(), tt.input)
			if bill != nil {
				t.Fatal("no bill expected")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if countRows(t, f.db, &entity.Bill{}) != 0 {
		t.Fatal("validation failures must not create bills")
	}
	if stockOf(t, f.db, f.catalog.milk.ID) != 50 || stockOf(t, f.db, f.catalog.sugar.ID) != 1 {
		t.Fatal("validation failures must not change stock")
	}
	if len(f.publisher.events) != 0 {
		t.Fatal("no events for failed bills")
	}
}

func TestBillingServiceRenderFailureKeepsBill(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	user := cashier()
	f.store.setBroken(true)

	bill, err := f.service.CreateBill(ctx, &CreateBillInput{
		Cashier:  user,
		Lines:    []entity.CartLine{{ProductID: f.catalog.bread.ID, Quantity: 1}},
		Discount: noDiscount(),
	})
	if !errors.Is(err, apperror.ErrRenderFailure) {
		t.Fatalf("expected RenderFailure, got %v", err)
	}
	if bill == nil || bill.ID == 0 {
		t.Fatal("the committed bill must be returned with a render failure")
	}
	if stockOf(t, f.db, f.catalog.bread.ID) != 29 {
		t.Fatal("a render failure must not undo the stock decrement")
	}

	detail, err := f.service.GetBill(ctx, bill.ID, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.InvoiceAvailable {
		t.Fatal("invoice should not be available yet")
	}
	if _, _, err := f.service.DownloadInvoice(ctx, bill.ID, user.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected NotFound for a missing invoice, got %v", err)
	}

	// retry once storage recovers
	f.store.setBroken(false)
	detail, err = f.service.RenderInvoice(ctx, bill.ID, user)
	if err != nil {
		t.Fatalf("re-render: %v", err)
	}
	if !detail.InvoiceAvailable {
		t.Fatal("invoice should be available after re-render")
	}
	if countRows(t, f.db, &entity.Bill{}) != 1 {
		t.Fatal("re-rendering must not create another bill")
	}
	if stockOf(t, f.db, f.catalog.bread.ID) != 29 {
		t.Fatal("re-rendering must not touch stock")
	}
}

func TestBillingServicePublishFailureIsIgnored(t *testing.T) {
	f := newBillingFixture(t)
	f.publisher.err = errors.New("broker unreachable")

	bill, err := f.service.CreateBill(context.Background(), &CreateBillInput{
		Cashier:  cashier(),
		Lines:    []entity.CartLine{{ProductID: f.catalog.milk.ID, Quantity: 1}},
		Discount: noDiscount(),
	})
	if err != nil || bill == nil {
		t.Fatalf("publishing is best effort, got %v", err)
	}
}

func TestBillingServiceOtherUsersBillsLookMissing(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	owner, stranger := cashier(), cashier()

	bill, err := f.service.CreateBill(ctx, &CreateBillInput{
		Cashier:  owner,
		Lines:    []entity.CartLine{{ProductID: f.catalog.milk.ID, Quantity: 1}},
		Discount: noDiscount(),
	})
	if err != nil {
		t.Fatal(err)
	}

	_, foreignErr := f.service.GetBill(ctx, bill.ID, stranger.ID)
	_, missingErr := f.service.GetBill(ctx, 987654, stranger.ID)
	if !errors.Is(foreignErr, apperror.ErrNotFound) || !errors.Is(missingErr, apperror.ErrNotFound) {
		t.Fatalf("expected NotFound for both, got %v and %v", foreignErr, missingErr)
	}
	if foreignErr.Error() != missingErr.Error() {
		t.Fatalf("foreign and missing bills must be indistinguishable: %q vs %q", foreignErr, missingErr)
	}

	if _, _, err := f.service.DownloadInvoice(ctx, bill.ID, stranger.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("download of a foreign invoice: %v", err)
	}
	if _, err := f.service.RenderInvoice(ctx, bill.ID, stranger); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("re-render of a foreign bill: %v", err)
	}
}

func TestBillingServiceListBills(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	user := cashier()

	for i := 0; i < 3; i++ {
		if _, err := f.service.CreateBill(ctx, &CreateBillInput{
			Cashier:  user,
			Lines:    []entity.CartLine{{ProductID: f.catalog.milk.ID, Quantity: i + 1}},
			Discount: noDiscount(),
		}); err != nil {
			t.Fatal(err)
		}
	}

	res, err := f.service.ListBills(ctx, user.ID, &pagination.PaginationParams{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 3 || res.Pagination.Total != 3 {
		t.Fatalf("expected 3 bills, got %d (total %d)", len(res.Items), res.Pagination.Total)
	}
	if res.Items[0].ID < res.Items[2].ID {
		t.Fatal("expected most recent bill first")
	}

	empty, err := f.service.ListBills(ctx, uuid.New(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty.Items) != 0 || empty.Pagination.Total != 0 {
		t.Fatal("a new user has no bills")
	}
}

func TestBillingServiceListProducts(t *testing.T) {
	f := newBillingFixture(t)
	products, err := f.service.ListProducts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 3 || products[0].Name != "Bread Loaf" {
		t.Fatalf("expected catalog ordered by name, got %+v", products)
	}
}

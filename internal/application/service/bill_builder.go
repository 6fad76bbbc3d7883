package service

import (
	"context"
	"fmt"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/enum"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/apperror"
)

// BillBuilder validates a cart against the catalog and prices it
type BillBuilder struct {
	productRepo repository.ProductRepository
}

// NewBillBuilder creates a new bill builder
func NewBillBuilder(productRepo repository.ProductRepository) *BillBuilder {
	return &BillBuilder{productRepo: productRepo}
}

// ValidateDiscount rejects negative discounts and unknown discount types.
// An empty type is a flat amount.
func ValidateDiscount(d entity.Discount) error {
	if d.Type != "" && !d.Type.IsPercent() && d.Type != enum.DiscountTypeAmount {
		return apperror.NewInvalidDiscountError(fmt.Sprintf("Unknown discount type %q", d.Type))
	}
	if d.Value.IsNegative() {
		return apperror.NewInvalidDiscountError("Discount cannot be negative")
	}
	return nil
}

// Build turns cart lines into a priced draft. Lines with a non-positive quantity or an
// unknown product are skipped; the first line that asks for more than is in stock fails
// the whole cart.
func (b *BillBuilder) Build(ctx context.Context, lines []entity.CartLine, discount entity.Discount) (*entity.DraftBill, error) {
	if err := ValidateDiscount(discount); err != nil {
		return nil, err
	}
	if discount.Type == "" {
		discount.Type = enum.DiscountTypeAmount
	}

	// Batch fetch all referenced products
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]bool, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 || seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		ids = append(ids, l.ProductID)
	}

	products, err := b.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.NewPersistenceError(fmt.Errorf("failed to load products: %w", err))
	}
	productMap := make(map[uint]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	items := make([]entity.BillItem, 0, len(lines))
	requested := make(map[uint]int, len(products))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		product, ok := productMap[l.ProductID]
		if !ok {
			continue
		}
		if !product.CanSell(requested[product.ID], l.Quantity) {
			return nil, apperror.NewInsufficientStockError(product.ID, product.Name, product.Stock)
		}
		requested[product.ID] += l.Quantity
		items = append(items, entity.NewBillItem(product, l.Quantity))
	}

	if len(items) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	return entity.NewDraftBill(items, discount), nil
}

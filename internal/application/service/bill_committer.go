package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/apperror"
	"github.com/google/uuid"
)

// BillCommitter persists a draft bill and its stock movements in one transaction
type BillCommitter struct {
	uow repository.UnitOfWork
	now func() time.Time
}

// NewBillCommitter creates a new bill committer
func NewBillCommitter(uow repository.UnitOfWork) *BillCommitter {
	return &BillCommitter{uow: uow, now: time.Now}
}

// Commit decrements stock for every line, then writes the bill and its items.
// Either everything is stored or nothing is.
func (c *BillCommitter) Commit(ctx context.Context, draft *entity.DraftBill, userID uuid.UUID) (*entity.Bill, error) {
	if draft == nil || len(draft.Lines) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	if userID == uuid.Nil {
		return nil, apperror.NewBadRequestError("A bill must belong to a user")
	}
	quantities, err := draft.Quantities()
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	bill := draft.ToBill(userID, c.now().UTC())

	err = c.uow.Do(ctx, func(repos repository.TxRepositories) error {
		// Conditional decrement: WHERE stock >= qty, so concurrent bills cannot oversell
		failedIDs, err := repos.Products.AtomicDecrementBatch(ctx, quantities)
		if err != nil {
			return apperror.NewPersistenceError(fmt.Errorf("failed to update stock: %w", err))
		}
		if len(failedIDs) > 0 {
			return c.shortage(ctx, repos.Products, draft, failedIDs)
		}

		if err := repos.Bills.Create(ctx, bill); err != nil {
			return apperror.NewPersistenceError(fmt.Errorf("failed to insert bill: %w", err))
		}
		return nil
	})
	if err != nil {
		var stockErr *apperror.InsufficientStockError
		if errors.As(err, &stockErr) || apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewPersistenceError(err)
	}

	return bill, nil
}

// shortage reports the first cart line, in cart order, whose product could not be decremented
func (c *BillCommitter) shortage(ctx context.Context, products repository.ProductRepository, draft *entity.DraftBill, failedIDs []uint) error {
	failed := make(map[uint]bool, len(failedIDs))
	for _, id := range failedIDs {
		failed[id] = true
	}

	var productID uint
	name := ""
	for _, l := range draft.Lines {
		if failed[l.ProductID] {
			productID, name = l.ProductID, l.Name
			break
		}
	}

	product, err := products.GetByID(ctx, productID)
	if err != nil {
		return apperror.NewPersistenceError(fmt.Errorf("failed to reload product %d: %w", productID, err))
	}
	if product == nil {
		// removed from the catalog after the cart was priced
		return apperror.NewInsufficientStockError(productID, name, 0)
	}
	return apperror.NewInsufficientStockError(product.ID, product.Name, product.Stock)
}

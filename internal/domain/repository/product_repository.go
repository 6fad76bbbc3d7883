package repository

import (
	"context"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
)

// ProductRepository is the catalog surface billing depends on: reads plus stock decrements
type ProductRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uint) ([]entity.Product, error)
	// List returns the whole catalog ordered by name
	List(ctx context.Context) ([]entity.Product, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, products []entity.Product) error
	// AtomicDecrementBatch decrements stock for every product only if each has enough.
	// Returns the IDs that could not be decremented; when any fail nothing is changed.
	AtomicDecrementBatch(ctx context.Context, decrements map[uint]int) (failedIDs []uint, err error)
}

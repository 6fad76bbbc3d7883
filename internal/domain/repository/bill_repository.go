package repository

import (
	"context"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/pagination"
	"github.com/google/uuid"
)

// BillRepository stores issued bills. Issued bills are never updated or deleted.
type BillRepository interface {
	// Create inserts the bill header and then its items
	Create(ctx context.Context, bill *entity.Bill) error
	// GetForUser returns the bill with its items, or nil when it does not exist
	// or belongs to another user
	GetForUser(ctx context.Context, id uint, userID uuid.UUID) (*entity.Bill, error)
	// ListForUser returns the user's bills, most recent first
	ListForUser(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.BillSummary, int64, error)
}

// TxRepositories are repositories bound to one database transaction
type TxRepositories struct {
	Products ProductRepository
	Bills    BillRepository
}

// UnitOfWork runs fn inside a single transaction. Returning an error from fn rolls
// back every write made through the given repositories.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos TxRepositories) error) error
}

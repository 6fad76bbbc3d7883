package repository

import (
	"context"
	"errors"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	domainRepo "github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// Create inserts the header first so the items can reference its id
func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(bill).Error; err != nil {
		return err
	}
	if len(bill.Items) == 0 {
		return nil
	}
	for i := range bill.Items {
		bill.Items[i].BillID = bill.ID
	}
	return db.Create(&bill.Items).Error
}

func (r *billRepository) GetForUser(ctx context.Context, id uint, userID uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) ListForUser(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.BillSummary, int64, error) {
	var bills []entity.BillSummary
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).Scopes(OwnedBy(userID))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()
	err := query.Scopes(Paginate(params)).
		Order("created_at DESC").Order("id DESC").
		Find(&bills).Error

	return bills, total, err
}

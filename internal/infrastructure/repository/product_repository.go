package repository

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	domainRepo "github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Take(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uint) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Order("name ASC").Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&total).Error
	return total, err
}

func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&products).Error
}

// errShortStock aborts a decrement batch after at least one guarded update missed
var errShortStock = errors.New("insufficient stock")

// AtomicDecrementBatch takes the given units off each product with
//
//	UPDATE products SET stock = stock - n WHERE id = ? AND stock >= n
//
// in ascending id order, so concurrent batches lock rows in the same order. When any
// guarded update matches no row the whole batch is rolled back and the short
// product ids are returned with a nil error.
func (r *productRepository) AtomicDecrementBatch(ctx context.Context, decrements map[uint]int) ([]uint, error) {
	if len(decrements) == 0 {
		return nil, nil
	}

	for id, n := range decrements {
		if n <= 0 {
			return nil, fmt.Errorf("decrement of product %d must be positive, got %d", id, n)
		}
	}

	var short []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range slices.Sorted(maps.Keys(decrements)) {
			n := decrements[id]
			res := tx.Model(&entity.Product{}).
				Where("id = ? AND stock >= ?", id, n).
				Update("stock", gorm.Expr("stock - ?", n))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				short = append(short, id)
			}
		}
		if len(short) > 0 {
			return errShortStock
		}
		return nil
	})
	if errors.Is(err, errShortStock) {
		return short, nil
	}
	return short, err
}

package repository

import (
	"context"

	domainRepo "github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"gorm.io/gorm"
)

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work that hands out repositories bound to one transaction
func NewUnitOfWork(db *gorm.DB) domainRepo.UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(repos domainRepo.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(domainRepo.TxRepositories{
			Products: NewProductRepository(tx),
			Bills:    NewBillRepository(tx),
		})
	})
}

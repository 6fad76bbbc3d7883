package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	domainRepo "github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/infrastructure/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/infrastructure/storage"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/events"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// a single connection serializes writers the way sqlite would anyway
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&entity.Product{}, &entity.Bill{}, &entity.BillItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type catalog struct {
	milk, bread, sugar entity.Product
}

func seedCatalog(t *testing.T, db *gorm.DB) catalog {
	products := []entity.Product{
		{Name: "Milk 1L", Price: decimal.RequireFromString("58.00"), Stock: 50},
		{Name: "Bread Loaf", Price: decimal.RequireFromString("40.00"), Stock: 30},
		{Name: "Sugar 1kg", Price: decimal.RequireFromString("45.00"), Stock: 1},
	}
	if err := repository.NewProductRepository(db).CreateBatch(context.Background(), products); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return catalog{milk: products[0], bread: products[1], sugar: products[2]}
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	var p entity.Product
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("load product %d: %v", id, err)
	}
	return p.Stock
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

// flakyStore fails writes while broken is set
type flakyStore struct {
	domainRepo.ArtifactStore
	mu     sync.Mutex
	broken bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{ArtifactStore: storage.NewArtifactStore(afero.NewMemMapFs())}
}

func (s *flakyStore) setBroken(b bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken = b
}

func (s *flakyStore) Write(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	broken := s.broken
	s.mu.Unlock()
	if broken {
		return errors.New("disk full")
	}
	return s.ArtifactStore.Write(ctx, key, data)
}

// recordingPublisher keeps published events in memory
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BillCreatedEvent
	err    error
}

func (p *recordingPublisher) PublishBillCreated(ctx context.Context, event events.BillCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type billingFixture struct {
	db        *gorm.DB
	catalog   catalog
	store     *flakyStore
	publisher *recordingPublisher
	service   *BillingService
}

func newBillingFixture(t *testing.T) *billingFixture {
	db := setupTestDB(t)
	f := &billingFixture{
		db:        db,
		catalog:   seedCatalog(t, db),
		store:     newFlakyStore(),
		publisher: &recordingPublisher{},
	}
	f.service = NewBillingService(
		repository.NewProductRepository(db),
		repository.NewBillRepository(db),
		repository.NewUnitOfWork(db),
		f.store,
		f.publisher,
		zap.NewNop(),
	)
	return f
}

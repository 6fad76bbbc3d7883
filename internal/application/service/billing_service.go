package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/apperror"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/events"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/pagination"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/Nitesh-Kashyap/Bill-desk/billing"

// Cashier is the authenticated user a bill is issued by and to
type Cashier struct {
	ID   uuid.UUID
	Name string
}

// CreateBillInput represents the create bill input
type CreateBillInput struct {
	Cashier  Cashier
	Lines    []entity.CartLine
	Discount entity.Discount
}

// BillingService handles bill creation and the bill history
type BillingService struct {
	productRepo repository.ProductRepository
	billRepo    repository.BillRepository
	builder     *BillBuilder
	committer   *BillCommitter
	renderer    *InvoiceRenderer
	artifacts   repository.ArtifactStore
	publisher   events.Publisher
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewBillingService creates a new billing service
func NewBillingService(
	productRepo repository.ProductRepository,
	billRepo repository.BillRepository,
	uow repository.UnitOfWork,
	artifacts repository.ArtifactStore,
	publisher events.Publisher,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		productRepo: productRepo,
		billRepo:    billRepo,
		builder:     NewBillBuilder(productRepo),
		committer:   NewBillCommitter(uow),
		renderer:    NewInvoiceRenderer(),
		artifacts:   artifacts,
		publisher:   publisher,
		logger:      logger,
		tracer:      otel.Tracer(tracerName),
	}
}

// ListProducts returns the catalog ordered by name
func (s *BillingService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	return products, nil
}

// CreateBill prices the cart, commits the bill and renders its invoice.
// When only the invoice step fails the committed bill is returned alongside a
// render error so the caller can retry the invoice without billing twice.
func (s *BillingService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
	ctx, span := s.tracer.Start(ctx, "billing.create_bill",
		trace.WithAttributes(
			attribute.String("user.id", input.Cashier.ID.String()),
			attribute.Int("cart.lines", len(input.Lines)),
			attribute.String("discount.type", input.Discount.Type.String()),
		),
	)
	defer span.End()

	draft, err := s.builder.Build(ctx, input.Lines, input.Discount)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	bill, err := s.committer.Commit(ctx, draft, input.Cashier.ID)
	if err != nil {
		recordError(span, err)
		if !errors.Is(err, apperror.ErrInsufficientStock) {
			s.logger.Error("failed to commit bill", zap.String("user_id", input.Cashier.ID.String()), zap.Error(err))
		}
		return nil, err
	}
	span.SetAttributes(
		attribute.Int64("bill.id", int64(bill.ID)),
		attribute.String("bill.total", entity.FormatMoney(bill.Total)),
	)
	s.logger.Info("bill committed",
		zap.Uint("bill_id", bill.ID),
		zap.String("user_id", bill.UserID.String()),
		zap.Int("items", len(bill.Items)),
		zap.String("total", entity.FormatMoney(bill.Total)),
	)

	renderErr := s.storeInvoice(ctx, bill, input.Cashier.Name)
	s.publishCreated(ctx, bill)

	if renderErr != nil {
		recordError(span, renderErr)
		s.logger.Error("bill saved but invoice not generated", zap.Uint("bill_id", bill.ID), zap.Error(renderErr))
		return bill, renderErr
	}
	return bill, nil
}

// RenderInvoice renders the invoice of an existing bill again and replaces the stored copy
func (s *BillingService) RenderInvoice(ctx context.Context, billID uint, cashier Cashier) (*entity.BillDetail, error) {
	ctx, span := s.tracer.Start(ctx, "billing.render_invoice",
		trace.WithAttributes(attribute.Int64("bill.id", int64(billID))),
	)
	defer span.End()

	bill, err := s.ownedBill(ctx, billID, cashier.ID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	if err := s.storeInvoice(ctx, bill, cashier.Name); err != nil {
		recordError(span, err)
		s.logger.Error("invoice re-render failed", zap.Uint("bill_id", bill.ID), zap.Error(err))
		return nil, err
	}

	return &entity.BillDetail{
		Bill:             bill,
		InvoiceKey:       entity.InvoiceKey(bill.ID),
		InvoiceAvailable: true,
	}, nil
}

// ListBills returns the user's bills, most recent first
func (s *BillingService) ListBills(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.BillSummary], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	bills, total, err := s.billRepo.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}

	return pagination.NewPaginatedResult(bills, params, total), nil
}

// GetBill returns a bill with its items and whether its invoice is available
func (s *BillingService) GetBill(ctx context.Context, billID uint, userID uuid.UUID) (*entity.BillDetail, error) {
	bill, err := s.ownedBill(ctx, billID, userID)
	if err != nil {
		return nil, err
	}

	key := entity.InvoiceKey(bill.ID)
	exists, err := s.artifacts.Exists(ctx, key)
	if err != nil {
		s.logger.Warn("failed to check invoice artifact", zap.String("key", key), zap.Error(err))
		exists = false
	}

	return &entity.BillDetail{
		Bill:             bill,
		InvoiceKey:       key,
		InvoiceAvailable: exists,
	}, nil
}

// DownloadInvoice returns the stored invoice of a bill owned by userID
func (s *BillingService) DownloadInvoice(ctx context.Context, billID uint, userID uuid.UUID) (string, []byte, error) {
	bill, err := s.ownedBill(ctx, billID, userID)
	if err != nil {
		return "", nil, err
	}

	key := entity.InvoiceKey(bill.ID)
	data, err := s.artifacts.Read(ctx, key)
	if errors.Is(err, repository.ErrArtifactNotFound) {
		return "", nil, apperror.NewNotFoundError("Invoice")
	}
	if err != nil {
		return "", nil, apperror.NewPersistenceError(err)
	}
	return key, data, nil
}

// ownedBill loads a bill; another user's bill is reported exactly like a missing one
func (s *BillingService) ownedBill(ctx context.Context, billID uint, userID uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetForUser(ctx, billID, userID)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

func (s *BillingService) storeInvoice(ctx context.Context, bill *entity.Bill, issuedTo string) error {
	data, err := s.renderer.Render(bill, issuedTo)
	if err != nil {
		return err
	}
	if err := s.artifacts.Write(ctx, entity.InvoiceKey(bill.ID), data); err != nil {
		return apperror.NewRenderError(fmt.Errorf("failed to store invoice: %w", err))
	}
	return nil
}

// publishCreated announces a committed bill. Failures are logged only.
func (s *BillingService) publishCreated(ctx context.Context, bill *entity.Bill) {
	event := events.BillCreatedEvent{
		EventID:    uuid.New(),
		BillID:     bill.ID,
		UserID:     bill.UserID,
		ItemCount:  len(bill.Items),
		Subtotal:   entity.FormatMoney(bill.Subtotal),
		Discount:   entity.FormatMoney(bill.DiscountAmount()),
		Total:      entity.FormatMoney(bill.Total),
		InvoiceKey: entity.InvoiceKey(bill.ID),
		CreatedAt:  bill.CreatedAt,
	}
	if err := s.publisher.PublishBillCreated(ctx, event); err != nil {
		s.logger.Warn("failed to publish bill event", zap.Uint("bill_id", bill.ID), zap.Error(err))
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

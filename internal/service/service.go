package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/domain/model/event"
)

type ServiceError error

var (
	ErrEmptyCart        ServiceError = errors.New("cart is empty")
	ErrCheckoutInFlight ServiceError = errors.New("checkout already in flight")
	ErrProductNotFound  ServiceError = errors.New("product not found")
	ErrStaleResponse    ServiceError = errors.New("response superseded by a newer request")
	ErrCardNotFound     ServiceError = errors.New("card not found")
)

type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
}

type HistoryAPI interface {
	History(ctx context.Context) ([]model.Order, error)
}

type PaymentAPI interface {
	Pay(ctx context.Context, req model.PayRequest, idempotencyKey string) (model.PayResponse, error)
	InvoiceURL(orderID int64) string
}

type ProductAPI interface {
	SaveProduct(ctx context.Context, req model.SaveProductRequest) (model.SaveProductResponse, error)
}

// CatalogMirror 目錄快照的外部備份, 目前由 redis 實作
type CatalogMirror interface {
	Save(ctx context.Context, products []model.Product) error
	Load(ctx context.Context) ([]model.Product, error)
}

type OrderEventPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, evt *event.CheckoutCompletedEvent) error
}

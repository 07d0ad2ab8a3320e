package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/domain/model/event"
	"github.com/RoyceAzure/lab/pos/internal/pkg/util"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const publishTimeout = 5 * time.Second

// PendingCheckout 送出結帳當下的購物車快照
type PendingCheckout struct {
	CustomerName   string
	Items          []model.CartItem
	ClientTotal    decimal.Decimal
	IdempotencyKey string
}

type CheckoutService struct {
	api             PaymentAPI
	publisher       OrderEventPublisher
	defaultCustomer string
	logger          *zerolog.Logger

	inFlight atomic.Bool
	wg       sync.WaitGroup
}

// publisher 可為 nil
func NewCheckoutService(api PaymentAPI, publisher OrderEventPublisher, defaultCustomer string, logger *zerolog.Logger) *CheckoutService {
	if !util.HasImplementation(api) {
		panic("checkout service requires payment api")
	}
	if util.IsNil(publisher) {
		publisher = nil
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &CheckoutService{
		api:             api,
		publisher:       publisher,
		defaultCustomer: defaultCustomer,
		logger:          logger,
	}
}

func (s *CheckoutService) InFlight() bool {
	return s.inFlight.Load()
}

// CustomerName 空白時回傳預設的散客名稱
func (s *CheckoutService) CustomerName(name string) string {
	return util.FirstNonBlank(name, s.defaultCustomer)
}

// Submit 同一時間只允許一筆結帳, 結束後無論成功失敗都會釋放
func (s *CheckoutService) Submit(ctx context.Context, pending PendingCheckout) (*model.Receipt, error) {
	if len(pending.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInFlight
	}
	defer s.inFlight.Store(false)

	req := model.PayRequest{
		CustomerName: s.CustomerName(pending.CustomerName),
		Items:        pending.Items,
	}
	resp, err := s.api.Pay(ctx, req, pending.IdempotencyKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", pending.IdempotencyKey).Msg("checkout failed")
		return nil, err
	}

	receipt := &model.Receipt{
		OrderID:    resp.OrderID,
		InvoiceURL: s.api.InvoiceURL(resp.OrderID),
		Total:      resp.Total,
	}
	s.logger.Info().
		Int64("order_id", resp.OrderID).
		Str("total", resp.Total.String()).
		Str("client_total", pending.ClientTotal.String()).
		Msg("checkout completed")

	s.publish(req, pending, resp)
	return receipt, nil
}

// publish 非同步送出事件, 失敗只記 log
func (s *CheckoutService) publish(req model.PayRequest, pending PendingCheckout, resp model.PayResponse) {
	if s.publisher == nil {
		return
	}
	evt := &event.CheckoutCompletedEvent{
		EventID:      util.NewRequestID(),
		OrderID:      resp.OrderID,
		CustomerName: req.CustomerName,
		Items:        req.Items,
		ClientTotal:  pending.ClientTotal,
		ServerTotal:  resp.Total,
		CreatedAt:    time.Now(),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.publisher.PublishCheckoutCompleted(ctx, evt); err != nil {
			s.logger.Error().Err(err).Int64("order_id", evt.OrderID).Msg("failed to publish checkout event")
		}
	}()
}

// Wait 等待背景的事件發佈完成
func (s *CheckoutService) Wait() {
	s.wg.Wait()
}

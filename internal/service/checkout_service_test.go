package service

import (
	"context"
	"errors"
	"testing"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/infra/api"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pending(items ...model.CartItem) PendingCheckout {
	return PendingCheckout{Items: items, ClientTotal: decimal.NewFromInt(40000), IdempotencyKey: "key-1"}
}

func TestSubmitEmptyCartMakesNoCall(t *testing.T) {
	pay := &countingPaymentAPI{}
	s := NewCheckoutService(pay, nil, "Khách lẻ", nil)
	_, err := s.Submit(context.Background(), pending())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, pay.Calls())
}

func TestSubmitDefaultsCustomerAndPublishes(t *testing.T) {
	pay := &countingPaymentAPI{resp: model.PayResponse{Success: true, OrderID: 7, Total: decimal.NewFromInt(40000)}}
	pub := &recordingPublisher{}
	s := NewCheckoutService(pay, pub, "Khách lẻ", nil)

	receipt, err := s.Submit(context.Background(), pending(model.CartItem{ID: 1, Quantity: 2}))
	require.NoError(t, err)
	assert.Equal(t, int64(7), receipt.OrderID)
	assert.Equal(t, "http://pos.local/invoice/7", receipt.InvoiceURL)
	assert.Equal(t, "Khách lẻ", pay.lastReq.CustomerName)
	assert.Equal(t, "key-1", pay.lastKey)
	assert.False(t, s.InFlight())

	s.Wait()
	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, int64(7), events[0].OrderID)
	assert.Equal(t, "Khách lẻ", events[0].CustomerName)
}

func TestSubmitPublishErrorIsNotSurfaced(t *testing.T) {
	pay := &countingPaymentAPI{resp: model.PayResponse{Success: true, OrderID: 1}}
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := NewCheckoutService(pay, pub, "Khách lẻ", nil)

	_, err := s.Submit(context.Background(), pending(model.CartItem{ID: 1, Quantity: 1}))
	assert.NoError(t, err)
	s.Wait()
	assert.Len(t, pub.Events(), 1)
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	pay := &countingPaymentAPI{
		resp:    model.PayResponse{Success: true, OrderID: 1},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	s := NewCheckoutService(pay, nil, "Khách lẻ", nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), pending(model.CartItem{ID: 1, Quantity: 1}))
		done <- err
	}()
	<-pay.started
	assert.True(t, s.InFlight())

	_, err := s.Submit(context.Background(), pending(model.CartItem{ID: 1, Quantity: 1}))
	assert.ErrorIs(t, err, ErrCheckoutInFlight)

	close(pay.block)
	require.NoError(t, <-done)
	assert.False(t, s.InFlight())
	assert.Equal(t, 1, pay.Calls())
}

func TestSubmitReleasesGuardOnFailure(t *testing.T) {
	pay := &countingPaymentAPI{err: &api.RejectionError{Op: "pay", Message: "Hết hàng"}}
	s := NewCheckoutService(pay, nil, "Khách lẻ", nil)

	_, err := s.Submit(context.Background(), pending(model.CartItem{ID: 1, Quantity: 1}))
	rej, ok := api.IsRejection(err)
	require.True(t, ok)
	assert.Equal(t, "Hết hàng", rej.Message)
	assert.False(t, s.InFlight())
}

func TestCustomerName(t *testing.T) {
	s := NewCheckoutService(&countingPaymentAPI{}, nil, "Walk-in", nil)
	assert.Equal(t, "Walk-in", s.CustomerName("  "))
	assert.Equal(t, "Bình", s.CustomerName("Bình"))
}

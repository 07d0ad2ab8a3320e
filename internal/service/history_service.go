package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/pkg/util"
)

// HistoryService 最近訂單, 與目錄相同的 token 機制
type HistoryService struct {
	api   HistoryAPI
	token atomic.Uint64

	mu     sync.RWMutex
	orders []model.Order
}

func NewHistoryService(api HistoryAPI) *HistoryService {
	if !util.HasImplementation(api) {
		panic("history service requires history api")
	}
	return &HistoryService{api: api}
}

func (s *HistoryService) Load(ctx context.Context) ([]model.Order, error) {
	tok := s.token.Add(1)
	orders, err := s.api.History(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.token.Load() {
		return nil, ErrStaleResponse
	}
	if err != nil {
		return nil, err
	}
	s.orders = append([]model.Order(nil), orders...)
	return s.copyOrders(), nil
}

func (s *HistoryService) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyOrders()
}

func (s *HistoryService) copyOrders() []model.Order {
	out := make([]model.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

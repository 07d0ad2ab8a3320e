package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/pkg/util"
	"github.com/rs/zerolog"
)

type CatalogListener func(products []model.Product)

// CatalogService 商品目錄快取
// 每次 Load 取得遞增 token, 回應時 token 已不是最新的就丟棄
type CatalogService struct {
	api    CatalogAPI
	mirror CatalogMirror
	logger *zerolog.Logger

	token atomic.Uint64

	mu        sync.RWMutex
	products  []model.Product
	index     map[int64]int
	loaded    bool
	listeners []CatalogListener
}

// mirror 可為 nil
func NewCatalogService(api CatalogAPI, mirror CatalogMirror, logger *zerolog.Logger) *CatalogService {
	if !util.HasImplementation(api) {
		panic("catalog service requires catalog api")
	}
	if util.IsNil(mirror) {
		mirror = nil
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &CatalogService{api: api, mirror: mirror, logger: logger, index: map[int64]int{}}
}

// OnChange 快照被替換後依註冊順序呼叫
func (s *CatalogService) OnChange(fn CatalogListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load 失敗時保留原本的快照
func (s *CatalogService) Load(ctx context.Context) ([]model.Product, error) {
	tok := s.token.Add(1)
	products, err := s.api.ListProducts(ctx)

	s.mu.Lock()
	if tok != s.token.Load() {
		s.mu.Unlock()
		s.logger.Debug().Uint64("token", tok).Msg("discard stale catalog response")
		return nil, ErrStaleResponse
	}
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.replace(products)
	s.loaded = true
	listeners := append([]CatalogListener(nil), s.listeners...)
	snapshot := s.copyProducts()
	s.mu.Unlock()

	s.logger.Info().Int("count", len(products)).Msg("catalog loaded")
	for _, fn := range listeners {
		fn(snapshot)
	}
	if s.mirror != nil {
		if err := s.mirror.Save(ctx, snapshot); err != nil {
			s.logger.Warn().Err(err).Msg("failed to mirror catalog snapshot")
		}
	}
	return snapshot, nil
}

// WarmStart 尚未成功載入前, 先以外部快照填入目錄
func (s *CatalogService) WarmStart(ctx context.Context) (bool, error) {
	if s.mirror == nil {
		return false, nil
	}
	tok := s.token.Load()
	products, err := s.mirror.Load(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.loaded || tok != s.token.Load() {
		s.mu.Unlock()
		return false, nil
	}
	s.replace(products)
	listeners := append([]CatalogListener(nil), s.listeners...)
	snapshot := s.copyProducts()
	s.mu.Unlock()

	s.logger.Info().Int("count", len(products)).Msg("catalog warm started from snapshot")
	for _, fn := range listeners {
		fn(snapshot)
	}
	return true, nil
}

func (s *CatalogService) Lookup(id int64) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Product{}, false
	}
	return s.products[i], true
}

func (s *CatalogService) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyProducts()
}

// Loaded 是否曾經從 API 成功載入
func (s *CatalogService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *CatalogService) replace(products []model.Product) {
	s.products = append([]model.Product(nil), products...)
	s.index = make(map[int64]int, len(products))
	for i, p := range s.products {
		s.index[p.ID] = i
	}
}

func (s *CatalogService) copyProducts() []model.Product {
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

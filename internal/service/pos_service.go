package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/RoyceAzure/lab/pos/internal/domain/cart"
	"github.com/RoyceAzure/lab/pos/internal/domain/grid"
	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/pkg/util"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// POSView 畫面需要的全部狀態
type POSView struct {
	Categories   []string
	Category     string
	Grid         grid.Grid
	Lines        []model.CartLine
	Total        decimal.Decimal
	TotalText    string
	CustomerName string
	History      []model.Order
	CatalogErr   error
	HistoryErr   error
	CheckoutBusy bool
}

// POSService 收銀頁面的狀態擁有者, 所有修改都經過這裡
type POSService struct {
	catalog  *CatalogService
	history  *HistoryService
	checkout *CheckoutService
	logger   *zerolog.Logger

	mu           sync.Mutex
	cart         *cart.Cart
	category     string
	customerName string
	catalogErr   error
	historyErr   error
}

func NewPOSService(catalog *CatalogService, history *HistoryService, checkout *CheckoutService, logger *zerolog.Logger) *POSService {
	if catalog == nil || history == nil || checkout == nil {
		panic("pos service requires catalog, history and checkout services")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	s := &POSService{
		catalog:  catalog,
		history:  history,
		checkout: checkout,
		logger:   logger,
		cart:     cart.NewCart(catalog),
		category: grid.AllCategory,
	}
	catalog.OnChange(s.onCatalogChange)
	return s
}

func (s *POSService) onCatalogChange(products []model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogErr = nil
}

// LoadPage 同時載入目錄與歷史訂單, 兩者的錯誤各自記錄
func (s *POSService) LoadPage(ctx context.Context) error {
	var catalogErr, historyErr error
	var g errgroup.Group
	g.Go(func() error {
		catalogErr = s.ReloadCatalog(ctx)
		return nil
	})
	g.Go(func() error {
		historyErr = s.ReloadHistory(ctx)
		return nil
	})
	_ = g.Wait()
	return multierr.Combine(catalogErr, historyErr)
}

func (s *POSService) ReloadCatalog(ctx context.Context) error {
	_, err := s.catalog.Load(ctx)
	if errors.Is(err, ErrStaleResponse) {
		return nil
	}
	if err != nil {
		s.mu.Lock()
		s.catalogErr = err
		s.mu.Unlock()
		return fmt.Errorf("load catalog: %w", err)
	}
	return nil
}

func (s *POSService) ReloadHistory(ctx context.Context) error {
	_, err := s.history.Load(ctx)
	if errors.Is(err, ErrStaleResponse) {
		return nil
	}
	s.mu.Lock()
	s.historyErr = err
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	return nil
}

func (s *POSService) SelectCategory(category string) {
	if category == "" {
		category = grid.AllCategory
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
}

// SelectCard 單一 variant 直接加入購物車, 多個 variant 回傳選項
func (s *POSService) SelectCard(section, card int) (grid.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := grid.BuildGrid(s.catalog.Products(), s.category).CardAt(section, card)
	if !ok {
		return grid.Selection{}, fmt.Errorf("section %d card %d: %w", section, card, ErrCardNotFound)
	}
	sel := c.Select()
	if sel.Direct != nil {
		s.cart.AddLine(sel.Direct.ID)
	}
	return sel, nil
}

func (s *POSService) AddLine(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := s.cart.AddLine(productID)
	if !added {
		s.logger.Debug().Int64("product_id", productID).Msg("ignore unknown product")
	}
	return added
}

func (s *POSService) AdjustQuantity(index, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.AdjustQuantity(index, delta)
}

func (s *POSService) RemoveLine(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.RemoveLine(index)
}

func (s *POSService) SetCustomerName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerName = name
}

// Checkout 成功後清空購物車與客戶名稱並重新載入歷史訂單
// 失敗時購物車維持原狀
func (s *POSService) Checkout(ctx context.Context, idempotencyKey string) (*model.Receipt, error) {
	s.mu.Lock()
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}
	pending := PendingCheckout{
		CustomerName:   s.customerName,
		Items:          s.cart.Items(),
		ClientTotal:    s.cart.Total(),
		IdempotencyKey: idempotencyKey,
	}
	s.mu.Unlock()

	receipt, err := s.checkout.Submit(ctx, pending)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cart.Clear()
	s.customerName = ""
	s.mu.Unlock()

	if err := s.ReloadHistory(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to refresh history after checkout")
	}
	return receipt, nil
}

func (s *POSService) View() POSView {
	products := s.catalog.Products()
	orders := s.history.Orders()

	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.cart.Total()
	return POSView{
		Categories:   grid.Categories(products),
		Category:     s.category,
		Grid:         grid.BuildGrid(products, s.category),
		Lines:        s.cart.Lines(),
		Total:        total,
		TotalText:    util.FormatCurrency(total),
		CustomerName: s.customerName,
		History:      orders,
		CatalogErr:   s.catalogErr,
		HistoryErr:   s.historyErr,
		CheckoutBusy: s.checkout.InFlight(),
	}
}

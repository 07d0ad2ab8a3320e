package service

import (
	"context"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/domain/model/event"
	"github.com/RoyceAzure/lab/pos/internal/infra/api"
	"github.com/RoyceAzure/lab/pos/internal/stubserver"
	"github.com/shopspring/decimal"
)

// newStubAPI 啟動記憶體 stub server 並回傳指向它的 client
func newStubAPI(t *testing.T, seed []model.Product) (*api.Client, *stubserver.Store, *httptest.Server) {
	t.Helper()
	store := stubserver.NewStore(seed)
	srv := httptest.NewServer(stubserver.SetupRouter(stubserver.NewHandler(store), stubserver.RouterOptions{}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL), store, srv
}

func testProducts() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Coffee", Price: decimal.NewFromInt(20000), Category: "Drinks", Subcategory: "Hot"},
		{ID: 2, Name: "Coffee", Price: decimal.NewFromInt(25000), Category: "Drinks", Subcategory: "Hot", Variant: "Large"},
		{ID: 3, Name: "Tea", Price: decimal.NewFromInt(15000), Category: "Drinks", Subcategory: "Hot"},
		{ID: 4, Name: "Cake", Price: decimal.NewFromInt(30000), Category: "Food"},
	}
}

// gatedCatalogAPI 每次呼叫依序取用預先設定的回應, gate 不為 nil 時等待放行
type gatedCatalogAPI struct {
	mu      sync.Mutex
	calls   int
	results []catalogResult
}

type catalogResult struct {
	products []model.Product
	err      error
	gate     chan struct{}
	started  chan struct{}
}

func (g *gatedCatalogAPI) ListProducts(ctx context.Context) ([]model.Product, error) {
	g.mu.Lock()
	r := g.results[g.calls]
	g.calls++
	g.mu.Unlock()
	if r.started != nil {
		close(r.started)
	}
	if r.gate != nil {
		<-r.gate
	}
	return r.products, r.err
}

type memoryMirror struct {
	mu       sync.Mutex
	products []model.Product
	saves    int
	loadErr  error
}

func (m *memoryMirror) Save(ctx context.Context, products []model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append([]model.Product(nil), products...)
	m.saves++
	return nil
}

func (m *memoryMirror) Load(ctx context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]model.Product(nil), m.products...), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*event.CheckoutCompletedEvent
	err    error
}

func (p *recordingPublisher) PublishCheckoutCompleted(ctx context.Context, evt *event.CheckoutCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Events() []*event.CheckoutCompletedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*event.CheckoutCompletedEvent(nil), p.events...)
}

// countingPaymentAPI 記錄呼叫次數, block 不為 nil 時等待放行
type countingPaymentAPI struct {
	mu      sync.Mutex
	calls   int
	lastReq model.PayRequest
	lastKey string
	resp    model.PayResponse
	err     error
	block   chan struct{}
	started chan struct{}
}

func (p *countingPaymentAPI) Pay(ctx context.Context, req model.PayRequest, key string) (model.PayResponse, error) {
	p.mu.Lock()
	p.calls++
	p.lastReq = req
	p.lastKey = key
	p.mu.Unlock()
	if p.started != nil {
		close(p.started)
	}
	if p.block != nil {
		<-p.block
	}
	return p.resp, p.err
}

func (p *countingPaymentAPI) InvoiceURL(orderID int64) string {
	return "http://pos.local/invoice/" + strconv.FormatInt(orderID, 10)
}

func (p *countingPaymentAPI) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

package stubserver

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoValidItems    = errors.New("no valid items")
)

const historyLimit = 10

// invoiceLine 結帳當下的價格快照, 重印發票用
type invoiceLine struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Total    decimal.Decimal
}

type storedOrder struct {
	model.Order
	lines []invoiceLine
}

// Store 記憶體內的商品與訂單
type Store struct {
	mu          sync.RWMutex
	products    []model.Product
	orders      []storedOrder
	nextProduct int64
	nextOrder   int64
	now         func() time.Time
}

func NewStore(seed []model.Product) *Store {
	s := &Store{nextProduct: 1, nextOrder: 1, now: time.Now}
	for _, p := range seed {
		if p.ID == 0 {
			p.ID = s.nextProduct
		}
		if p.ID >= s.nextProduct {
			s.nextProduct = p.ID + 1
		}
		s.products = append(s.products, p)
	}
	return s
}

// DefaultProducts 開發用的初始商品
func DefaultProducts() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Cà phê đen", Price: decimal.NewFromInt(25000), Category: "Đồ uống", Subcategory: "Cà phê"},
		{ID: 2, Name: "Bạc xỉu", Price: decimal.NewFromInt(35000), Category: "Đồ uống", Subcategory: "Cà phê"},
		{ID: 3, Name: "Bạc xỉu", Price: decimal.NewFromInt(45000), Category: "Đồ uống", Subcategory: "Cà phê", Variant: "Lớn"},
		{ID: 4, Name: "Trà đào", Price: decimal.NewFromInt(40000), Category: "Đồ uống", Subcategory: "Trà"},
		{ID: 5, Name: "Bánh mì", Price: decimal.NewFromInt(20000), Category: "Đồ ăn"},
	}
}

func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Save id 為 nil 時新增, 否則更新既有商品
func (s *Store) Save(id *int64, p model.Product) (model.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == nil {
		p.ID = s.nextProduct
		s.nextProduct++
		s.products = append(s.products, p)
		return p, true, nil
	}
	for i := range s.products {
		if s.products[i].ID == *id {
			p.ID = *id
			s.products[i] = p
			return p, false, nil
		}
	}
	return model.Product{}, false, ErrProductNotFound
}

// Pay 以商品目前價格重新計算總額, 不認得的 id 略過
func (s *Store) Pay(customerName string, items []model.CartItem) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	var lines []invoiceLine
	for _, it := range items {
		p, ok := s.lookup(it.ID)
		if !ok || it.Quantity <= 0 {
			continue
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(lineTotal)
		lines = append(lines, invoiceLine{Name: p.Name, Price: p.Price, Quantity: it.Quantity, Total: lineTotal})
	}
	if len(lines) == 0 {
		return model.Order{}, ErrNoValidItems
	}

	o := storedOrder{
		Order: model.Order{
			ID:           s.nextOrder,
			CustomerName: customerName,
			TotalAmount:  total,
			CreatedAt:    s.now().Format(model.OrderTimeLayout),
		},
		lines: lines,
	}
	s.nextOrder++
	s.orders = append(s.orders, o)
	return o.Order, nil
}

// History 最新的 10 筆, id 由大到小
func (s *Store) History() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.Order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > historyLimit {
		out = out[:historyLimit]
	}
	return out
}

func (s *Store) order(id int64) (storedOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return storedOrder{}, false
}

func (s *Store) lookup(id int64) (model.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

package model

import (
	"github.com/shopspring/decimal"
)

// Product 目錄中的商品, client 端只讀
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	Variant     string          `json:"variant,omitempty"`
}

// CartLine 購物車的一行, 以 product id 作為識別
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartItem 送往 /api/pay 的最小項目, 不帶價格
type CartItem struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

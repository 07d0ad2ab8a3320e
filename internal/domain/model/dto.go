package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type PayRequest struct {
	CustomerName string     `json:"customer_name"`
	Items        []CartItem `json:"items"`
}

type PayResponse struct {
	Success bool            `json:"success"`
	OrderID int64           `json:"order_id,omitempty"`
	Message string          `json:"message,omitempty"`
	Total   decimal.Decimal `json:"total"`
}

// SaveProductRequest id 為 nil 時表示新增, json 會輸出 null
type SaveProductRequest struct {
	ID          *int64      `json:"id"`
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Category    string      `json:"category,omitempty"`
	Subcategory string      `json:"subcategory,omitempty"`
	Variant     string      `json:"variant,omitempty"`
}

type SaveProductResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Receipt 結帳成功後給畫面使用
type Receipt struct {
	OrderID    int64
	InvoiceURL string
	Total      decimal.Decimal
}

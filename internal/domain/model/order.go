package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// server 端 created_at 的格式
const OrderTimeLayout = "2006-01-02 15:04:05"

// Order 歷史訂單, 唯讀
type Order struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreatedAt    string          `json:"created_at"`
}

// CreatedTime 解析 created_at, 格式不符時 ok 為 false
func (o Order) CreatedTime() (t time.Time, ok bool) {
	t, err := time.ParseInLocation(OrderTimeLayout, o.CreatedAt, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

package event

import (
	"time"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/shopspring/decimal"
)

type EventType string

const CheckoutCompletedEventName EventType = "CheckoutCompleted"

// CheckoutCompletedEvent 結帳成功後發佈, client_total 只供對帳參考, 以 server 的 total 為準
type CheckoutCompletedEvent struct {
	EventID      string           `json:"event_id"`
	OrderID      int64            `json:"order_id"`
	CustomerName string           `json:"customer_name"`
	Items        []model.CartItem `json:"items"`
	ClientTotal  decimal.Decimal  `json:"client_total"`
	ServerTotal  decimal.Decimal  `json:"server_total"`
	CreatedAt    time.Time        `json:"created_at"`
}

func (e *CheckoutCompletedEvent) Type() EventType {
	return CheckoutCompletedEventName
}

package cart

import (
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/shopspring/decimal"
)

type CartError error

var ErrLineIndexOutOfRange CartError = errors.New("cart line index out of range")

// ProductLookup 由目錄快取提供
type ProductLookup interface {
	Lookup(id int64) (model.Product, bool)
}

// Cart 以加入順序保存購物車內容, 每個 product id 最多一行
// 非 concurrency safe, 由擁有它的 page controller 負責同步
type Cart struct {
	catalog ProductLookup
	lines   []model.CartLine
}

func NewCart(catalog ProductLookup) *Cart {
	if catalog == nil {
		panic("cart requires a product lookup")
	}
	return &Cart{catalog: catalog}
}

// AddLine 目錄內找不到的 id 直接忽略, 回傳 false
func (c *Cart) AddLine(productID int64) bool {
	p, ok := c.catalog.Lookup(productID)
	if !ok {
		return false
	}
	if i := c.indexOf(productID); i >= 0 {
		c.lines[i].Quantity++
		return true
	}
	c.lines = append(c.lines, model.CartLine{Product: p, Quantity: 1})
	return true
}

// AdjustQuantity 調整後數量 <= 0 則移除該行
func (c *Cart) AdjustQuantity(index, delta int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.lines[index].Quantity += delta
	if c.lines[index].Quantity <= 0 {
		c.removeAt(index)
	}
	return nil
}

func (c *Cart) RemoveLine(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.removeAt(index)
	return nil
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines 回傳副本
func (c *Cart) Lines() []model.CartLine {
	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Items 結帳 payload 用, 只有 id 與數量
func (c *Cart) Items() []model.CartItem {
	items := make([]model.CartItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, model.CartItem{ID: l.ID, Quantity: l.Quantity})
	}
	return items
}

func (c *Cart) indexOf(productID int64) int {
	for i, l := range c.lines {
		if l.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("index %d, %d lines: %w", index, len(c.lines), ErrLineIndexOutOfRange)
	}
	return nil
}

func (c *Cart) removeAt(index int) {
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
}

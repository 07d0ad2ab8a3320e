package grid

import (
	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/pkg/util"
	"github.com/shopspring/decimal"
)

const (
	AllCategory         = "All"
	AllCategoryTitle    = "All products"
	DefaultSubcategory  = "Uncategorized"
	DefaultVariantLabel = "Standard"
)

// Grid POS 商品區的顯示結構
type Grid struct {
	Title    string
	Sections []Section
}

type Section struct {
	Subcategory string
	ShowHeader  bool
	Cards       []Card
}

// Card 同名商品的所有 variant 合併成一張卡片
type Card struct {
	Name      string
	Variants  []model.Product
	MinPrice  decimal.Decimal
	PriceText string
}

// VariantOption variant 選擇框的一個選項
type VariantOption struct {
	ProductID int64
	Label     string
	Price     decimal.Decimal
	PriceText string
}

// Selection 選取卡片的結果, Direct 非 nil 時直接加入購物車
type Selection struct {
	Direct  *model.Product
	Options []VariantOption
}

func (c Card) VariantCount() int {
	return len(c.Variants)
}

func (c Card) Select() Selection {
	if len(c.Variants) == 1 {
		p := c.Variants[0]
		return Selection{Direct: &p}
	}
	opts := make([]VariantOption, 0, len(c.Variants))
	for _, v := range c.Variants {
		opts = append(opts, VariantOption{
			ProductID: v.ID,
			Label:     VariantLabel(v),
			Price:     v.Price,
			PriceText: util.FormatPrice(v.Price),
		})
	}
	return Selection{Options: opts}
}

func VariantLabel(p model.Product) string {
	if p.Variant == "" {
		return DefaultVariantLabel
	}
	return p.Variant
}

func IsAll(category string) bool {
	return category == "" || category == AllCategory
}

// Categories 側欄分類: "All" 之後接不重複且非空的分類, 依首次出現順序
func Categories(products []model.Product) []string {
	out := []string{AllCategory}
	seen := map[string]struct{}{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// BuildGrid 依分類過濾後, 先以 subcategory 分組再以名稱合併 variant
// 兩層分組都保留首次出現的順序
func BuildGrid(products []model.Product, category string) Grid {
	g := Grid{Title: category}
	if IsAll(category) {
		g.Title = AllCategoryTitle
	}

	sectionIdx := map[string]int{}
	cardIdx := map[string]map[string]int{}
	for _, p := range products {
		if !IsAll(category) && p.Category != category {
			continue
		}
		sub := p.Subcategory
		if sub == "" {
			sub = DefaultSubcategory
		}

		si, ok := sectionIdx[sub]
		if !ok {
			si = len(g.Sections)
			sectionIdx[sub] = si
			cardIdx[sub] = map[string]int{}
			g.Sections = append(g.Sections, Section{Subcategory: sub})
		}

		ci, ok := cardIdx[sub][p.Name]
		if !ok {
			ci = len(g.Sections[si].Cards)
			cardIdx[sub][p.Name] = ci
			g.Sections[si].Cards = append(g.Sections[si].Cards, Card{Name: p.Name})
		}
		card := &g.Sections[si].Cards[ci]
		card.Variants = append(card.Variants, p)
	}

	showHeaders := !(len(g.Sections) == 1 && g.Sections[0].Subcategory == DefaultSubcategory)
	for si := range g.Sections {
		g.Sections[si].ShowHeader = showHeaders
		for ci := range g.Sections[si].Cards {
			finishCard(&g.Sections[si].Cards[ci])
		}
	}
	return g
}

func finishCard(c *Card) {
	c.MinPrice = c.Variants[0].Price
	for _, v := range c.Variants[1:] {
		if v.Price.LessThan(c.MinPrice) {
			c.MinPrice = v.Price
		}
	}
	c.PriceText = util.FormatPrice(c.MinPrice)
	if len(c.Variants) > 1 {
		c.PriceText += "+"
	}
}

// CardAt 依位置取卡片, 超出範圍回傳 false
func (g Grid) CardAt(section, card int) (Card, bool) {
	if section < 0 || section >= len(g.Sections) {
		return Card{}, false
	}
	cards := g.Sections[section].Cards
	if card < 0 || card >= len(cards) {
		return Card{}, false
	}
	return cards[card], true
}

func (g Grid) IsEmpty() bool {
	return len(g.Sections) == 0
}

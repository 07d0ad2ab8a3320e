package grid

import (
	"testing"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, name string, price int64, category, sub, variant string) model.Product {
	return model.Product{
		ID:          id,
		Name:        name,
		Price:       decimal.NewFromInt(price),
		Category:    category,
		Subcategory: sub,
		Variant:     variant,
	}
}

func TestVariantsMergeIntoOneCard(t *testing.T) {
	products := []model.Product{
		product(1, "Coffee", 20000, "Drinks", "Hot", ""),
		product(2, "Coffee", 25000, "Drinks", "Hot", "Large"),
	}
	g := BuildGrid(products, AllCategory)
	require.Len(t, g.Sections, 1)
	require.Len(t, g.Sections[0].Cards, 1)

	card := g.Sections[0].Cards[0]
	assert.Equal(t, "Coffee", card.Name)
	assert.Equal(t, "20.000+", card.PriceText)
	assert.Equal(t, 2, card.VariantCount())
	assert.True(t, g.Sections[0].ShowHeader, "non-default single bucket keeps its header")
}

func TestMinPriceIgnoresOrder(t *testing.T) {
	products := []model.Product{
		product(1, "Tea", 30000, "Drinks", "", "Large"),
		product(2, "Tea", 18000, "Drinks", "", "Small"),
	}
	card := BuildGrid(products, "Drinks").Sections[0].Cards[0]
	assert.True(t, card.MinPrice.Equal(decimal.NewFromInt(18000)))
	assert.Equal(t, "18.000+", card.PriceText)
}

func TestSingleDefaultBucketHidesHeader(t *testing.T) {
	products := []model.Product{
		product(1, "Cà phê đen", 25000, "", "", ""),
		product(2, "Bạc xỉu", 35000, "", "", ""),
	}
	g := BuildGrid(products, AllCategory)
	require.Len(t, g.Sections, 1)
	assert.Equal(t, DefaultSubcategory, g.Sections[0].Subcategory)
	assert.False(t, g.Sections[0].ShowHeader)
	assert.Equal(t, "25.000", g.Sections[0].Cards[0].PriceText)
	assert.Equal(t, AllCategoryTitle, g.Title)
}

func TestBucketsKeepFirstSeenOrder(t *testing.T) {
	products := []model.Product{
		product(1, "Croissant", 30000, "Food", "Bakery", ""),
		product(2, "Latte", 40000, "Drinks", "Hot", ""),
		product(3, "Water", 10000, "Drinks", "", ""),
		product(4, "Mocha", 45000, "Drinks", "Hot", ""),
	}
	g := BuildGrid(products, "Drinks")
	assert.Equal(t, "Drinks", g.Title)
	require.Len(t, g.Sections, 2)
	assert.Equal(t, "Hot", g.Sections[0].Subcategory)
	assert.Equal(t, DefaultSubcategory, g.Sections[1].Subcategory)
	assert.True(t, g.Sections[1].ShowHeader)
	require.Len(t, g.Sections[0].Cards, 2)
	assert.Equal(t, "Latte", g.Sections[0].Cards[0].Name)
	assert.Equal(t, "Mocha", g.Sections[0].Cards[1].Name)
}

func TestUnknownCategoryIsEmpty(t *testing.T) {
	g := BuildGrid([]model.Product{product(1, "Latte", 40000, "Drinks", "", "")}, "Food")
	assert.True(t, g.IsEmpty())
}

func TestCategories(t *testing.T) {
	products := []model.Product{
		product(1, "Latte", 40000, "Drinks", "", ""),
		product(2, "Cake", 30000, "Food", "", ""),
		product(3, "Mocha", 45000, "Drinks", "", ""),
		product(4, "Bag", 5000, "", "", ""),
	}
	assert.Equal(t, []string{AllCategory, "Drinks", "Food"}, Categories(products))
	assert.Equal(t, []string{AllCategory}, Categories(nil))
}

func TestSelect(t *testing.T) {
	products := []model.Product{
		product(1, "Coffee", 20000, "Drinks", "Hot", ""),
		product(2, "Coffee", 25000, "Drinks", "Hot", "Large"),
		product(3, "Tea", 15000, "Drinks", "Hot", ""),
	}
	g := BuildGrid(products, AllCategory)

	coffee, ok := g.CardAt(0, 0)
	require.True(t, ok)
	sel := coffee.Select()
	assert.Nil(t, sel.Direct)
	require.Len(t, sel.Options, 2)
	assert.Equal(t, DefaultVariantLabel, sel.Options[0].Label)
	assert.Equal(t, "Large", sel.Options[1].Label)
	assert.Equal(t, "25.000", sel.Options[1].PriceText)

	tea, ok := g.CardAt(0, 1)
	require.True(t, ok)
	sel = tea.Select()
	require.NotNil(t, sel.Direct)
	assert.Equal(t, int64(3), sel.Direct.ID)

	_, ok = g.CardAt(0, 2)
	assert.False(t, ok)
	_, ok = g.CardAt(1, 0)
	assert.False(t, ok)
}

func TestBlankSubcategoryIsNotDefaulted(t *testing.T) {
	products := []model.Product{
		product(1, "Bánh mì", 20000, "Food", " ", " "),
	}
	g := BuildGrid(products, AllCategory)
	require.Len(t, g.Sections, 1)
	assert.Equal(t, " ", g.Sections[0].Subcategory)
	assert.True(t, g.Sections[0].ShowHeader)
	assert.Equal(t, " ", VariantLabel(products[0]))
	assert.Equal(t, DefaultVariantLabel, VariantLabel(product(2, "Trà", 10000, "", "", "")))
}

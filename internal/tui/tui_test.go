package tui

import (
	"net/http/httptest"
	"testing"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	cmd_model "github.com/RoyceAzure/lab/pos/internal/domain/model/command"
	handler "github.com/RoyceAzure/lab/pos/internal/handler/command"
	"github.com/RoyceAzure/lab/pos/internal/infra/api"
	"github.com/RoyceAzure/lab/pos/internal/service"
	"github.com/RoyceAzure/lab/pos/internal/stubserver"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *api.Client {
	store := stubserver.NewStore([]model.Product{
		{ID: 1, Name: "Coffee", Price: decimal.NewFromInt(20000), Category: "Drinks", Subcategory: "Hot"},
		{ID: 2, Name: "Coffee", Price: decimal.NewFromInt(25000), Category: "Drinks", Subcategory: "Hot", Variant: "Large"},
	})
	srv := httptest.NewServer(stubserver.SetupRouter(stubserver.NewHandler(store), stubserver.RouterOptions{}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run 執行 tea.Cmd 並把結果送回 Update, Batch 的子命令依序執行
func run[M tea.Model](t *testing.T, m M, cmd tea.Cmd) M {
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(t, m, c)
		}
		return m
	}
	next, follow := m.Update(msg)
	return run(t, next.(M), follow)
}

func press[M tea.Model](t *testing.T, m M, keys ...string) M {
	for _, k := range keys {
		next, cmd := m.Update(key(k))
		m = run(t, next.(M), cmd)
	}
	return m
}

func TestPOSModelFlow(t *testing.T) {
	client := newClient(t)
	pos := service.NewPOSService(
		service.NewCatalogService(client, nil, nil),
		service.NewHistoryService(client),
		service.NewCheckoutService(client, nil, "Khách lẻ", nil),
		nil,
	)
	var opened string
	m := NewPOSModel(handler.NewPOSHandler(pos), pos.View, func(url string) error {
		opened = url
		return nil
	})
	m = run(t, m, m.Init())
	assert.Equal(t, "Ready", m.status)
	assert.Contains(t, m.View(), "20.000+")

	// 空購物車結帳會跳出提示
	m = press(t, m, "p")
	assert.NotEmpty(t, m.notice)
	m = press(t, m, "x")
	assert.Empty(t, m.notice)

	// grid 上的 Coffee 有兩個 variant
	m = press(t, m, "tab", "enter")
	require.Len(t, m.prompt, 2)
	m = press(t, m, "down", "enter")
	require.Len(t, m.v.Lines, 1)
	assert.Equal(t, int64(2), m.v.Lines[0].ID)

	m = press(t, m, "n", "A", "n", "enter")
	assert.Equal(t, "An", m.v.CustomerName)

	m = press(t, m, "tab", "+")
	assert.Equal(t, 2, m.v.Lines[0].Quantity)
	assert.Contains(t, m.View(), "50.000 ₫")

	m = press(t, m, "p")
	assert.False(t, m.paying)
	assert.Equal(t, client.InvoiceURL(1), opened)
	assert.Empty(t, m.v.Lines)
	require.Len(t, m.v.History, 1)
	assert.Contains(t, m.View(), "#1")
}

func TestAdminModelFlow(t *testing.T) {
	client := newClient(t)
	admin := service.NewAdminService(service.NewCatalogService(client, nil, nil), client, nil)
	m := NewAdminModel(handler.NewAdminHandler(admin), admin.View)
	m = run(t, m, m.Init())
	require.Len(t, m.v.Products, 2)

	m = press(t, m, "a", "T", "e", "a", "tab", "9", "0", "0", "0", "enter")
	assert.Equal(t, "Đã thêm sản phẩm mới!", m.notice)
	assert.False(t, m.inForm)
	require.Len(t, m.v.Products, 3)
	assert.Equal(t, "Tea", m.v.Products[2].Name)

	m = press(t, m, "x", "down", "e")
	assert.True(t, m.inForm)
	assert.Equal(t, "2", m.v.Form.Form.ID)
	assert.Contains(t, m.View(), "Save changes")

	m = press(t, m, "esc")
	assert.False(t, m.inForm)
	assert.Equal(t, service.FormModeCreate, m.v.Form.Mode)
}

func TestOutcomeErrorShowsStatus(t *testing.T) {
	client := newClient(t)
	admin := service.NewAdminService(service.NewCatalogService(client, nil, nil), client, nil)
	m := NewAdminModel(handler.NewAdminHandler(admin), admin.View)
	next, _ := m.Update(outcomeMsg{cmdType: cmd_model.SetFieldCommandName, err: service.ErrUnknownField})
	assert.Contains(t, next.(AdminModel).status, "unknown form field")
}

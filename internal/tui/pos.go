package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/pos/internal/domain/grid"
	cmd_model "github.com/RoyceAzure/lab/pos/internal/domain/model/command"
	handler "github.com/RoyceAzure/lab/pos/internal/handler/command"
	"github.com/RoyceAzure/lab/pos/internal/pkg/util"
	"github.com/RoyceAzure/lab/pos/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

type posFocus int

const (
	focusCategories posFocus = iota
	focusGrid
	focusCart
)

// POSModel 收銀畫面, 狀態全部來自 POSService.View
type POSModel struct {
	d           Dispatcher
	viewer      func() service.POSView
	openInvoice func(url string) error
	timeout     time.Duration

	v       service.POSView
	focus   posFocus
	catIdx  int
	cardIdx int
	lineIdx int

	prompt      []grid.VariantOption
	promptIdx   int
	editingName bool
	nameBuf     string
	notice      string
	status      string
	paying      bool
}

// openInvoice 可為 nil, 此時只在狀態列顯示發票網址
func NewPOSModel(d Dispatcher, viewer func() service.POSView, openInvoice func(string) error) POSModel {
	return POSModel{
		d:           d,
		viewer:      viewer,
		openInvoice: openInvoice,
		timeout:     defaultTimeout,
		v:           viewer(),
		status:      "Loading...",
	}
}

func (m POSModel) Init() tea.Cmd {
	return tea.Batch(
		dispatchCmd(m.d, m.timeout, cmd_model.NewLoadCatalogCommand()),
		dispatchCmd(m.d, m.timeout, cmd_model.NewLoadHistoryCommand()),
	)
}

// flatCards grid 攤平成一維, 方便游標移動
func flatCards(g grid.Grid) [][2]int {
	var out [][2]int
	for si, s := range g.Sections {
		for ci := range s.Cards {
			out = append(out, [2]int{si, ci})
		}
	}
	return out
}

func (m POSModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeMsg:
		return m.apply(msg), nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// 提示框: 任意鍵關閉
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		if m.editingName {
			return m.updateName(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m POSModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = nil
	case "up":
		m.promptIdx = clamp(m.promptIdx-1, len(m.prompt))
	case "down":
		m.promptIdx = clamp(m.promptIdx+1, len(m.prompt))
	case "enter":
		opt := m.prompt[m.promptIdx]
		m.prompt = nil
		return m.apply(dispatchNow(m.d, cmd_model.NewAddLineCommand(opt.ProductID))), nil
	}
	return m, nil
}

func (m POSModel) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editingName = false
		return m.apply(dispatchNow(m.d, cmd_model.NewSetCustomerNameCommand(m.nameBuf))), nil
	case tea.KeyEsc:
		m.editingName = false
	case tea.KeyBackspace:
		if r := []rune(m.nameBuf); len(r) > 0 {
			m.nameBuf = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.nameBuf += " "
	case tea.KeyRunes:
		m.nameBuf += string(msg.Runes)
	}
	return m, nil
}

func (m POSModel) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := flatCards(m.v.Grid)
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % 3
	case "up":
		switch m.focus {
		case focusCategories:
			m.catIdx = clamp(m.catIdx-1, len(m.v.Categories))
		case focusGrid:
			m.cardIdx = clamp(m.cardIdx-1, len(cards))
		case focusCart:
			m.lineIdx = clamp(m.lineIdx-1, len(m.v.Lines))
		}
	case "down":
		switch m.focus {
		case focusCategories:
			m.catIdx = clamp(m.catIdx+1, len(m.v.Categories))
		case focusGrid:
			m.cardIdx = clamp(m.cardIdx+1, len(cards))
		case focusCart:
			m.lineIdx = clamp(m.lineIdx+1, len(m.v.Lines))
		}
	case "enter":
		switch m.focus {
		case focusCategories:
			if len(m.v.Categories) > 0 {
				m.cardIdx = 0
				return m.apply(dispatchNow(m.d, cmd_model.NewSelectCategoryCommand(m.v.Categories[m.catIdx]))), nil
			}
		case focusGrid:
			if len(cards) > 0 {
				pos := cards[m.cardIdx]
				return m.apply(dispatchNow(m.d, cmd_model.NewSelectCardCommand(pos[0], pos[1]))), nil
			}
		}
	case "+", "=":
		if m.focus == focusCart {
			return m.apply(dispatchNow(m.d, cmd_model.NewAdjustQuantityCommand(m.lineIdx, 1))), nil
		}
	case "-":
		if m.focus == focusCart {
			return m.apply(dispatchNow(m.d, cmd_model.NewAdjustQuantityCommand(m.lineIdx, -1))), nil
		}
	case "d", "delete":
		if m.focus == focusCart {
			return m.apply(dispatchNow(m.d, cmd_model.NewRemoveLineCommand(m.lineIdx))), nil
		}
	case "n":
		m.editingName = true
		m.nameBuf = m.v.CustomerName
	case "r":
		m.status = "Reloading..."
		return m, tea.Batch(
			dispatchCmd(m.d, m.timeout, cmd_model.NewLoadCatalogCommand()),
			dispatchCmd(m.d, m.timeout, cmd_model.NewLoadHistoryCommand()),
		)
	case "p":
		// 結帳進行中按鈕停用
		if m.paying {
			return m, nil
		}
		m.paying = true
		m.status = "Processing payment..."
		return m, dispatchCmd(m.d, m.timeout, cmd_model.NewCheckoutCommand())
	}
	return m, nil
}

func (m POSModel) apply(msg outcomeMsg) POSModel {
	if msg.cmdType == cmd_model.CheckoutCommandName {
		m.paying = false
	}
	if msg.err != nil {
		m.status = "Error: " + msg.err.Error()
	}
	switch msg.out.Kind {
	case handler.OutcomeRender:
		if msg.cmdType == cmd_model.LoadCatalogCommandName {
			m.status = "Ready"
		}
	case handler.OutcomeNotice:
		m.notice = msg.out.Message
	case handler.OutcomeInlineError:
		m.status = msg.out.Message
	case handler.OutcomeVariantPick:
		m.prompt = msg.out.Options
		m.promptIdx = 0
	case handler.OutcomeOpenInvoice:
		m.status = "Invoice: " + msg.out.InvoiceURL
		if m.openInvoice != nil {
			if err := m.openInvoice(msg.out.InvoiceURL); err != nil {
				m.status += " (open failed: " + err.Error() + ")"
			}
		}
	}
	m.v = m.viewer()
	m.catIdx = clamp(m.catIdx, len(m.v.Categories))
	m.cardIdx = clamp(m.cardIdx, len(flatCards(m.v.Grid)))
	m.lineIdx = clamp(m.lineIdx, len(m.v.Lines))
	return m
}

func marker(on bool) string {
	if on {
		return ">"
	}
	return " "
}

func (m POSModel) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "POS")
	fmt.Fprintln(b, "")

	if m.notice != "" {
		fmt.Fprintf(b, "[ %s ]\n\n(press any key)\n", m.notice)
		return b.String()
	}
	if m.prompt != nil {
		fmt.Fprintln(b, "Choose a variant (enter to add, esc to cancel):")
		for i, o := range m.prompt {
			fmt.Fprintf(b, " %s %s - %s\n", marker(i == m.promptIdx), o.Label, o.PriceText)
		}
		return b.String()
	}

	fmt.Fprintln(b, "Categories:")
	for i, c := range m.v.Categories {
		sel := " "
		if c == m.v.Category {
			sel = "*"
		}
		fmt.Fprintf(b, " %s%s %s\n", marker(m.focus == focusCategories && i == m.catIdx), sel, c)
	}

	fmt.Fprintf(b, "\n%s:\n", m.v.Grid.Title)
	if m.v.CatalogErr != nil && m.v.Grid.IsEmpty() {
		fmt.Fprintln(b, "  (products unavailable)")
	}
	n := 0
	for _, s := range m.v.Grid.Sections {
		if s.ShowHeader {
			fmt.Fprintf(b, "  -- %s --\n", s.Subcategory)
		}
		for _, c := range s.Cards {
			extra := ""
			if c.VariantCount() > 1 {
				extra = fmt.Sprintf(" (%d variants)", c.VariantCount())
			}
			fmt.Fprintf(b, " %s %s  %s%s\n", marker(m.focus == focusGrid && n == m.cardIdx), c.Name, c.PriceText, extra)
			n++
		}
	}

	fmt.Fprintln(b, "\nCart:")
	if len(m.v.Lines) == 0 {
		fmt.Fprintln(b, "  (empty)")
	}
	for i, l := range m.v.Lines {
		fmt.Fprintf(b, " %s %s (%s) x%d  %s\n", marker(m.focus == focusCart && i == m.lineIdx),
			l.Name, grid.VariantLabel(l.Product), l.Quantity, util.FormatPrice(l.LineTotal()))
	}
	fmt.Fprintf(b, "Total: %s\n", m.v.TotalText)

	name := m.v.CustomerName
	if m.editingName {
		name = m.nameBuf + "_"
	}
	fmt.Fprintf(b, "Customer: %s\n", name)

	fmt.Fprintln(b, "\nRecent orders:")
	for _, o := range m.v.History {
		fmt.Fprintf(b, "  #%d %s  %s  %s\n", o.ID, o.CreatedAt, o.CustomerName, util.FormatCurrency(o.TotalAmount))
	}

	payLabel := "p pay"
	if m.paying {
		payLabel = "paying..."
	}
	fmt.Fprintf(b, "\nStatus: %s\n", m.status)
	fmt.Fprintf(b, "tab focus, up/down move, enter select, +/- qty, d remove, n name, %s, r reload, q quit\n", payLabel)
	return b.String()
}

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

var formFields = []cmd_model.FormField{
	cmd_model.FieldName,
	cmd_model.FieldPrice,
	cmd_model.FieldCategory,
	cmd_model.FieldSubcategory,
	cmd_model.FieldVariant,
}

func fieldValue(f service.ProductForm, field cmd_model.FormField) string {
	switch field {
	case cmd_model.FieldName:
		return f.Name
	case cmd_model.FieldPrice:
		return f.Price
	case cmd_model.FieldCategory:
		return f.Category
	case cmd_model.FieldSubcategory:
		return f.Subcategory
	case cmd_model.FieldVariant:
		return f.Variant
	}
	return ""
}

// AdminModel 商品管理畫面
type AdminModel struct {
	d       Dispatcher
	viewer  func() service.AdminView
	timeout time.Duration

	v        service.AdminView
	inForm   bool
	rowIdx   int
	fieldIdx int
	notice   string
	status   string
	saving   bool
}

func NewAdminModel(d Dispatcher, viewer func() service.AdminView) AdminModel {
	return AdminModel{d: d, viewer: viewer, timeout: defaultTimeout, v: viewer(), status: "Loading..."}
}

func (m AdminModel) Init() tea.Cmd {
	return dispatchCmd(m.d, m.timeout, cmd_model.NewLoadProductsCommand())
}

func (m AdminModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeMsg:
		return m.apply(msg), nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}
		if m.inForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m AdminModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up":
		m.rowIdx = clamp(m.rowIdx-1, len(m.v.Products))
	case "down":
		m.rowIdx = clamp(m.rowIdx+1, len(m.v.Products))
	case "e", "enter":
		if len(m.v.Products) > 0 {
			m = m.apply(dispatchNow(m.d, cmd_model.NewEditProductCommand(m.v.Products[m.rowIdx].ID)))
			m.inForm = true
			m.fieldIdx = 0
		}
	case "a", "tab":
		m.inForm = true
	case "r":
		m.status = "Reloading..."
		return m, dispatchCmd(m.d, m.timeout, cmd_model.NewLoadProductsCommand())
	}
	return m, nil
}

func (m AdminModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := formFields[m.fieldIdx]
	value := fieldValue(m.v.Form.Form, field)

	switch msg.Type {
	case tea.KeyEsc:
		// 編輯模式下 esc 等同取消
		if m.v.Form.ShowCancel {
			m = m.apply(dispatchNow(m.d, cmd_model.NewCancelEditCommand()))
		}
		m.inForm = false
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.fieldIdx = (m.fieldIdx + 1) % len(formFields)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.fieldIdx = (m.fieldIdx + len(formFields) - 1) % len(formFields)
		return m, nil
	case tea.KeyEnter:
		if m.saving {
			return m, nil
		}
		m.saving = true
		m.status = "Saving..."
		return m, dispatchCmd(m.d, m.timeout, cmd_model.NewSubmitProductCommand())
	case tea.KeyBackspace:
		if r := []rune(value); len(r) > 0 {
			value = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		value += " "
	case tea.KeyRunes:
		value += string(msg.Runes)
	default:
		return m, nil
	}
	return m.apply(dispatchNow(m.d, cmd_model.NewSetFieldCommand(field, value))), nil
}

func (m AdminModel) apply(msg outcomeMsg) AdminModel {
	if msg.cmdType == cmd_model.SubmitProductCommandName {
		m.saving = false
		if msg.out.Err == nil && msg.err == nil {
			m.inForm = false
			m.status = "Ready"
		}
	}
	if msg.err != nil {
		m.status = "Error: " + msg.err.Error()
	}
	switch msg.out.Kind {
	case handler.OutcomeRender:
		if msg.cmdType == cmd_model.LoadProductsCommandName {
			m.status = "Ready"
		}
	case handler.OutcomeNotice:
		m.notice = msg.out.Message
	}
	m.v = m.viewer()
	m.rowIdx = clamp(m.rowIdx, len(m.v.Products))
	return m
}

func (m AdminModel) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Product admin")
	fmt.Fprintln(b, "")
	if m.notice != "" {
		fmt.Fprintf(b, "[ %s ]\n\n(press any key)\n", m.notice)
		return b.String()
	}

	fmt.Fprintf(b, "  %-4s %-24s %12s  %-12s %-12s %s\n", "ID", "Name", "Price", "Category", "Subcategory", "Variant")
	for i, p := range m.v.Products {
		fmt.Fprintf(b, "%s %-4d %-24s %12s  %-12s %-12s %s\n", marker(!m.inForm && i == m.rowIdx),
			p.ID, p.Name, util.FormatPrice(p.Price), p.Category, p.Subcategory, grid.VariantLabel(p))
	}

	f := m.v.Form
	fmt.Fprintf(b, "\n%s\n", f.Title)
	for i, field := range formFields {
		cursor := ""
		if m.inForm && i == m.fieldIdx {
			cursor = "_"
		}
		fmt.Fprintf(b, " %s %-12s %s%s\n", marker(m.inForm && i == m.fieldIdx), field, fieldValue(f.Form, field), cursor)
	}
	actions := "[" + f.SubmitLabel + "]"
	if m.saving {
		actions = "[saving...]"
	}
	if f.ShowCancel {
		actions += " [Cancel: esc]"
	}
	fmt.Fprintf(b, " %s\n", actions)

	fmt.Fprintf(b, "\nStatus: %s\n", m.status)
	fmt.Fprintln(b, "list: up/down, e edit, a add, r reload, q quit | form: tab next field, enter save, esc back")
	return b.String()
}

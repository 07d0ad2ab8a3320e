package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	cmd_model "github.com/RoyceAzure/lab/pos/internal/domain/model/command"
	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired     ServiceError = errors.New("product name is required")
	ErrInvalidPrice     ServiceError = errors.New("product price is not a number")
	ErrInvalidProductID ServiceError = errors.New("product id is not a number")
	ErrUnknownField     ServiceError = errors.New("unknown form field")
)

type FormMode int

const (
	FormModeCreate FormMode = iota
	FormModeEdit
)

func (m FormMode) String() string {
	if m == FormModeEdit {
		return "edit"
	}
	return "create"
}

const (
	createTitle       = "Add new product"
	createSubmitLabel = "Add"
	editTitle         = "Edit product"
	editSubmitLabel   = "Save changes"
)

// ProductForm 表單欄位皆為使用者輸入的原始字串, ID 為隱藏欄位
type ProductForm struct {
	ID          string
	Name        string
	Price       string
	Category    string
	Subcategory string
	Variant     string
}

type FormView struct {
	Form        ProductForm
	Mode        FormMode
	Title       string
	SubmitLabel string
	ShowCancel  bool
}

// Request 驗證名稱與價格後組出 payload, ID 空白時 id 為 null
func (f ProductForm) Request() (model.SaveProductRequest, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return model.SaveProductRequest{}, ErrNameRequired
	}
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil {
		return model.SaveProductRequest{}, fmt.Errorf("%q: %w", f.Price, ErrInvalidPrice)
	}

	req := model.SaveProductRequest{
		Name:        name,
		Price:       json.Number(price.String()),
		Category:    strings.TrimSpace(f.Category),
		Subcategory: strings.TrimSpace(f.Subcategory),
		Variant:     strings.TrimSpace(f.Variant),
	}
	if id := strings.TrimSpace(f.ID); id != "" {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return model.SaveProductRequest{}, fmt.Errorf("%q: %w", f.ID, ErrInvalidProductID)
		}
		req.ID = &n
	}
	return req, nil
}

// ProductFormController 新增與編輯共用同一張表單
// Create -> Edit: Edit; Edit -> Create: Reset 或儲存成功
type ProductFormController struct {
	form ProductForm
	mode FormMode
}

func NewProductFormController() *ProductFormController {
	return &ProductFormController{}
}

func (c *ProductFormController) Edit(p model.Product) {
	c.form = ProductForm{
		ID:          strconv.FormatInt(p.ID, 10),
		Name:        p.Name,
		Price:       p.Price.String(),
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Variant:     p.Variant,
	}
	c.mode = FormModeEdit
}

func (c *ProductFormController) Reset() {
	c.form = ProductForm{}
	c.mode = FormModeCreate
}

func (c *ProductFormController) SetField(field cmd_model.FormField, value string) error {
	switch field {
	case cmd_model.FieldName:
		c.form.Name = value
	case cmd_model.FieldPrice:
		c.form.Price = value
	case cmd_model.FieldCategory:
		c.form.Category = value
	case cmd_model.FieldSubcategory:
		c.form.Subcategory = value
	case cmd_model.FieldVariant:
		c.form.Variant = value
	default:
		return fmt.Errorf("%s: %w", field, ErrUnknownField)
	}
	return nil
}

func (c *ProductFormController) Form() ProductForm {
	return c.form
}

func (c *ProductFormController) Mode() FormMode {
	return c.mode
}

func (c *ProductFormController) View() FormView {
	v := FormView{Form: c.form, Mode: c.mode, Title: createTitle, SubmitLabel: createSubmitLabel}
	if c.mode == FormModeEdit {
		v.Title = editTitle
		v.SubmitLabel = editSubmitLabel
		v.ShowCancel = true
	}
	return v
}

package model

import "io"

const (
	LoadProductsCommandName   CommandType = "LoadProducts"
	EditProductCommandName    CommandType = "EditProduct"
	CancelEditCommandName     CommandType = "CancelEdit"
	SetFieldCommandName       CommandType = "SetField"
	SubmitProductCommandName  CommandType = "SubmitProduct"
	ImportProductsCommandName CommandType = "ImportProducts"
)

type FormField string

const (
	FieldName        FormField = "name"
	FieldPrice       FormField = "price"
	FieldCategory    FormField = "category"
	FieldSubcategory FormField = "subcategory"
	FieldVariant     FormField = "variant"
)

type LoadProductsCommand struct {
	BaseCommand
}

func NewLoadProductsCommand() *LoadProductsCommand {
	return &LoadProductsCommand{BaseCommand: NewBaseCommand()}
}

func (c *LoadProductsCommand) Type() CommandType {
	return LoadProductsCommandName
}

type EditProductCommand struct {
	BaseCommand
	ProductID int64 `json:"product_id"`
}

func NewEditProductCommand(productID int64) *EditProductCommand {
	return &EditProductCommand{BaseCommand: NewBaseCommand(), ProductID: productID}
}

func (c *EditProductCommand) Type() CommandType {
	return EditProductCommandName
}

type CancelEditCommand struct {
	BaseCommand
}

func NewCancelEditCommand() *CancelEditCommand {
	return &CancelEditCommand{BaseCommand: NewBaseCommand()}
}

func (c *CancelEditCommand) Type() CommandType {
	return CancelEditCommandName
}

type SetFieldCommand struct {
	BaseCommand
	Field FormField `json:"field"`
	Value string    `json:"value"`
}

func NewSetFieldCommand(field FormField, value string) *SetFieldCommand {
	return &SetFieldCommand{BaseCommand: NewBaseCommand(), Field: field, Value: value}
}

func (c *SetFieldCommand) Type() CommandType {
	return SetFieldCommandName
}

type SubmitProductCommand struct {
	BaseCommand
}

func NewSubmitProductCommand() *SubmitProductCommand {
	return &SubmitProductCommand{BaseCommand: NewBaseCommand()}
}

func (c *SubmitProductCommand) Type() CommandType {
	return SubmitProductCommandName
}

type ImportProductsCommand struct {
	BaseCommand
	Source io.Reader `json:"-"`
}

func NewImportProductsCommand(source io.Reader) *ImportProductsCommand {
	return &ImportProductsCommand{BaseCommand: NewBaseCommand(), Source: source}
}

func (c *ImportProductsCommand) Type() CommandType {
	return ImportProductsCommandName
}

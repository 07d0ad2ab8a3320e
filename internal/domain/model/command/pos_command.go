package model

const (
	LoadCatalogCommandName     CommandType = "LoadCatalog"
	LoadHistoryCommandName     CommandType = "LoadHistory"
	SelectCategoryCommandName  CommandType = "SelectCategory"
	SelectCardCommandName      CommandType = "SelectCard"
	AddLineCommandName         CommandType = "AddLine"
	AdjustQuantityCommandName  CommandType = "AdjustQuantity"
	RemoveLineCommandName      CommandType = "RemoveLine"
	SetCustomerNameCommandName CommandType = "SetCustomerName"
	CheckoutCommandName        CommandType = "Checkout"
)

type LoadCatalogCommand struct {
	BaseCommand
}

func NewLoadCatalogCommand() *LoadCatalogCommand {
	return &LoadCatalogCommand{BaseCommand: NewBaseCommand()}
}

func (c *LoadCatalogCommand) Type() CommandType {
	return LoadCatalogCommandName
}

type LoadHistoryCommand struct {
	BaseCommand
}

func NewLoadHistoryCommand() *LoadHistoryCommand {
	return &LoadHistoryCommand{BaseCommand: NewBaseCommand()}
}

func (c *LoadHistoryCommand) Type() CommandType {
	return LoadHistoryCommandName
}

type SelectCategoryCommand struct {
	BaseCommand
	Category string `json:"category"`
}

func NewSelectCategoryCommand(category string) *SelectCategoryCommand {
	return &SelectCategoryCommand{BaseCommand: NewBaseCommand(), Category: category}
}

func (c *SelectCategoryCommand) Type() CommandType {
	return SelectCategoryCommandName
}

// SelectCardCommand 以 section 與 card 的位置指定目前 grid 上的卡片
type SelectCardCommand struct {
	BaseCommand
	Section int `json:"section"`
	Card    int `json:"card"`
}

func NewSelectCardCommand(section, card int) *SelectCardCommand {
	return &SelectCardCommand{BaseCommand: NewBaseCommand(), Section: section, Card: card}
}

func (c *SelectCardCommand) Type() CommandType {
	return SelectCardCommandName
}

type AddLineCommand struct {
	BaseCommand
	ProductID int64 `json:"product_id"`
}

func NewAddLineCommand(productID int64) *AddLineCommand {
	return &AddLineCommand{BaseCommand: NewBaseCommand(), ProductID: productID}
}

func (c *AddLineCommand) Type() CommandType {
	return AddLineCommandName
}

type AdjustQuantityCommand struct {
	BaseCommand
	Index int `json:"index"`
	Delta int `json:"delta"`
}

func NewAdjustQuantityCommand(index, delta int) *AdjustQuantityCommand {
	return &AdjustQuantityCommand{BaseCommand: NewBaseCommand(), Index: index, Delta: delta}
}

func (c *AdjustQuantityCommand) Type() CommandType {
	return AdjustQuantityCommandName
}

type RemoveLineCommand struct {
	BaseCommand
	Index int `json:"index"`
}

func NewRemoveLineCommand(index int) *RemoveLineCommand {
	return &RemoveLineCommand{BaseCommand: NewBaseCommand(), Index: index}
}

func (c *RemoveLineCommand) Type() CommandType {
	return RemoveLineCommandName
}

type SetCustomerNameCommand struct {
	BaseCommand
	Name string `json:"name"`
}

func NewSetCustomerNameCommand(name string) *SetCustomerNameCommand {
	return &SetCustomerNameCommand{BaseCommand: NewBaseCommand(), Name: name}
}

func (c *SetCustomerNameCommand) Type() CommandType {
	return SetCustomerNameCommandName
}

// CheckoutCommand 的 id 同時作為 Idempotency-Key
type CheckoutCommand struct {
	BaseCommand
}

func NewCheckoutCommand() *CheckoutCommand {
	return &CheckoutCommand{BaseCommand: NewBaseCommand()}
}

func (c *CheckoutCommand) Type() CommandType {
	return CheckoutCommandName
}

package handler

import (
	"context"
	"errors"

	cmd_model "github.com/RoyceAzure/lab/pos/internal/domain/model/command"
	"github.com/RoyceAzure/lab/pos/internal/infra/api"
	"github.com/RoyceAzure/lab/pos/internal/service"
)

const (
	msgCatalogUnavailable = "Could not load products"
	msgHistoryUnavailable = "Could not load order history"
	msgEmptyCart          = "Cart is empty"
	msgPaymentFailed      = "Payment failed, please try again"
)

type posCommandHandler struct {
	pos *service.POSService
}

// NewPOSHandler 收銀頁面的命令處理器, 結帳命令可用 redis 去重
func NewPOSHandler(pos *service.POSService, opts ...DispatcherOption) *HandlerDispatcher {
	if pos == nil {
		panic("pos handler requires pos service")
	}
	h := &posCommandHandler{pos: pos}
	return NewHandlerDispatcher(map[cmd_model.CommandType]Handler{
		cmd_model.LoadCatalogCommandName:     HandlerFunc(h.HandleLoadCatalog),
		cmd_model.LoadHistoryCommandName:     HandlerFunc(h.HandleLoadHistory),
		cmd_model.SelectCategoryCommandName:  HandlerFunc(h.HandleSelectCategory),
		cmd_model.SelectCardCommandName:      HandlerFunc(h.HandleSelectCard),
		cmd_model.AddLineCommandName:         HandlerFunc(h.HandleAddLine),
		cmd_model.AdjustQuantityCommandName:  HandlerFunc(h.HandleAdjustQuantity),
		cmd_model.RemoveLineCommandName:      HandlerFunc(h.HandleRemoveLine),
		cmd_model.SetCustomerNameCommandName: HandlerFunc(h.HandleSetCustomerName),
		cmd_model.CheckoutCommandName:        HandlerFunc(h.HandleCheckout),
	}, opts...)
}

// 目錄載入失敗時以 inline 錯誤呈現, 不跳出提示
func (h *posCommandHandler) HandleLoadCatalog(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	if err := h.pos.ReloadCatalog(ctx); err != nil {
		return Outcome{Kind: OutcomeInlineError, Message: msgCatalogUnavailable, Err: err}, nil
	}
	return render(), nil
}

func (h *posCommandHandler) HandleLoadHistory(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	if err := h.pos.ReloadHistory(ctx); err != nil {
		return Outcome{Kind: OutcomeInlineError, Message: msgHistoryUnavailable, Err: err}, nil
	}
	return render(), nil
}

func (h *posCommandHandler) HandleSelectCategory(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	c, ok := cmd.(*cmd_model.SelectCategoryCommand)
	if !ok {
		return unexpected(cmd)
	}
	h.pos.SelectCategory(c.Category)
	return render(), nil
}

func (h *posCommandHandler) HandleSelectCard(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	c, ok := cmd.(*cmd_model.SelectCardCommand)
	if !ok {
		return unexpected(cmd)
	}
	sel, err := h.pos.SelectCard(c.Section, c.Card)
	if err != nil {
		return ignored(err), nil
	}
	if sel.Direct != nil {
		return render(), nil
	}
	return Outcome{Kind: OutcomeVariantPick, Message: "Choose a variant", Options: sel.Options}, nil
}

func (h *posCommandHandler) HandleAddLine(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	c, ok := cmd.(*cmd_model.AddLineCommand)
	if !ok {
		return unexpected(cmd)
	}
	if !h.pos.AddLine(c.ProductID) {
		return ignored(service.ErrProductNotFound), nil
	}
	return render(), nil
}

func (h *posCommandHandler) HandleAdjustQuantity(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	c, ok := cmd.(*cmd_model.AdjustQuantityCommand)
	if !ok {
		return unexpected(cmd)
	}
	if err := h.pos.AdjustQuantity(c.Index, c.Delta); err != nil {
		return ignored(err), nil
	}
	return render(), nil
}

func (h *posCommandHandler) HandleRemoveLine(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	c, ok := cmd.(*cmd_model.RemoveLineCommand)
	if !ok {
		return unexpected(cmd)
	}
	if err := h.pos.RemoveLine(c.Index); err != nil {
		return ignored(err), nil
	}
	return render(), nil
}

func (h *posCommandHandler) HandleSetCustomerName(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	c, ok := cmd.(*cmd_model.SetCustomerNameCommand)
	if !ok {
		return unexpected(cmd)
	}
	h.pos.SetCustomerName(c.Name)
	return render(), nil
}

// HandleCheckout 命令 id 作為 Idempotency-Key
func (h *posCommandHandler) HandleCheckout(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	receipt, err := h.pos.Checkout(ctx, cmd.GetID())
	switch {
	case err == nil:
		return Outcome{Kind: OutcomeOpenInvoice, InvoiceURL: receipt.InvoiceURL}, nil
	case errors.Is(err, service.ErrEmptyCart):
		return notice(msgEmptyCart, err), nil
	case errors.Is(err, service.ErrCheckoutInFlight):
		return ignored(err), nil
	}
	if rej, ok := api.IsRejection(err); ok {
		return notice(rej.Message, err), nil
	}
	return notice(msgPaymentFailed, err), nil
}

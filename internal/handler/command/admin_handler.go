package handler

import (
	"context"
	"errors"
	"fmt"

	cmd_model "github.com/RoyceAzure/lab/pos/internal/domain/model/command"
	"github.com/RoyceAzure/lab/pos/internal/infra/api"
	"github.com/RoyceAzure/lab/pos/internal/service"
)

const (
	msgProductsUnavailable = "Could not load product list"
	msgConnectionFailed    = "Cannot connect to server"
	msgFormInvalid         = "Please enter product name and a valid price"
)

type adminCommandHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService, opts ...DispatcherOption) *HandlerDispatcher {
	if admin == nil {
		panic("admin handler requires admin service")
	}
	h := &adminCommandHandler{admin: admin}
	return NewHandlerDispatcher(map[cmd_model.CommandType]Handler{
		cmd_model.LoadProductsCommandName:   HandlerFunc(h.HandleLoadProducts),
		cmd_model.EditProductCommandName:    HandlerFunc(h.HandleEditProduct),
		cmd_model.CancelEditCommandName:     HandlerFunc(h.HandleCancelEdit),
		cmd_model.SetFieldCommandName:       HandlerFunc(h.HandleSetField),
		cmd_model.SubmitProductCommandName:  HandlerFunc(h.HandleSubmitProduct),
		cmd_model.ImportProductsCommandName: HandlerFunc(h.HandleImportProducts),
	}, opts...)
}

// 管理頁面的載入失敗以提示框呈現
func (h *adminCommandHandler) HandleLoadProducts(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	if err := h.admin.LoadProducts(ctx); err != nil {
		return notice(msgProductsUnavailable, err), nil
	}
	return render(), nil
}

func (h *adminCommandHandler) HandleEditProduct(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	c, ok := cmd.(*cmd_model.EditProductCommand)
	if !ok {
		return unexpected(cmd)
	}
	if err := h.admin.Edit(c.ProductID); err != nil {
		return ignored(err), nil
	}
	return render(), nil
}

func (h *adminCommandHandler) HandleCancelEdit(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	h.admin.Cancel()
	return render(), nil
}

func (h *adminCommandHandler) HandleSetField(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	c, ok := cmd.(*cmd_model.SetFieldCommand)
	if !ok {
		return unexpected(cmd)
	}
	if err := h.admin.SetField(c.Field, c.Value); err != nil {
		return Outcome{}, err
	}
	return render(), nil
}

func (h *adminCommandHandler) HandleSubmitProduct(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	msg, err := h.admin.Submit(ctx)
	if err == nil {
		return notice(msg, nil), nil
	}
	return h.saveFailure(msg, err), nil
}

func (h *adminCommandHandler) HandleImportProducts(ctx context.Context, cmd cmd_model.Command) (Outcome, error) {
	c, ok := cmd.(*cmd_model.ImportProductsCommand)
	if !ok || c.Source == nil {
		return unexpected(cmd)
	}
	report, err := h.admin.Import(ctx, c.Source)
	if err != nil && len(report.Rows) == 0 {
		return notice(err.Error(), err), nil
	}
	msg := fmt.Sprintf("Imported %d products, %d failed", report.Succeeded(), report.Failed())
	return notice(msg, err), nil
}

func (h *adminCommandHandler) saveFailure(savedMsg string, err error) Outcome {
	switch {
	case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrInvalidProductID):
		return notice(msgFormInvalid, err)
	}
	if rej, ok := api.IsRejection(err); ok {
		return notice(rej.Message, err)
	}
	// 儲存成功但重新載入目錄失敗
	if savedMsg != "" {
		return notice(savedMsg, err)
	}
	return notice(msgConnectionFailed, err)
}

package stubserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/pkg/util"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const defaultCustomerName = "Khách lẻ"

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	if store == nil {
		panic("stub handler requires store")
	}
	return &Handler{store: store}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Products())
}

func (h *Handler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var req model.SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.SaveProductResponse{Message: "invalid payload"})
		return
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil || strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, model.SaveProductResponse{Message: "name and price are required"})
		return
	}

	_, created, err := h.store.Save(req.ID, model.Product{
		Name:        req.Name,
		Price:       price,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Variant:     req.Variant,
	})
	if errors.Is(err, ErrProductNotFound) {
		writeJSON(w, http.StatusNotFound, model.SaveProductResponse{Message: "Không tìm thấy sản phẩm"})
		return
	}
	msg := "Đã cập nhật sản phẩm!"
	if created {
		msg = "Đã thêm sản phẩm mới!"
	}
	writeJSON(w, http.StatusOK, model.SaveProductResponse{Success: true, Message: msg})
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	var req model.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.PayResponse{Message: "invalid payload"})
		return
	}
	name := util.FirstNonBlank(req.CustomerName, defaultCustomerName)
	order, err := h.store.Pay(name, req.Items)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.PayResponse{Message: "Giỏ hàng không có sản phẩm hợp lệ"})
		return
	}
	writeJSON(w, http.StatusOK, model.PayResponse{Success: true, OrderID: order.ID, Total: order.TotalAmount})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.History())
}

// Invoice 純文字發票
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	o, ok := h.store.order(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "HÓA ĐƠN #%d\n%s\nKhách hàng: %s\n\n", o.ID, o.CreatedAt, o.CustomerName)
	for _, l := range o.lines {
		fmt.Fprintf(w, "%-20s %3d x %10s = %12s\n", l.Name, l.Quantity, util.FormatPrice(l.Price), util.FormatPrice(l.Total))
	}
	fmt.Fprintf(w, "\nTổng cộng: %s\n", util.FormatCurrency(o.TotalAmount))
}

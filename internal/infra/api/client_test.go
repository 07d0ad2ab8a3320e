package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/infra/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", opts...)
}

func TestListProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, productsPath, r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`[{"id":1,"name":"Cà phê đen","price":25000.0},{"id":2,"name":"Bạc xỉu","price":35000}]`))
	})
	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, products[1].Price.Equal(decimal.NewFromInt(35000)))
}

func TestGetNonJSONIsTransport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	})
	_, err := c.History(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestGetNon2xxIsTransport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`[]`))
	})
	_, err := c.ListProducts(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestUnreachableServerIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Pay(context.Background(), model.PayRequest{}, "")
	assert.ErrorIs(t, err, ErrTransport)
	_, ok := IsRejection(err)
	assert.False(t, ok)
}

func TestPaySendsMinimalPayloadAndKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, payPath, r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body, 2)
		assert.Equal(t, "Khách lẻ", body["customer_name"])
		w.Write([]byte(`{"success":true,"order_id":12,"total":55000}`))
	})
	resp, err := c.Pay(context.Background(), model.PayRequest{
		CustomerName: "Khách lẻ",
		Items:        []model.CartItem{{ID: 1, Quantity: 2}},
	}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.OrderID)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(55000)))
}

func TestPayRejection(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewRequestMetrics("client", reg)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Sản phẩm không tồn tại"}`))
	}, WithMetrics(m))

	_, err := c.Pay(context.Background(), model.PayRequest{}, "")
	rej, ok := IsRejection(err)
	require.True(t, ok)
	assert.Equal(t, "Sản phẩm không tồn tại", rej.Message)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("pay", "rejected")))
}

func TestSaveProductRejectionDefaultMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	})
	_, err := c.SaveProduct(context.Background(), model.SaveProductRequest{Name: "x", Price: "1"})
	rej, ok := IsRejection(err)
	require.True(t, ok)
	assert.Equal(t, defaultRejectMessage, rej.Message)
}

func TestSaveProductSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Nil(t, body["id"])
		assert.Equal(t, 40000.0, body["price"])
		w.Write([]byte(`{"success":true,"message":"Đã thêm sản phẩm mới!"}`))
	})
	resp, err := c.SaveProduct(context.Background(), model.SaveProductRequest{Name: "Trà đào", Price: "40000"})
	require.NoError(t, err)
	assert.Equal(t, "Đã thêm sản phẩm mới!", resp.Message)
}

func TestInvoiceURL(t *testing.T) {
	assert.Equal(t, "http://pos.local/invoice/7", NewClient("http://pos.local/").InvoiceURL(7))
}

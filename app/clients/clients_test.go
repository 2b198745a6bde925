package clients_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-shop/app/clients"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	shophttp "github.com/shashiranjanraj/kashvi-shop/pkg/http"
	"github.com/shashiranjanraj/kashvi-shop/pkg/reqid"
	"github.com/shashiranjanraj/kashvi-shop/pkg/testkit"
)

func serve(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestProductClientFetchesAndForwardsRequestID(t *testing.T) {
	var gotID string
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(reqid.Header)
		assert.Equal(t, "/products/102", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":102,"name":"Mechanical Keyboard","price":79.99,"stock":75}`))
	})

	ctx := reqid.WithValue(context.Background(), "req-123")
	p, err := clients.NewProductClient(url, time.Second).Product(ctx, 102)
	require.NoError(t, err)

	assert.Equal(t, "Mechanical Keyboard", p.Name)
	assert.Equal(t, "79.99", p.Price.StringFixed(2))
	assert.Equal(t, 75, p.Stock)
	assert.Equal(t, "req-123", gotID)
}

func TestProductClientErrors(t *testing.T) {
	cases := []struct {
		name string
		h    http.HandlerFunc
		kind apperr.Kind
	}{
		{"not found", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
		}, apperr.KindNotFound},
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		}, apperr.KindInternal},
		{"garbage body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		}, apperr.KindUnavailable},
		{"empty object", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}, apperr.KindUnavailable},
		{"too slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}, apperr.KindUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := clients.NewProductClient(serve(t, tc.h), 50*time.Millisecond)
			_, err := c.Product(context.Background(), 1)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}
}

func TestProductClientUnreachable(t *testing.T) {
	shophttp.DefaultClient.Transport = testkit.Unreachable()
	defer shophttp.ResetTransport()

	_, err := clients.NewProductClient("http://product:5001", time.Second).Product(context.Background(), 101)
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	_, err = clients.NewProductClient("http://product:5001", time.Second).List(context.Background())
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestProductClientList(t *testing.T) {
	shophttp.DefaultClient.Transport = testkit.Respond("http://product:5001/products", http.StatusOK, []map[string]any{
		{"id": 101, "name": "Wireless Mouse", "price": 24.99, "stock": 150},
		{"id": 102, "name": "Mechanical Keyboard", "price": 79.99, "stock": 75},
	})
	defer shophttp.ResetTransport()

	list, err := clients.NewProductClient("http://product:5001", time.Second).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "24.99", list[0].Price.String())
}

func TestUserClient(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch {
		case r.URL.Path == "/register" && body["email"] == "taken@example.com":
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Email address already in use"})
		case r.URL.Path == "/register":
			writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
		case r.URL.Path == "/login" && body["password"] == "right-password":
			writeJSON(w, http.StatusOK, map[string]string{"token": "tok"})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
	})
	c := clients.NewUserClient(url, time.Second)
	ctx := context.Background()

	assert.NoError(t, c.Register(ctx, "new@example.com", "12345678"))

	err := c.Register(ctx, "taken@example.com", "12345678")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Email address already in use", apperr.Message(err))

	token, err := c.Login(ctx, "a@example.com", "right-password")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	_, err = c.Login(ctx, "a@example.com", "wrong")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, "Invalid credentials", apperr.Message(err))
}

func TestOrderClient(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token is invalid"})
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/orders":
			var body struct {
				ProductID uint `json:"product_id"`
				Quantity  int  `json:"quantity"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Quantity > 75 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Insufficient stock"})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"message": "Order created successfully", "order_id": 9})
		case r.Method == http.MethodGet && r.URL.Path == "/orders":
			_, _ = w.Write([]byte(`[{"id":9,"user_id":1,"product_id":102,"product_name":"Mechanical Keyboard","quantity":2,"total_price":159.98,"created_at":"2024-01-01T00:00:00Z"}]`))
		case r.Method == http.MethodDelete && r.URL.Path == "/orders/9":
			writeJSON(w, http.StatusOK, map[string]string{"message": "Order cancelled successfully"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Order not found or you do not have permission to cancel it"})
		}
	})
	c := clients.NewOrderClient(url, time.Second)
	ctx := context.Background()

	id, err := c.Create(ctx, "tok", 102, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(9), id)

	_, err = c.Create(ctx, "tok", 102, 76)
	assert.Equal(t, "Insufficient stock", apperr.Message(err))

	orders, err := c.List(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "159.98", orders[0].TotalPrice.StringFixed(2))

	require.NoError(t, c.Cancel(ctx, "tok", 9))
	err = c.Cancel(ctx, "tok", 10)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = c.List(ctx, "bad")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/orders/{id}", "404"))
	for _, path := range []string{"/orders/1", "/orders/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	after := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/orders/{id}", "404"))

	assert.Equal(t, float64(2), after-before)
}

func TestRecordOrder(t *testing.T) {
	before := testutil.ToFloat64(OrdersTotal.WithLabelValues("created"))
	RecordOrder("created")
	assert.Equal(t, before+1, testutil.ToFloat64(OrdersTotal.WithLabelValues("created")))
}

func TestHandlerExposesShopSeries(t *testing.T) {
	RecordOrder("cancelled")

	rec := httptest.NewRecorder()
	Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "shop_orders_total"))
}

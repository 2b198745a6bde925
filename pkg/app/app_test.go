package app_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kashvi-shop/pkg/app"
	"github.com/shashiranjanraj/kashvi-shop/pkg/reqid"
	"github.com/shashiranjanraj/kashvi-shop/pkg/router"
)

func newApp() *app.Application {
	return app.New("product").
		Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Inner", "yes")
				next.ServeHTTP(w, r)
			})
		}).
		Routes(func(r *router.Router) {
			r.Get("/boom", "boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
			r.Get("/products", "products.index", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndRequestID(t *testing.T) {
	rec := serve(newApp().Handler(), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"product"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))
	assert.Equal(t, "yes", rec.Header().Get("X-Inner"))
}

func TestPanicsBecome500(t *testing.T) {
	rec := serve(newApp().Handler(), "/boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	rec := serve(newApp().Handler(), "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newApp().Handler()
	serve(h, "/products")

	rec := serve(h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "shop_http_requests_total"))
}

func TestRouteList(t *testing.T) {
	list := newApp().RouteList()

	assert.Contains(t, list, router.RouteInfo{Method: http.MethodGet, Path: "/products", Name: "products.index"})
	assert.Contains(t, list, router.RouteInfo{Method: http.MethodGet, Path: "/health", Name: "health"})
}

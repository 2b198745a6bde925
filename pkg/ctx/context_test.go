package ctx_test

import (
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	appctx "github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

func TestWrapAndJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]any{"ok": true})
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/orders/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamUint("id")
		if !ok {
			c.Error(http.StatusNotFound, "bad id")
			return
		}
		c.Success(map[string]uint{"id": id})
	}))

	for path, want := range map[string]int{
		"/orders/12":  http.StatusOK,
		"/orders/0":   http.StatusNotFound,
		"/orders/-1":  http.StatusNotFound,
		"/orders/abc": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestBindJSONInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Quantity int `json:"quantity"`
		}
		if c.BindJSON(&input) {
			t.Error("expected BindJSON to fail")
		}
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON body"}`, rec.Body.String())
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	var written int
	appctx.Wrap(func(c *appctx.Context) {
		c.Fail(apperr.Unavailable("Could not connect to Product Service", errors.New("dial tcp: refused")))
		written = c.WrittenStatus()
	})(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, http.StatusServiceUnavailable, written)
	assert.JSONEq(t, `{"error":"Could not connect to Product Service"}`, rec.Body.String())
}

func TestUserID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), 5))

	appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.UserID()
		assert.True(t, ok)
		assert.Equal(t, uint(5), id)
		c.Message(http.StatusOK, "ok")
	})(rec, req)
}

func TestCookiesAndRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "abc"})

	appctx.Wrap(func(c *appctx.Context) {
		v, err := c.Cookie("auth_token")
		assert.NoError(t, err)
		assert.Equal(t, "abc", v)
		c.SetCookie("auth_token", "def", 0, false)
		c.Redirect(http.StatusFound, "/")
	})(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	}
}

func TestHTML(t *testing.T) {
	tmpl := template.Must(template.New("page").Parse(`<p>{{.}}</p>`))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	appctx.Wrap(func(c *appctx.Context) {
		c.HTML(http.StatusOK, tmpl, "page", "<b>x</b>")
	})(rec, req)

	assert.Equal(t, "<p>&lt;b&gt;x&lt;/b&gt;</p>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

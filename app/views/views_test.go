package views

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	ID    uint
	Name  string
	Price decimal.Decimal
	Stock int
}

type flash struct{ Category, Message string }

func TestIndexRendersCatalogAndFlashes(t *testing.T) {
	var buf bytes.Buffer
	err := Page("index").ExecuteTemplate(&buf, Layout, map[string]any{
		"LoggedIn": true,
		"Flashes":  []flash{{Category: "error", Message: "<b>nope</b>"}},
		"Products": []product{{ID: 103, Name: "4K Webcam", Price: decimal.RequireFromString("129.5"), Stock: 40}},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<title>Products</title>")
	assert.Contains(t, html, "$129.50")
	assert.Contains(t, html, `action="/order/103"`)
	assert.Contains(t, html, `class="flash flash-error"`)
	assert.Contains(t, html, "&lt;b&gt;nope&lt;/b&gt;")
	assert.Contains(t, html, "Logout")
}

func TestIndexHidesOrderFormWhenLoggedOut(t *testing.T) {
	var buf bytes.Buffer
	err := Page("index").ExecuteTemplate(&buf, Layout, map[string]any{
		"Products": []product{{ID: 101, Name: "Wireless Mouse", Price: decimal.RequireFromString("24.99")}},
	})
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), `action="/order/101"`)
	assert.Contains(t, buf.String(), `href="/login"`)
}

func TestUnknownPagePanics(t *testing.T) {
	assert.Panics(t, func() { Page("checkout") })
}

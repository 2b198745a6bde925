package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/response"
)

func TestFailUsesTaxonomy(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Fail(rec, apperr.InsufficientStock("Insufficient stock"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Insufficient stock"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestFailHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Fail(rec, errors.New("pq: relation \"orders\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestDecodeError(t *testing.T) {
	assert.Equal(t, "Product not found", response.DecodeError([]byte(`{"error":"Product not found"}`)))
	assert.Equal(t, "", response.DecodeError([]byte(`<html>bad gateway</html>`)))
}

package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
)

// errorBody is the payload every service uses for failures.
type errorBody struct {
	Error string `json:"error"`
}

// messageBody is the payload for writes that return no resource.
type messageBody struct {
	Message string `json:"message"`
}

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Message sends {"message": msg} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, messageBody{Message: msg})
}

// Error sends {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// Fail translates err through the apperr taxonomy.
func Fail(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	Error(w, kind.Status(), apperr.Message(err))
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

// DecodeError extracts the message from an {"error": ...} payload. It
// returns "" when raw is not one.
func DecodeError(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Error
}

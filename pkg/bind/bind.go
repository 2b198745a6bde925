// Package bind decodes an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
)

// JSON decodes r.Body as JSON into dest.
// The body is capped at MAX_BODY_BYTES (default 1 MB). Every failure is an
// InvalidInput error: empty body, malformed JSON, wrong field types,
// oversize bodies.
func JSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.InvalidInput(fmt.Sprintf("Request body too large (max %d bytes)", maxErr.Limit))
		case errors.Is(err, io.EOF):
			return apperr.InvalidInput("Request body must be a JSON object")
		default:
			return apperr.Wrap(apperr.KindInvalidInput, "Invalid JSON body", err)
		}
	}

	return nil
}

package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes caps request bodies; every payload in this API is small JSON.
const maxBodyBytes = 1 << 20

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the request body into dest, rejecting unknown
// fields, oversized bodies, and trailing data. If dest implements Validator,
// Validate() runs after decoding. On any failure it writes a 400 JSON error
// and returns false; callers should return immediately in that case.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "request body must be a single JSON object")
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}

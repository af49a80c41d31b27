// internal/app/system/jsonutil/jsonutil.go
package jsonutil

import (
	"encoding/json"
	"net/http"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/limits"
	"go.uber.org/zap"
)

// Write encodes v as the JSON response body with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 JSON response.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error maps err through the apperr taxonomy and writes the standard error
// body. Unclassified errors are logged with full context and surface as a
// generic 500.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal && log != nil {
		log.Error("unhandled error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	Write(w, apperr.HTTPStatus(kind), errorBody{Error: errorDetail{
		Code:    kind,
		Message: apperr.Message(err),
	}})
}

// Decode reads a size-limited JSON request body into dst. Unknown fields are
// rejected so typos fail loudly instead of silently dropping input.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	return DecodeMax(w, r, dst, limits.MaxJSONBodySize)
}

// DecodeMax is Decode with a caller-chosen body size limit, for endpoints
// that accept larger payloads (profile bio).
func DecodeMax(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.KindInvalid, "invalid request body", err)
	}
	return nil
}

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Error codes returned in errResponse.Code.
const (
	codeInvalidQuery = "invalid_query"
	codeInvalidID    = "invalid_id"
	codeNotFound     = "not_found"
	codeUnauthorized = "unauthorized"
	codeInternal     = "internal"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// errResponse is the body of every non-2xx API response. Fields maps a
// query parameter to its validation message.
type errResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errResponse{Code: code, Message: msg})
}

// writeQueryError reports a rejected search query, itemised per parameter
// when err carries ozzo validation errors.
func writeQueryError(w http.ResponseWriter, err error) {
	body := errResponse{Code: codeInvalidQuery, Message: "invalid query"}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body.Fields = make(map[string]string, len(verrs))
		for field, ferr := range verrs {
			body.Fields[field] = ferr.Error()
		}
	} else {
		body.Message = err.Error()
	}
	writeJSON(w, http.StatusBadRequest, body)
}

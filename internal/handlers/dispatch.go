package handlers

import (
	"encoding/json"
	"net/http"

	"synnergy-network/internal/result"
)

// DecodeJSON decodes r's body into v. It is the one JSON-layer failure a
// handler itself never reports — spec §6 maps it to 400 before any
// handler runs — so callers that fail here should respond 400 directly
// rather than going through WriteError.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// WriteJSON writes v as a 200 JSON response body.
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a handler's *result.Error to its HTTP status per §6/§7
// and writes a minimal JSON error body.
func WriteError(w http.ResponseWriter, rerr *result.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(rerr))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "error",
		"error":  rerr.Message,
	})
}

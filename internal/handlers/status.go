package handlers

import (
	"net/http"

	"synnergy-network/internal/result"
)

// HTTPStatus maps a handler error to the response code per spec §6/§7:
// NoSuchAccount (including the deliberately-indistinguishable BadViewKey
// and Hidden-account cases) -> 403, oracle timeouts -> 503, everything
// else -> 500. JSON-layer and body-size errors are mapped by the
// dispatcher before a handler ever runs, not here.
func HTTPStatus(err *result.Error) int {
	if err == nil {
		return http.StatusOK
	}
	switch err.Code {
	case result.NoSuchAccount, result.BadViewKey:
		return http.StatusForbidden
	case result.DaemonTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

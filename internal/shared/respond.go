package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	ledger "github.com/contalibre/contalibre/internal/ledger/shared"
)

// ErrInvalidCredentials is returned for any authentication failure.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

type errorPayload struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps domain errors to HTTP statuses. Validation failures
// become 422s with a machine-readable kind so the UI can show the exact
// cause; storage failures collapse to a plain 500.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := ""
	switch {
	case errors.Is(err, ledger.ErrUnbalanced):
		status, kind = http.StatusUnprocessableEntity, "unbalanced"
	case errors.Is(err, ledger.ErrTooFewLines):
		status, kind = http.StatusUnprocessableEntity, "too_few_lines"
	case errors.Is(err, ledger.ErrInvalidAccount):
		status, kind = http.StatusUnprocessableEntity, "invalid_account"
	case errors.Is(err, ledger.ErrInvalidPeriod):
		status, kind = http.StatusUnprocessableEntity, "invalid_period"
	case errors.Is(err, ledger.ErrInvalidInput):
		status, kind = http.StatusUnprocessableEntity, "invalid_input"
	case errors.Is(err, ledger.ErrInvalidStatus):
		status, kind = http.StatusConflict, "invalid_status"
	case errors.Is(err, ledger.ErrPeriodClosed):
		status, kind = http.StatusConflict, "period_closed"
	case errors.Is(err, ledger.ErrAlreadyClosed):
		status, kind = http.StatusConflict, "already_closed"
	case errors.Is(err, ledger.ErrNotClosed):
		status, kind = http.StatusConflict, "not_closed"
	case errors.Is(err, ledger.ErrNothingToClose):
		status, kind = http.StatusConflict, "nothing_to_close"
	case errors.Is(err, ledger.ErrDuplicateRef):
		status, kind = http.StatusConflict, "duplicate_ref"
	case errors.Is(err, ledger.ErrPeriodOverlap):
		status, kind = http.StatusConflict, "period_overlap"
	case errors.Is(err, ledger.ErrPostingIncomplete):
		status, kind = http.StatusInternalServerError, "posting_incomplete"
	case errors.Is(err, ledger.ErrPeriodNotFound),
		errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, ErrInvalidCredentials):
		status, kind = http.StatusUnauthorized, "invalid_credentials"
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(http.StatusInternalServerError)
	}
	WriteJSON(w, status, errorPayload{Error: msg, Kind: kind})
}

// DecodeJSON decodes the request body into dst, limiting body size.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

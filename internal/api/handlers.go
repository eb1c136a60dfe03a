/**
 * @description
 * This file contains the shared plumbing for the HTTP handlers: the Handlers
 * struct that carries the application service, JSON response helpers, the
 * error envelope, and the mapping from service/store errors to HTTP statuses.
 * Handlers are responsible for parsing incoming requests, calling the
 * appropriate methods on the application service, and writing the HTTP
 * response. They act as the bridge between the web layer and the business
 * logic layer.
 *
 * @dependencies
 * - encoding/json, errors, log, net/http, strconv, time: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stonebridge/banking-service/internal/app"
	"github.com/stonebridge/banking-service/internal/domain"
	"github.com/stonebridge/banking-service/internal/store"
)

// Handlers holds the application service that handlers will use.
type Handlers struct {
	service *app.Service
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(service *app.Service) *Handlers {
	return &Handlers{service: service}
}

// errorResponse is the JSON envelope for every non-2xx response.
type errorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

// writeJSON is a helper for writing JSON responses.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing the JSON error envelope.
func (h *Handlers) writeError(w http.ResponseWriter, status int, kind, message string) {
	h.writeJSON(w, status, errorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     kind,
		Message:   message,
	})
}

// respondError translates a service or store error into the HTTP envelope.
// Unrecognized errors never leak their text to the client.
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case app.IsNotFound(err):
		h.writeError(w, http.StatusNotFound, "NotFound", err.Error())
	case isFailedPrecondition(err):
		h.writeError(w, http.StatusUnprocessableEntity, "FailedPrecondition", err.Error())
	case isConflict(err):
		h.writeError(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, app.ErrRateLimited):
		h.writeError(w, http.StatusTooManyRequests, "TooManyRequests", err.Error())
	case isInvalidArgument(err):
		h.writeError(w, http.StatusBadRequest, "InvalidArgument", err.Error())
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		// Store timeout or an abandoned request: retryable, nothing committed.
		h.writeError(w, http.StatusServiceUnavailable, "Unavailable", "Operation timed out; safe to retry")
	default:
		log.Printf("level=error component=api method=%s path=%s msg=\"unhandled service error\" err=%v", r.Method, r.URL.Path, err)
		h.writeError(w, http.StatusInternalServerError, "Internal", "Internal server error")
	}
}

func isFailedPrecondition(err error) bool {
	return errors.Is(err, store.ErrInsufficientFunds) ||
		errors.Is(err, store.ErrAccountClosed) ||
		errors.Is(err, store.ErrAccountNotEmpty) ||
		errors.Is(err, store.ErrAccountHasTransactions) ||
		errors.Is(err, store.ErrCustomerHasAccounts) ||
		errors.Is(err, store.ErrBranchHasAccounts)
}

func isConflict(err error) bool {
	return errors.Is(err, store.ErrDuplicateAccountNumber) ||
		errors.Is(err, store.ErrDuplicateEmail)
}

func isInvalidArgument(err error) bool {
	return errors.Is(err, domain.ErrMalformedAmount) ||
		errors.Is(err, domain.ErrAmountPrecision) ||
		errors.Is(err, domain.ErrNonPositiveAmount) ||
		errors.Is(err, app.ErrSameAccountTransfer) ||
		errors.Is(err, app.ErrMissingTargetAccount) ||
		errors.Is(err, app.ErrInvalidDateRange) ||
		errors.Is(err, app.ErrInvalidAccountType) ||
		errors.Is(err, app.ErrInvalidAccountStatus) ||
		errors.Is(err, app.ErrInvalidAccountNumber) ||
		errors.Is(err, app.ErrMissingRequiredField) ||
		errors.Is(err, app.ErrInvalidDate) ||
		errors.Is(err, app.ErrNegativeOpeningBalance)
}

// pathID extracts a positive int64 URL parameter. The boolean result is false
// after an error envelope has already been written.
func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "InvalidArgument", "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON request body into dst, writing the envelope on
// malformed input.
func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("level=warn component=api method=%s path=%s outcome=reject reason=invalid_json err=%v", r.Method, r.URL.Path, err)
		h.writeError(w, http.StatusBadRequest, "InvalidArgument", "Invalid request body")
		return false
	}
	return true
}

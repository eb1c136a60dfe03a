/**
 * @description
 * HTTP handlers for account lifecycle endpoints: open, lookup by id or account
 * number, listing, advisory updates, and guarded deletion.
 *
 * @dependencies
 * - log, net/http, strings: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/domain: Request DTOs.
 */

package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stonebridge/banking-service/internal/domain"
)

// CreateAccountHandler handles POST /accounts.
func (h *Handlers) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAccountRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	account, err := h.service.CreateAccount(r.Context(), req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=create_account outcome=failed customer_id=%d account_number=%s err=%v", req.CustomerID, req.AccountNumber, err)
		h.respondError(w, r, err)
		return
	}

	log.Printf("level=info component=api endpoint=create_account outcome=created account_id=%d customer_id=%d", account.ID, account.CustomerID)
	h.writeJSON(w, http.StatusCreated, account)
}

// GetAccountHandler handles GET /accounts/{id}.
func (h *Handlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	account, err := h.service.GetAccount(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// GetAccountByNumberHandler handles GET /accounts/number/{accountNumber}.
func (h *Handlers) GetAccountByNumberHandler(w http.ResponseWriter, r *http.Request) {
	accountNumber := strings.TrimSpace(chi.URLParam(r, "accountNumber"))
	if accountNumber == "" {
		h.writeError(w, http.StatusBadRequest, "InvalidArgument", "Account number is required")
		return
	}
	account, err := h.service.GetAccountByNumber(r.Context(), accountNumber)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// ListAccountsHandler handles GET /accounts.
func (h *Handlers) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

// ListCustomerAccountsHandler handles GET /customers/{id}/accounts.
func (h *Handlers) ListCustomerAccountsHandler(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	accounts, err := h.service.ListAccountsByCustomer(r.Context(), customerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

// UpdateAccountHandler handles PUT /accounts/{id}.
func (h *Handlers) UpdateAccountHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateAccountRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), id, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// DeleteAccountHandler handles DELETE /accounts/{id}.
func (h *Handlers) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		log.Printf("level=warn component=api endpoint=delete_account outcome=failed account_id=%d err=%v", id, err)
		h.respondError(w, r, err)
		return
	}
	log.Printf("level=info component=api endpoint=delete_account outcome=deleted account_id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}

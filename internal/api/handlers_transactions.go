/**
 * @description
 * HTTP handlers for the money-movement endpoints and ledger reads: deposit,
 * withdraw, transfer, single-record lookup, per-account history, full listing,
 * and the date-range query.
 *
 * @dependencies
 * - log, net/http, time: Standard Go libraries.
 * - internal/domain: Request DTOs.
 */

package api

import (
	"log"
	"net/http"
	"time"

	"github.com/stonebridge/banking-service/internal/domain"
)

// DepositHandler handles POST /transactions/deposit.
func (h *Handlers) DepositHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.DepositRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	record, err := h.service.Deposit(r.Context(), req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=deposit outcome=failed account_id=%d err=%v", req.AccountID, err)
		h.respondError(w, r, err)
		return
	}

	log.Printf("level=info component=api endpoint=deposit outcome=committed transaction_id=%d account_id=%d", record.ID, record.AccountID)
	h.writeJSON(w, http.StatusCreated, record)
}

// WithdrawHandler handles POST /transactions/withdraw.
func (h *Handlers) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.WithdrawRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	record, err := h.service.Withdraw(r.Context(), req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=withdraw outcome=failed account_id=%d err=%v", req.AccountID, err)
		h.respondError(w, r, err)
		return
	}

	log.Printf("level=info component=api endpoint=withdraw outcome=committed transaction_id=%d account_id=%d", record.ID, record.AccountID)
	h.writeJSON(w, http.StatusCreated, record)
}

// TransferHandler handles POST /transactions/transfer.
func (h *Handlers) TransferHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.TransferRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	record, err := h.service.Transfer(r.Context(), req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=transfer outcome=failed from_account_id=%d to_account_id=%d err=%v", req.FromAccountID, req.ToAccountID, err)
		h.respondError(w, r, err)
		return
	}

	log.Printf("level=info component=api endpoint=transfer outcome=committed transaction_id=%d from_account_id=%d to_account_id=%d", record.ID, record.AccountID, req.ToAccountID)
	h.writeJSON(w, http.StatusCreated, record)
}

// GetTransactionHandler handles GET /transactions/{id}.
func (h *Handlers) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	record, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

// ListTransactionsHandler handles GET /transactions.
func (h *Handlers) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListTransactions(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

// ListAccountTransactionsHandler handles GET /accounts/{id}/transactions.
func (h *Handlers) ListAccountTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	records, err := h.service.ListTransactionsByAccount(r.Context(), accountID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

// ListTransactionsByRangeHandler handles GET /transactions/range?start=...&end=...
// with both bounds as RFC 3339 timestamps.
func (h *Handlers) ListTransactionsByRangeHandler(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "InvalidArgument", "start must be an RFC 3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "InvalidArgument", "end must be an RFC 3339 timestamp")
		return
	}

	records, err := h.service.ListTransactionsByDateRange(r.Context(), start, end)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

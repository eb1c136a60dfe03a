/**
 * @description
 * HTTP handlers for the account-summary read model: the joined
 * account × customer × branch projection served from a SQL view.
 *
 * @dependencies
 * - net/http: Standard Go library.
 */

package api

import "net/http"

// ListSummariesHandler handles GET /summaries.
func (h *Handlers) ListSummariesHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListAccountSummaries(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

// GetSummaryHandler handles GET /summaries/{accountId}.
func (h *Handlers) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.pathID(w, r, "accountId")
	if !ok {
		return
	}
	summary, err := h.service.GetAccountSummary(r.Context(), accountID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// ListCustomerSummariesHandler handles GET /customers/{id}/summaries.
func (h *Handlers) ListCustomerSummariesHandler(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	summaries, err := h.service.ListAccountSummariesByCustomer(r.Context(), customerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

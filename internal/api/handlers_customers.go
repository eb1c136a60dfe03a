/**
 * @description
 * HTTP handlers for customer and branch administration. These are thin
 * wrappers over the service CRUD paths; referential guards (a customer or
 * branch that still owns accounts cannot be deleted) surface through the
 * shared error mapping.
 *
 * @dependencies
 * - net/http, strings: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/domain: Request DTOs.
 */

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stonebridge/banking-service/internal/domain"
)

// CreateCustomerHandler handles POST /customers.
func (h *Handlers) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCustomerRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	customer, err := h.service.CreateCustomer(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, customer)
}

// GetCustomerHandler handles GET /customers/{id}.
func (h *Handlers) GetCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, customer)
}

// GetCustomerByEmailHandler handles GET /customers/email/{email}.
func (h *Handlers) GetCustomerByEmailHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	if email == "" {
		h.writeError(w, http.StatusBadRequest, "InvalidArgument", "Email is required")
		return
	}
	customer, err := h.service.GetCustomerByEmail(r.Context(), email)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, customer)
}

// ListCustomersHandler handles GET /customers.
func (h *Handlers) ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, customers)
}

// UpdateCustomerHandler handles PUT /customers/{id}.
func (h *Handlers) UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateCustomerRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	customer, err := h.service.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, customer)
}

// DeleteCustomerHandler handles DELETE /customers/{id}.
func (h *Handlers) DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateBranchHandler handles POST /branches.
func (h *Handlers) CreateBranchHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBranchRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	branch, err := h.service.CreateBranch(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, branch)
}

// GetBranchHandler handles GET /branches/{id}.
func (h *Handlers) GetBranchHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	branch, err := h.service.GetBranch(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, branch)
}

// ListBranchesHandler handles GET /branches.
func (h *Handlers) ListBranchesHandler(w http.ResponseWriter, r *http.Request) {
	branches, err := h.service.ListBranches(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, branches)
}

// UpdateBranchHandler handles PUT /branches/{id}.
func (h *Handlers) UpdateBranchHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateBranchRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	branch, err := h.service.UpdateBranch(r.Context(), id, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, branch)
}

// DeleteBranchHandler handles DELETE /branches/{id}.
func (h *Handlers) DeleteBranchHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteBranch(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/**
 * @description
 * This file sets up the HTTP router for the banking service. It defines the
 * API endpoints, associates them with their corresponding handlers, and
 * applies middleware for correlation, logging, panic recovery, timeouts, and
 * optional bearer-token authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes creates and returns the router for the banking service. An empty
// authSecret disables authentication.
func Routes(h *Handlers, authSecret string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for correlation, logging, panic recovery, and timeouts.
	r.Use(RequestCorrelation)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Group routes behind authentication when a secret is configured.
	r.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(authSecret))

		// Customer administration
		r.Post("/customers", h.CreateCustomerHandler)
		r.Get("/customers", h.ListCustomersHandler)
		r.Get("/customers/email/{email}", h.GetCustomerByEmailHandler)
		r.Get("/customers/{id}", h.GetCustomerHandler)
		r.Put("/customers/{id}", h.UpdateCustomerHandler)
		r.Delete("/customers/{id}", h.DeleteCustomerHandler)
		r.Get("/customers/{id}/accounts", h.ListCustomerAccountsHandler)
		r.Get("/customers/{id}/summaries", h.ListCustomerSummariesHandler)

		// Branch administration
		r.Post("/branches", h.CreateBranchHandler)
		r.Get("/branches", h.ListBranchesHandler)
		r.Get("/branches/{id}", h.GetBranchHandler)
		r.Put("/branches/{id}", h.UpdateBranchHandler)
		r.Delete("/branches/{id}", h.DeleteBranchHandler)

		// Account lifecycle
		r.Post("/accounts", h.CreateAccountHandler)
		r.Get("/accounts", h.ListAccountsHandler)
		r.Get("/accounts/number/{accountNumber}", h.GetAccountByNumberHandler)
		r.Get("/accounts/{id}", h.GetAccountHandler)
		r.Put("/accounts/{id}", h.UpdateAccountHandler)
		r.Delete("/accounts/{id}", h.DeleteAccountHandler)
		r.Get("/accounts/{id}/transactions", h.ListAccountTransactionsHandler)

		// Money movement and ledger reads
		r.Post("/transactions/deposit", h.DepositHandler)
		r.Post("/transactions/withdraw", h.WithdrawHandler)
		r.Post("/transactions/transfer", h.TransferHandler)
		r.Get("/transactions", h.ListTransactionsHandler)
		r.Get("/transactions/range", h.ListTransactionsByRangeHandler)
		r.Get("/transactions/{id}", h.GetTransactionHandler)

		// Summary read model
		r.Get("/summaries", h.ListSummariesHandler)
		r.Get("/summaries/{accountId}", h.GetSummaryHandler)
	})

	return r
}

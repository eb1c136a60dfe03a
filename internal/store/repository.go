/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access the banking service needs. The application layer depends only on this
 * interface, which keeps the money-movement engine testable against an
 * in-memory fake and decouples it from the PostgreSQL implementation.
 *
 * The three ledger methods (Deposit, Withdraw, Transfer) are the atomic core:
 * each executes a single store transaction that mutates balances and appends
 * exactly one immutable transaction row, returning the persisted record with
 * its server-assigned id and timestamp.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - internal/domain: The service's domain models.
 */

package store

import (
	"context"
	"time"

	"github.com/stonebridge/banking-service/internal/domain"
)

// Repository defines the set of methods for interacting with the ledger store.
type Repository interface {
	// Customer methods
	CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
	CustomerExists(ctx context.Context, customerID int64) (bool, error)

	// Branch methods
	CreateBranch(ctx context.Context, branch domain.Branch) (domain.Branch, error)
	FindBranchByID(ctx context.Context, branchID int64) (*domain.Branch, error)
	ListBranches(ctx context.Context) ([]domain.Branch, error)
	UpdateBranch(ctx context.Context, branch domain.Branch) (domain.Branch, error)
	DeleteBranch(ctx context.Context, branchID int64) error
	BranchExists(ctx context.Context, branchID int64) (bool, error)

	// Account methods
	// CreateAccount relies on the store's unique constraint on account_number;
	// a duplicate surfaces as ErrDuplicateAccountNumber, never as a lost race.
	CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error)
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	FindAccountsByCustomerID(ctx context.Context, customerID int64) ([]domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID int64, accountType *domain.AccountType, status *domain.AccountStatus) (domain.Account, error)
	// DeleteAccount verifies zero balance and zero associated transactions
	// inside the same transaction that deletes the row.
	DeleteAccount(ctx context.Context, accountID int64) error
	HasTransactions(ctx context.Context, accountID int64) (bool, error)

	// Ledger methods (atomic money movement)
	Deposit(ctx context.Context, accountID int64, amountCents int64, description *string) (domain.Transaction, error)
	Withdraw(ctx context.Context, accountID int64, amountCents int64, description *string) (domain.Transaction, error)
	Transfer(ctx context.Context, fromAccountID, toAccountID int64, amountCents int64, description *string) (domain.Transaction, error)

	// Transaction log reads
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	FindTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	FindTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// Account summary reads (view-backed projection)
	ListAccountSummaries(ctx context.Context) ([]domain.AccountSummary, error)
	FindAccountSummaryByAccountID(ctx context.Context, accountID int64) (*domain.AccountSummary, error)
	FindAccountSummariesByCustomerID(ctx context.Context, customerID int64) ([]domain.AccountSummary, error)
}

/**
 * @description
 * Account domain models. An account belongs to exactly one customer and one
 * branch, carries a globally unique account number (immutable once assigned),
 * and a non-negative balance held as int64 cents. Balances only change through
 * the money-movement engine; the account update path never touches them.
 *
 * @dependencies
 * - time: Standard Go library.
 */

package domain

import "time"

// AccountType enumerates the supported account products.
type AccountType string

const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
)

// Valid reports whether the account type is one of the known products.
func (t AccountType) Valid() bool {
	return t == AccountTypeSavings || t == AccountTypeChecking
}

// AccountStatus enumerates account lifecycle states. CLOSED blocks all
// debits and credits; transitions are operator-driven, never automatic.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Valid reports whether the status is a known lifecycle state.
func (s AccountStatus) Valid() bool {
	return s == AccountStatusActive || s == AccountStatusClosed
}

// Account is the ledger-side record of a customer account.
type Account struct {
	ID            int64         `json:"account_id"`
	CustomerID    int64         `json:"customer_id"`
	BranchID      int64         `json:"branch_id"`
	AccountType   AccountType   `json:"account_type"`
	AccountNumber string        `json:"account_number"`
	BalanceCents  int64         `json:"-"`
	Balance       string        `json:"balance"` // fixed-point decimal string
	Status        AccountStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// WithFormattedBalance returns a copy of the account with the wire-format
// balance derived from the cents value.
func (a Account) WithFormattedBalance() Account {
	a.Balance = FormatAmount(a.BalanceCents)
	return a
}

// AccountSummary is a read-only projection joining account, customer, and
// branch for display. It is recomputed from the underlying rows on every read.
type AccountSummary struct {
	AccountID     int64       `json:"account_id"`
	AccountNumber string      `json:"account_number"`
	AccountType   AccountType `json:"account_type"`
	BalanceCents  int64       `json:"-"`
	Balance       string      `json:"balance"`
	CustomerID    int64       `json:"customer_id"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	BranchName    string      `json:"branch_name"`
}

// WithFormattedBalance returns a copy with the wire-format balance populated.
func (s AccountSummary) WithFormattedBalance() AccountSummary {
	s.Balance = FormatAmount(s.BalanceCents)
	return s
}

// CreateAccountRequest is the DTO for opening a new account.
type CreateAccountRequest struct {
	CustomerID     int64   `json:"customer_id"`
	BranchID       int64   `json:"branch_id"`
	AccountType    string  `json:"account_type"`
	AccountNumber  string  `json:"account_number"`
	OpeningBalance *string `json:"opening_balance,omitempty"` // fixed-point decimal
}

// UpdateAccountRequest is the DTO for advisory account updates. Balance and
// account number are deliberately absent; neither is updatable here.
type UpdateAccountRequest struct {
	AccountType *string `json:"account_type,omitempty"`
	Status      *string `json:"status,omitempty"`
}

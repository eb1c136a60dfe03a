/**
 * @description
 * Transaction domain models for the money-movement engine. A transaction is an
 * immutable ledger entry: once the engine commits it, it is never updated or
 * deleted. Identifiers are monotonic int64 values assigned by the store, and
 * timestamps are assigned server-side at commit time.
 *
 * @notes
 * - Amounts are carried as int64 cents internally and as fixed-point decimal
 *   strings on the wire, avoiding binary floating point end to end.
 * - TargetAccountID is set iff the transaction is a TRANSFER, and always
 *   differs from the source account.
 *
 * @dependencies
 * - time: Standard Go library.
 */

package domain

import "time"

// TransactionType enumerates the ledger entry kinds.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// Transaction is the immutable ledger record of one money movement.
type Transaction struct {
	ID              int64           `json:"transaction_id"`
	AccountID       int64           `json:"account_id"`
	TransactionType TransactionType `json:"transaction_type"`
	AmountCents     int64           `json:"-"`
	Amount          string          `json:"amount"` // fixed-point decimal string
	TransactionDate time.Time       `json:"transaction_date"`
	Description     *string         `json:"description,omitempty"`
	TargetAccountID *int64          `json:"target_account_id,omitempty"`
}

// WithFormattedAmount returns a copy with the wire-format amount populated.
func (t Transaction) WithFormattedAmount() Transaction {
	t.Amount = FormatAmount(t.AmountCents)
	return t
}

// DepositRequest is the DTO for deposit API requests.
type DepositRequest struct {
	AccountID   int64   `json:"account_id"`
	Amount      string  `json:"amount"` // fixed-point decimal
	Description *string `json:"description,omitempty"`
}

// WithdrawRequest is the DTO for withdrawal API requests.
type WithdrawRequest struct {
	AccountID   int64   `json:"account_id"`
	Amount      string  `json:"amount"`
	Description *string `json:"description,omitempty"`
}

// TransferRequest is the DTO for transfer API requests.
type TransferRequest struct {
	FromAccountID int64   `json:"from_account_id"`
	ToAccountID   int64   `json:"to_account_id"`
	Amount        string  `json:"amount"`
	Description   *string `json:"description,omitempty"`
}

/**
 * @description
 * Payloads published to the message broker after ledger mutations commit.
 * Consumers (statement generation, notifications) receive these on the
 * `ledger.events` topic exchange. Event IDs are UUIDs so downstream systems
 * can deduplicate redeliveries.
 *
 * @dependencies
 * - time: Standard Go library.
 * - github.com/google/uuid: Event identifiers.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionPostedEvent is published after a deposit, withdrawal, or
// transfer commits. Routing key: ledger.transaction.posted.
type TransactionPostedEvent struct {
	EventID         uuid.UUID       `json:"event_id"`
	TransactionID   int64           `json:"transaction_id"`
	AccountID       int64           `json:"account_id"`
	TargetAccountID *int64          `json:"target_account_id,omitempty"`
	TransactionType TransactionType `json:"transaction_type"`
	Amount          string          `json:"amount"`
	PostedAt        time.Time       `json:"posted_at"`
}

// AccountLifecycleEvent is published after an account is created or deleted.
// Routing keys: ledger.account.created, ledger.account.deleted.
type AccountLifecycleEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	AccountID     int64     `json:"account_id"`
	AccountNumber string    `json:"account_number"`
	CustomerID    int64     `json:"customer_id"`
	BranchID      int64     `json:"branch_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

/**
 * @description
 * Atomic money-movement operations against PostgreSQL. Each operation runs in
 * a single database transaction: the account rows are locked with FOR UPDATE,
 * the funds check reads the locked value, the balance mutation and the ledger
 * insert commit together or not at all. Rollback is deferred, so a caller
 * abandoning the request (context cancellation) leaves no partial effect.
 *
 * Transfer locks both accounts in ascending account_id order before reading
 * either balance, so two opposing transfers on the same pair cannot deadlock.
 * The inserted ledger row's id and server timestamp come straight back from
 * INSERT ... RETURNING; the engine never re-queries the log to find its own
 * write.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - github.com/jackc/pgx/v5: Transaction control and row locking.
 * - internal/domain: The Transaction ledger record.
 */

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/stonebridge/banking-service/internal/domain"
)

// lockAccount reads an account's balance and status under FOR UPDATE.
func lockAccount(ctx context.Context, tx pgx.Tx, accountID int64) (balanceCents int64, status domain.AccountStatus, err error) {
	err = tx.QueryRow(ctx,
		`SELECT balance_cents, status FROM accounts WHERE account_id = $1 FOR UPDATE`,
		accountID,
	).Scan(&balanceCents, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", ErrAccountNotFound
	}
	return balanceCents, status, err
}

func insertTransaction(ctx context.Context, tx pgx.Tx, accountID int64, txType domain.TransactionType, amountCents int64, description *string, targetAccountID *int64) (domain.Transaction, error) {
	record := domain.Transaction{
		AccountID:       accountID,
		TransactionType: txType,
		AmountCents:     amountCents,
		Description:     description,
		TargetAccountID: targetAccountID,
	}
	err := tx.QueryRow(ctx,
		`INSERT INTO transactions (account_id, transaction_type, amount_cents, description, target_account_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING transaction_id, transaction_date`,
		accountID, txType, amountCents, description, targetAccountID,
	).Scan(&record.ID, &record.TransactionDate)
	return record, err
}

// Deposit atomically credits an account and appends a DEPOSIT ledger row.
func (r *PostgresRepository) Deposit(ctx context.Context, accountID int64, amountCents int64, description *string) (domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	defer tx.Rollback(ctx)

	_, status, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if status == domain.AccountStatusClosed {
		return domain.Transaction{}, ErrAccountClosed
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + $1 WHERE account_id = $2`,
		amountCents, accountID,
	); err != nil {
		return domain.Transaction{}, err
	}

	record, err := insertTransaction(ctx, tx, accountID, domain.TransactionTypeDeposit, amountCents, description, nil)
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return record, nil
}

// Withdraw atomically debits an account and appends a WITHDRAWAL ledger row.
// The funds check is evaluated against the FOR-UPDATE balance, so concurrent
// withdrawals on one account can never jointly overdraw it.
func (r *PostgresRepository) Withdraw(ctx context.Context, accountID int64, amountCents int64, description *string) (domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	defer tx.Rollback(ctx)

	balance, status, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if status == domain.AccountStatusClosed {
		return domain.Transaction{}, ErrAccountClosed
	}
	if balance < amountCents {
		return domain.Transaction{}, ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance_cents = balance_cents - $1 WHERE account_id = $2`,
		amountCents, accountID,
	); err != nil {
		return domain.Transaction{}, err
	}

	record, err := insertTransaction(ctx, tx, accountID, domain.TransactionTypeWithdrawal, amountCents, description, nil)
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return record, nil
}

// Transfer atomically debits the source, credits the target, and appends
// exactly one TRANSFER ledger row on the source account referencing the
// target. Lock order is ascending account_id regardless of direction.
func (r *PostgresRepository) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amountCents int64, description *string) (domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	defer tx.Rollback(ctx)

	first, second := fromAccountID, toAccountID
	if second < first {
		first, second = second, first
	}

	balances := make(map[int64]int64, 2)
	statuses := make(map[int64]domain.AccountStatus, 2)
	for _, id := range []int64{first, second} {
		balance, status, err := lockAccount(ctx, tx, id)
		if err != nil {
			return domain.Transaction{}, err
		}
		balances[id] = balance
		statuses[id] = status
	}

	if statuses[fromAccountID] == domain.AccountStatusClosed || statuses[toAccountID] == domain.AccountStatusClosed {
		return domain.Transaction{}, ErrAccountClosed
	}
	if balances[fromAccountID] < amountCents {
		return domain.Transaction{}, ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance_cents = balance_cents - $1 WHERE account_id = $2`,
		amountCents, fromAccountID,
	); err != nil {
		return domain.Transaction{}, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + $1 WHERE account_id = $2`,
		amountCents, toAccountID,
	); err != nil {
		return domain.Transaction{}, err
	}

	record, err := insertTransaction(ctx, tx, fromAccountID, domain.TransactionTypeTransfer, amountCents, description, &toAccountID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return record, nil
}

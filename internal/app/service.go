/**
 * @description
 * Core business logic for the banking service. The `Service` struct hosts the
 * money-movement engine: it validates typed intents (deposit, withdraw,
 * transfer), delegates the atomic balance mutation and ledger append to the
 * repository, and publishes a ledger event once the store has committed.
 *
 * Key properties:
 * - Every mutation is all-or-nothing: the repository runs it in one store
 *   transaction, and validation failures short-circuit before any write.
 * - The committed ledger record (with its server-assigned id and timestamp)
 *   is returned directly from the atomic write, never re-derived by querying
 *   the log afterwards.
 * - Event publishing is best-effort: a broker failure is logged and never
 *   affects an already-committed transaction.
 *
 * @dependencies
 * - context, errors, fmt, log, time: Standard Go libraries.
 * - github.com/google/uuid: Event identifiers.
 * - internal/domain, internal/store: Domain models and data access.
 * - pkg/rabbitmq: Ledger event publishing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/stonebridge/banking-service/internal/domain"
	"github.com/stonebridge/banking-service/internal/store"
	"github.com/stonebridge/banking-service/pkg/rabbitmq"
)

// LedgerEventsExchange is the durable topic exchange for ledger events.
const LedgerEventsExchange = "ledger.events"

// RateLimiter counts money-movement requests per subject within a window.
// A nil limiter disables limiting.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

// Service provides the core business logic for the banking back office.
type Service struct {
	repo          store.Repository
	eventProducer rabbitmq.Publisher

	rateLimiter        RateLimiter
	movementRatePerMin int
}

// NewService creates a new service instance.
func NewService(repo store.Repository, producer rabbitmq.Publisher) *Service {
	return &Service{
		repo:          repo,
		eventProducer: producer,
	}
}

// SetMovementRateLimiter enables per-account rate limiting of money-movement
// operations. Limit <= 0 leaves limiting disabled.
func (s *Service) SetMovementRateLimiter(limiter RateLimiter, perMinute int) {
	s.rateLimiter = limiter
	s.movementRatePerMin = perMinute
}

func (s *Service) consumeMovementLimit(ctx context.Context, accountID int64) error {
	if s.rateLimiter == nil || s.movementRatePerMin <= 0 {
		return nil
	}
	count, _, err := s.rateLimiter.ConsumeRateLimit(ctx, "money_movement", fmt.Sprintf("%d", accountID), s.movementRatePerMin, time.Minute)
	if err != nil {
		// Limiter outages must not block the ledger.
		log.Printf("level=warn component=app msg=\"rate limiter unavailable; allowing request\" account_id=%d err=%v", accountID, err)
		return nil
	}
	if count > s.movementRatePerMin {
		return ErrRateLimited
	}
	return nil
}

// Deposit credits an account and returns the committed DEPOSIT record.
func (s *Service) Deposit(ctx context.Context, req domain.DepositRequest) (*domain.Transaction, error) {
	amountCents, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.consumeMovementLimit(ctx, req.AccountID); err != nil {
		return nil, err
	}

	record, err := s.repo.Deposit(ctx, req.AccountID, amountCents, req.Description)
	if err != nil {
		return nil, err
	}

	s.publishTransactionPosted(ctx, record)
	record = record.WithFormattedAmount()
	return &record, nil
}

// Withdraw debits an account and returns the committed WITHDRAWAL record.
// The sufficient-funds check happens inside the store transaction, against the
// locked row value, never against a previously read balance.
func (s *Service) Withdraw(ctx context.Context, req domain.WithdrawRequest) (*domain.Transaction, error) {
	amountCents, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.consumeMovementLimit(ctx, req.AccountID); err != nil {
		return nil, err
	}

	record, err := s.repo.Withdraw(ctx, req.AccountID, amountCents, req.Description)
	if err != nil {
		return nil, err
	}

	s.publishTransactionPosted(ctx, record)
	record = record.WithFormattedAmount()
	return &record, nil
}

// Transfer atomically moves funds between two distinct accounts and returns
// the committed TRANSFER record appended on the source account.
func (s *Service) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.Transaction, error) {
	if req.ToAccountID == 0 {
		return nil, ErrMissingTargetAccount
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, ErrSameAccountTransfer
	}
	amountCents, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.consumeMovementLimit(ctx, req.FromAccountID); err != nil {
		return nil, err
	}

	description := req.Description
	if description == nil || *description == "" {
		defaulted := fmt.Sprintf("Transfer to account %d", req.ToAccountID)
		description = &defaulted
	}

	record, err := s.repo.Transfer(ctx, req.FromAccountID, req.ToAccountID, amountCents, description)
	if err != nil {
		return nil, err
	}

	s.publishTransactionPosted(ctx, record)
	record = record.WithFormattedAmount()
	return &record, nil
}

// GetTransaction returns a single ledger record.
func (s *Service) GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	record, err := s.repo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	formatted := record.WithFormattedAmount()
	return &formatted, nil
}

// ListTransactions returns the full ledger, newest first.
func (s *Service) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	records, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return formatTransactions(records), nil
}

// ListTransactionsByAccount returns ledger records for one account after
// verifying the account exists.
func (s *Service) ListTransactionsByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	if _, err := s.repo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	records, err := s.repo.FindTransactionsByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return formatTransactions(records), nil
}

// ListTransactionsByDateRange returns ledger records committed within
// [start, end]. A start after end is rejected before touching the store.
func (s *Service) ListTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}
	records, err := s.repo.FindTransactionsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return formatTransactions(records), nil
}

func formatTransactions(records []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(records))
	for i, r := range records {
		out[i] = r.WithFormattedAmount()
	}
	return out
}

func (s *Service) publishTransactionPosted(ctx context.Context, record domain.Transaction) {
	if s.eventProducer == nil {
		return
	}
	event := domain.TransactionPostedEvent{
		EventID:         uuid.New(),
		TransactionID:   record.ID,
		AccountID:       record.AccountID,
		TargetAccountID: record.TargetAccountID,
		TransactionType: record.TransactionType,
		Amount:          domain.FormatAmount(record.AmountCents),
		PostedAt:        record.TransactionDate,
	}
	if err := s.eventProducer.Publish(ctx, LedgerEventsExchange, "ledger.transaction.posted", event); err != nil {
		log.Printf("level=warn component=app msg=\"transaction event publish failed\" transaction_id=%d err=%v", record.ID, err)
	}
}

// IsNotFound reports whether the error is any of the store's missing-entity
// sentinels. Handlers use it for the NotFound mapping.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrCustomerNotFound) ||
		errors.Is(err, store.ErrBranchNotFound) ||
		errors.Is(err, store.ErrAccountNotFound) ||
		errors.Is(err, store.ErrTransactionNotFound) ||
		errors.Is(err, store.ErrSummaryNotFound)
}

/**
 * @description
 * Account lifecycle logic: opening, advisory updates, and guarded deletion.
 * Opening an account validates the owning customer and branch, then relies on
 * the store's unique constraint for the account number instead of a racy
 * read-then-write check. Deletion requires an exactly-zero balance and an
 * empty transaction history, verified inside the deleting transaction.
 *
 * @dependencies
 * - context, errors, fmt, log, strings, time: Standard Go libraries.
 * - github.com/google/uuid: Event identifiers.
 * - github.com/shopspring/decimal: Zero-vs-negative check for opening balances.
 * - internal/domain, internal/store: Domain models and data access.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stonebridge/banking-service/internal/domain"
	"github.com/stonebridge/banking-service/internal/store"
)

// CreateAccount opens a new account for an existing customer at an existing
// branch. Duplicate account numbers surface as store.ErrDuplicateAccountNumber
// from the insert itself.
func (s *Service) CreateAccount(ctx context.Context, req domain.CreateAccountRequest) (*domain.Account, error) {
	accountType := domain.AccountType(strings.ToUpper(strings.TrimSpace(req.AccountType)))
	if !accountType.Valid() {
		return nil, ErrInvalidAccountType
	}
	accountNumber := strings.TrimSpace(req.AccountNumber)
	if accountNumber == "" || len(accountNumber) > 20 {
		return nil, ErrInvalidAccountNumber
	}

	var openingCents int64
	if req.OpeningBalance != nil && strings.TrimSpace(*req.OpeningBalance) != "" {
		cents, err := parseNonNegativeAmount(*req.OpeningBalance)
		if err != nil {
			return nil, err
		}
		openingCents = cents
	}

	exists, err := s.repo.CustomerExists(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return nil, store.ErrCustomerNotFound
	}
	exists, err = s.repo.BranchExists(ctx, req.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to check branch: %w", err)
	}
	if !exists {
		return nil, store.ErrBranchNotFound
	}

	created, err := s.repo.CreateAccount(ctx, domain.Account{
		CustomerID:    req.CustomerID,
		BranchID:      req.BranchID,
		AccountType:   accountType,
		AccountNumber: accountNumber,
		BalanceCents:  openingCents,
		Status:        domain.AccountStatusActive,
	})
	if err != nil {
		return nil, err
	}

	s.publishAccountLifecycle(ctx, "ledger.account.created", created)
	created = created.WithFormattedBalance()
	return &created, nil
}

// parseNonNegativeAmount accepts zero and positive fixed-point values;
// negatives map to ErrNegativeOpeningBalance.
func parseNonNegativeAmount(s string) (int64, error) {
	cents, err := domain.ParseAmount(s)
	if err == nil {
		return cents, nil
	}
	if errors.Is(err, domain.ErrNonPositiveAmount) {
		d, derr := decimal.NewFromString(strings.TrimSpace(s))
		if derr == nil && d.IsZero() {
			return 0, nil
		}
		return 0, ErrNegativeOpeningBalance
	}
	return 0, err
}

// GetAccount returns one account by id.
func (s *Service) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	formatted := account.WithFormattedBalance()
	return &formatted, nil
}

// GetAccountByNumber returns one account by its unique account number.
func (s *Service) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.repo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	formatted := account.WithFormattedBalance()
	return &formatted, nil
}

// ListAccounts returns every account.
func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return formatAccounts(accounts), nil
}

// ListAccountsByCustomer returns a customer's accounts after verifying the
// customer exists.
func (s *Service) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	exists, err := s.repo.CustomerExists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrCustomerNotFound
	}
	accounts, err := s.repo.FindAccountsByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return formatAccounts(accounts), nil
}

// UpdateAccount applies advisory type/status changes. Balances are only ever
// touched by the money-movement engine.
func (s *Service) UpdateAccount(ctx context.Context, accountID int64, req domain.UpdateAccountRequest) (*domain.Account, error) {
	var accountType *domain.AccountType
	if req.AccountType != nil {
		t := domain.AccountType(strings.ToUpper(strings.TrimSpace(*req.AccountType)))
		if !t.Valid() {
			return nil, ErrInvalidAccountType
		}
		accountType = &t
	}
	var status *domain.AccountStatus
	if req.Status != nil {
		st := domain.AccountStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !st.Valid() {
			return nil, ErrInvalidAccountStatus
		}
		status = &st
	}

	updated, err := s.repo.UpdateAccount(ctx, accountID, accountType, status)
	if err != nil {
		return nil, err
	}
	formatted := updated.WithFormattedBalance()
	return &formatted, nil
}

// DeleteAccount removes an account when its balance is exactly zero and no
// ledger rows reference it; otherwise the store reports why.
func (s *Service) DeleteAccount(ctx context.Context, accountID int64) error {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAccount(ctx, accountID); err != nil {
		return err
	}
	s.publishAccountLifecycle(ctx, "ledger.account.deleted", *account)
	return nil
}

func formatAccounts(accounts []domain.Account) []domain.Account {
	out := make([]domain.Account, len(accounts))
	for i, a := range accounts {
		out[i] = a.WithFormattedBalance()
	}
	return out
}

func (s *Service) publishAccountLifecycle(ctx context.Context, routingKey string, account domain.Account) {
	if s.eventProducer == nil {
		return
	}
	event := domain.AccountLifecycleEvent{
		EventID:       uuid.New(),
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		CustomerID:    account.CustomerID,
		BranchID:      account.BranchID,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.eventProducer.Publish(ctx, LedgerEventsExchange, routingKey, event); err != nil {
		log.Printf("level=warn component=app msg=\"account event publish failed\" account_id=%d routing_key=%s err=%v", account.ID, routingKey, err)
	}
}

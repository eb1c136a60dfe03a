package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stonebridge/banking-service/internal/domain"
	"github.com/stonebridge/banking-service/internal/store"
)

func newTestService(t *testing.T) (*Service, *fakeRepository, *capturingPublisher) {
	t.Helper()
	repo := newFakeRepository()
	publisher := &capturingPublisher{}
	return NewService(repo, publisher), repo, publisher
}

func seedAccountWithBalance(t *testing.T, repo *fakeRepository, balanceCents int64) domain.Account {
	t.Helper()
	customer := repo.seedCustomer(domain.Customer{FirstName: "Ada", LastName: "Lovelace", Email: fmt.Sprintf("ada%d@example.com", repo.nextCustomerID+1)})
	branch := repo.seedBranch(domain.Branch{Name: "Main", Address: "1 High St"})
	return repo.seedAccount(domain.Account{
		CustomerID:    customer.ID,
		BranchID:      branch.ID,
		AccountType:   domain.AccountTypeChecking,
		AccountNumber: fmt.Sprintf("ACC-%03d", repo.nextAccountID+1),
		BalanceCents:  balanceCents,
		Status:        domain.AccountStatusActive,
	})
}

func TestDeposit_CreditsBalanceAndAppendsRecord(t *testing.T) {
	svc, repo, publisher := newTestService(t)
	account := seedAccountWithBalance(t, repo, 5000)

	record, err := svc.Deposit(context.Background(), domain.DepositRequest{AccountID: account.ID, Amount: "100.00"})
	if err != nil {
		t.Fatalf("Deposit returned error: %v", err)
	}
	if record.TransactionType != domain.TransactionTypeDeposit {
		t.Fatalf("expected DEPOSIT record, got %s", record.TransactionType)
	}
	if record.ID == 0 {
		t.Fatalf("expected server-assigned transaction id")
	}
	if record.Amount != "100.00" {
		t.Fatalf("expected wire amount 100.00, got %q", record.Amount)
	}

	stored, _ := repo.FindAccountByID(context.Background(), account.ID)
	if stored.BalanceCents != 15000 {
		t.Fatalf("expected balance 15000 cents, got %d", stored.BalanceCents)
	}
	if got := publisher.byRoutingKey("ledger.transaction.posted"); len(got) != 1 {
		t.Fatalf("expected one posted event, got %d", len(got))
	}
}

func TestWithdraw_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	svc, repo, publisher := newTestService(t)
	account := seedAccountWithBalance(t, repo, 15000)

	_, err := svc.Withdraw(context.Background(), domain.WithdrawRequest{AccountID: account.ID, Amount: "200.00"})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	stored, _ := repo.FindAccountByID(context.Background(), account.ID)
	if stored.BalanceCents != 15000 {
		t.Fatalf("expected balance unchanged at 15000, got %d", stored.BalanceCents)
	}
	records, _ := repo.ListTransactions(context.Background())
	if len(records) != 0 {
		t.Fatalf("expected no ledger record after rejected withdrawal, got %d", len(records))
	}
	if got := publisher.byRoutingKey("ledger.transaction.posted"); len(got) != 0 {
		t.Fatalf("expected no posted event, got %d", len(got))
	}
}

func TestTransfer_MovesFundsAndAppendsSingleRecord(t *testing.T) {
	svc, repo, _ := newTestService(t)
	from := seedAccountWithBalance(t, repo, 15000)
	to := seedAccountWithBalance(t, repo, 0)

	record, err := svc.Transfer(context.Background(), domain.TransferRequest{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        "50.00",
	})
	if err != nil {
		t.Fatalf("Transfer returned error: %v", err)
	}
	if record.TransactionType != domain.TransactionTypeTransfer {
		t.Fatalf("expected TRANSFER record, got %s", record.TransactionType)
	}
	if record.AccountID != from.ID {
		t.Fatalf("expected record on source account %d, got %d", from.ID, record.AccountID)
	}
	if record.TargetAccountID == nil || *record.TargetAccountID != to.ID {
		t.Fatalf("expected target account %d on record", to.ID)
	}

	fromStored, _ := repo.FindAccountByID(context.Background(), from.ID)
	toStored, _ := repo.FindAccountByID(context.Background(), to.ID)
	if fromStored.BalanceCents != 10000 {
		t.Fatalf("expected source balance 10000, got %d", fromStored.BalanceCents)
	}
	if toStored.BalanceCents != 5000 {
		t.Fatalf("expected target balance 5000, got %d", toStored.BalanceCents)
	}
	records, _ := repo.ListTransactions(context.Background())
	if len(records) != 1 {
		t.Fatalf("expected exactly one ledger record for the transfer, got %d", len(records))
	}
}

func TestTransfer_DefaultsDescription(t *testing.T) {
	svc, repo, _ := newTestService(t)
	from := seedAccountWithBalance(t, repo, 10000)
	to := seedAccountWithBalance(t, repo, 0)

	record, err := svc.Transfer(context.Background(), domain.TransferRequest{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        "10.00",
	})
	if err != nil {
		t.Fatalf("Transfer returned error: %v", err)
	}
	want := fmt.Sprintf("Transfer to account %d", to.ID)
	if record.Description == nil || *record.Description != want {
		t.Fatalf("expected default description %q, got %v", want, record.Description)
	}
}

func TestTransfer_SameAccountRejectedWithoutRecord(t *testing.T) {
	svc, repo, _ := newTestService(t)
	account := seedAccountWithBalance(t, repo, 10000)

	_, err := svc.Transfer(context.Background(), domain.TransferRequest{
		FromAccountID: account.ID,
		ToAccountID:   account.ID,
		Amount:        "10.00",
	})
	if !errors.Is(err, ErrSameAccountTransfer) {
		t.Fatalf("expected ErrSameAccountTransfer, got %v", err)
	}
	records, _ := repo.ListTransactions(context.Background())
	if len(records) != 0 {
		t.Fatalf("expected no ledger record, got %d", len(records))
	}
}

func TestTransfer_MissingTargetRejected(t *testing.T) {
	svc, repo, _ := newTestService(t)
	account := seedAccountWithBalance(t, repo, 10000)

	_, err := svc.Transfer(context.Background(), domain.TransferRequest{
		FromAccountID: account.ID,
		Amount:        "10.00",
	})
	if !errors.Is(err, ErrMissingTargetAccount) {
		t.Fatalf("expected ErrMissingTargetAccount, got %v", err)
	}
}

func TestDeposit_ClosedAccountRejected(t *testing.T) {
	svc, repo, _ := newTestService(t)
	account := seedAccountWithBalance(t, repo, 0)
	closed := domain.AccountStatusClosed
	if _, err := repo.UpdateAccount(context.Background(), account.ID, nil, &closed); err != nil {
		t.Fatalf("failed to close account: %v", err)
	}

	_, err := svc.Deposit(context.Background(), domain.DepositRequest{AccountID: account.ID, Amount: "10.00"})
	if !errors.Is(err, store.ErrAccountClosed) {
		t.Fatalf("expected ErrAccountClosed, got %v", err)
	}
}

func TestDeposit_UnknownAccountRejected(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Deposit(context.Background(), domain.DepositRequest{AccountID: 404, Amount: "10.00"})
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestDeposit_AmountValidation(t *testing.T) {
	svc, repo, _ := newTestService(t)
	account := seedAccountWithBalance(t, repo, 0)

	cases := []struct {
		name   string
		amount string
		want   error
	}{
		{"malformed", "ten dollars", domain.ErrMalformedAmount},
		{"too many decimals", "10.123", domain.ErrAmountPrecision},
		{"zero", "0.00", domain.ErrNonPositiveAmount},
		{"negative", "-5.00", domain.ErrNonPositiveAmount},
		{"cents beyond int64", "92233720368547758.08", domain.ErrMalformedAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Deposit(context.Background(), domain.DepositRequest{AccountID: account.ID, Amount: tc.amount})
			if !errors.Is(err, tc.want) {
				t.Fatalf("amount %q: expected %v, got %v", tc.amount, tc.want, err)
			}
		})
	}
}

func TestListTransactionsByDateRange_RejectsInvertedRange(t *testing.T) {
	svc, _, _ := newTestService(t)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := svc.ListTransactionsByDateRange(context.Background(), start, end)
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestListTransactionsByAccount_UnknownAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListTransactionsByAccount(context.Background(), 404)
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestEngine_ConservesTotalFunds(t *testing.T) {
	svc, repo, _ := newTestService(t)
	a := seedAccountWithBalance(t, repo, 100000)
	b := seedAccountWithBalance(t, repo, 50000)

	ops := []func() error{
		func() error {
			_, err := svc.Transfer(context.Background(), domain.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: "123.45"})
			return err
		},
		func() error {
			_, err := svc.Transfer(context.Background(), domain.TransferRequest{FromAccountID: b.ID, ToAccountID: a.ID, Amount: "0.01"})
			return err
		},
		func() error {
			_, err := svc.Transfer(context.Background(), domain.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: "999999.00"})
			return err // expected to fail on funds
		},
	}
	for _, op := range ops {
		_ = op()
	}

	aStored, _ := repo.FindAccountByID(context.Background(), a.ID)
	bStored, _ := repo.FindAccountByID(context.Background(), b.ID)
	if total := aStored.BalanceCents + bStored.BalanceCents; total != 150000 {
		t.Fatalf("transfers must conserve total funds: expected 150000, got %d", total)
	}
}

func TestWithdraw_ConcurrentDrainsExactly(t *testing.T) {
	svc, repo, _ := newTestService(t)
	// Balance of 100.00, 30 concurrent withdrawals of 7.00: exactly 14 must
	// commit, leaving 2.00.
	account := seedAccountWithBalance(t, repo, 10000)

	const workers = 30
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Withdraw(context.Background(), domain.WithdrawRequest{AccountID: account.ID, Amount: "7.00"})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, store.ErrInsufficientFunds) {
				t.Errorf("unexpected withdrawal error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 14 {
		t.Fatalf("expected exactly 14 withdrawals to commit, got %d", succeeded)
	}
	stored, _ := repo.FindAccountByID(context.Background(), account.ID)
	if stored.BalanceCents != 200 {
		t.Fatalf("expected final balance 200 cents, got %d", stored.BalanceCents)
	}
	records, _ := repo.ListTransactions(context.Background())
	if len(records) != 14 {
		t.Fatalf("expected 14 ledger records, got %d", len(records))
	}
}

type stubLimiter struct {
	count int
	err   error
}

func (s *stubLimiter) ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (int, int, error) {
	return s.count, 1, s.err
}

func TestMovementRateLimit_OverLimitRejected(t *testing.T) {
	svc, repo, _ := newTestService(t)
	account := seedAccountWithBalance(t, repo, 10000)
	svc.SetMovementRateLimiter(&stubLimiter{count: 11}, 10)

	_, err := svc.Deposit(context.Background(), domain.DepositRequest{AccountID: account.ID, Amount: "1.00"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestMovementRateLimit_LimiterOutageAllowsRequest(t *testing.T) {
	svc, repo, _ := newTestService(t)
	account := seedAccountWithBalance(t, repo, 10000)
	svc.SetMovementRateLimiter(&stubLimiter{err: errors.New("redis down")}, 10)

	if _, err := svc.Deposit(context.Background(), domain.DepositRequest{AccountID: account.ID, Amount: "1.00"}); err != nil {
		t.Fatalf("limiter outage must not block the ledger, got %v", err)
	}
}

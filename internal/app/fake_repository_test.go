package app

import (
	"context"
	"sync"
	"time"

	"github.com/stonebridge/banking-service/internal/domain"
	"github.com/stonebridge/banking-service/internal/store"
)

// fakeRepository is an in-memory store.Repository. A single mutex serializes
// every ledger mutation, which mirrors the row-lock semantics of the real
// store closely enough for engine tests, including the concurrency ones.
type fakeRepository struct {
	mu sync.Mutex

	customers    map[int64]domain.Customer
	branches     map[int64]domain.Branch
	accounts     map[int64]domain.Account
	transactions []domain.Transaction

	nextCustomerID    int64
	nextBranchID      int64
	nextAccountID     int64
	nextTransactionID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		customers: make(map[int64]domain.Customer),
		branches:  make(map[int64]domain.Branch),
		accounts:  make(map[int64]domain.Account),
	}
}

func (f *fakeRepository) seedCustomer(c domain.Customer) domain.Customer {
	created, _ := f.CreateCustomer(context.Background(), c)
	return created
}

func (f *fakeRepository) seedBranch(b domain.Branch) domain.Branch {
	created, _ := f.CreateBranch(context.Background(), b)
	return created
}

func (f *fakeRepository) seedAccount(a domain.Account) domain.Account {
	created, _ := f.CreateAccount(context.Background(), a)
	return created
}

func (f *fakeRepository) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.customers {
		if existing.Email == customer.Email {
			return domain.Customer{}, store.ErrDuplicateEmail
		}
	}
	f.nextCustomerID++
	customer.ID = f.nextCustomerID
	customer.CreatedAt = time.Now().UTC()
	f.customers[customer.ID] = customer
	return customer, nil
}

func (f *fakeRepository) FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[customerID]
	if !ok {
		return nil, store.ErrCustomerNotFound
	}
	return &c, nil
}

func (f *fakeRepository) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.Email == email {
			out := c
			return &out, nil
		}
	}
	return nil, store.ErrCustomerNotFound
}

func (f *fakeRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.customers[customer.ID]
	if !ok {
		return domain.Customer{}, store.ErrCustomerNotFound
	}
	for id, existing := range f.customers {
		if id != customer.ID && existing.Email == customer.Email {
			return domain.Customer{}, store.ErrDuplicateEmail
		}
	}
	customer.CreatedAt = current.CreatedAt
	f.customers[customer.ID] = customer
	return customer, nil
}

func (f *fakeRepository) DeleteCustomer(ctx context.Context, customerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.customers[customerID]; !ok {
		return store.ErrCustomerNotFound
	}
	for _, a := range f.accounts {
		if a.CustomerID == customerID {
			return store.ErrCustomerHasAccounts
		}
	}
	delete(f.customers, customerID)
	return nil
}

func (f *fakeRepository) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.customers[customerID]
	return ok, nil
}

func (f *fakeRepository) CreateBranch(ctx context.Context, branch domain.Branch) (domain.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextBranchID++
	branch.ID = f.nextBranchID
	branch.CreatedAt = time.Now().UTC()
	f.branches[branch.ID] = branch
	return branch, nil
}

func (f *fakeRepository) FindBranchByID(ctx context.Context, branchID int64) (*domain.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.branches[branchID]
	if !ok {
		return nil, store.ErrBranchNotFound
	}
	return &b, nil
}

func (f *fakeRepository) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Branch, 0, len(f.branches))
	for _, b := range f.branches {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeRepository) UpdateBranch(ctx context.Context, branch domain.Branch) (domain.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.branches[branch.ID]
	if !ok {
		return domain.Branch{}, store.ErrBranchNotFound
	}
	branch.CreatedAt = current.CreatedAt
	f.branches[branch.ID] = branch
	return branch, nil
}

func (f *fakeRepository) DeleteBranch(ctx context.Context, branchID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.branches[branchID]; !ok {
		return store.ErrBranchNotFound
	}
	for _, a := range f.accounts {
		if a.BranchID == branchID {
			return store.ErrBranchHasAccounts
		}
	}
	delete(f.branches, branchID)
	return nil
}

func (f *fakeRepository) BranchExists(ctx context.Context, branchID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.branches[branchID]
	return ok, nil
}

func (f *fakeRepository) CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return domain.Account{}, store.ErrDuplicateAccountNumber
		}
	}
	f.nextAccountID++
	account.ID = f.nextAccountID
	if account.Status == "" {
		account.Status = domain.AccountStatusActive
	}
	account.CreatedAt = time.Now().UTC()
	f.accounts[account.ID] = account
	return account, nil
}

func (f *fakeRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return &a, nil
}

func (f *fakeRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.AccountNumber == accountNumber {
			out := a
			return &out, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

func (f *fakeRepository) FindAccountsByCustomerID(ctx context.Context, customerID int64) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Account
	for _, a := range f.accounts {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepository) UpdateAccount(ctx context.Context, accountID int64, accountType *domain.AccountType, status *domain.AccountStatus) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok {
		return domain.Account{}, store.ErrAccountNotFound
	}
	if accountType != nil {
		a.AccountType = *accountType
	}
	if status != nil {
		a.Status = *status
	}
	f.accounts[accountID] = a
	return a, nil
}

func (f *fakeRepository) DeleteAccount(ctx context.Context, accountID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok {
		return store.ErrAccountNotFound
	}
	if a.BalanceCents != 0 {
		return store.ErrAccountNotEmpty
	}
	for _, tx := range f.transactions {
		if tx.AccountID == accountID || (tx.TargetAccountID != nil && *tx.TargetAccountID == accountID) {
			return store.ErrAccountHasTransactions
		}
	}
	delete(f.accounts, accountID)
	return nil
}

func (f *fakeRepository) HasTransactions(ctx context.Context, accountID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.transactions {
		if tx.AccountID == accountID || (tx.TargetAccountID != nil && *tx.TargetAccountID == accountID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) appendTransactionLocked(accountID int64, txType domain.TransactionType, amountCents int64, description *string, targetAccountID *int64) domain.Transaction {
	f.nextTransactionID++
	record := domain.Transaction{
		ID:              f.nextTransactionID,
		AccountID:       accountID,
		TransactionType: txType,
		AmountCents:     amountCents,
		TransactionDate: time.Now().UTC(),
		Description:     description,
		TargetAccountID: targetAccountID,
	}
	f.transactions = append(f.transactions, record)
	return record
}

func (f *fakeRepository) Deposit(ctx context.Context, accountID int64, amountCents int64, description *string) (domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok {
		return domain.Transaction{}, store.ErrAccountNotFound
	}
	if a.Status == domain.AccountStatusClosed {
		return domain.Transaction{}, store.ErrAccountClosed
	}
	a.BalanceCents += amountCents
	f.accounts[accountID] = a
	return f.appendTransactionLocked(accountID, domain.TransactionTypeDeposit, amountCents, description, nil), nil
}

func (f *fakeRepository) Withdraw(ctx context.Context, accountID int64, amountCents int64, description *string) (domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok {
		return domain.Transaction{}, store.ErrAccountNotFound
	}
	if a.Status == domain.AccountStatusClosed {
		return domain.Transaction{}, store.ErrAccountClosed
	}
	if a.BalanceCents < amountCents {
		return domain.Transaction{}, store.ErrInsufficientFunds
	}
	a.BalanceCents -= amountCents
	f.accounts[accountID] = a
	return f.appendTransactionLocked(accountID, domain.TransactionTypeWithdrawal, amountCents, description, nil), nil
}

func (f *fakeRepository) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amountCents int64, description *string) (domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	from, ok := f.accounts[fromAccountID]
	if !ok {
		return domain.Transaction{}, store.ErrAccountNotFound
	}
	to, ok := f.accounts[toAccountID]
	if !ok {
		return domain.Transaction{}, store.ErrAccountNotFound
	}
	if from.Status == domain.AccountStatusClosed || to.Status == domain.AccountStatusClosed {
		return domain.Transaction{}, store.ErrAccountClosed
	}
	if from.BalanceCents < amountCents {
		return domain.Transaction{}, store.ErrInsufficientFunds
	}
	from.BalanceCents -= amountCents
	to.BalanceCents += amountCents
	f.accounts[fromAccountID] = from
	f.accounts[toAccountID] = to
	target := toAccountID
	return f.appendTransactionLocked(fromAccountID, domain.TransactionTypeTransfer, amountCents, description, &target), nil
}

func (f *fakeRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.transactions {
		if tx.ID == transactionID {
			out := tx
			return &out, nil
		}
	}
	return nil, store.ErrTransactionNotFound
}

func (f *fakeRepository) FindTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range f.transactions {
		if tx.AccountID == accountID || (tx.TargetAccountID != nil && *tx.TargetAccountID == accountID) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeRepository) FindTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range f.transactions {
		if !tx.TransactionDate.Before(start) && !tx.TransactionDate.After(end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Transaction, len(f.transactions))
	copy(out, f.transactions)
	return out, nil
}

func (f *fakeRepository) summaryLocked(a domain.Account) domain.AccountSummary {
	c := f.customers[a.CustomerID]
	b := f.branches[a.BranchID]
	return domain.AccountSummary{
		AccountID:     a.ID,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		BalanceCents:  a.BalanceCents,
		CustomerID:    c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		BranchName:    b.Name,
	}
}

func (f *fakeRepository) ListAccountSummaries(ctx context.Context) ([]domain.AccountSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.AccountSummary, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, f.summaryLocked(a))
	}
	return out, nil
}

func (f *fakeRepository) FindAccountSummaryByAccountID(ctx context.Context, accountID int64) (*domain.AccountSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok {
		return nil, store.ErrSummaryNotFound
	}
	s := f.summaryLocked(a)
	return &s, nil
}

func (f *fakeRepository) FindAccountSummariesByCustomerID(ctx context.Context, customerID int64) ([]domain.AccountSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AccountSummary
	for _, a := range f.accounts {
		if a.CustomerID == customerID {
			out = append(out, f.summaryLocked(a))
		}
	}
	return out, nil
}

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Exchange   string
	RoutingKey string
	Body       interface{}
}

func (p *capturingPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Exchange: exchange, RoutingKey: routingKey, Body: body})
	return nil
}

func (p *capturingPublisher) Close() {}

func (p *capturingPublisher) byRoutingKey(key string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.RoutingKey == key {
			out = append(out, e)
		}
	}
	return out
}

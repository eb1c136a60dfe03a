/**
 * @description
 * PostgreSQL implementation of the `Repository` interface: customer, branch,
 * and account persistence plus the read paths over the transaction log and
 * the account_summaries view. The atomic money-movement operations live in
 * postgres_ledger.go.
 *
 * Uniqueness rules (customer email, account number) are enforced by database
 * constraints and translated from unique-violation errors at write time, so
 * two concurrent creates can never both succeed.
 *
 * @dependencies
 * - context, errors, time: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stonebridge/banking-service/internal/domain"
)

var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrBranchNotFound         = errors.New("branch not found")
	ErrAccountNotFound        = errors.New("account not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrSummaryNotFound        = errors.New("account summary not found")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrAccountClosed          = errors.New("account is closed")
	ErrDuplicateAccountNumber = errors.New("account number already exists")
	ErrDuplicateEmail         = errors.New("email already exists")
	ErrAccountNotEmpty        = errors.New("account balance must be zero")
	ErrAccountHasTransactions = errors.New("account has associated transactions")
	ErrCustomerHasAccounts    = errors.New("customer has associated accounts")
	ErrBranchHasAccounts      = errors.New("branch has associated accounts")
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach.
const uniqueViolation = "23505"

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// --- Customers ---

const customerColumns = "customer_id, first_name, last_name, email, phone, address, date_of_birth, created_at"

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.DateOfBirth, &c.CreatedAt)
	return c, err
}

// CreateCustomer inserts a new customer row. A duplicate email surfaces as
// ErrDuplicateEmail via the unique constraint.
func (r *PostgresRepository) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	query := `
		INSERT INTO customers (first_name, last_name, email, phone, address, date_of_birth)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + customerColumns
	created, err := scanCustomer(r.db.QueryRow(ctx, query,
		customer.FirstName, customer.LastName, customer.Email,
		customer.Phone, customer.Address, customer.DateOfBirth,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Customer{}, ErrDuplicateEmail
		}
		return domain.Customer{}, err
	}
	return created, nil
}

// FindCustomerByID retrieves a customer by primary key.
func (r *PostgresRepository) FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindCustomerByEmail retrieves a customer by their unique email address.
func (r *PostgresRepository) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = lower($1)`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListCustomers returns all customers ordered by id.
func (r *PostgresRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY customer_id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// UpdateCustomer persists the full customer record and returns the stored row.
func (r *PostgresRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, email = $3, phone = $4, address = $5, date_of_birth = $6
		WHERE customer_id = $7
		RETURNING ` + customerColumns
	updated, err := scanCustomer(r.db.QueryRow(ctx, query,
		customer.FirstName, customer.LastName, customer.Email,
		customer.Phone, customer.Address, customer.DateOfBirth, customer.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, ErrCustomerNotFound
		}
		if isUniqueViolation(err) {
			return domain.Customer{}, ErrDuplicateEmail
		}
		return domain.Customer{}, err
	}
	return updated, nil
}

// DeleteCustomer removes a customer. Deletion is restricted while any account
// references the customer; the check and delete share one transaction.
func (r *PostgresRepository) DeleteCustomer(ctx context.Context, customerID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var accountCount int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE customer_id = $1`, customerID).Scan(&accountCount)
	if err != nil {
		return err
	}
	if accountCount > 0 {
		return ErrCustomerHasAccounts
	}

	tag, err := tx.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return tx.Commit(ctx)
}

// CustomerExists reports whether a customer row exists.
func (r *PostgresRepository) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE customer_id = $1)`, customerID).Scan(&exists)
	return exists, err
}

// --- Branches ---

const branchColumns = "branch_id, branch_name, branch_address, branch_phone, created_at"

func scanBranch(row pgx.Row) (domain.Branch, error) {
	var b domain.Branch
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.CreatedAt)
	return b, err
}

// CreateBranch inserts a new branch row.
func (r *PostgresRepository) CreateBranch(ctx context.Context, branch domain.Branch) (domain.Branch, error) {
	query := `
		INSERT INTO branches (branch_name, branch_address, branch_phone)
		VALUES ($1, $2, $3)
		RETURNING ` + branchColumns
	return scanBranch(r.db.QueryRow(ctx, query, branch.Name, branch.Address, branch.Phone))
}

// FindBranchByID retrieves a branch by primary key.
func (r *PostgresRepository) FindBranchByID(ctx context.Context, branchID int64) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE branch_id = $1`
	b, err := scanBranch(r.db.QueryRow(ctx, query, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListBranches returns all branches ordered by id.
func (r *PostgresRepository) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	rows, err := r.db.Query(ctx, `SELECT `+branchColumns+` FROM branches ORDER BY branch_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []domain.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// UpdateBranch persists the full branch record and returns the stored row.
func (r *PostgresRepository) UpdateBranch(ctx context.Context, branch domain.Branch) (domain.Branch, error) {
	query := `
		UPDATE branches
		SET branch_name = $1, branch_address = $2, branch_phone = $3
		WHERE branch_id = $4
		RETURNING ` + branchColumns
	updated, err := scanBranch(r.db.QueryRow(ctx, query, branch.Name, branch.Address, branch.Phone, branch.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Branch{}, ErrBranchNotFound
		}
		return domain.Branch{}, err
	}
	return updated, nil
}

// DeleteBranch removes a branch, restricted while accounts reference it.
func (r *PostgresRepository) DeleteBranch(ctx context.Context, branchID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var accountCount int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE branch_id = $1`, branchID).Scan(&accountCount)
	if err != nil {
		return err
	}
	if accountCount > 0 {
		return ErrBranchHasAccounts
	}

	tag, err := tx.Exec(ctx, `DELETE FROM branches WHERE branch_id = $1`, branchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBranchNotFound
	}
	return tx.Commit(ctx)
}

// BranchExists reports whether a branch row exists.
func (r *PostgresRepository) BranchExists(ctx context.Context, branchID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM branches WHERE branch_id = $1)`, branchID).Scan(&exists)
	return exists, err
}

// --- Accounts ---

const accountColumns = "account_id, customer_id, branch_id, account_type, account_number, balance_cents, status, created_at"

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.CustomerID, &a.BranchID, &a.AccountType, &a.AccountNumber, &a.BalanceCents, &a.Status, &a.CreatedAt)
	return a, err
}

// CreateAccount inserts a new account. The account_number unique constraint is
// the authority on duplicates; there is deliberately no read-then-write check.
func (r *PostgresRepository) CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	query := `
		INSERT INTO accounts (customer_id, branch_id, account_type, account_number, balance_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns
	created, err := scanAccount(r.db.QueryRow(ctx, query,
		account.CustomerID, account.BranchID, account.AccountType,
		account.AccountNumber, account.BalanceCents, account.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, ErrDuplicateAccountNumber
		}
		return domain.Account{}, err
	}
	return created, nil
}

// FindAccountByID retrieves an account by primary key.
func (r *PostgresRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindAccountByNumber retrieves an account by its unique account number.
func (r *PostgresRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindAccountsByCustomerID returns all accounts owned by a customer.
func (r *PostgresRepository) FindAccountsByCustomerID(ctx context.Context, customerID int64) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE customer_id = $1 ORDER BY account_id`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// ListAccounts returns all accounts ordered by id.
func (r *PostgresRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY account_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpdateAccount applies advisory type/status changes. Balance and account
// number never change through this path.
func (r *PostgresRepository) UpdateAccount(ctx context.Context, accountID int64, accountType *domain.AccountType, status *domain.AccountStatus) (domain.Account, error) {
	query := `
		UPDATE accounts
		SET account_type = COALESCE($1, account_type),
		    status = COALESCE($2, status)
		WHERE account_id = $3
		RETURNING ` + accountColumns
	updated, err := scanAccount(r.db.QueryRow(ctx, query, accountType, status, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return updated, nil
}

// DeleteAccount removes an account only when its balance is exactly zero and
// no transactions reference it. The row is locked so a concurrent deposit
// cannot slip in between the check and the delete.
func (r *PostgresRepository) DeleteAccount(ctx context.Context, accountID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx, `SELECT balance_cents FROM accounts WHERE account_id = $1 FOR UPDATE`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}
	if balance != 0 {
		return ErrAccountNotEmpty
	}

	var txCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = $1 OR target_account_id = $1`,
		accountID,
	).Scan(&txCount)
	if err != nil {
		return err
	}
	if txCount > 0 {
		return ErrAccountHasTransactions
	}

	if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// HasTransactions reports whether any ledger row references the account.
func (r *PostgresRepository) HasTransactions(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE account_id = $1 OR target_account_id = $1)`,
		accountID,
	).Scan(&exists)
	return exists, err
}

// --- Transaction log reads ---

const transactionColumns = "transaction_id, account_id, transaction_type, amount_cents, transaction_date, description, target_account_id"

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.AccountID, &t.TransactionType, &t.AmountCents, &t.TransactionDate, &t.Description, &t.TargetAccountID)
	return t, err
}

func (r *PostgresRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// FindTransactionByID retrieves a single ledger row.
func (r *PostgresRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`
	t, err := scanTransaction(r.db.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindTransactionsByAccountID returns the ledger rows touching one account,
// newest first. Incoming transfers appear through target_account_id.
func (r *PostgresRepository) FindTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1 OR target_account_id = $1 ORDER BY transaction_id DESC`
	return r.queryTransactions(ctx, query, accountID)
}

// FindTransactionsByDateRange returns ledger rows whose commit timestamp falls
// within [start, end], ordered by timestamp.
func (r *PostgresRepository) FindTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_date BETWEEN $1 AND $2 ORDER BY transaction_date`
	return r.queryTransactions(ctx, query, start, end)
}

// ListTransactions returns the full ledger, newest first.
func (r *PostgresRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY transaction_id DESC`
	return r.queryTransactions(ctx, query)
}

// --- Account summaries ---

const summaryColumns = "account_id, account_number, account_type, balance_cents, customer_id, first_name, last_name, branch_name"

func scanSummary(row pgx.Row) (domain.AccountSummary, error) {
	var s domain.AccountSummary
	err := row.Scan(&s.AccountID, &s.AccountNumber, &s.AccountType, &s.BalanceCents, &s.CustomerID, &s.FirstName, &s.LastName, &s.BranchName)
	return s, err
}

// ListAccountSummaries returns the joined projection for all accounts.
func (r *PostgresRepository) ListAccountSummaries(ctx context.Context) ([]domain.AccountSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT `+summaryColumns+` FROM account_summaries ORDER BY account_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.AccountSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// FindAccountSummaryByAccountID returns the projection for one account.
func (r *PostgresRepository) FindAccountSummaryByAccountID(ctx context.Context, accountID int64) (*domain.AccountSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM account_summaries WHERE account_id = $1`
	s, err := scanSummary(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSummaryNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAccountSummariesByCustomerID returns the projections for one customer.
func (r *PostgresRepository) FindAccountSummariesByCustomerID(ctx context.Context, customerID int64) ([]domain.AccountSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM account_summaries WHERE customer_id = $1 ORDER BY account_id`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.AccountSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

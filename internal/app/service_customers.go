/**
 * @description
 * Customer and branch administration plus the account-summary read paths.
 * These are ordinary persistence flows layered on the repository; the only
 * rules enforced here are field presence, date parsing, duplicate-email
 * surfacing, and the restrict-on-delete policy for entities that still own
 * accounts.
 *
 * @dependencies
 * - context, fmt, strings, time: Standard Go libraries.
 * - internal/domain, internal/store: Domain models and data access.
 */

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stonebridge/banking-service/internal/domain"
	"github.com/stonebridge/banking-service/internal/store"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (*time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}

// CreateCustomer registers a new customer. A duplicate email surfaces as
// store.ErrDuplicateEmail from the unique constraint.
func (s *Service) CreateCustomer(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, fmt.Errorf("%w: first_name", ErrMissingRequiredField)
	}
	if strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("%w: last_name", ErrMissingRequiredField)
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: email", ErrMissingRequiredField)
	}

	customer := domain.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		customer.DateOfBirth = dob
	}

	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetCustomer returns one customer by id.
func (s *Service) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	return s.repo.FindCustomerByID(ctx, customerID)
}

// GetCustomerByEmail returns one customer by email.
func (s *Service) GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return s.repo.FindCustomerByEmail(ctx, email)
}

// ListCustomers returns every customer.
func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// UpdateCustomer applies a partial update; nil fields keep their stored value.
// The merged record is written back as a whole, producing a fresh row value.
func (s *Service) UpdateCustomer(ctx context.Context, customerID int64, req domain.UpdateCustomerRequest) (*domain.Customer, error) {
	current, err := s.repo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.FirstName != nil {
		next.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		next.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		next.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		next.Phone = req.Phone
	}
	if req.Address != nil {
		next.Address = req.Address
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		next.DateOfBirth = dob
	}

	updated, err := s.repo.UpdateCustomer(ctx, next)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCustomer removes a customer; the store restricts deletion while the
// customer still owns accounts.
func (s *Service) DeleteCustomer(ctx context.Context, customerID int64) error {
	return s.repo.DeleteCustomer(ctx, customerID)
}

// CreateBranch registers a new branch.
func (s *Service) CreateBranch(ctx context.Context, req domain.CreateBranchRequest) (*domain.Branch, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: branch_name", ErrMissingRequiredField)
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("%w: branch_address", ErrMissingRequiredField)
	}

	created, err := s.repo.CreateBranch(ctx, domain.Branch{
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		Phone:   req.Phone,
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetBranch returns one branch by id.
func (s *Service) GetBranch(ctx context.Context, branchID int64) (*domain.Branch, error) {
	return s.repo.FindBranchByID(ctx, branchID)
}

// ListBranches returns every branch.
func (s *Service) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return s.repo.ListBranches(ctx)
}

// UpdateBranch applies a partial update; nil fields keep their stored value.
func (s *Service) UpdateBranch(ctx context.Context, branchID int64, req domain.UpdateBranchRequest) (*domain.Branch, error) {
	current, err := s.repo.FindBranchByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.Name != nil {
		next.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		next.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		next.Phone = req.Phone
	}

	updated, err := s.repo.UpdateBranch(ctx, next)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBranch removes a branch; the store restricts deletion while accounts
// reference it.
func (s *Service) DeleteBranch(ctx context.Context, branchID int64) error {
	return s.repo.DeleteBranch(ctx, branchID)
}

// ListAccountSummaries returns the joined projection for all accounts.
func (s *Service) ListAccountSummaries(ctx context.Context) ([]domain.AccountSummary, error) {
	summaries, err := s.repo.ListAccountSummaries(ctx)
	if err != nil {
		return nil, err
	}
	return formatSummaries(summaries), nil
}

// GetAccountSummary returns the projection for one account.
func (s *Service) GetAccountSummary(ctx context.Context, accountID int64) (*domain.AccountSummary, error) {
	summary, err := s.repo.FindAccountSummaryByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	formatted := summary.WithFormattedBalance()
	return &formatted, nil
}

// ListAccountSummariesByCustomer returns the projections for one customer.
func (s *Service) ListAccountSummariesByCustomer(ctx context.Context, customerID int64) ([]domain.AccountSummary, error) {
	exists, err := s.repo.CustomerExists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrCustomerNotFound
	}
	summaries, err := s.repo.FindAccountSummariesByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return formatSummaries(summaries), nil
}

func formatSummaries(summaries []domain.AccountSummary) []domain.AccountSummary {
	out := make([]domain.AccountSummary, len(summaries))
	for i, s := range summaries {
		out[i] = s.WithFormattedBalance()
	}
	return out
}

/**
 * @description
 * Customer and branch domain models. These are immutable value records: the
 * repository constructs them once from database rows, and updates always
 * produce a fresh record rather than mutating in place.
 *
 * @dependencies
 * - time: Standard Go library.
 */

package domain

import "time"

// Customer represents a bank customer who can own zero or more accounts.
type Customer struct {
	ID          int64      `json:"customer_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Branch represents a bank branch that hosts accounts.
type Branch struct {
	ID        int64     `json:"branch_id"`
	Name      string    `json:"branch_name"`
	Address   string    `json:"branch_address"`
	Phone     *string   `json:"branch_phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCustomerRequest is the DTO for customer creation.
type CreateCustomerRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
}

// UpdateCustomerRequest is the DTO for partial customer updates.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}

// CreateBranchRequest is the DTO for branch creation.
type CreateBranchRequest struct {
	Name    string  `json:"branch_name"`
	Address string  `json:"branch_address"`
	Phone   *string `json:"branch_phone,omitempty"`
}

// UpdateBranchRequest is the DTO for branch updates. Nil fields are unchanged.
type UpdateBranchRequest struct {
	Name    *string `json:"branch_name,omitempty"`
	Address *string `json:"branch_address,omitempty"`
	Phone   *string `json:"branch_phone,omitempty"`
}

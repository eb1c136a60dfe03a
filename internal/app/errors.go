/**
 * @description
 * Domain-rule errors raised by the application service. Handlers translate
 * these (together with the store sentinels) into the HTTP error envelope, so
 * every rejection carries a stable kind and message.
 */

package app

import "errors"

var (
	// ErrSameAccountTransfer rejects a transfer whose source and target match.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
	// ErrMissingTargetAccount rejects a transfer without a target account id.
	ErrMissingTargetAccount = errors.New("target account id is mandatory for transfer")
	// ErrInvalidDateRange rejects a date-range query whose start follows its end.
	ErrInvalidDateRange = errors.New("start date must be before end date")
	// ErrInvalidAccountType rejects an unknown account type value.
	ErrInvalidAccountType = errors.New("account type must be SAVINGS or CHECKING")
	// ErrInvalidAccountStatus rejects an unknown account status value.
	ErrInvalidAccountStatus = errors.New("account status must be ACTIVE or CLOSED")
	// ErrInvalidAccountNumber rejects an empty or over-long account number.
	ErrInvalidAccountNumber = errors.New("account number must be between 1 and 20 characters")
	// ErrMissingRequiredField rejects a create/update missing a mandatory field.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrInvalidDate rejects a date that does not parse as YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")
	// ErrNegativeOpeningBalance rejects opening an account below zero.
	ErrNegativeOpeningBalance = errors.New("opening balance must not be negative")
	// ErrRateLimited signals the per-account money-movement limit was hit.
	ErrRateLimited = errors.New("too many money-movement requests for this account")
)

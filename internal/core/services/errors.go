// internal/core/services/errors.go
package services

import "errors"

// Sentinel errors surfaced to handlers, which map them onto HTTP statuses.
var (
	ErrNotFound           = errors.New("record not found")
	ErrSupplierInUse      = errors.New("supplier is still referenced")
	ErrBatchNumberTaken   = errors.New("batch number already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrLastAdmin          = errors.New("cannot remove the last active admin")
	ErrSelfDelete         = errors.New("cannot delete your own account")
)

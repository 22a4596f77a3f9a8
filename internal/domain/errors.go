package domain

import "errors"

// Domain errors
var (
	// Not found
	ErrEventNotFound  = errors.New("event not found")
	ErrTicketNotFound = errors.New("ticket not found")

	// Validation
	ErrInvalidEventID   = errors.New("invalid event id")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrMissingWallet    = errors.New("user wallet address is required")
	ErrMissingBuyer     = errors.New("buyer info missing")
	ErrInvalidPrice     = errors.New("resale price must not be negative")
	ErrInvalidAction    = errors.New("invalid resale action")
	ErrInvalidEventName = errors.New("event name is required")
	ErrInvalidCapacity  = errors.New("event capacity must be positive")
	ErrInvalidEventDate = errors.New("event date is required")
	ErrInvalidEarlyBird = errors.New("early bird discount must be below the regular price")

	// Conflict
	ErrSoldOut            = errors.New("tickets sold out")
	ErrAlreadyClaimed     = errors.New("ticket already claimed to a private wallet")
	ErrNotClaimed         = errors.New("ticket is already in platform custody")
	ErrNotMinted          = errors.New("ticket token not minted yet")
	ErrAlreadyRedeemed    = errors.New("ticket already redeemed")
	ErrNotForResale       = errors.New("ticket is not for sale")
	ErrNotListable        = errors.New("cannot list used or invalid ticket")

	// Authorization
	ErrOwnerMismatch      = errors.New("entry proof holder does not match ticket holder")
	ErrUnauthorizedSigner = errors.New("configured signer is not the platform custody signer")

	// Entry proof
	ErrInvalidProof = errors.New("invalid or expired entry proof")
)

// IsNotFoundError checks if the error is a not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrTicketNotFound)
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEventID) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrMissingWallet) ||
		errors.Is(err, ErrMissingBuyer) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrInvalidEventName) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, ErrInvalidEventDate) ||
		errors.Is(err, ErrInvalidEarlyBird) ||
		errors.Is(err, ErrInvalidProof)
}

// IsConflictError checks if the error is a state-conflict error.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSoldOut) ||
		errors.Is(err, ErrAlreadyClaimed) ||
		errors.Is(err, ErrNotClaimed) ||
		errors.Is(err, ErrNotMinted) ||
		errors.Is(err, ErrAlreadyRedeemed) ||
		errors.Is(err, ErrNotForResale) ||
		errors.Is(err, ErrNotListable)
}

// IsAuthorizationError checks if the error is an authorization error.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrOwnerMismatch) ||
		errors.Is(err, ErrUnauthorizedSigner)
}

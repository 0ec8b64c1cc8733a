package apperrors

import "errors"

// ErrNotFound indicates that a requested resource (SKU, transfer, rule) could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the actor lacks the capability required for the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrInvalidQuantity indicates a zero or negative quantity where a positive one is
// required, or an adjustment that would drive stock negative.
var ErrInvalidQuantity = errors.New("invalid quantity")

// ErrInsufficientStock indicates current stock is lower than the requested quantity.
// This is a business rejection, not a system fault.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInsufficientAvailable indicates available (unreserved) stock is lower than the
// quantity requested for reservation.
var ErrInsufficientAvailable = errors.New("insufficient available stock")

// ErrOverRelease indicates an attempt to release more than is currently reserved.
var ErrOverRelease = errors.New("release exceeds reserved stock")

// ErrInvalidTransition indicates an illegal transfer state machine move.
var ErrInvalidTransition = errors.New("invalid transfer state transition")

// ErrBusy indicates lock contention or a lock acquisition timeout.
// Callers may retry with backoff.
var ErrBusy = errors.New("resource busy, retry later")

// ErrIntegrity indicates an invariant violation detected at commit time.
// Correct core logic must never cause this; if observed it is a bug, not a
// business error, and the attempted transaction has been rolled back.
var ErrIntegrity = errors.New("integrity violation")

package domain

import "fmt"

// Error types for consistent error handling across the insights service.

// ErrNotFound indicates a requested customer or product does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrStoreUnavailable indicates a query against the relational store failed.
// It is fatal for the request that hit it and for nothing else.
type ErrStoreUnavailable struct {
	Op  string
	Err error
}

func (e *ErrStoreUnavailable) Error() string {
	return fmt.Sprintf("store unavailable [%s]: %v", e.Op, e.Err)
}

func (e *ErrStoreUnavailable) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the store circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// ValidationError is bad input, detected before any side effect.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation error: %s", e.Message)
}

func (e *ValidationError) Status() int { return http.StatusBadRequest }

// AuthorizationError means the caller does not own the entity.
type AuthorizationError struct {
	Entity   string
	Id       int64
	CallerId int64
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %d is not the author of %s %d", e.CallerId, e.Entity, e.Id)
}

func (e *AuthorizationError) Status() int { return http.StatusForbidden }

type NotFoundError struct {
	Entity string
	Id     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.Id)
}

func (e *NotFoundError) Status() int { return http.StatusNotFound }

// InvalidParentError is a violation of the two-level comment threading rule.
type InvalidParentError struct {
	ParentId int64
	Reason   string
}

func (e *InvalidParentError) Error() string {
	return fmt.Sprintf("invalid parent comment %d: %s", e.ParentId, e.Reason)
}

func (e *InvalidParentError) Status() int { return http.StatusBadRequest }

// UploadError is an image store failure during upload.
// Orphans lists references that were stored before the failure and are referenced by nothing.
type UploadError struct {
	Filename string
	Orphans  []string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %q: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

func (e *UploadError) Status() int { return http.StatusBadGateway }

// DeleteError is an image store failure during bulk delete.
type DeleteError struct {
	Keys []string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("failed to delete images [%s]: %v", strings.Join(e.Keys, ", "), e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

func (e *DeleteError) Status() int { return http.StatusBadGateway }

// PersistenceError is a relational store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Status() int { return http.StatusInternalServerError }

// Persistence wraps err as a PersistenceError unless it already carries a
// domain error (not found, invalid parent) that callers need to see as is.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if Is[*NotFoundError](err) || Is[*InvalidParentError](err) || Is[*PersistenceError](err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies workflow failures so controllers can map them to
// HTTP statuses in one place.
type ErrorKind int

const (
	KindValidation   ErrorKind = iota // bad/missing input, no state change
	KindConflict                      // duplicate or not-allowed transition, no state change
	KindPrecondition                  // workflow gate is closed
	KindNotFound                      // submission / quote / carrier absent
	KindCollaborator                  // external service failed
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Unmet   string // the specific failed gate condition, for KindPrecondition
}

func (e *AppError) Error() string {
	return e.Message
}

func Validation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

// Precondition reports a closed workflow gate; unmet names the exact
// condition so the UI can explain why the action is blocked.
func Precondition(msg, unmet string) *AppError {
	return &AppError{Kind: KindPrecondition, Message: msg, Unmet: unmet}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func Collaborator(msg string) *AppError {
	return &AppError{Kind: KindCollaborator, Message: msg}
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindConflict:
		return fiber.StatusConflict
	case KindPrecondition:
		return fiber.StatusUnprocessableEntity
	case KindNotFound:
		return fiber.StatusNotFound
	case KindCollaborator:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// AsAppError returns the AppError inside err, or nil.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

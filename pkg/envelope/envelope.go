package envelope

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// Error standardizes application failures carried to the envelope.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

// Taxonomy codes.
const (
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeUnexpected        = "UNEXPECTED"
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error.
func New(code, message string, status int, details map[string]any) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewMissingCredential(message string) error {
	return New(CodeMissingCredential, message, http.StatusUnauthorized, nil)
}

func NewInvalidCredential(message string) error {
	return New(CodeInvalidCredential, message, http.StatusUnauthorized, nil)
}

func NewValidation(message string, details map[string]any) error {
	return New(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(message string, details map[string]any) error {
	return New(CodeNotFound, message, http.StatusNotFound, details)
}

func NewConflict(message string, details map[string]any) error {
	return New(CodeConflict, message, http.StatusConflict, details)
}

// NewUnexpected wraps an internal failure. The underlying error is kept for
// server-side logging only and never rendered to the client.
func NewUnexpected(err error) error {
	return &Error{
		Code:       CodeUnexpected,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// From converts any error to an *Error, defaulting to Unexpected.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var envErr *Error
	if errors.As(err, &envErr) {
		return envErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if e, ok := NewNotFound("Data not found", nil).(*Error); ok {
			return e
		}
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &Error{
			Code:       CodeUnexpected,
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
		}
	}
	if e, ok := NewUnexpected(err).(*Error); ok {
		return e
	}
	return &Error{Code: CodeUnexpected, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// Success sends the uniform success envelope and terminates the request.
func Success(c *fiber.Ctx, data any, message string, status int) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// Fail sends the uniform failure envelope. The errors key is omitted when
// there are no details.
func Fail(c *fiber.Ctx, message string, status int, details map[string]any) error {
	body := fiber.Map{
		"success": false,
		"status":  status,
		"message": message,
	}
	if len(details) > 0 {
		body["errors"] = details
	}
	return c.Status(status).JSON(body)
}

// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// DetailedError carries structured business detail rows alongside the message,
// e.g. the per-product shortfall list of an insufficient-stock rejection.
type DetailedError struct {
	Detail   string      `json:"detail"`
	Detalles interface{} `json:"detalles,omitempty"`
}

func NewDetailed(msg string, detalles interface{}) *DetailedError {
	return &DetailedError{Detail: msg, Detalles: detalles}
}

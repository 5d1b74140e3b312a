// Package apierror provides the standardized error response structures for
// the API. All errors returned to clients go through this package so that
// internal details (stack traces, DB errors) never leak.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request validation.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validación", Fields: fields}
}

// StockError carries the list of short ingredients so the POS can show the
// operator exactly what is missing.
type StockError struct {
	Detail    string   `json:"detail"`
	Faltantes []string `json:"faltantes"`
}

func NewStock(detail string, faltantes []string) *StockError {
	return &StockError{Detail: detail, Faltantes: faltantes}
}

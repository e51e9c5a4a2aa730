package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodePersistence   = "PERSISTENCE_ERROR"
	ErrCodeUpstream      = "UPSTREAM_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuery       = NewDomainError(ErrCodeValidation, "search query must not be empty")
	ErrQueryTooLong     = NewDomainError(ErrCodeValidation, "search query exceeds maximum length")
	ErrInvalidLimit     = NewDomainError(ErrCodeValidation, "limit is out of bounds")
	ErrInvalidLocation  = NewDomainError(ErrCodeValidation, "location filter requires lat, lng and radius_km")
	ErrMissingEmail     = NewDomainError(ErrCodeValidation, "email_address is required")
	ErrInvalidTenantID  = NewDomainError(ErrCodeValidation, "tenant id must be a valid UUID")
	ErrInvalidAgentTool = NewDomainError(ErrCodeValidation, "unknown agent tool type")
	ErrEmptyPrompt      = NewDomainError(ErrCodeValidation, "prompt must not be empty")
)

// Not found errors
var (
	ErrTenantNotFound       = NewDomainError(ErrCodeNotFound, "tenant not found")
	ErrAccountNotFound      = NewDomainError(ErrCodeNotFound, "account not found")
	ErrCategoryNotFound     = NewDomainError(ErrCodeNotFound, "category not found")
	ErrSearchLogNotFound    = NewDomainError(ErrCodeNotFound, "search log not found")
	ErrSearchResultNotFound = NewDomainError(ErrCodeNotFound, "search result not found")
	ErrLogoNotFound         = NewDomainError(ErrCodeNotFound, "account has no logo")
)

// Already exists errors
var (
	ErrTenantAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "tenant slug already exists")
)

// Upstream errors
var (
	ErrAssistantNotConfigured = NewDomainError(ErrCodeUpstream, "assistant provider not configured: OPENAI_API_KEY required")
	ErrStorageNotConfigured   = NewDomainError(ErrCodeUpstream, "logo storage not configured: S3_ENDPOINT required")
)

// NewPersistenceError wraps a storage-layer failure. The surrounding
// transaction is expected to have rolled back before this surfaces.
func NewPersistenceError(op string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodePersistence, op+" failed", err)
}

// NewUpstreamError wraps a provider failure, keeping the provider's message.
func NewUpstreamError(provider string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeUpstream, provider+" request failed", err)
}

package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout          = "FETCH_TIMEOUT"
	ErrCodeNavigation       = "FETCH_FAILED"
	ErrCodeRobotsDisallowed = "ROBOTS_DISALLOWED"
	ErrCodeExtraction       = "CONTENT_EXTRACTION_FAILED"
	ErrCodeTokenizer        = "TOKENIZER_FAILURE"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeCancelled        = "CANCELLED"

	// AI-related error codes for enrichment/embedding.
	ErrCodeLLMFailure     = "LLM_FAILURE"
	ErrCodeLLMAuthFailure = "LLM_AUTH_FAILURE"
	ErrCodeLLMRateLimited = "LLM_RATE_LIMITED"

	// Storage/export error codes.
	ErrCodeStorage = "STORAGE_FAILURE"
	ErrCodePack    = "PACK_WRITE_FAILURE"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PipelineError is the internal error type carrying a stable code, usable at
// every pipeline stage from fetch through pack writing. It implements the
// error interface and supports error wrapping via Unwrap.
type PipelineError struct {
	Code    string
	Stage   string // e.g. "fetch", "extract", "chunk", "enrich", "pack"
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s[%s]: %s: %v", e.Stage, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Stage, e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a new PipelineError.
func NewPipelineError(stage, code, message string, err error) *PipelineError {
	return &PipelineError{Stage: stage, Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *PipelineError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeParseError             ErrorCode = "PARSE_ERROR"
	ErrCodeInvalidAssessmentInput ErrorCode = "INVALID_ASSESSMENT_INPUT"
	ErrCodeAssessmentTimeout      ErrorCode = "ASSESSMENT_TIMEOUT"

	ErrCodeCatalogInvalid    ErrorCode = "CATALOG_INVALID"
	ErrCodeCatalogLoadFailed ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeRuleTableUnknown  ErrorCode = "RULE_TABLE_UNKNOWN"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	ErrCodeAlertPublishFailed ErrorCode = "ALERT_PUBLISH_FAILED"

	ErrCodeZeebeUnavailable ErrorCode = "ZEEBE_UNAVAILABLE"
	ErrCodeZeebeRejected    ErrorCode = "ZEEBE_REJECTED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Job variables could not be parsed", err.Error(), false, err)
}

// NewInvalidAssessmentInputError reports job variables that fail validation.
func NewInvalidAssessmentInputError(details string) *StandardError {
	return newError(ErrCodeInvalidAssessmentInput, "Assessment input failed validation", details, false, nil)
}

func NewAssessmentTimeoutError(err error) *StandardError {
	return newError(ErrCodeAssessmentTimeout, "Assessment did not finish in time", err.Error(), true, err)
}

// NewCatalogInvalidError wraps a catalog that loaded but failed validation.
func NewCatalogInvalidError(err error) *StandardError {
	return newError(ErrCodeCatalogInvalid, "Intervention catalog is invalid", err.Error(), false, err)
}

// NewCatalogLoadFailedError wraps a catalog source that could not be read.
func NewCatalogLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Intervention catalog could not be loaded",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), true, err)
}

func NewRuleTableUnknownError(version string) *StandardError {
	return newError(ErrCodeRuleTableUnknown, "Unknown rule table", fmt.Sprintf("version: %s", version), false, nil)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true, err)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true, err)
}

// NewAlertPublishFailedError creates a retryable notification error.
func NewAlertPublishFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeAlertPublishFailed, "Urgent assessment alert could not be published",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true, err)
}

// NewZeebeUnavailableError reports a gateway that could not be reached in time.
func NewZeebeUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeZeebeUnavailable, "Workflow engine unavailable",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true, err)
}

func NewZeebeRejectedError(operation string, err error) *StandardError {
	return newError(ErrCodeZeebeRejected, "Workflow engine rejected the command",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), false, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// BPMNErrorMapping maps internal codes to the error codes modelled in BPMN.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeParseError:               "PARSE_ERROR",
	ErrCodeInvalidAssessmentInput:   "INVALID_ASSESSMENT_INPUT",
	ErrCodeAssessmentTimeout:        "ASSESSMENT_TIMEOUT",
	ErrCodeCatalogInvalid:           "CATALOG_INVALID",
	ErrCodeCatalogLoadFailed:        "CATALOG_UNAVAILABLE",
	ErrCodeRuleTableUnknown:         "RULE_TABLE_UNKNOWN",
	ErrCodeDatabaseConnectionFailed: "CATALOG_UNAVAILABLE",
	ErrCodeQueryExecutionFailed:     "CATALOG_UNAVAILABLE",
	ErrCodeAlertPublishFailed:       "ALERT_PUBLISH_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogLoadFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeAlertPublishFailed,
		ErrCodeZeebeUnavailable:
		return 3

	case ErrCodeAssessmentTimeout:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "RULE_TABLE"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "ZEEBE"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "ALERT"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "ASSESSMENT"):
		return "ASSESSMENT"
	default:
		return "OTHER"
	}
}

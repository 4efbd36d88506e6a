package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		code      string
		retryable bool
		retries   int
	}{
		{
			name:    "catalog invalid is terminal",
			err:     NewCatalogInvalidError(stderrors.New("products[0]: name is required")),
			code:    "CATALOG_INVALID",
			retries: 0,
		},
		{
			name:      "catalog load failure retries",
			err:       NewCatalogLoadFailedError("postgres", stderrors.New("connection refused")),
			code:      "CATALOG_UNAVAILABLE",
			retryable: true,
			retries:   3,
		},
		{
			name:      "alert publish retries",
			err:       NewAlertPublishFailedError("sns", stderrors.New("throttled")),
			code:      "ALERT_PUBLISH_FAILED",
			retryable: true,
			retries:   3,
		},
		{
			name:      "timeout retries twice",
			err:       NewAssessmentTimeoutError(fmt.Errorf("context deadline exceeded")),
			code:      "ASSESSMENT_TIMEOUT",
			retryable: true,
			retries:   2,
		},
		{
			name: "unmapped code passes through",
			err:  NewInternalError(stderrors.New("boom")),
			code: "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.code, b.Code)
			assert.Equal(t, tt.retryable, b.Retryable)
			assert.Equal(t, tt.retries, b.Retries)
			assert.Equal(t, string(tt.err.Code), b.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	err := NewInvalidAssessmentInputError("parameters.size: must be >= 0").WithMetadata("woundId", "w-1")

	vars := ConvertToBPMNError(err).ToErrorVariables()

	assert.Equal(t, "w-1", vars["woundId"])
	assert.Equal(t, "INVALID_ASSESSMENT_INPUT", vars["errorCode"])
	assert.Equal(t, false, vars["retryable"])
}

func TestNormalize(t *testing.T) {
	inner := NewRuleTableUnknownError("resvech-9")
	wrapped := fmt.Errorf("start engine: %w", inner)

	assert.Same(t, inner, Normalize(wrapped))

	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestStandardError_Unwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := NewDatabaseConnectionFailedError(cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "DATABASE_CONNECTION_FAILED")
}

func TestRetriesLeft(t *testing.T) {
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: retries}}
	}

	assert.Equal(t, int32(2), RetriesLeft(job(3), 3))
	assert.Equal(t, int32(3), RetriesLeft(job(10), 3))
	assert.Equal(t, int32(0), RetriesLeft(job(1), 3))
	assert.Equal(t, int32(0), RetriesLeft(job(0), 3))
}

func TestGetErrorCategory(t *testing.T) {
	cases := map[ErrorCode]string{
		ErrCodeCatalogInvalid:           "CONFIGURATION",
		ErrCodeRuleTableUnknown:         "CONFIGURATION",
		ErrCodeQueryExecutionFailed:     "DATABASE",
		ErrCodeAlertPublishFailed:       "NOTIFICATION",
		ErrCodeInvalidAssessmentInput:   "VALIDATION",
		ErrCodeParseError:               "VALIDATION",
		ErrCodeAssessmentTimeout:        "ASSESSMENT",
		ErrCodeInternal:                 "OTHER",
		ErrCodeDatabaseConnectionFailed: "DATABASE",
	}
	for code, want := range cases {
		require.Equal(t, want, GetErrorCategory(code), string(code))
	}
	assert.True(t, IsRetryableErrorCode(ErrCodeAlertPublishFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeCatalogInvalid))
}

package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"woundcare-workers/internal/common/config"
	"woundcare-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestExecuteWithRetry_RecoversFromTransientError(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastRetry, "deploy", func(context.Context) error {
		calls++
		if calls < 2 {
			return stderrors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestExecuteWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastRetry, "topology", func(context.Context) error {
		calls++
		return stderrors.New("context deadline exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeZeebeUnavailable, stdErr.Code)
	assert.Contains(t, stdErr.Details, "after 3 attempts")
}

func TestExecuteWithRetry_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastRetry, "complete job", func(context.Context) error {
		calls++
		return stderrors.New("rpc error: code = NotFound desc = job not found")
	})

	assert.Equal(t, 1, calls)
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeZeebeRejected, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	slow := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	err := ExecuteWithRetry(ctx, slow, "topology", func(context.Context) error {
		cancel()
		return stderrors.New("unavailable")
	})

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.CamundaConfig{
		BrokerAddress:  "zeebe:26500",
		UsePlaintext:   true,
		Timeout:        5000,
		RequestTimeout: 2000,
	})

	assert.Equal(t, "zeebe:26500", cfg.GatewayAddress)
	assert.True(t, cfg.UsePlaintextConnection)
	assert.Equal(t, 5*time.Second, cfg.ConnectionTimeout)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Same(t, DefaultRetryConfig, cfg.RetryConfig)
}

package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{0, 0, 0}

	t.Run("returns on first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", func(context.Context, string) (string, error) {
			calls++
			return "<p>ok</p>", nil
		}, nil, delays)

		require.NoError(t, err)
		assert.Equal(t, "<p>ok</p>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", func(context.Context, string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection reset")
			}
			return "<p>ok</p>", nil
		}, nil, delays)

		require.NoError(t, err)
		assert.Equal(t, "<p>ok</p>", html)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the last delay", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", func(context.Context, string) (string, error) {
			calls++
			return "", distill.Errorf(distill.EUNAVAILABLE, "HTTP 503")
		}, nil, delays)

		require.Error(t, err)
		assert.Equal(t, distill.EUNAVAILABLE, distill.ErrorCode(err))
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry permanent failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", func(context.Context, string) (string, error) {
			calls++
			return "", distill.Errorf(distill.ENOTFOUND, "HTTP 404")
		}, nil, delays)

		assert.Equal(t, distill.ENOTFOUND, distill.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when the context ends", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", func(context.Context, string) (string, error) {
			cancel()
			return "", errors.New("timeout")
		}, nil, []time.Duration{time.Hour})

		require.ErrorIs(t, err, context.Canceled)
	})
}

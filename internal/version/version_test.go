package version

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/scanner-cli-go/internal/errors"
)

func countingQuerier(calls *atomic.Int32, body string, delay time.Duration) Querier {
	return func(context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(delay)

		return []byte(body), nil
	}
}

func TestResolver_Memoizes(t *testing.T) {
	var calls atomic.Int32

	r := NewResolver(countingQuerier(&calls, `{"version":"2.15.0","features":{"forceOverwrite":true}}`, 0), slog.Default())

	first, err := r.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2.15.0", first.Version)
	require.True(t, first.Features["forceOverwrite"])

	second, err := r.Get(context.Background())
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, int32(1), calls.Load())
}

func TestResolver_ConcurrentFirstCallsShareOneQuery(t *testing.T) {
	var calls atomic.Int32

	r := NewResolver(countingQuerier(&calls, `{"version":"2.15.0"}`, 50*time.Millisecond), slog.Default())

	const callers = 16

	results := make([]*Info, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup

	for i := range callers {
		wg.Go(func() {
			results[i], errs[i] = r.Get(context.Background())
		})
	}

	wg.Wait()

	require.Equal(t, int32(1), calls.Load())

	for i, info := range results {
		require.NoError(t, errs[i])
		require.Same(t, results[0], info)
	}
}

func TestResolver_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls atomic.Int32

	r := NewResolver(func(ctx context.Context) ([]byte, error) {
		calls.Add(1)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}

		return []byte(`{"version":"2.15.0"}`), nil
	}, slog.Default())

	cancelled, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var (
		wg         sync.WaitGroup
		cancelErr  error
		healthy    *Info
		healthyErr error
	)

	wg.Go(func() {
		_, cancelErr = r.Get(cancelled)
	})

	// Let the cancelled caller start the shared query first.
	time.Sleep(5 * time.Millisecond)

	wg.Go(func() {
		healthy, healthyErr = r.Get(context.Background())
	})

	wg.Wait()

	require.ErrorIs(t, cancelErr, context.DeadlineExceeded)
	require.NoError(t, healthyErr)
	require.Equal(t, "2.15.0", healthy.Version)
	require.Equal(t, int32(1), calls.Load())

	info, err := r.Get(context.Background())
	require.NoError(t, err)
	require.Same(t, healthy, info)
}

func TestResolver_Reset(t *testing.T) {
	var calls atomic.Int32

	r := NewResolver(countingQuerier(&calls, `{"version":"2.15.0"}`, 0), slog.Default())

	_, err := r.Get(context.Background())
	require.NoError(t, err)

	r.Reset()

	_, err = r.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestResolver_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32

	fail := true
	r := NewResolver(func(context.Context) ([]byte, error) {
		calls.Add(1)

		if fail {
			return nil, stderrors.New("exit status 1")
		}

		return []byte(`{"version":"2.15.0"}`), nil
	}, slog.Default())

	_, err := r.Get(context.Background())
	require.Error(t, err)

	fail = false

	info, err := r.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2.15.0", info.Version)
	require.Equal(t, int32(2), calls.Load())
}

func TestParse(t *testing.T) {
	t.Run("without features", func(t *testing.T) {
		info, err := Parse([]byte(`{"version":"2.11.6","productName":"scanner"}`))
		require.NoError(t, err)
		require.Equal(t, "2.11.6", info.Version)

		_, declared := info.Feature("forceOverwrite")
		require.False(t, declared)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := Parse([]byte("scanner release 2.11.6"))

		configErr, ok := stderrors.AsType[*errors.ConfigurationError](err)
		require.True(t, ok)
		require.Contains(t, configErr.Error(), "scanner release 2.11.6")
	})

	t.Run("invalid version", func(t *testing.T) {
		_, err := Parse([]byte(`{"version":"latest"}`))

		_, ok := stderrors.AsType[*errors.ConfigurationError](err)
		require.True(t, ok)
	})
}

func TestAbove_IsStrict(t *testing.T) {
	require.False(t, Above("2.11.6", "2.11.6"))
	require.True(t, Above("2.11.7", "2.11.6"))
	require.False(t, Above("2.11.5", "2.11.6"))
	require.True(t, Above("2.12.0", "2.11.6"))
	require.True(t, Above("v3.0.0", "2.11.6"))
	require.False(t, Above("2.11.6-beta", "2.11.6"))
}

func TestEnforce(t *testing.T) {
	t.Run("below minimum", func(t *testing.T) {
		err := Enforce(&Info{Version: "2.9.4"}, slog.Default())

		require.ErrorIs(t, err, errors.ErrBelowMinimumVersion)

		_, ok := stderrors.AsType[*errors.ConfigurationError](err)
		require.True(t, ok)
	})

	t.Run("at minimum", func(t *testing.T) {
		require.NoError(t, Enforce(&Info{Version: MinimumVersion}, slog.Default()))
	})

	t.Run("deprecation warning is logged once", func(t *testing.T) {
		ResetDeprecationWarning()
		t.Cleanup(ResetDeprecationWarning)

		var buf bytes.Buffer

		log := slog.New(slog.NewTextHandler(&buf, nil))

		require.NoError(t, Enforce(&Info{Version: "2.11.0"}, log))
		require.NoError(t, Enforce(&Info{Version: "2.11.0"}, log))

		require.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("will soon be unsupported")))
	})

	t.Run("current version logs nothing", func(t *testing.T) {
		ResetDeprecationWarning()
		t.Cleanup(ResetDeprecationWarning)

		var buf bytes.Buffer

		require.NoError(t, Enforce(&Info{Version: "2.16.0"}, slog.New(slog.NewTextHandler(&buf, nil))))
		require.Empty(t, buf.String())
	})
}

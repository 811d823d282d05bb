package secretstore

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"snowloader/internal/logger"
)

func found(string) (string, error)    { return "/usr/local/bin/op", nil }
func notFound(string) (string, error) { return "", exec.ErrNotFound }

func newStore(t *testing.T, lookPath func(string) (string, error), opts ...Option) (*OnePassword, *MockRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := NewMockRunner(ctrl)

	base := []Option{WithRunner(runner), WithLookPath(lookPath), WithLogger(logger.NewTestLogger())}
	return New(append(base, opts...)...), runner
}

func TestLookupSuccess(t *testing.T) {
	store, runner := newStore(t, found)

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), "op", "whoami").Return([]byte("user@example.com\n"), nil),
		runner.EXPECT().
			Run(gomock.Any(), "op", "item", "get", "ServiceNow", "--fields", "label=api_key", "--reveal").
			Return([]byte("s3cr3t\n"), nil),
	)

	value, ok := store.Lookup(context.Background(), "ServiceNow", "api_key")
	require.True(t, ok)
	assert.Equal(t, "s3cr3t", value)
}

func TestLookupWithVault(t *testing.T) {
	store, runner := newStore(t, found, WithVault("Infra"))

	runner.EXPECT().Run(gomock.Any(), "op", "whoami").Return(nil, nil)
	runner.EXPECT().
		Run(gomock.Any(), "op", "item", "get", "ServiceNow", "--fields", "label=password", "--reveal", "--vault", "Infra").
		Return([]byte("pw"), nil)

	value, ok := store.Lookup(context.Background(), "ServiceNow", "password")
	require.True(t, ok)
	assert.Equal(t, "pw", value)
}

func TestLookupNotInstalled(t *testing.T) {
	// no runner calls are expected at all
	store, _ := newStore(t, notFound)

	value, ok := store.Lookup(context.Background(), "ServiceNow", "api_key")
	assert.False(t, ok)
	assert.Empty(t, value)
	assert.False(t, store.Available())
}

func TestLookupNotSignedIn(t *testing.T) {
	store, runner := newStore(t, found)

	runner.EXPECT().Run(gomock.Any(), "op", "whoami").Return(nil, errors.New("exit status 1"))

	_, ok := store.Lookup(context.Background(), "ServiceNow", "api_key")
	assert.False(t, ok)
}

func TestLookupFailures(t *testing.T) {
	tests := []struct {
		name string
		out  []byte
		err  error
	}{
		{"item missing", nil, errors.New(`"ServiceNow" isn't an item`)},
		{"field missing prints nothing", []byte("\n"), nil},
		{"timeout", nil, context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, runner := newStore(t, found)
			runner.EXPECT().Run(gomock.Any(), "op", "whoami").Return(nil, nil)
			runner.EXPECT().Run(gomock.Any(), "op", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(tt.out, tt.err)

			_, ok := store.Lookup(context.Background(), "ServiceNow", "api_key")
			assert.False(t, ok)
		})
	}
}

func TestLookupEmptyArguments(t *testing.T) {
	store, _ := newStore(t, found)

	_, ok := store.Lookup(context.Background(), "", "api_key")
	assert.False(t, ok)
	_, ok = store.Lookup(context.Background(), "ServiceNow", "")
	assert.False(t, ok)
}

func TestRunAppliesTimeout(t *testing.T) {
	store, runner := newStore(t, found, WithTimeout(20*time.Millisecond))

	runner.EXPECT().Run(gomock.Any(), "op", "whoami").DoAndReturn(
		func(ctx context.Context, _ string, _ ...string) ([]byte, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(20*time.Millisecond), deadline, time.Second)

			<-ctx.Done()
			return []byte("late"), nil
		})

	assert.False(t, store.SignedIn(context.Background()), "output after the deadline is discarded")
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "printf value")
	require.NoError(t, err)
	assert.Equal(t, "value", string(out))

	_, err = ExecRunner{}.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestExecRunnerTimeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := ExecRunner{}.Run(ctx, "sleep", "5")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

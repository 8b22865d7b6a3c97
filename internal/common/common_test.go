package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	opts := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond}

	t.Run("retries busy errors until success", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return fmt.Errorf("insert: %w", ErrDatabaseBusy)
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return ErrDatabaseBusy
		}, opts)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, ErrDatabaseBusy)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		permanent := errors.New("constraint failed")
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return permanent
		}, opts)
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := WithRetry(ctx, func() error { return ErrDatabaseBusy }, RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestUserError(t *testing.T) {
	cause := errors.New("no such file")
	err := NewUserError("cannot read nf.txt", cause)
	assert.Equal(t, "cannot read nf.txt: no such file", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad input", NewUserError("bad input", nil).Error())
}

func TestDecode(t *testing.T) {
	var out struct {
		Name string `json:"name" yaml:"name"`
	}

	require.NoError(t, Decode("a.json", []byte(`{"name":"json"}`), &out))
	assert.Equal(t, "json", out.Name)

	require.NoError(t, Decode("a.YML", []byte("name: yaml\n"), &out))
	assert.Equal(t, "yaml", out.Name)

	assert.ErrorIs(t, Decode("a.json", []byte(`{`), &out), ErrInvalidRecord)
	assert.ErrorIs(t, Decode("a.toml", nil, &out), ErrUnsupportedFormat)
}

func TestRecordFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "notes.txt", "c.yml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o750))

	files, err := RecordFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "c.yml"),
	}, files)

	_, err = RecordFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRegexCache(t *testing.T) {
	var cache RegexCache

	ok, err := cache.FullMatch(`\d{3}`, "123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.FullMatch(`\d{3}`, "1234")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = cache.FullMatch(`a|b`, "ab")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = cache.FullMatch(`(`, "x")
	assert.Error(t, err)
	_, err = cache.Compile(`^(?:(`)
	assert.Error(t, err)
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	obs := NewLogObserver(logger)
	obs.LoadFailed("patterns/bad.yaml", ErrInvalidRecord)
	obs.RuleFailed("positive_total", errors.New("no such key: total"))

	out := buf.String()
	assert.Contains(t, out, `"source":"patterns/bad.yaml"`)
	assert.Contains(t, out, `"rule":"positive_total"`)

	assert.Equal(t, NopObserver{}, OrNop(nil))
	assert.Same(t, obs, OrNop(obs))
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

package models

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	t.Run("validation error carries kind and message", func(t *testing.T) {
		t.Parallel()
		err := Validationf("amount must be non-zero")
		require.Equal(t, KindValidation, err.Kind)
		require.Contains(t, err.Error(), "ValidationError")
		require.Contains(t, err.Error(), "amount must be non-zero")
	})

	t.Run("not found error formats the id", func(t *testing.T) {
		t.Parallel()
		err := NotFoundf("expense %d not found", 42)
		require.Equal(t, KindNotFound, err.Kind)
		require.Contains(t, err.Message, "42")
	})

	t.Run("storage error wraps the cause", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("connection refused")
		err := Storagef(cause, "failed to query expenses")
		require.Equal(t, KindStorage, err.Kind)
		require.ErrorIs(t, err, cause)
	})
}

func TestWrapStorage(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, WrapStorage(nil, "unused"))
	})

	t.Run("classified errors pass through untouched", func(t *testing.T) {
		t.Parallel()
		orig := Validationf("bad input")
		wrapped := WrapStorage(fmt.Errorf("outer: %w", orig), "failed")
		require.Equal(t, KindValidation, KindOf(wrapped))
	})

	t.Run("deadline expiry reads as a timeout", func(t *testing.T) {
		t.Parallel()
		err := WrapStorage(context.DeadlineExceeded, "failed to query expenses")
		require.Equal(t, KindStorage, KindOf(err))
		require.Contains(t, err.Error(), "timed out")
	})

	t.Run("raw errors become storage errors", func(t *testing.T) {
		t.Parallel()
		err := WrapStorage(errors.New("broken pipe"), "failed to query expenses")
		require.Equal(t, KindStorage, KindOf(err))
	})
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	t.Run("extracts the kind through wrapping", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("while handling call: %w", NotFoundf("expense 7 not found"))
		require.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("defaults unclassified errors to storage", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, KindStorage, KindOf(errors.New("anything")))
	})
}

package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"service-delivery/internal/apperr"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	wrap := func(code string) error {
		return fmt.Errorf("query: %w", &pgconn.PgError{Code: code})
	}

	require.True(t, IsDuplicate(wrap(codeUniqueViolation)))
	require.False(t, IsDuplicate(wrap(codeDeadlockDetected)))
	require.True(t, IsNotFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	require.False(t, IsNotFound(errors.New("other")))

	for _, code := range []string{codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable} {
		require.True(t, IsContention(wrap(code)), code)
	}
	require.False(t, IsContention(wrap(codeUniqueViolation)))
	require.False(t, IsContention(errors.New("plain")))
}

func TestAsConflict(t *testing.T) {
	t.Parallel()

	err := asConflict("reserve agent 1", &pgconn.PgError{Code: codeDeadlockDetected})
	require.ErrorIs(t, err, apperr.ErrConflict)
	require.Contains(t, err.Error(), "reserve agent 1")

	cause := errors.New("connection reset")
	err = asConflict("commit tx", cause)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, apperr.ErrConflict)
}

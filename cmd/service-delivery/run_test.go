package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	require.Equal(t, 0, Run(context.Background(), []string{"--help"}))
}

func TestRun_Version(t *testing.T) {
	require.Equal(t, 0, Run(context.Background(), []string{"--version"}))
}

func TestRun_UnknownFlag(t *testing.T) {
	require.Equal(t, 1, Run(context.Background(), []string{"--unknown-flag"}))
}

func TestRun_MigrateRejectsMemoryStorage(t *testing.T) {
	code := Run(context.Background(), []string{"migrate", "--storage", "memory", "--env-file", t.TempDir() + "/missing.env"})
	require.Equal(t, 1, code)
}

func TestRun_InvalidPort(t *testing.T) {
	code := Run(context.Background(), []string{"serve", "--port=70000", "--env-file", t.TempDir() + "/missing.env"})
	require.Equal(t, 1, code)
}

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"jobfair/config"
	"jobfair/internal/database"
	"jobfair/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestQRCommand(t *testing.T) {
	t.Setenv("JOBFAIR_QR_FORM_URL", "https://fair.example.com/")

	out := execute(t, "qr", "--url", "https://fair.example.com/a b", "--size", "120")
	assert.Equal(t,
		"https://api.qrserver.com/v1/create-qr-code/?size=120x120&data=https%3A%2F%2Ffair.example.com%2Fa%20b\n",
		out,
	)
}

func TestMigrateCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "jobfair.db")
	t.Setenv("JOBFAIR_DATABASE_DB_PATH", dbPath)
	t.Setenv("JOBFAIR_LOG_LEVEL", "error")

	execute(t, "migrate", "up")
	execute(t, "migrate", "seed")
	execute(t, "migrate", "seed")

	db, err := database.New(config.Config{DatabaseDbPath: dbPath})
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var count int64
	require.NoError(t, db.SQL.Model(&models.DispatchOutcome{}).Count(&count).Error)
	assert.Equal(t, int64(4), count, "seeding twice does not duplicate rows")
}

func TestSessionsFlush_WithoutCache(t *testing.T) {
	t.Setenv("JOBFAIR_CACHE_ADDRESS", "")

	out := execute(t, "sessions", "flush")
	assert.Contains(t, out, "no cache configured")
}

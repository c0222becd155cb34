package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/qolzam/telar/apps/console/internal/database/postgres"
	platformconfig "github.com/qolzam/telar/apps/console/internal/platform/config"
	"github.com/stretchr/testify/require"
)

// NewPostgresClient connects to the test database, or skips the test unless RUN_DB_TESTS=1.
// Connection settings come from the regular POSTGRES_* variables.
func NewPostgresClient(t *testing.T) *postgres.Client {
	t.Helper()
	if os.Getenv("RUN_DB_TESTS") != "1" {
		t.Skip("skipping database test; set RUN_DB_TESTS=1 to enable")
	}

	cfg, err := platformconfig.LoadFromMap(dbEnv())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := postgres.NewClient(ctx, cfg.Database.Postgres)
	require.NoError(t, err)
	require.NoError(t, client.EnsureSchema(ctx))

	t.Cleanup(func() {
		_, _ = client.DB().Exec(`TRUNCATE user_status_history, users, posts, topics CASCADE`)
		_ = client.Close()
	})
	return client
}

func dbEnv() map[string]string {
	env := map[string]string{"JWT_PUBLIC_KEY": "unused"}
	for _, key := range []string{"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USERNAME", "POSTGRES_PASSWORD", "POSTGRES_DATABASE", "POSTGRES_SSL_MODE"} {
		if value := os.Getenv(key); value != "" {
			env[key] = value
		}
	}
	if _, ok := env["POSTGRES_DATABASE"]; !ok {
		env["POSTGRES_DATABASE"] = "telar_console_test"
	}
	return env
}

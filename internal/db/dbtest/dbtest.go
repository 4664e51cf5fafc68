// Package dbtest starts PostgreSQL containers for tests.
package dbtest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	tclog "github.com/testcontainers/testcontainers-go/log"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/stacklok/toolhive-search/internal/config"
)

const (
	image  = "postgres:16-alpine"
	dbName = "testdb"
	dbUser = "testuser"
	dbPass = "testpass"
)

type nopLogger struct{}

func (*nopLogger) Printf(_ string, _ ...any) {}

var _ tclog.Logger = (*nopLogger)(nil)

// SetupPostgres starts a Postgres container and returns the configuration
// to reach it. The test is skipped in short mode or without a container runtime.
func SetupPostgres(t *testing.T) *config.DatabaseConfig {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Postgres container in short mode")
	}
	tc.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(
		ctx,
		image,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPass),
		postgres.BasicWaitStrategies(),
		tc.WithLogger(&nopLogger{}),
	)
	tc.CleanupContainer(t, container)
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	passwordFile := filepath.Join(t.TempDir(), "password")
	require.NoError(t, os.WriteFile(passwordFile, []byte(dbPass), 0o600))

	return &config.DatabaseConfig{
		Host:         host,
		Port:         port.Int(),
		User:         dbUser,
		PasswordFile: passwordFile,
		Database:     dbName,
		SSLMode:      "disable",
	}
}

//go:build postgres

package registration_test

import (
	"os"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/farellandr/civic-events/config"
	"github.com/farellandr/civic-events/internal/lib/logger/slogdiscard"
	"github.com/farellandr/civic-events/internal/metrics"
	"github.com/farellandr/civic-events/internal/services/registration"
	"github.com/farellandr/civic-events/internal/storage"
	"github.com/farellandr/civic-events/internal/storage/storagetest"
)

// Run with: POSTGRES_TEST_HOST=localhost go test -tags postgres ./internal/services/registration/
func TestRegister_ConcurrentPostgres(t *testing.T) {
	host := os.Getenv("POSTGRES_TEST_HOST")
	if host == "" {
		t.Skip("POSTGRES_TEST_HOST not set")
	}

	cfg := config.DBConfig{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     envOr("POSTGRES_TEST_PORT", "5432"),
		User:     envOr("POSTGRES_TEST_USER", "postgres"),
		Password: os.Getenv("POSTGRES_TEST_PASSWORD"),
		Name:     envOr("POSTGRES_TEST_DB", "postgres"),
		SSLMode:  "disable",
		LogLevel: "silent",
	}

	db, err := config.InitDatabase(&cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := storage.New(db)
	svc := registration.New(slogdiscard.NewDiscardLogger(), st, gofakeit.LetterN(32), metrics.New().RegistrationOutcomes)
	event := storagetest.Event(t, st, true)

	assertSingleRegistration(t, svc, event.ID)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Package storagetest opens throwaway SQLite databases for tests.
package storagetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farellandr/civic-events/config"
	"github.com/farellandr/civic-events/internal/models"
	"github.com/farellandr/civic-events/internal/storage"
)

// Open returns a migrated in-memory database private to the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := config.InitDatabase(&config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString()),
		LogLevel:   "silent",
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func New(t testing.TB) *storage.Storage {
	t.Helper()
	return storage.New(Open(t))
}

func User(t testing.TB, db *gorm.DB, role string) models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		Email:    gofakeit.Email(),
		FullName: gofakeit.Name(),
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func Event(t testing.TB, st *storage.Storage, published bool) models.Event {
	t.Helper()

	location := gofakeit.City()
	event := models.Event{
		Title:     gofakeit.Sentence(4),
		Location:  &location,
		Published: published,
	}
	require.NoError(t, st.CreateEvent(context.Background(), &event))
	return event
}

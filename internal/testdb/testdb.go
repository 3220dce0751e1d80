// Package testdb opens an isolated, fully migrated in-memory database for
// tests.
package testdb

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/bloodbank/database/migrations"
	"github.com/shashiranjanraj/bloodbank/pkg/database"
	"github.com/shashiranjanraj/bloodbank/pkg/migration"
)

// New returns a migrated sqlite database private to t. The pool holds a
// single connection, so never use the returned handle from inside a
// transaction opened on it.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if _, err := migration.New(db).Run(); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}
	return db
}

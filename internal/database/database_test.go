package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emanuelaromano/book-manager/internal/config"
	"github.com/emanuelaromano/book-manager/internal/entities"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(config.Database{Path: filepath.Join(t.TempDir(), "test.db")}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase_SQLite(t *testing.T) {
	db := setupTestDB(t)

	assert.Equal(t, DialectSQLite, db.Dialect())
	assert.NoError(t, db.Ping(context.Background()))
	assert.True(t, db.DB.Migrator().HasTable(&entities.User{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.Book{}))
	assert.True(t, db.DB.Migrator().HasIndex(&entities.Book{}, "idx_books_natural_key"))
}

func TestNewDatabase_MissingPath(t *testing.T) {
	_, err := NewDatabase(config.Database{}, nil)
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Migrate())
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.DB.Create(&entities.User{Email: "a@example.com", PasswordHash: "x"}).Error)
	err := db.DB.Create(&entities.User{Email: "a@example.com", PasswordHash: "y"}).Error

	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", err)))
}

func TestIsUniqueViolation_Other(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
}

func TestForeignKeys_CascadeDelete(t *testing.T) {
	db := setupTestDB(t)

	user := &entities.User{Email: "owner@example.com", PasswordHash: "x"}
	require.NoError(t, db.DB.Create(user).Error)
	require.NoError(t, db.DB.Create(&entities.Book{UserID: user.ID, Title: "Dune"}).Error)

	require.NoError(t, db.DB.Delete(user).Error)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestForeignKeys_RejectUnknownOwner(t *testing.T) {
	db := setupTestDB(t)

	err := db.DB.Create(&entities.Book{UserID: 999, Title: "Orphan"}).Error
	assert.Error(t, err)
}

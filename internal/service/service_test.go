package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"birthdaybook/internal/db"
	"birthdaybook/internal/model"
	"birthdaybook/internal/repository"
)

// testSigningKey is a fixed key so tokens are verifiable across service
// instances within a test.
var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and shared
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	t.Cleanup(func() { database.Close() })
	return database
}

func createTestAccount(t *testing.T, database *sqlx.DB, email, name string) *model.Account {
	t.Helper()

	now := time.Now()
	account := &model.Account{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repository.NewAccountRepository(database).Create(account))
	return account
}

// latestCode reads back the most recently issued login code for an account.
func latestCode(t *testing.T, database *sqlx.DB, accountID string) string {
	t.Helper()

	var code string
	err := database.Get(&code,
		`SELECT code FROM login_codes WHERE account_id = $1 ORDER BY expires_at DESC, rowid DESC LIMIT 1`,
		accountID,
	)
	require.NoError(t, err)
	return code
}

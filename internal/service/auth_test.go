package service

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"birthdaybook/internal/repository"
)

func newAuthService(database *sqlx.DB, codeExpiry, tokenExpiry time.Duration) *AuthService {
	return NewAuthService(
		repository.NewAccountRepository(database),
		repository.NewLoginCodeRepository(database),
		NewEmailService("", "noreply@example.com", "Birthday Book", true),
		testSigningKey,
		codeExpiry,
		tokenExpiry,
	)
}

func TestRequestCodeUnknownEmail(t *testing.T) {
	database := newTestDB(t)
	svc := newAuthService(database, 5*time.Minute, time.Hour)

	err := svc.RequestCode("nobody@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRequestCodePersistsSixDigitCode(t *testing.T) {
	database := newTestDB(t)
	svc := newAuthService(database, 5*time.Minute, time.Hour)
	account := createTestAccount(t, database, "a@x.com", "Alice")

	require.NoError(t, svc.RequestCode("a@x.com"))

	code := latestCode(t, database, account.ID)
	require.Len(t, code, 6)
	assert.GreaterOrEqual(t, code, "100000")
	assert.LessOrEqual(t, code, "999999")
}

func TestVerifyCodeIssuesToken(t *testing.T) {
	database := newTestDB(t)
	svc := newAuthService(database, 5*time.Minute, time.Hour)
	account := createTestAccount(t, database, "a@x.com", "Alice")

	require.NoError(t, svc.RequestCode("a@x.com"))
	code := latestCode(t, database, account.ID)

	token, err := svc.VerifyCode("a@x.com", code)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims["sub"])
	assert.Equal(t, "a@x.com", claims["email"])
	assert.Equal(t, "Alice", claims["name"])
	assert.Equal(t, "birthday-book", claims["iss"])
}

func TestVerifyCodeReplayFails(t *testing.T) {
	database := newTestDB(t)
	svc := newAuthService(database, 5*time.Minute, time.Hour)
	createTestAccount(t, database, "a@x.com", "Alice")

	require.NoError(t, svc.RequestCode("a@x.com"))
	code := latestCode(t, database, mustAccountID(t, database, "a@x.com"))

	_, err := svc.VerifyCode("a@x.com", code)
	require.NoError(t, err)

	// The code is permanently inert after first redemption
	_, err = svc.VerifyCode("a@x.com", code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyCodeWrongCode(t *testing.T) {
	database := newTestDB(t)
	svc := newAuthService(database, 5*time.Minute, time.Hour)
	createTestAccount(t, database, "a@x.com", "Alice")

	require.NoError(t, svc.RequestCode("a@x.com"))

	_, err := svc.VerifyCode("a@x.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyCodeUnknownEmail(t *testing.T) {
	database := newTestDB(t)
	svc := newAuthService(database, 5*time.Minute, time.Hour)

	_, err := svc.VerifyCode("nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestVerifyCodeExpired(t *testing.T) {
	database := newTestDB(t)
	// Codes are born expired with a negative expiry
	svc := newAuthService(database, -time.Minute, time.Hour)
	account := createTestAccount(t, database, "a@x.com", "Alice")

	require.NoError(t, svc.RequestCode("a@x.com"))
	code := latestCode(t, database, account.ID)

	_, err := svc.VerifyCode("a@x.com", code)
	assert.ErrorIs(t, err, ErrCodeExpired)

	// The failed attempt must not consume the code
	var used bool
	require.NoError(t, database.Get(&used,
		`SELECT used FROM login_codes WHERE account_id = $1`, account.ID))
	assert.False(t, used)

	// Still expired on a second attempt, never invalid-because-used
	_, err = svc.VerifyCode("a@x.com", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestNewerCodeInvalidatesOlder(t *testing.T) {
	database := newTestDB(t)
	svc := newAuthService(database, 5*time.Minute, time.Hour)
	account := createTestAccount(t, database, "a@x.com", "Alice")

	require.NoError(t, svc.RequestCode("a@x.com"))
	codeA := latestCode(t, database, account.ID)

	// Later expiry makes the second code the latest
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, svc.RequestCode("a@x.com"))
	codeB := latestCode(t, database, account.ID)

	if codeA == codeB {
		t.Skip("generated codes collided; cannot distinguish old from new")
	}

	// Code A is still unused and unexpired, but no longer redeemable
	_, err := svc.VerifyCode("a@x.com", codeA)
	assert.ErrorIs(t, err, ErrInvalidCode)

	// Code B works
	_, err = svc.VerifyCode("a@x.com", codeB)
	assert.NoError(t, err)
}

func TestVerifyTokenTampered(t *testing.T) {
	database := newTestDB(t)
	svc := newAuthService(database, 5*time.Minute, time.Hour)
	account := createTestAccount(t, database, "a@x.com", "Alice")

	token, err := svc.GenerateToken(account)
	require.NoError(t, err)

	// Flip one byte in the payload section
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	_, err = svc.VerifyToken(string(tampered))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenExpired(t *testing.T) {
	database := newTestDB(t)
	svc := newAuthService(database, 5*time.Minute, -time.Hour)
	account := createTestAccount(t, database, "a@x.com", "Alice")

	token, err := svc.GenerateToken(account)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenWrongKey(t *testing.T) {
	database := newTestDB(t)
	svc := newAuthService(database, 5*time.Minute, time.Hour)
	account := createTestAccount(t, database, "a@x.com", "Alice")

	token, err := svc.GenerateToken(account)
	require.NoError(t, err)

	other := NewAuthService(
		repository.NewAccountRepository(database),
		repository.NewLoginCodeRepository(database),
		NewEmailService("", "noreply@example.com", "Birthday Book", true),
		[]byte("a completely different signing key"),
		5*time.Minute,
		time.Hour,
	)
	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func mustAccountID(t *testing.T, database *sqlx.DB, email string) string {
	t.Helper()

	account, err := repository.NewAccountRepository(database).ByEmail(email)
	require.NoError(t, err)
	return account.ID
}

package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"birthdaybook/internal/model"
	"birthdaybook/internal/repository"
)

const tokenIssuer = "birthday-book"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidCode     = errors.New("invalid or expired code")
	ErrCodeExpired     = errors.New("code expired")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

// AuthService issues one-time login codes and exchanges them for signed
// bearer tokens. The signing key lives for the process lifetime only; a
// restart invalidates every outstanding token.
type AuthService struct {
	accountRepository   repository.AccountRepository
	loginCodeRepository repository.LoginCodeRepository
	emailService        *EmailService
	signingKey          []byte
	codeExpiry          time.Duration
	tokenExpiry         time.Duration
}

func NewAuthService(
	accountRepository repository.AccountRepository,
	loginCodeRepository repository.LoginCodeRepository,
	emailService *EmailService,
	signingKey []byte,
	codeExpiry time.Duration,
	tokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		accountRepository:   accountRepository,
		loginCodeRepository: loginCodeRepository,
		emailService:        emailService,
		signingKey:          signingKey,
		codeExpiry:          codeExpiry,
		tokenExpiry:         tokenExpiry,
	}
}

// generateCode returns a 6-digit code in [100000, 999999], never zero-padded.
// This is a UX one-time code, not a security token; the bearer-token
// signature and the email channel carry the real security, so a
// non-cryptographic generator is fine here.
func generateCode() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}

// RequestCode issues a fresh login code for the account and delivers it by
// email. Repeated calls stack independent rows; the verifier only ever
// considers the most recently issued unused code.
func (s *AuthService) RequestCode(email string) error {
	account, err := s.accountRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	code := &model.LoginCode{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		Code:      generateCode(),
		ExpiresAt: time.Now().Add(s.codeExpiry),
		Used:      false,
	}
	err = s.loginCodeRepository.Create(code)
	if err != nil {
		return fmt.Errorf("failed to create login code: %w", err)
	}

	err = s.emailService.SendLoginCode(account.Email, account.Name, code.Code)
	if err != nil {
		slog.Error("failed to send login code email", "error", err, "email", account.Email)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("login code issued", "account_id", account.ID)
	return nil
}

// VerifyCode redeems a login code and returns a signed bearer token.
// Only the latest unused code for the account can match; an expired match
// fails without being marked used.
func (s *AuthService) VerifyCode(email, code string) (string, error) {
	account, err := s.accountRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return "", ErrAccountNotFound
		}
		return "", fmt.Errorf("failed to get account: %w", err)
	}

	loginCode, err := s.loginCodeRepository.LatestUnused(account.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return "", ErrInvalidCode
		}
		return "", fmt.Errorf("failed to look up login code: %w", err)
	}

	// Redemption only ever targets the latest unused code; an older code no
	// longer matches once a newer one has been issued.
	if loginCode.Code != code {
		return "", ErrInvalidCode
	}

	// An expired match fails without being marked used. It stays the latest
	// row, so no other code can match either.
	if loginCode.IsExpired() {
		return "", ErrCodeExpired
	}

	err = s.loginCodeRepository.MarkUsed(loginCode.ID)
	if err != nil {
		return "", fmt.Errorf("failed to mark code used: %w", err)
	}

	token, err := s.GenerateToken(account)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	slog.Info("account authenticated", "account_id", account.ID)
	return token, nil
}

func (s *AuthService) GenerateToken(account *model.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   tokenIssuer,
		"sub":   account.ID,
		"email": account.Email,
		"name":  account.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}

// VerifyToken validates the signature and expiry of a bearer token and
// returns its claims. All failure modes collapse to ErrInvalidToken; the
// detail is only logged.
func (s *AuthService) VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		slog.Debug("token verification failed", "error", err)
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

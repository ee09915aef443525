package app

import (
	"crypto/rand"
	"fmt"

	"github.com/jmoiron/sqlx"

	"birthdaybook/internal/config"
	"birthdaybook/internal/db"
	"birthdaybook/internal/repository"
	"birthdaybook/internal/service"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	AccountService  *service.AccountService
	BirthdayService *service.BirthdayService
	SharingService  *service.SharingService
	EmailService    *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	accountRepository := repository.NewAccountRepository(database)
	loginCodeRepository := repository.NewLoginCodeRepository(database)
	birthdayRepository := repository.NewBirthdayRepository(database)
	sharingLinkRepository := repository.NewSharingLinkRepository(database)

	// Token signing key: generated fresh at startup and held only in memory.
	// A restart invalidates every outstanding bearer token.
	signingKey, err := GenerateSigningKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		accountRepository,
		loginCodeRepository,
		emailService,
		signingKey,
		cfg.LoginCodeExpiry,
		cfg.TokenExpiry,
	)
	accountService := service.NewAccountService(accountRepository)
	birthdayService := service.NewBirthdayService(birthdayRepository, accountRepository)
	sharingService := service.NewSharingService(
		sharingLinkRepository,
		birthdayRepository,
		accountRepository,
		cfg.ShareDomain,
		cfg.ShareLinkExpiry,
	)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		AccountService:  accountService,
		BirthdayService: birthdayService,
		SharingService:  sharingService,
		EmailService:    emailService,
	}, nil
}

// GenerateSigningKey returns 32 random bytes for HMAC-SHA-256 token signing.
func GenerateSigningKey() ([]byte, error) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

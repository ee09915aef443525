package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"birthdaybook/internal/model"
)

var ErrCodeNotFound = errors.New("login code not found")

type LoginCodeRepository interface {
	Create(code *model.LoginCode) error
	LatestUnused(accountID string) (*model.LoginCode, error)
	MarkUsed(id string) error
}

type loginCodeRepository struct {
	db *sqlx.DB
}

func NewLoginCodeRepository(db *sqlx.DB) LoginCodeRepository {
	return &loginCodeRepository{db: db}
}

func (r *loginCodeRepository) Create(code *model.LoginCode) error {
	if code.ID == "" {
		code.ID = uuid.New().String()
	}

	query := `
		INSERT INTO login_codes (id, account_id, code, expires_at, used)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		code.ID,
		code.AccountID,
		code.Code,
		code.ExpiresAt,
		code.Used,
	)
	return err
}

// LatestUnused returns the account's most recently issued unused code row.
// Redemption always targets this row, so an older still-valid code becomes
// unverifiable the moment a newer one is issued.
func (r *loginCodeRepository) LatestUnused(accountID string) (*model.LoginCode, error) {
	var c model.LoginCode
	query := `
		SELECT * FROM login_codes
		WHERE account_id = $1 AND used = 0
		ORDER BY expires_at DESC
		LIMIT 1
	`

	err := r.db.Get(&c, query, accountID)
	if err == sql.ErrNoRows {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// MarkUsed flips the used flag in a single statement. Once set the code is
// permanently inert.
func (r *loginCodeRepository) MarkUsed(id string) error {
	query := `UPDATE login_codes SET used = 1 WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

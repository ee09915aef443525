package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"birthdaybook/internal/model"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

type AccountRepository interface {
	Create(account *model.Account) error
	ByID(id string) (*model.Account, error)
	ByEmail(email string) (*model.Account, error)
	Update(account *model.Account) error
	Delete(id string) error
}

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *model.Account) error {
	query := `INSERT INTO accounts (id, email, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, account.ID, account.Email, account.Name, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		// Check for unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *accountRepository) ByID(id string) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT * FROM accounts WHERE id = $1`

	err := r.db.Get(account, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}

	return account, err
}

func (r *accountRepository) ByEmail(email string) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT * FROM accounts WHERE email = $1`

	err := r.db.Get(account, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}

	return account, err
}

func (r *accountRepository) Update(account *model.Account) error {
	query := `UPDATE accounts SET email = $1, name = $2, updated_at = $3 WHERE id = $4`

	_, err := r.db.Exec(query, account.Email, account.Name, account.UpdatedAt, account.ID)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
	}
	return err
}

func (r *accountRepository) Delete(id string) error {
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrAccountNotFound
	}

	return nil
}

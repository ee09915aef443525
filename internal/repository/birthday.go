package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"birthdaybook/internal/model"
)

var ErrBirthdayNotFound = errors.New("birthday not found")

type BirthdayRepository interface {
	Create(birthday *model.Birthday) error
	ByID(id string) (*model.Birthday, error)
	ByAccount(accountID string) ([]model.Birthday, error)
	Update(birthday *model.Birthday) error
	Delete(id, accountID string) error
}

type birthdayRepository struct {
	db *sqlx.DB
}

func NewBirthdayRepository(db *sqlx.DB) BirthdayRepository {
	return &birthdayRepository{db: db}
}

func (r *birthdayRepository) Create(birthday *model.Birthday) error {
	if birthday.ID == "" {
		birthday.ID = uuid.New().String()
	}

	query := `
		INSERT INTO birthdays (id, account_id, name, day, month, year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		birthday.ID,
		birthday.AccountID,
		birthday.Name,
		birthday.Day,
		birthday.Month,
		birthday.Year,
		birthday.CreatedAt,
		birthday.UpdatedAt,
	)
	return err
}

func (r *birthdayRepository) ByID(id string) (*model.Birthday, error) {
	var b model.Birthday
	query := `SELECT * FROM birthdays WHERE id = $1`

	err := r.db.Get(&b, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrBirthdayNotFound
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *birthdayRepository) ByAccount(accountID string) ([]model.Birthday, error) {
	birthdays := []model.Birthday{}
	query := `SELECT * FROM birthdays WHERE account_id = $1`

	err := r.db.Select(&birthdays, query, accountID)
	if err != nil {
		return nil, err
	}

	return birthdays, nil
}

func (r *birthdayRepository) Update(birthday *model.Birthday) error {
	query := `
		UPDATE birthdays
		SET name = $1, day = $2, month = $3, year = $4, updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.Exec(query,
		birthday.Name,
		birthday.Day,
		birthday.Month,
		birthday.Year,
		birthday.UpdatedAt,
		birthday.ID,
	)
	return err
}

// Delete removes a birthday owned by the account. Missing and not-owned rows
// are indistinguishable: zero rows deleted means ErrBirthdayNotFound.
func (r *birthdayRepository) Delete(id, accountID string) error {
	query := `DELETE FROM birthdays WHERE id = $1 AND account_id = $2`

	result, err := r.db.Exec(query, id, accountID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrBirthdayNotFound
	}

	return nil
}

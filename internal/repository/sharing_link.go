package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"birthdaybook/internal/model"
)

var ErrLinkNotFound = errors.New("sharing link not found")

type SharingLinkRepository interface {
	Create(link *model.SharingLink) error
	ActiveByAccount(accountID string) ([]model.SharingLink, error)
	ByToken(token string) (*model.SharingLink, error)
	Deactivate(id, accountID string) error
}

type sharingLinkRepository struct {
	db *sqlx.DB
}

func NewSharingLinkRepository(db *sqlx.DB) SharingLinkRepository {
	return &sharingLinkRepository{db: db}
}

func (r *sharingLinkRepository) Create(link *model.SharingLink) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}

	query := `
		INSERT INTO sharing_links (id, account_id, token, expires_at, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		link.ID,
		link.AccountID,
		link.Token,
		link.ExpiresAt,
		link.IsActive,
		link.CreatedAt,
	)
	return err
}

// ActiveByAccount lists active links newest first. Expired links stay listed
// until revoked; only the is_active flag filters here.
func (r *sharingLinkRepository) ActiveByAccount(accountID string) ([]model.SharingLink, error) {
	links := []model.SharingLink{}
	query := `
		SELECT * FROM sharing_links
		WHERE account_id = $1 AND is_active = 1
		ORDER BY created_at DESC
	`

	err := r.db.Select(&links, query, accountID)
	if err != nil {
		return nil, err
	}

	return links, nil
}

func (r *sharingLinkRepository) ByToken(token string) (*model.SharingLink, error) {
	var link model.SharingLink
	query := `SELECT * FROM sharing_links WHERE token = $1`

	err := r.db.Get(&link, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}

	return &link, nil
}

// Deactivate soft-revokes a link in one atomic statement. Ownership mismatch,
// nonexistence and an already-inactive link are indistinguishable: zero rows
// updated means ErrLinkNotFound.
func (r *sharingLinkRepository) Deactivate(id, accountID string) error {
	query := `
		UPDATE sharing_links
		SET is_active = 0
		WHERE id = $1 AND account_id = $2 AND is_active = 1
	`

	result, err := r.db.Exec(query, id, accountID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrLinkNotFound
	}

	return nil
}

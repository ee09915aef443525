package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"birthdaybook/internal/model"
	"birthdaybook/internal/repository"
)

var ErrLinkNotFound = errors.New("sharing link not found or expired")

// SharedLink is a sharing link enriched with its public share URL.
type SharedLink struct {
	model.SharingLink
	ShareURL string
}

// SharingService manages capability tokens that grant unauthenticated,
// write-only access to one account's birthday collection.
type SharingService struct {
	linkRepository     repository.SharingLinkRepository
	birthdayRepository repository.BirthdayRepository
	accountRepository  repository.AccountRepository
	shareDomain        string
	linkExpiry         time.Duration
}

func NewSharingService(
	linkRepository repository.SharingLinkRepository,
	birthdayRepository repository.BirthdayRepository,
	accountRepository repository.AccountRepository,
	shareDomain string,
	linkExpiry time.Duration,
) *SharingService {
	return &SharingService{
		linkRepository:     linkRepository,
		birthdayRepository: birthdayRepository,
		accountRepository:  accountRepository,
		shareDomain:        shareDomain,
		linkExpiry:         linkExpiry,
	}
}

// shareURL builds the public URL for a token. The configured share domain
// wins; an unset domain falls back to the inbound request's origin.
func (s *SharingService) shareURL(origin, token string) string {
	domain := s.shareDomain
	if domain == "" {
		domain = origin
	}
	return fmt.Sprintf("%s/share/%s", domain, token)
}

// CreateLink issues a new capability token for the account.
func (s *SharingService) CreateLink(accountID, origin string) (*SharedLink, error) {
	now := time.Now()
	expiresAt := now.Add(s.linkExpiry)

	link := &model.SharingLink{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Token:     uuid.New().String(),
		ExpiresAt: &expiresAt,
		IsActive:  true,
		CreatedAt: now,
	}
	err := s.linkRepository.Create(link)
	if err != nil {
		return nil, fmt.Errorf("failed to create sharing link: %w", err)
	}

	slog.Info("sharing link created", "account_id", accountID, "link_id", link.ID)
	return &SharedLink{SharingLink: *link, ShareURL: s.shareURL(origin, link.Token)}, nil
}

// ListLinks returns the account's active links, newest first, each with its
// share URL. Side-effect free.
func (s *SharingService) ListLinks(accountID, origin string) ([]SharedLink, error) {
	links, err := s.linkRepository.ActiveByAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sharing links: %w", err)
	}

	shared := make([]SharedLink, 0, len(links))
	for _, link := range links {
		shared = append(shared, SharedLink{SharingLink: link, ShareURL: s.shareURL(origin, link.Token)})
	}
	return shared, nil
}

// usableByToken loads a link and applies the single validity predicate.
// Resolution and the birthday-write path must not diverge here.
func (s *SharingService) usableByToken(token string) (*model.SharingLink, error) {
	link, err := s.linkRepository.ByToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to look up sharing link: %w", err)
	}
	if !link.Usable() {
		return nil, ErrLinkNotFound
	}
	return link, nil
}

// ResolveLink publicly resolves a token to the owning account's display name.
func (s *SharingService) ResolveLink(token string) (*model.SharingLink, string, error) {
	link, err := s.usableByToken(token)
	if err != nil {
		return nil, "", err
	}

	accountName := "Unknown"
	account, err := s.accountRepository.ByID(link.AccountID)
	if err == nil {
		accountName = account.Name
	}

	return link, accountName, nil
}

// AddBirthday creates a birthday under the link's account. The capability
// token is the only authorization; no bearer token is involved.
func (s *SharingService) AddBirthday(token, name string, day, month int, year *int) (*model.Birthday, error) {
	link, err := s.usableByToken(token)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	birthday := &model.Birthday{
		ID:        uuid.New().String(),
		AccountID: link.AccountID,
		Name:      name,
		Day:       day,
		Month:     month,
		Year:      year,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.birthdayRepository.Create(birthday)
	if err != nil {
		return nil, fmt.Errorf("failed to create birthday: %w", err)
	}

	slog.Info("birthday added via sharing link", "account_id", link.AccountID, "link_id", link.ID)
	return birthday, nil
}

// RevokeLink soft-revokes a link owned by the account. Ownership mismatch,
// nonexistence and an already-revoked link all surface as ErrLinkNotFound so
// other accounts' link ids never leak.
func (s *SharingService) RevokeLink(accountID, id string) error {
	err := s.linkRepository.Deactivate(id, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to revoke sharing link: %w", err)
	}

	slog.Info("sharing link revoked", "account_id", accountID, "link_id", id)
	return nil
}

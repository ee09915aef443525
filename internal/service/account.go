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

var (
	ErrForbidden       = errors.New("forbidden")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrNothingToUpdate = errors.New("nothing to update")
)

type AccountService struct {
	accountRepository repository.AccountRepository
}

func NewAccountService(accountRepository repository.AccountRepository) *AccountService {
	return &AccountService{accountRepository: accountRepository}
}

func (s *AccountService) Create(email, name string) (*model.Account, error) {
	now := time.Now()
	account := &model.Account{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.accountRepository.Create(account)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("account created", "account_id", account.ID)
	return account, nil
}

// Get returns the account with the given id. Callers may only read their own
// account.
func (s *AccountService) Get(callerID, id string) (*model.Account, error) {
	if callerID != id {
		return nil, ErrForbidden
	}

	account, err := s.accountRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// Update applies a partial update to the caller's own account.
func (s *AccountService) Update(callerID, id string, email, name *string) (*model.Account, error) {
	account, err := s.Get(callerID, id)
	if err != nil {
		return nil, err
	}

	if email == nil && name == nil {
		return nil, ErrNothingToUpdate
	}

	if email != nil {
		account.Email = *email
	}
	if name != nil {
		account.Name = *name
	}
	account.UpdatedAt = time.Now()

	err = s.accountRepository.Update(account)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return account, nil
}

// Delete removes the caller's own account. Birthdays, login codes and
// sharing links go with it via foreign key cascade.
func (s *AccountService) Delete(callerID, id string) error {
	if callerID != id {
		return ErrForbidden
	}

	err := s.accountRepository.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	slog.Info("account deleted", "account_id", id)
	return nil
}

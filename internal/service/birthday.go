package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"birthdaybook/internal/model"
	"birthdaybook/internal/repository"
)

var ErrBirthdayNotFound = errors.New("birthday not found")

type BirthdayService struct {
	birthdayRepository repository.BirthdayRepository
	accountRepository  repository.AccountRepository
}

func NewBirthdayService(
	birthdayRepository repository.BirthdayRepository,
	accountRepository repository.AccountRepository,
) *BirthdayService {
	return &BirthdayService{
		birthdayRepository: birthdayRepository,
		accountRepository:  accountRepository,
	}
}

// Upcoming lists the account's birthdays with the days-until-next countdown
// set, soonest first.
func (s *BirthdayService) Upcoming(accountID string) ([]model.Birthday, error) {
	birthdays, err := s.birthdayRepository.ByAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list birthdays: %w", err)
	}

	now := time.Now()
	for i := range birthdays {
		birthdays[i].DaysUntilNext = model.DaysUntilNextOccurrence(birthdays[i].Month, birthdays[i].Day, now)
	}
	sort.SliceStable(birthdays, func(i, j int) bool {
		return birthdays[i].DaysUntilNext < birthdays[j].DaysUntilNext
	})

	return birthdays, nil
}

// ListByAccount lists birthdays without the countdown enrichment. The caller
// must own the account.
func (s *BirthdayService) ListByAccount(callerID, accountID string) ([]model.Birthday, error) {
	if callerID != accountID {
		return nil, ErrForbidden
	}
	_, err := s.accountRepository.ByID(accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return s.birthdayRepository.ByAccount(accountID)
}

func (s *BirthdayService) Create(accountID, name string, day, month int, year *int) (*model.Birthday, error) {
	now := time.Now()
	birthday := &model.Birthday{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Name:      name,
		Day:       day,
		Month:     month,
		Year:      year,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.birthdayRepository.Create(birthday)
	if err != nil {
		return nil, fmt.Errorf("failed to create birthday: %w", err)
	}

	return birthday, nil
}

func (s *BirthdayService) Get(callerID, id string) (*model.Birthday, error) {
	birthday, err := s.birthdayRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrBirthdayNotFound) {
			return nil, ErrBirthdayNotFound
		}
		return nil, fmt.Errorf("failed to get birthday: %w", err)
	}
	if birthday.AccountID != callerID {
		return nil, ErrForbidden
	}

	return birthday, nil
}

// Update applies a partial update; absent fields keep their stored values.
func (s *BirthdayService) Update(callerID, id string, name *string, day, month, year *int) (*model.Birthday, error) {
	birthday, err := s.Get(callerID, id)
	if err != nil {
		return nil, err
	}

	if name == nil && day == nil && month == nil && year == nil {
		return nil, ErrNothingToUpdate
	}

	if name != nil {
		birthday.Name = *name
	}
	if day != nil {
		birthday.Day = *day
	}
	if month != nil {
		birthday.Month = *month
	}
	if year != nil {
		birthday.Year = year
	}
	birthday.UpdatedAt = time.Now()

	err = s.birthdayRepository.Update(birthday)
	if err != nil {
		return nil, fmt.Errorf("failed to update birthday: %w", err)
	}

	return birthday, nil
}

func (s *BirthdayService) Delete(callerID, id string) error {
	err := s.birthdayRepository.Delete(id, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrBirthdayNotFound) {
			return ErrBirthdayNotFound
		}
		return fmt.Errorf("failed to delete birthday: %w", err)
	}
	return nil
}

package model

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserPage is one window of a filtered user listing together with the
// number of all users matching the filter.
type UserPage struct {
	Content       []User
	TotalElements int64
}

// FindUsers returns page pageNumber (zero based) of size limit of the users
// matching f, ordered by creation time and id. Count and page are two
// separate reads.
func (s *Store) FindUsers(ctx context.Context, f UserFilter, pageNumber, limit int) (UserPage, error) {
	var page UserPage
	if pageNumber < 0 {
		return page, errors.New("page number must not be negative")
	}
	if limit <= 0 {
		return page, errors.New("limit must be positive")
	}

	base := f.Scope(s.db.WithContext(ctx).Model(&User{}))

	// Count first
	if err := base.Session(&gorm.Session{}).Count(&page.TotalElements).Error; err != nil {
		return page, err
	}

	// pageNumber*limit would overflow, the window is past any possible row
	if pageNumber > math.MaxInt/limit {
		page.Content = []User{}
		return page, nil
	}

	// Page data
	var users []User
	if err := base.Session(&gorm.Session{}).
		Order("created_at ASC, id ASC").
		Offset(pageNumber * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return page, err
	}
	if users == nil {
		users = []User{}
	}
	page.Content = users
	return page, nil
}

// ListAllUsers returns every user matching f in listing order.
func (s *Store) ListAllUsers(ctx context.Context, f UserFilter) ([]User, error) {
	var users []User
	err := f.Scope(s.db.WithContext(ctx).Model(&User{})).
		Order("created_at ASC, id ASC").
		Find(&users).Error
	return users, err
}

// GetUser loads a single user.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u := &User{}
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// CreateUser validates in and stores a new user.
func (s *Store) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u := &User{
		Name:        in.Name,
		Surname:     in.Surname,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Active:      in.Active,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser overwrites only the supplied fields of the user in a single
// statement. An unknown id is not an error.
func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) error {
	upd.Normalize()
	if err := upd.Validate(); err != nil {
		return err
	}
	if upd.IsEmpty() {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(upd.columns()).Error
}

// SetUserActive sets the active flag. An unknown id is not an error.
func (s *Store) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("active", active).Error
}

// DeleteUser removes the user. An unknown id is not an error.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&User{}).Error
}

// InsertUser stores u without input validation, keeping a preset ID or
// CreatedAt. It is meant for seeding.
func (s *Store) InsertUser(u *User) error {
	return s.db.Create(u).Error
}

package model

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidDate  = errors.New("invalid date, use YYYY-MM-DD")
)

// Column sizes of the users table.
const (
	MaxNameLength    = 100
	MaxSurnameLength = 100
	MaxEmailLength   = 200
	MaxPhoneLength   = 30
)

// User is a managed user record. ID and CreatedAt are written once on insert.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	Name        string    `gorm:"size:100;not null"`
	Surname     string    `gorm:"size:100;not null"`
	Email       string    `gorm:"size:200;not null"`
	PhoneNumber string    `gorm:"size:30;not null"`
	Active      bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null;index;<-:create"`

	// Lowercased copies of Name and Surname for case-insensitive search.
	// The database LOWER() of sqlite folds ASCII only.
	NameNorm    string `gorm:"size:100;not null;default:''"`
	SurnameNorm string `gorm:"size:100;not null;default:''"`
}

func (User) TableName() string { return "users" }

// normalizeName lowercases s using Unicode rules and collapses whitespace
// runs to a single space.
//
//	normalizeName("  Šárka  ČERNÁ ") -> "šárka černá"
func normalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i, f := range strings.Fields(s) {
		if i > 0 {
			b.WriteByte(' ')
		}
		for _, r := range f {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// BeforeSave keeps the search columns in sync with Name and Surname.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.NameNorm = normalizeName(u.Name)
	u.SurnameNorm = normalizeName(u.Surname)
	return nil
}

// BeforeCreate assigns the identifier and the creation timestamp.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return err
		}
		u.ID = id
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return nil
}

// UserInput holds the fields for a new user. All text fields are required.
type UserInput struct {
	Name        string
	Surname     string
	Email       string
	PhoneNumber string
	Active      bool
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name        *string
	Surname     *string
	Email       *string
	PhoneNumber *string
	Active      *bool
}

// IsEmpty reports whether no field was supplied.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Surname == nil && u.Email == nil && u.PhoneNumber == nil && u.Active == nil
}

// columns returns the supplied fields keyed by column name.
func (u UserUpdate) columns() map[string]any {
	cols := make(map[string]any, 7)
	if u.Name != nil {
		cols["name"] = *u.Name
		cols["name_norm"] = normalizeName(*u.Name)
	}
	if u.Surname != nil {
		cols["surname"] = *u.Surname
		cols["surname_norm"] = normalizeName(*u.Surname)
	}
	if u.Email != nil {
		cols["email"] = *u.Email
	}
	if u.PhoneNumber != nil {
		cols["phone_number"] = *u.PhoneNumber
	}
	if u.Active != nil {
		cols["active"] = *u.Active
	}
	return cols
}

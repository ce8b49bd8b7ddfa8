// Package fixtures provides an in-memory store and record builders for tests.
package fixtures

import (
	"testing"
	"time"

	"github.com/billingcat/userapi/model"
	"github.com/google/uuid"
)

// BaseTime is the creation time of the first seeded user.
var BaseTime = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

// TestConfig returns a config for a private in-memory sqlite database.
func TestConfig() *model.Config {
	return &model.Config{
		Mode:        "test",
		Port:        8090,
		Workers:     4,
		MaxPageSize: 200,
		Servers: map[string]model.ServerConfig{
			"test": {Database: "sqlite3", DBName: model.MemoryDB, DBLogger: "silent"},
		},
	}
}

// NewTestStore opens an empty, migrated in-memory store that is closed when
// the test ends.
func NewTestStore(t *testing.T) *model.Store {
	t.Helper()
	store, err := model.InitDatabase(TestConfig())
	if err != nil {
		t.Fatalf("InitDatabase: %v", err)
	}
	if err := store.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// UserOption customizes a user built by User.
type UserOption func(*model.User)

func WithName(name, surname string) UserOption {
	return func(u *model.User) {
		u.Name = name
		u.Surname = surname
	}
}

func WithActive(active bool) UserOption {
	return func(u *model.User) { u.Active = active }
}

func WithCreatedAt(t time.Time) UserOption {
	return func(u *model.User) { u.CreatedAt = t }
}

func WithID(id uuid.UUID) UserOption {
	return func(u *model.User) { u.ID = id }
}

func WithEmail(email string) UserOption {
	return func(u *model.User) { u.Email = email }
}

// User builds an unsaved user with sensible defaults.
func User(opts ...UserOption) *model.User {
	u := &model.User{
		Name:        "Max",
		Surname:     "Mustermann",
		Email:       "max@example.com",
		PhoneNumber: "+420 123 456 789",
		Active:      true,
		CreatedAt:   BaseTime,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Insert stores users as given, including their CreatedAt.
func Insert(t *testing.T, store *model.Store, users ...*model.User) {
	t.Helper()
	for _, u := range users {
		if err := store.InsertUser(u); err != nil {
			t.Fatalf("InsertUser(%s %s): %v", u.Name, u.Surname, err)
		}
	}
}

// TestData holds the users created by SeedTestData.
type TestData struct {
	John *model.User
	Jane *model.User
}

// SeedTestData inserts John Smith (active) and Jane Smith (inactive), one day apart.
func SeedTestData(t *testing.T, store *model.Store) TestData {
	t.Helper()
	data := TestData{
		John: User(WithName("John", "Smith"), WithActive(true), WithEmail("john@example.com"),
			WithCreatedAt(BaseTime)),
		Jane: User(WithName("Jane", "Smith"), WithActive(false), WithEmail("jane@example.com"),
			WithCreatedAt(BaseTime.Add(24*time.Hour))),
	}
	Insert(t, store, data.John, data.Jane)
	return data
}

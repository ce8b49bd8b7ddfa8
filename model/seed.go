package model

import (
	"context"
	"time"
)

var demoUsers = []UserInput{
	{Name: "John", Surname: "Smith", Email: "john.smith@example.com", PhoneNumber: "+1 555 0100", Active: true},
	{Name: "Jane", Surname: "Smith", Email: "jane.smith@example.com", PhoneNumber: "+1 555 0101"},
	{Name: "Alice", Surname: "Johnson", Email: "alice.johnson@example.com", PhoneNumber: "+1 555 0102", Active: true},
	{Name: "Bob", Surname: "Brown", Email: "bob.brown@example.com", PhoneNumber: "+1 555 0103", Active: true},
	{Name: "Carol", Surname: "Davis", Email: "carol.davis@example.com", PhoneNumber: "+1 555 0104"},
	{Name: "David", Surname: "Miller", Email: "david.miller@example.com", PhoneNumber: "+1 555 0105", Active: true},
	{Name: "Eva", Surname: "Novak", Email: "eva.novak@example.com", PhoneNumber: "+420 601 234 567", Active: true},
	{Name: "Frank", Surname: "Wilson", Email: "frank.wilson@example.com", PhoneNumber: "+1 555 0107"},
	{Name: "Grace", Surname: "Moore", Email: "grace.moore@example.com", PhoneNumber: "+1 555 0108", Active: true},
	{Name: "Henry", Surname: "Taylor", Email: "henry.taylor@example.com", PhoneNumber: "+1 555 0109"},
}

// SeedDemoUsers fills an empty users table with demo records, one per day
// ending today. It returns the number of inserted users.
func (s *Store) SeedDemoUsers(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	today := StartOfDay(time.Now().UTC()).Add(9 * time.Hour)
	users := make([]User, len(demoUsers))
	for i, in := range demoUsers {
		users[i] = User{
			Name:        in.Name,
			Surname:     in.Surname,
			Email:       in.Email,
			PhoneNumber: in.PhoneNumber,
			Active:      in.Active,
			CreatedAt:   today.AddDate(0, 0, i-len(demoUsers)+1),
		}
	}
	if err := s.db.WithContext(ctx).Create(&users).Error; err != nil {
		return 0, err
	}
	return len(users), nil
}

package model_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/billingcat/userapi/fixtures"
	"github.com/billingcat/userapi/model"
	"github.com/google/uuid"
)

func boolPtr(b bool) *bool { return &b }

func datePtr(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func names(users []model.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name + " " + u.Surname
	}
	sort.Strings(out)
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestUserFilter_SmithExample(t *testing.T) {
	store := fixtures.NewTestStore(t)
	fixtures.SeedTestData(t, store)
	fixtures.Insert(t, store, fixtures.User(fixtures.WithName("Šárka", "Černá"), fixtures.WithActive(false)))
	ctx := context.Background()

	all := []string{"Jane Smith", "John Smith", "Šárka Černá"}
	tests := []struct {
		name   string
		filter model.UserFilter
		want   []string
	}{
		{"empty filter matches all", model.UserFilter{}, all},
		{"two tokens", model.UserFilter{Name: "john smith"}, []string{"John Smith"}},
		{"one token surname", model.UserFilter{Name: "smith"}, []string{"Jane Smith", "John Smith"}},
		{"one token name", model.UserFilter{Name: "JANE"}, []string{"Jane Smith"}},
		{"active true", model.UserFilter{Active: boolPtr(true)}, []string{"John Smith"}},
		{"active false", model.UserFilter{Active: boolPtr(false)}, []string{"Jane Smith", "Šárka Černá"}},
		{"blank name adds no clause", model.UserFilter{Name: "   "}, all},
		{"blank id adds no clause", model.UserFilter{ID: " "}, all},
		{"token order matters", model.UserFilter{Name: "smith john"}, []string{}},
		{"third token ignored", model.UserFilter{Name: "jo sm whatever"}, []string{"John Smith"}},
		{"substring tokens", model.UserFilter{Name: "  oh   it "}, []string{"John Smith"}},
		{"combined", model.UserFilter{Name: "smith", Active: boolPtr(false)}, []string{"Jane Smith"}},
		{"wildcards are literal", model.UserFilter{Name: "%"}, []string{}},
		{"underscore is literal", model.UserFilter{Name: "j_hn"}, []string{}},
		{"non-ascii surname", model.UserFilter{Name: "černá"}, []string{"Šárka Černá"}},
		{"non-ascii upper case", model.UserFilter{Name: "ČERNÁ"}, []string{"Šárka Černá"}},
		{"non-ascii mixed case prefix", model.UserFilter{Name: "šÁR"}, []string{"Šárka Černá"}},
		{"non-ascii two tokens", model.UserFilter{Name: "šárka černá"}, []string{"Šárka Černá"}},
		{"non-ascii two tokens upper", model.UserFilter{Name: "  ŠÁRKA   ČERNÁ "}, []string{"Šárka Černá"}},
		{"non-ascii order matters", model.UserFilter{Name: "černá šárka"}, []string{}},
		{"diacritics are significant", model.UserFilter{Name: "cerna"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListAllUsers(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListAllUsers: %v", err)
			}
			if g := names(got); !equalNames(g, tt.want) {
				t.Errorf("got %v, want %v", g, tt.want)
			}
		})
	}
}

func TestUserFilter_ID(t *testing.T) {
	store := fixtures.NewTestStore(t)
	ctx := context.Background()
	a := fixtures.User(fixtures.WithName("A", "One"),
		fixtures.WithID(uuid.MustParse("0b9e4f1c-1111-4a2b-9c3d-aaaaaaaaaaaa")))
	b := fixtures.User(fixtures.WithName("B", "Two"),
		fixtures.WithID(uuid.MustParse("7d3c2b1a-2222-4a2b-9c3d-bbbbbbbbbbbb")))
	fixtures.Insert(t, store, a, b)

	tests := []struct {
		id   string
		want []string
	}{
		{"1111", []string{"A One"}},
		{"AAAA", []string{"A One"}},
		{"7D3C2B1A-2222", []string{"B Two"}},
		{"4a2b-9c3d", []string{"A One", "B Two"}},
		{"ffff", []string{}},
	}
	for _, tt := range tests {
		got, err := store.ListAllUsers(ctx, model.UserFilter{ID: tt.id})
		if err != nil {
			t.Fatalf("ListAllUsers(%q): %v", tt.id, err)
		}
		if g := names(got); !equalNames(g, tt.want) {
			t.Errorf("id %q: got %v, want %v", tt.id, g, tt.want)
		}
	}
}

func TestUserFilter_DateBoundaries(t *testing.T) {
	store := fixtures.NewTestStore(t)
	ctx := context.Background()

	at := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatal(err)
		}
		return ts
	}
	fixtures.Insert(t, store,
		fixtures.User(fixtures.WithName("Before", "X"), fixtures.WithCreatedAt(at("2024-05-09T23:59:59Z"))),
		fixtures.User(fixtures.WithName("Start", "X"), fixtures.WithCreatedAt(at("2024-05-10T00:00:00Z"))),
		fixtures.User(fixtures.WithName("Middle", "X"), fixtures.WithCreatedAt(at("2024-05-11T12:00:00Z"))),
		fixtures.User(fixtures.WithName("End", "X"), fixtures.WithCreatedAt(at("2024-05-12T23:59:59Z"))),
		fixtures.User(fixtures.WithName("After", "X"), fixtures.WithCreatedAt(at("2024-05-13T00:00:00Z"))),
	)

	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"closed range includes boundaries", "2024-05-10", "2024-05-12", []string{"End X", "Middle X", "Start X"}},
		{"from only", "2024-05-12", "", []string{"After X", "End X"}},
		{"to only", "", "2024-05-09", []string{"Before X"}},
		{"single day", "2024-05-11", "2024-05-11", []string{"Middle X"}},
		{"empty range", "2024-05-12", "2024-05-10", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f model.UserFilter
			if tt.from != "" {
				f.CreatedAtFrom = datePtr(t, tt.from)
			}
			if tt.to != "" {
				f.CreatedAtTo = datePtr(t, tt.to)
			}
			got, err := store.ListAllUsers(ctx, f)
			if err != nil {
				t.Fatalf("ListAllUsers: %v", err)
			}
			if g := names(got); !equalNames(g, tt.want) {
				t.Errorf("got %v, want %v", g, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := model.ParseDate("")
	if err != nil || d != nil {
		t.Errorf("ParseDate(\"\") = %v, %v; want nil, nil", d, err)
	}
	d, err = model.ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate = %v", d)
	}
	for _, bad := range []string{"2024-13-01", "29.02.2024", "2024-02-30", "yesterday"} {
		if _, err := model.ParseDate(bad); err != model.ErrInvalidDate {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	ts := time.Date(2024, 7, 1, 15, 4, 5, 6, time.UTC)
	if got := model.StartOfDay(ts); !got.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay = %v", got)
	}
	if got := model.EndOfDay(ts); !got.Equal(time.Date(2024, 7, 1, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("EndOfDay = %v", got)
	}
}

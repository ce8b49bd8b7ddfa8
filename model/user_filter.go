package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DateLayout is the calendar date format accepted for creation-date bounds.
const DateLayout = "2006-01-02"

// UserFilter narrows a user listing. Every field is optional; empty strings
// and nil pointers add no constraint.
type UserFilter struct {
	ID            string     // substring of the textual identifier
	Name          string     // one or two whitespace separated tokens
	Active        *bool      // tri-state
	CreatedAtFrom *time.Time // calendar date, inclusive from 00:00:00
	CreatedAtTo   *time.Time // calendar date, inclusive until 23:59:59
}

// clause is a single SQL condition with its bind arguments.
type clause struct {
	query string
	args  []any
}

// likeEscaper protects LIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// likeClause matches column case-insensitively against a lowercased pattern.
func likeClause(dialect, column string) string {
	if dialect == "postgres" {
		return column + ` ILIKE ? ESCAPE '\'`
	}
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}

// clauses compiles the filter into independent conditions that are meant to
// be joined with AND. No clauses means every record matches. Names are
// matched against the name_norm and surname_norm columns, which hold the
// Unicode-lowercased values.
func (f UserFilter) clauses(dialect string) []clause {
	var cs []clause

	if id := strings.ToLower(strings.TrimSpace(f.ID)); id != "" {
		cs = append(cs, clause{likeClause(dialect, "CAST(id AS TEXT)"), []any{containsPattern(id)}})
	}

	tokens := strings.Fields(normalizeName(f.Name))
	switch {
	case len(tokens) == 1:
		p := containsPattern(tokens[0])
		cs = append(cs, clause{"(" + likeClause(dialect, "name_norm") + " OR " + likeClause(dialect, "surname_norm") + ")", []any{p, p}})
	case len(tokens) >= 2:
		cs = append(cs,
			clause{likeClause(dialect, "name_norm"), []any{containsPattern(tokens[0])}},
			clause{likeClause(dialect, "surname_norm"), []any{containsPattern(tokens[1])}},
		)
	}

	if f.Active != nil {
		cs = append(cs, clause{"active = ?", []any{*f.Active}})
	}
	if f.CreatedAtFrom != nil {
		cs = append(cs, clause{"created_at >= ?", []any{StartOfDay(*f.CreatedAtFrom)}})
	}
	if f.CreatedAtTo != nil {
		cs = append(cs, clause{"created_at <= ?", []any{EndOfDay(*f.CreatedAtTo)}})
	}
	return cs
}

// Scope applies the compiled filter to a query.
func (f UserFilter) Scope(db *gorm.DB) *gorm.DB {
	for _, c := range f.clauses(db.Dialector.Name()) {
		db = db.Where(c.query, c.args...)
	}
	return db
}

// ParseDate parses a YYYY-MM-DD calendar date. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &d, nil
}

// StartOfDay returns 00:00:00 UTC of the calendar day of t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59 UTC of the calendar day of t.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

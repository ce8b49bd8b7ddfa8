package model

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9(][0-9 ()\-]*[0-9]$`)
)

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned before any storage access when the input is
// not acceptable. It lists every failing field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

type fieldRule struct {
	name    string
	label   string
	max     int
	pattern *regexp.Regexp
	format  string
}

var (
	ruleName    = fieldRule{name: "name", label: "Name", max: MaxNameLength}
	ruleSurname = fieldRule{name: "surname", label: "Surname", max: MaxSurnameLength}
	ruleEmail   = fieldRule{name: "email", label: "Email", max: MaxEmailLength, pattern: emailPattern, format: "Invalid email format"}
	rulePhone   = fieldRule{name: "phoneNumber", label: "Phone number", max: MaxPhoneLength, pattern: phonePattern, format: "Invalid phone number format"}
)

func (r fieldRule) check(v string, verr *ValidationError) {
	switch {
	case v == "":
		verr.add(r.name, r.label+" is required")
	case utf8.RuneCountInString(v) > r.max:
		verr.add(r.name, fmt.Sprintf("%s cannot exceed %d characters", r.label, r.max))
	case r.pattern != nil && !r.pattern.MatchString(v):
		verr.add(r.name, r.format)
	}
}

// Normalize trims surrounding whitespace from all text fields.
func (in *UserInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
}

// Validate checks a normalized UserInput.
func (in UserInput) Validate() error {
	verr := &ValidationError{}
	ruleName.check(in.Name, verr)
	ruleSurname.check(in.Surname, verr)
	ruleEmail.check(in.Email, verr)
	rulePhone.check(in.PhoneNumber, verr)
	return verr.errOrNil()
}

// Normalize trims surrounding whitespace from the supplied text fields.
func (u *UserUpdate) Normalize() {
	for _, p := range []*string{u.Name, u.Surname, u.Email, u.PhoneNumber} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

// Validate checks only the supplied fields; a supplied blank value is an error.
func (u UserUpdate) Validate() error {
	verr := &ValidationError{}
	if u.Name != nil {
		ruleName.check(*u.Name, verr)
	}
	if u.Surname != nil {
		ruleSurname.check(*u.Surname, verr)
	}
	if u.Email != nil {
		ruleEmail.check(*u.Email, verr)
	}
	if u.PhoneNumber != nil {
		rulePhone.check(*u.PhoneNumber, verr)
	}
	return verr.errOrNil()
}

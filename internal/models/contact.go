package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/desertthunder/agenda/internal/shared"
	"github.com/go-playground/validator/v10"
)

var _ Model = (*Contact)(nil)

// Field names as they appear in forms, CSV headers and validation errors.
const (
	FieldName    = "name"
	FieldPhone   = "phone"
	FieldEmail   = "email"
	FieldAddress = "address"
	FieldNotes   = "notes"
)

// Fields lists the editable contact fields in display order.
var Fields = []string{FieldName, FieldPhone, FieldEmail, FieldAddress, FieldNotes}

var mailboxPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// phoneSeparators are the non-digit characters allowed inside a phone number.
const phoneSeparators = " -.()"

var validate = newValidator()

// Contact is a stored contact record.
type Contact struct {
	ID        int64     `json:"id"`
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactInput holds candidate field values, typically straight from a form or a CSV row.
type ContactInput struct {
	Name    string `field:"name" validate:"required"`
	Phone   string `field:"phone" validate:"required,phone"`
	Email   string `field:"email" validate:"required,mailbox"`
	Address string `field:"address"`
	Notes   string `field:"notes"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// ValidationErrors collects every failing field of one input. It unwraps to [shared.ErrValidation].
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() error { return shared.ErrValidation }

// For returns the message recorded for field, or "" when the field passed.
func (v ValidationErrors) For(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Normalize returns a copy of the input with surrounding whitespace removed from every field.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func (in ContactInput) Normalize() ContactInput {
	return ContactInput{
		Name:    clean(in.Name),
		Phone:   clean(in.Phone),
		Email:   clean(in.Email),
		Address: clean(in.Address),
		Notes:   clean(in.Notes),
	}
}

func clean(s string) string {
	return strings.TrimSpace(strings.ToValidUTF8(s, "\uFFFD"))
}

// Get returns the value of the named field.
func (in ContactInput) Get(field string) string {
	switch field {
	case FieldName:
		return in.Name
	case FieldPhone:
		return in.Phone
	case FieldEmail:
		return in.Email
	case FieldAddress:
		return in.Address
	case FieldNotes:
		return in.Notes
	}
	return ""
}

// Set assigns value to the named field. Unknown field names are ignored.
func (in *ContactInput) Set(field, value string) {
	switch field {
	case FieldName:
		in.Name = value
	case FieldPhone:
		in.Phone = value
	case FieldEmail:
		in.Email = value
	case FieldAddress:
		in.Address = value
	case FieldNotes:
		in.Notes = value
	}
}

// Validate checks candidate values and returns either a new, unsaved [Contact] or [ValidationErrors]
// naming every failing field. It performs no I/O.
func Validate(in ContactInput) (*Contact, error) {
	in = in.Normalize()

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("%w: %w", shared.ErrValidation, err)
		}

		failures := make(ValidationErrors, 0, len(verrs))
		for _, fe := range verrs {
			failures = append(failures, FieldError{Field: fe.Field(), Message: messageFor(fe)})
		}
		return nil, failures
	}

	return &Contact{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
		Notes:   in.Notes,
	}, nil
}

// Identifier returns the store-assigned ID.
func (c *Contact) Identifier() int64 { return c.ID }

// Validate re-checks the contact's current field values.
func (c *Contact) Validate() error {
	_, err := Validate(c.Input())
	return err
}

// Input returns the contact's editable fields.
func (c *Contact) Input() ContactInput {
	return ContactInput{
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Notes:   c.Notes,
	}
}

func (c *Contact) String() string {
	return fmt.Sprintf("#%d %s <%s> %s", c.ID, c.Name, c.Email, c.Phone)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return strings.ToLower(f.Name)
	})

	must(v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	}))
	must(v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("models: failed to register validation: %v", err))
	}
}

// IsPhone reports whether s is digits with optional separators and an optional leading "+".
func IsPhone(s string) bool {
	s = strings.TrimPrefix(s, "+")
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune(phoneSeparators, r):
		default:
			return false
		}
	}
	return digits > 0
}

// IsEmail reports whether s has a local part, a single "@" and a dotted domain.
func IsEmail(s string) bool {
	return mailboxPattern.MatchString(s)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "phone":
		return "must be digits, optionally separated by spaces, dashes, dots or parentheses"
	case "mailbox":
		return "must look like name@example.com"
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}

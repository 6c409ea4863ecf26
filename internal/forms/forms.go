// Package forms validates and normalizes the HTML forms submitted to the
// application before anything reaches a store.
//
// Field-level rules are expressed as validator/v10 struct tags. Uniqueness
// rules need the accounts store and run only after every field-level rule
// passed, so a malformed submission never costs a query.
package forms

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Kind classifies why a field was rejected.
type Kind string

const (
	KindMissingField     Kind = "missing_field"
	KindTooShort         Kind = "too_short"
	KindTooLong          Kind = "too_long"
	KindInvalidEmail     Kind = "invalid_email"
	KindMismatch         Kind = "mismatch"
	KindTaken            Kind = "taken"
	KindInvalidExtension Kind = "invalid_extension"
	KindInvalid          Kind = "invalid"
)

// Field limits shared with the templates.
const (
	UsernameMinLength = 2
	UsernameMaxLength = 20
	EmailMaxLength    = 120
	PasswordMaxLength = 72
	NoteMaxLength     = entities.MaxNoteLength
)

// AllowedAvatarExtensions lists the accepted upload extensions, lowercase and without the dot.
var AllowedAvatarExtensions = []string{"jpg", "png"}

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string
	Kind    Kind
	Message string
}

// ValidationError collects every rejected field of one submission.
type ValidationError struct {
	Fields map[string]FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name].Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Kind returns the rejection kind for field, or "" when it passed.
func (e *ValidationError) Kind(field string) Kind {
	return e.Fields[field].Kind
}

// Messages flattens the error into field -> message for templates.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for name, fe := range e.Fields {
		out[name] = fe.Message
	}
	return out
}

func (e *ValidationError) add(field string, kind Kind, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]FieldError)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = FieldError{Field: field, Kind: kind, Message: message}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AccountLookup answers uniqueness questions about existing accounts.
// exceptID excludes one account (the caller's own) from the check; 0 checks every account.
type AccountLookup interface {
	UsernameTaken(username string, exceptID uint) (bool, error)
	EmailTaken(email string, exceptID uint) (bool, error)
}

// Registration is the sign-up form.
type Registration struct {
	Username        string `form:"username" validate:"required,min=2,max=20"`
	Email           string `form:"email" validate:"required,max=120,email"`
	Password        string `form:"password" validate:"required,maxbytes=72"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// Login is the sign-in form.
type Login struct {
	Username string `form:"username" validate:"required,min=2,max=20"`
	Password string `form:"password" validate:"required"`
	Remember bool   `form:"remember"`
}

// ProfileUpdate is the account form. AvatarFilename is the original name of
// the uploaded file, empty when no file was chosen.
type ProfileUpdate struct {
	Username       string `form:"username" validate:"required,min=2,max=20"`
	Email          string `form:"email" validate:"required,max=120,email"`
	AvatarFilename string `form:"-" field:"profile_img" validate:"omitempty,avatarext"`
}

// Note is the note composer.
type Note struct {
	Content string `form:"content" validate:"required,max=250"`
}

// Validator validates the application's forms.
type Validator struct {
	v        *validator.Validate
	accounts AccountLookup
}

// New creates a validator. accounts may be nil when only Login and Note are validated.
func New(accounts AccountLookup) *Validator {
	v := validator.New()

	// Report fields by their form names so errors line up with the inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("field"); name != "" {
			return name
		}
		if name := fld.Tag.Get("form"); name != "" && name != "-" {
			return name
		}
		return strings.ToLower(fld.Name)
	})
	_ = v.RegisterValidation("avatarext", func(fl validator.FieldLevel) bool {
		return AllowedAvatarExtension(fl.Field().String())
	})
	// bcrypt limits input by bytes, max= counts runes
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})

	return &Validator{v: v, accounts: accounts}
}

// AllowedAvatarExtension reports whether filename ends in an accepted image extension.
func AllowedAvatarExtension(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, allowed := range AllowedAvatarExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ValidateRegistration normalizes f in place and checks it, including that
// neither the username nor the email belongs to an existing account.
func (v *Validator) ValidateRegistration(f *Registration) error {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	if err := v.check(f); err != nil {
		return err
	}
	return v.checkUnique(f.Username, f.Email, 0)
}

// ValidateLogin normalizes f in place and checks it.
func (v *Validator) ValidateLogin(f *Login) error {
	f.Username = strings.TrimSpace(f.Username)
	return v.check(f)
}

// ValidateProfile normalizes f in place and checks it. Values already held
// by the account currentUserID do not count as taken.
func (v *Validator) ValidateProfile(f *ProfileUpdate, currentUserID uint) error {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	if err := v.check(f); err != nil {
		return err
	}
	return v.checkUnique(f.Username, f.Email, currentUserID)
}

// ValidateNote normalizes f in place and checks it.
func (v *Validator) ValidateNote(f *Note) error {
	f.Content = strings.TrimSpace(f.Content)
	return v.check(f)
}

func (v *Validator) check(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	ve := &ValidationError{}
	for _, e := range validationErrs {
		kind, message := describe(e)
		ve.add(e.Field(), kind, message)
	}
	return ve
}

// Conflict explains a unique-constraint failure on username or email by
// repeating the lookups. When neither is found taken any more the username
// is blamed, since that is the more likely race.
func (v *Validator) Conflict(username, email string, exceptID uint) error {
	err := v.checkUnique(username, email, exceptID)
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	if err != nil {
		return err
	}
	ve = &ValidationError{}
	ve.add("username", KindTaken, "That username is taken. Please choose a different one.")
	return ve
}

func (v *Validator) checkUnique(username, email string, exceptID uint) error {
	if v.accounts == nil {
		return errors.New("forms: account lookup not configured")
	}

	ve := &ValidationError{}

	taken, err := v.accounts.UsernameTaken(username, exceptID)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		ve.add("username", KindTaken, "That username is taken. Please choose a different one.")
	}

	taken, err = v.accounts.EmailTaken(email, exceptID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		ve.add("email", KindTaken, "That email is taken. Please choose a different one.")
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func describe(e validator.FieldError) (Kind, string) {
	switch e.Tag() {
	case "required":
		return KindMissingField, "This field is required."
	case "min":
		return KindTooShort, fmt.Sprintf("Field must be at least %s characters long.", e.Param())
	case "max":
		return KindTooLong, fmt.Sprintf("Field cannot be longer than %s characters.", e.Param())
	case "maxbytes":
		return KindTooLong, fmt.Sprintf("Field cannot be longer than %s bytes.", e.Param())
	case "email":
		return KindInvalidEmail, "Invalid email address."
	case "eqfield":
		return KindMismatch, "Field must be equal to password."
	case "avatarext":
		return KindInvalidExtension, "File does not have an approved extension: " +
			strings.Join(AllowedAvatarExtensions, ", ")
	default:
		return KindInvalid, "Invalid value."
	}
}

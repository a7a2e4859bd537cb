// Package validate checks registration and sign-in input against field
// rules and table-wide uniqueness. Failures are values (a field → message
// map), never errors: a non-empty result blocks the triggering intent.
package validate

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/zaloga/internal/model"
)

// User-facing validation messages.
const (
	MsgUsernameRequired        = "Username is required"
	MsgInvalidUsername         = "Invalid username format"
	MsgEmailRequired           = "Email is required"
	MsgInvalidEmail            = "Invalid email format"
	MsgEmailExists             = "Email already registered"
	MsgPhoneRequired           = "Phone number is required"
	MsgInvalidPhone            = "Invalid Indian phone number"
	MsgPhoneExists             = "Phone number already registered"
	MsgPasswordRequired        = "Password is required"
	MsgWeakPassword            = "Password must be at least 8 characters long and include uppercase, lowercase, number, and special character"
	MsgConfirmPasswordRequired = "Please confirm your password"
	MsgPasswordMismatch        = "Passwords do not match"
	MsgUserNotFound            = "User not found with this email"
	MsgIncorrectPassword       = "Incorrect password"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Indian mobile numbers: ten digits starting 6-9.
	phoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// passwordSymbols is the accepted special-character set.
const passwordSymbols = "\"'+,.:;<>_`|~!@#?£-$%^&*{}()[]\\/"

// Registration is the sign-up form snapshot.
type Registration struct {
	Username        string `json:"username" validate:"required,username"`
	Email           string `json:"email" validate:"required,emailshape"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,inmobile"`
	Password        string `json:"password" validate:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Errors maps a field's JSON name to its validation message.
type Errors map[string]string

// Valid reports whether no field failed.
func (e Errors) Valid() bool { return len(e) == 0 }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "emailshape", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "inmobile", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "strongpassword", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// strongPassword requires at least 8 characters with one lowercase, one
// uppercase, one digit and one accepted symbol. Go's regexp has no
// lookahead, so the classes are checked by scanning.
func strongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

var requiredMessages = map[string]string{
	"username":        MsgUsernameRequired,
	"email":           MsgEmailRequired,
	"phoneNumber":     MsgPhoneRequired,
	"password":        MsgPasswordRequired,
	"confirmPassword": MsgConfirmPasswordRequired,
}

var invalidMessages = map[string]string{
	"username":        MsgInvalidUsername,
	"email":           MsgInvalidEmail,
	"phoneNumber":     MsgInvalidPhone,
	"password":        MsgWeakPassword,
	"confirmPassword": MsgPasswordMismatch,
}

var fieldNames = map[string]string{
	"username":        "Username",
	"email":           "Email",
	"phoneNumber":     "PhoneNumber",
	"password":        "Password",
	"confirmPassword": "ConfirmPassword",
}

// All validates the whole registration snapshot, including email/phone
// uniqueness against the current users table. Registration must not
// proceed unless the result is Valid.
func All(reg Registration, existing []model.User) Errors {
	errs := translate(validate.Struct(reg))
	checkUniqueness(errs, reg, existing)
	return errs
}

// Field re-validates a single field in isolation, as happens on blur.
// Returns the empty string when the field passes.
func Field(reg Registration, field string, existing []model.User) string {
	structField, ok := fieldNames[field]
	if !ok {
		return ""
	}
	errs := translate(validate.StructPartial(reg, structField))
	checkUniqueness(errs, reg, existing)
	return errs[field]
}

func checkUniqueness(errs Errors, reg Registration, existing []model.User) {
	email := strings.TrimSpace(reg.Email)
	phone := strings.TrimSpace(reg.PhoneNumber)
	for _, u := range existing {
		if errs["email"] == "" && email != "" && strings.EqualFold(u.Email, email) {
			errs["email"] = MsgEmailExists
		}
		if errs["phoneNumber"] == "" && phone != "" && u.PhoneNumber == phone {
			errs["phoneNumber"] = MsgPhoneExists
		}
	}
}

// Credentials validates a sign-in form snapshot (shape only; the actual
// lookup and comparison happen in the store).
func Credentials(email, password string) Errors {
	form := struct {
		Email    string `json:"email" validate:"required,emailshape"`
		Password string `json:"password" validate:"required,strongpassword"`
	}{Email: email, Password: password}
	return translate(validate.Struct(&form))
}

func translate(err error) Errors {
	errs := Errors{}
	if err == nil {
		return errs
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs
	}
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		if fe.Tag() == "required" {
			errs[fe.Field()] = requiredMessages[fe.Field()]
		} else {
			errs[fe.Field()] = invalidMessages[fe.Field()]
		}
	}
	return errs
}

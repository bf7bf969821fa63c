package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/locvowork/empcrud/internal/domain"
)

const (
	MsgEmpName = "username must be 6-16 letters, digits, '_' or '-', or 2-5 CJK characters"
	MsgEmail   = "email address is malformed"
	MsgGender  = "gender must be M or F"
)

var (
	empNamePattern  = regexp.MustCompile(`^(?:[a-zA-Z0-9_-]{6,16}|[\x{2E80}-\x{9FFF}]{2,5})$`)
	empEmailPattern = regexp.MustCompile(`^([a-z0-9_.-]+)@([\da-z.-]+)\.([a-z.]{2,6})$`)

	messages = map[string]string{
		"empname":  MsgEmpName,
		"empemail": MsgEmail,
		"oneof":    MsgGender,
	}

	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("empname", func(fl validator.FieldLevel) bool {
			return ValidEmpName(fl.Field().String())
		})
		_ = validate.RegisterValidation("empemail", func(fl validator.FieldLevel) bool {
			return ValidEmail(fl.Field().String())
		})
	})
	return validate
}

// ValidEmpName reports whether name matches the username pattern.
func ValidEmpName(name string) bool {
	return empNamePattern.MatchString(name)
}

// ValidEmail reports whether email matches the accepted address pattern.
func ValidEmail(email string) bool {
	return empEmailPattern.MatchString(email)
}

// Validate checks v against its validate tags and returns every violation keyed by
// JSON field name. It returns nil when v is valid.
func Validate(v interface{}) map[string]string {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

// ValidatePatch checks only the fields a selective update supplies.
func ValidatePatch(p domain.EmployeePatch) map[string]string {
	out := make(map[string]string)
	if p.Name.Set {
		switch {
		case p.Name.Null || p.Name.Value == "":
			out["empName"] = "empName is required"
		case !ValidEmpName(p.Name.Value):
			out["empName"] = MsgEmpName
		}
	}
	if p.Email.Set {
		switch {
		case p.Email.Null || p.Email.Value == "":
			out["email"] = "email is required"
		case !ValidEmail(p.Email.Value):
			out["email"] = MsgEmail
		}
	}
	if p.Gender.Present() && p.Gender.Value != "M" && p.Gender.Value != "F" {
		out["gender"] = MsgGender
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func message(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return fe.Field() + " is required"
	}
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " failed " + fe.Tag() + " validation"
}

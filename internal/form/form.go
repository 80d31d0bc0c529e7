// Package form binds and validates submitted HTML forms. Validation rules are
// expressed as gin binding tags; failures are collected per field so a page
// can be re-rendered with its errors.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key for errors that do not belong to one field.
const NonFieldErrors = "__all__"

// Errors maps a form field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

// Get returns the messages of field; handy in templates.
func (e Errors) Get(field string) []string {
	return e[field]
}

// normalizer is implemented by forms that trim their fields before validation.
type normalizer interface {
	normalize()
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var registerOnce sync.Once

func setupValidator() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}

// Bind decodes the POSTed form into dst and validates it.
func Bind(c *gin.Context, dst any) Errors {
	setupValidator()

	errs := Errors{}
	if err := c.Request.ParseForm(); err != nil {
		errs.Add(NonFieldErrors, "The submitted form could not be read.")
		return errs
	}
	if err := binding.MapFormWithTag(dst, c.Request.PostForm, "form"); err != nil {
		errs.Add(NonFieldErrors, "The submitted form could not be read.")
		return errs
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}

	err := binding.Validator.ValidateStruct(dst)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonFieldErrors, "The submitted form could not be read.")
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), len([]rune(fmt.Sprint(fe.Value()))))
	case "oneof":
		return invalidChoice
	case "datetime":
		return "Enter a valid date."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	}
	return "Enter a valid value."
}

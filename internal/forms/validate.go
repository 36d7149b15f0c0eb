// Package forms binds employee and beneficiary records to editable inputs:
// populating them from a record, checking required fields, and normalizing
// them into the payload the remote API expects.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/csg33k/beneficiary-admin/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their form input name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

var dateLayouts = []string{
	domain.DateLayout,
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate reads a textual date in any format the API has been seen to
// return. The zero time means the text was blank or unreadable.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatDate renders the calendar date of t, dropping time of day and zone.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}

// check validates s and maps failures to messages naming the entity, e.g.
// "Please input employee first name!".
func check(entity string, s any, labels map[string]string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[fe.Field()] = message(entity, fe, labels[fe.Field()])
	}
	return &domain.ValidationError{Fields: fields}
}

func message(entity string, fe validator.FieldError, label string) string {
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please input %s %s!", entity, label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", capitalize(label), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s digits", capitalize(label), fe.Param())
	case "number", "numeric":
		return fmt.Sprintf("%s must contain only digits", capitalize(label))
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 100", capitalize(label))
	}
	return fmt.Sprintf("%s is invalid", capitalize(label))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if len(s) > 1 && strings.ToUpper(s) == s {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

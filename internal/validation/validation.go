// Package validation holds the rules a plan must meet before players see it
// and the rules for player reflections.
package validation

import (
	"errors"
	"fmt"
	"hiroonarita/practice-planner/internal/domain"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Publish rules use their own tag so drafts are never checked against them.
const publishTag = "publish"

// Messages shown per slot or field.
const (
	MsgTitleRequired = "a title is required before publishing"
	MsgInvalid       = "is not valid"
)

var (
	publishValidate    = newValidator(publishTag)
	reflectionValidate = newValidator("validate")
)

func newValidator(tagName string) *validator.Validate {
	v := validator.New()
	v.SetTagName(tagName)
	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Errors maps a slot or field name to a human-readable message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateForPublish checks that all four drill slots have a title. The key
// factor has no required fields. The result is keyed by slot name.
func ValidateForPublish(content domain.PlanContent) Errors {
	errs := Errors{}
	err := publishValidate.Struct(content)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["plan"] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		// Namespace looks like "PlanContent.tr2.title".
		parts := strings.Split(fe.Namespace(), ".")
		if len(parts) < 2 {
			continue
		}
		slot := parts[1]
		if fe.Field() == "title" && fe.Tag() == "required" {
			errs[slot] = MsgTitleRequired
		} else {
			errs[slot] = fe.Field() + " " + MsgInvalid
		}
	}
	return errs
}

// ValidateReflection checks a reflection's rating ranges and text lengths.
func ValidateReflection(r *domain.Reflection) Errors {
	errs := Errors{}
	if err := r.PlanKey.Validate(); err != nil {
		errs["plan"] = err.Error()
	}
	if err := reflectionValidate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			errs["reflection"] = err.Error()
			return errs
		}
		for _, fe := range fieldErrs {
			errs[fieldPath(fe.Namespace())] = describe(fe)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// fieldPath drops the leading struct name: "Reflection.selfRating" -> "selfRating".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return MsgInvalid
}

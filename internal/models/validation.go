package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	FieldTitle   = "title"
	FieldContent = "content"
)

type fieldRule struct {
	field    string
	tag      string
	required string
}

// Rules are checked in this order, which is also the order of messages in
// ValidationError.Error.
var postRules = []fieldRule{
	{field: FieldTitle, tag: "required,min=3,max=50", required: "You must provide a title"},
	{field: FieldContent, tag: "required", required: "You must provide the content"},
}

var validate = validator.New()

// FieldError describes one violated constraint.
type FieldError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Value   string `json:"value"`
}

// ValidationError is returned when a write would persist an invalid post.
type ValidationError struct {
	Errors map[string]FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, r := range postRules {
		if fe, ok := e.Errors[r.field]; ok {
			parts = append(parts, r.field+": "+fe.Message)
		}
	}
	return "post validation failed: " + strings.Join(parts, ", ")
}

// ValidatePost checks a full post as written on create.
func ValidatePost(title, content string) error {
	return check(map[string]string{FieldTitle: title, FieldContent: content})
}

// ValidatePostUpdate checks only the fields present in u.
func ValidatePostUpdate(u PostUpdate) error {
	return check(u.Fields())
}

func check(values map[string]string) error {
	var verr *ValidationError
	for _, r := range postRules {
		v, ok := values[r.field]
		if !ok {
			continue
		}
		err := validate.Var(v, r.tag)
		if err == nil {
			continue
		}
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) || len(ves) == 0 {
			return fmt.Errorf("validate %s: %w", r.field, err)
		}
		if verr == nil {
			verr = &ValidationError{Errors: map[string]FieldError{}}
		}
		verr.Errors[r.field] = fieldError(r, ves[0], v)
	}
	if verr != nil {
		return verr
	}
	return nil
}

func fieldError(r fieldRule, fe validator.FieldError, value string) FieldError {
	out := FieldError{Kind: fe.Tag(), Path: r.field, Value: value}
	switch fe.Tag() {
	case "required":
		out.Message = r.required
	case "min":
		out.Kind = "minlength"
		out.Message = fmt.Sprintf("Path `%s` (`%s`) is shorter than the minimum allowed length (%s).", r.field, value, fe.Param())
	case "max":
		out.Kind = "maxlength"
		out.Message = fmt.Sprintf("Path `%s` (`%s`) is longer than the maximum allowed length (%s).", r.field, value, fe.Param())
	default:
		out.Message = fmt.Sprintf("Path `%s` failed the %s check.", r.field, fe.Tag())
	}
	return out
}

package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalid = errors.New("invalid")

type Kind string

const (
	KindEmptyField        Kind = "empty_field"
	KindInvalidURL        Kind = "invalid_url"
	KindInvalidDate       Kind = "invalid_date"
	KindDanglingAuthorRef Kind = "dangling_author_ref"
	KindInvalidType       Kind = "invalid_type"
)

type FieldError struct {
	Field   string
	Kind    Kind
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Field builds a FieldError without a field name; callers attach the
// name via ValidationError.Collect.
func Field(kind Kind, msg string) FieldError {
	return FieldError{Kind: kind, Message: msg}
}

type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field string, kind Kind, msg string) {
	e.Items = append(e.Items, FieldError{
		Field:   field,
		Kind:    kind,
		Message: msg,
	})
}

// Collect attaches a field name to an error produced by a field-agnostic
// validator and records it. Nested ValidationErrors are flattened with the
// field name as prefix.
func (e *ValidationError) Collect(field string, err error) {
	if err == nil {
		return
	}
	var fe FieldError
	if errors.As(err, &fe) {
		fe.Field = joinField(field, fe.Field)
		e.Items = append(e.Items, fe)
		return
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		for _, item := range ve.Items {
			item.Field = joinField(field, item.Field)
			e.Items = append(e.Items, item)
		}
		return
	}
	e.Items = append(e.Items, FieldError{Field: field, Message: err.Error()})
}

func joinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	default:
		return prefix + "." + field
	}
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

func (e ValidationError) ByKind(kind Kind) []FieldError {
	var out []FieldError
	for _, item := range e.Items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

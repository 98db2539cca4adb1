// Package validate turns loosely-typed frontmatter maps into the canonical
// content records, collecting every field violation instead of stopping at
// the first.
package validate

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	domainerr "quill/internal/domain/errors"
)

// NonEmptyString trims v and rejects missing, empty and whitespace-only
// values.
func NonEmptyString(v any) (string, error) {
	if v == nil {
		return "", domainerr.Field(domainerr.KindEmptyField, "is required")
	}
	s, ok := asString(v)
	if !ok {
		return "", domainerr.Field(domainerr.KindInvalidType, fmt.Sprintf("expected a string, got %T", v))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", domainerr.Field(domainerr.KindEmptyField, "must not be empty")
	}
	return s, nil
}

// OptionalString trims v. Absent, empty and whitespace-only values fold to
// the empty string so downstream code never sees a blank-but-present value.
func OptionalString(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := asString(v)
	if !ok {
		return "", domainerr.Field(domainerr.KindInvalidType, fmt.Sprintf("expected a string, got %T", v))
	}
	return strings.TrimSpace(s), nil
}

// HTTPSURL validates an optional https URL. Nil, empty and whitespace-only
// input mean "absent" and return ok=false with no error, so blank strings
// never survive as values. Anything else must parse as an absolute URL with
// scheme https.
func HTTPSURL(v any) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}
	s, ok := asString(v)
	if !ok {
		return "", false, domainerr.Field(domainerr.KindInvalidType, fmt.Sprintf("expected a string, got %T", v))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return "", false, domainerr.Field(domainerr.KindInvalidURL, "must be an absolute https:// URL")
	}
	return s, true, nil
}

var dateLayouts = []string{
	time.RFC3339,
	time.DateOnly,
	"2006-01-02 15:04",
	time.DateTime,
}

// CoerceDate accepts a date value (time.Time from the YAML decoder, or an
// ISO-like string) and rejects anything unparsable.
func CoerceDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, domainerr.Field(domainerr.KindInvalidDate, "must be a date")
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, domainerr.Field(domainerr.KindInvalidDate, fmt.Sprintf("unparsable date %q", s))
	default:
		return time.Time{}, domainerr.Field(domainerr.KindInvalidDate, fmt.Sprintf("expected a date, got %T", v))
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "quill/internal/domain/errors"
)

func TestNonEmptyString(t *testing.T) {
	s, err := NonEmptyString("  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	for _, in := range []any{"", "   ", "\t\n"} {
		_, err := NonEmptyString(in)
		require.Error(t, err)
		var fe domainerr.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, domainerr.KindEmptyField, fe.Kind)
	}

	_, err = NonEmptyString(42)
	var fe domainerr.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domainerr.KindInvalidType, fe.Kind)
}

func TestHTTPSURL(t *testing.T) {
	t.Run("blank means absent", func(t *testing.T) {
		for _, in := range []any{nil, "", "   "} {
			s, present, err := HTTPSURL(in)
			require.NoError(t, err)
			assert.False(t, present)
			assert.Empty(t, s)
		}
	})

	t.Run("valid https passes through", func(t *testing.T) {
		s, present, err := HTTPSURL("  https://jane.dev/about  ")
		require.NoError(t, err)
		assert.True(t, present)
		assert.Equal(t, "https://jane.dev/about", s)
	})

	t.Run("anything else is rejected", func(t *testing.T) {
		for _, in := range []string{
			"http://jane.dev",
			"ftp://jane.dev",
			"jane.dev",
			"/relative/path",
			"https://",
		} {
			_, _, err := HTTPSURL(in)
			var fe domainerr.FieldError
			require.ErrorAs(t, err, &fe, "input %q", in)
			assert.Equal(t, domainerr.KindInvalidURL, fe.Kind, "input %q", in)
		}
	})
}

func TestCoerceDate(t *testing.T) {
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	got, err := CoerceDate("2026-01-01")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	now := time.Now()
	got, err = CoerceDate(now)
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	for _, in := range []any{"not-a-date", "", 3.14, nil} {
		_, err := CoerceDate(in)
		var fe domainerr.FieldError
		require.ErrorAs(t, err, &fe, "input %v", in)
		assert.Equal(t, domainerr.KindInvalidDate, fe.Kind)
	}
}

func TestOptionalString(t *testing.T) {
	s, err := OptionalString(nil)
	require.NoError(t, err)
	assert.Empty(t, s)

	s, err = OptionalString("   ")
	require.NoError(t, err)
	assert.Empty(t, s)

	s, err = OptionalString(" x ")
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	_, err = OptionalString([]any{})
	require.Error(t, err)
}

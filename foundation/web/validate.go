package web

import (
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// RequireFields checks that the named struct fields are set: pointers must
// be non-nil and strings non-empty after trimming.
func RequireFields(s interface{}, fields ...string) error {
	v := reflect.ValueOf(s)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return NewRequestError(errors.New("empty request body"), http.StatusBadRequest)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return NewRequestError(errors.New("validation target is not a struct"), http.StatusInternalServerError)
	}

	for _, name := range fields {
		f := v.FieldByName(name)
		if !f.IsValid() {
			return NewRequestError(errors.Errorf("unknown field %q", name), http.StatusInternalServerError)
		}

		if fieldMissing(f) {
			return NewRequestError(errors.Errorf("field %s is required", snakeCase(name)), http.StatusBadRequest)
		}
	}

	return nil
}

func fieldMissing(f reflect.Value) bool {
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return true
		}
		f = f.Elem()
	}
	if f.Kind() == reflect.String {
		return strings.TrimSpace(f.String()) == ""
	}
	return f.IsZero()
}

func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

package utils

import (
	"fmt"
	"net/url"
	"strconv"
)

// ParseIntParam reads key from params. A missing key yields def; a value
// that is not an integer yields def and a field error.
func ParseIntParam(params url.Values, key string, def int, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return def, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return def, fieldErrors
	}
	return n, fieldErrors
}

// AddFieldError records msg against field and returns the map.
func AddFieldError(fieldErrors map[string][]string, field, msg string) map[string][]string {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}
	fieldErrors[field] = append(fieldErrors[field], msg)
	return fieldErrors
}

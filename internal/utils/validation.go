package utils

import (
	"errors"
	"regexp"
)

var (
	// Ids are used as database keys and inside client ids, so ':' (the
	// naming-container separator) is allowed alongside the usual set.
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)
)

// ValidateID validates that an id is safe and within reasonable limits.
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}
	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}
	return nil
}

func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

func ValidateLongitude(lng float64) error {
	if lng < -180.0 || lng > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateCoordinate collects latitude and longitude errors under field.
func ValidateCoordinate(field string, lat, lng float64, fieldErrors map[string][]string) map[string][]string {
	if err := ValidateLatitude(lat); err != nil {
		fieldErrors = AddFieldError(fieldErrors, field, err.Error())
	}
	if err := ValidateLongitude(lng); err != nil {
		fieldErrors = AddFieldError(fieldErrors, field, err.Error())
	}
	return fieldErrors
}

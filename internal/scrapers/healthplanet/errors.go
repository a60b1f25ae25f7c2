package healthplanet

import (
	"fmt"
)

// ParseError is returned when an expected field could not be found in a scraped page. This usually
// means that the login failed or that the page's markup changed.
type ParseError struct {
	Step string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("healthplanet: parse %s page: %s", e.Step, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when a JSON response lacks a required field.
type MissingFieldError struct {
	Endpoint string
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("healthplanet: %s response is missing field %q", e.Endpoint, e.Field)
}

// StatusError is returned for responses with a non-2xx status code.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("healthplanet: %s: unexpected status %s", e.Endpoint, e.Status)
}

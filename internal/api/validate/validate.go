// Package validate holds request-level field validation for the admin API.
package validate

import (
	"fmt"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05"

// NonEmpty rejects blank required fields.
func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Timestamp requires a wall-clock timestamp without zone offset.
func Timestamp(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, err := time.Parse(timestampLayout, v); err != nil {
		return fmt.Errorf("%s must match %s", field, timestampLayout)
	}
	return nil
}

// Window requires both bounds and rejects inverted or empty windows.
func Window(start, end string) error {
	if err := Timestamp("windowStartDate", start); err != nil {
		return err
	}
	if err := Timestamp("windowEndDate", end); err != nil {
		return err
	}
	s, _ := time.Parse(timestampLayout, start)
	e, _ := time.Parse(timestampLayout, end)
	if !s.Before(e) {
		return fmt.Errorf("windowStartDate must be before windowEndDate")
	}
	return nil
}

// Timezone requires an IANA zone name the runtime can load.
func Timezone(v string) error {
	if v == "" {
		return fmt.Errorf("timezone is required")
	}
	if _, err := time.LoadLocation(v); err != nil {
		return fmt.Errorf("unknown timezone %q", v)
	}
	return nil
}

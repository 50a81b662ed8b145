package shared

import (
	"regexp"
	"strings"
	"time"
)

var partialDatePattern = regexp.MustCompile(`^\d{4}(-\d{2}(-\d{2})?)?$`)

// ErrInvalidPartialDate is returned for dates not in YYYY, YYYY-MM or YYYY-MM-DD form
var ErrInvalidPartialDate = NewDomainError("INVALID_DATE", "Date must be YYYY, YYYY-MM or YYYY-MM-DD")

// ValidatePartialDate checks an archival date of year, month or day precision.
// An empty string means unknown and is accepted.
func ValidatePartialDate(s string) error {
	if s == "" {
		return nil
	}
	if !partialDatePattern.MatchString(s) {
		return ErrInvalidPartialDate
	}
	layout := "2006-01-02"[:len(s)]
	if _, err := time.Parse(layout, s); err != nil {
		return ErrInvalidPartialDate
	}
	return nil
}

// ValidateDateRange checks both ends and that from does not come after to.
// Dates are compared at the precision they share.
func ValidateDateRange(from, to string) error {
	if err := ValidatePartialDate(from); err != nil {
		return err
	}
	if err := ValidatePartialDate(to); err != nil {
		return err
	}
	if from == "" || to == "" {
		return nil
	}
	n := min(len(from), len(to))
	if strings.Compare(from[:n], to[:n]) > 0 {
		return NewDomainError("INVALID_DATE_RANGE", "Start date must not be after end date")
	}
	return nil
}

// PartialDateYear returns the year part of a partial date, or "" when unknown
func PartialDateYear(s string) string {
	if len(s) < 4 {
		return ""
	}
	return s[:4]
}

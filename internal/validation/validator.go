package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"task-tracker/internal/config"
)

// DateLayout is the calendar-date form accepted for deadlines.
const DateLayout = "2006-01-02"

var deadlineLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", DateLayout}

// clearLiterals are the inputs that remove a deadline instead of setting one.
var clearLiterals = []string{"clear", "null", "none"}

// Validator provides common validation utilities
type Validator struct {
	config   *config.Config
	location *time.Location
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{location: time.Local}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg, location: time.Local}
}

// WithLocation sets the zone used to interpret date-only deadlines.
func (v *Validator) WithLocation(loc *time.Location) *Validator {
	v.location = loc
	return v
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsWithinLength reports whether s has at most max characters. max <= 0 disables the check.
func (v *Validator) IsWithinLength(s string, max int) bool {
	return max <= 0 || utf8.RuneCountInString(s) <= max
}

// IsValidTaskID checks if a task ID is valid (positive)
func (v *Validator) IsValidTaskID(id int64) bool {
	return id > 0
}

// IsClearLiteral reports whether value asks for a deadline to be removed.
func (v *Validator) IsClearLiteral(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, literal := range clearLiterals {
		if value == literal {
			return true
		}
	}
	return false
}

// ParseDeadline parses an RFC 3339 timestamp or a YYYY-MM-DD date. Dates
// without a zone resolve to midnight in the validator's location.
func (v *Validator) ParseDeadline(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, value, v.location); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (v *Validator) descriptionMaxLength() int {
	if v.config != nil {
		return v.config.Validation.DescriptionMaxLength
	}
	return 500
}

func (v *Validator) tagMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TagMaxLength
	}
	return 50
}

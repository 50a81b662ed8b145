package csvimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldType is the expected type of a cell
type FieldType string

const (
	TypeString FieldType = "string"
	TypeInt    FieldType = "int"
	TypeBool   FieldType = "bool"
)

// FieldRule validates one column
type FieldRule struct {
	Column      string
	Type        FieldType
	Required    bool
	MaxLength   int
	Min, Max    *int
	OneOf       []string
	Pattern     *regexp.Regexp
	PatternDesc string
	Custom      func(value string) error
}

// FieldRuleBuilder builds a FieldRule fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for a column
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: strings.ToLower(column), Type: TypeString}}
}

func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

func (b *FieldRuleBuilder) Bool() *FieldRuleBuilder {
	b.rule.Type = TypeBool
	return b
}

func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// Range bounds an integer column, inclusive
func (b *FieldRuleBuilder) Range(min, max int) *FieldRuleBuilder {
	b.rule.Min, b.rule.Max = &min, &max
	return b
}

// Min sets an inclusive lower bound for an integer column
func (b *FieldRuleBuilder) Min(min int) *FieldRuleBuilder {
	b.rule.Min = &min
	return b
}

// OneOf restricts the value to a fixed set, compared case-insensitively
func (b *FieldRuleBuilder) OneOf(values ...string) *FieldRuleBuilder {
	b.rule.OneOf = values
	return b
}

func (b *FieldRuleBuilder) Pattern(pattern, description string) *FieldRuleBuilder {
	b.rule.Pattern = regexp.MustCompile(pattern)
	b.rule.PatternDesc = description
	return b
}

func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.Custom = fn
	return b
}

func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator applies a rule set to rows
type FieldValidator struct {
	rules []FieldRule
}

// NewFieldValidator creates a validator
func NewFieldValidator(rules ...FieldRule) *FieldValidator {
	return &FieldValidator{rules: rules}
}

// Columns lists the columns the rules know about
func (v *FieldValidator) Columns() []string {
	cols := make([]string, len(v.rules))
	for i, r := range v.rules {
		cols[i] = r.Column
	}
	return cols
}

// RequiredColumns lists the columns that must be present in the header
func (v *FieldValidator) RequiredColumns() []string {
	var cols []string
	for _, r := range v.rules {
		if r.Required {
			cols = append(cols, r.Column)
		}
	}
	return cols
}

// ValidateRow adds an error per failing cell to errs and reports whether
// the row is clean
func (v *FieldValidator) ValidateRow(row *Row, errs *ErrorCollection) bool {
	ok := true
	fail := func(rule FieldRule, code, msg, value string) {
		ok = false
		errs.Add(RowError{Row: row.LineNumber, Column: rule.Column, Code: code, Message: msg, Value: value})
	}

	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if value == "" {
			if rule.Required {
				fail(rule, CodeRequired, "value is required", "")
			}
			continue
		}
		if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
			fail(rule, CodeInvalidLength, fmt.Sprintf("must be at most %d characters", rule.MaxLength), "")
			continue
		}

		switch rule.Type {
		case TypeInt:
			n, err := strconv.Atoi(value)
			if err != nil {
				fail(rule, CodeInvalidType, "must be a whole number", value)
				continue
			}
			if (rule.Min != nil && n < *rule.Min) || (rule.Max != nil && n > *rule.Max) {
				fail(rule, CodeInvalidRange, rangeMessage(rule), value)
				continue
			}
		case TypeBool:
			if _, err := ParseBool(value); err != nil {
				fail(rule, CodeInvalidType, "must be yes/no, true/false or 1/0", value)
				continue
			}
		}

		if len(rule.OneOf) > 0 && !containsFold(rule.OneOf, value) {
			fail(rule, CodeInvalidValue, "must be one of "+strings.Join(rule.OneOf, ", "), value)
			continue
		}
		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			fail(rule, CodeInvalidValue, "must match "+rule.PatternDesc, value)
			continue
		}
		if rule.Custom != nil {
			if err := rule.Custom(value); err != nil {
				fail(rule, CodeInvalidValue, err.Error(), value)
			}
		}
	}
	return ok
}

func rangeMessage(rule FieldRule) string {
	switch {
	case rule.Min != nil && rule.Max != nil:
		return fmt.Sprintf("must be between %d and %d", *rule.Min, *rule.Max)
	case rule.Min != nil:
		return fmt.Sprintf("must be at least %d", *rule.Min)
	}
	return fmt.Sprintf("must be at most %d", *rule.Max)
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// ParseBool accepts the spellings archivists type into spreadsheets
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "y", "yes", "true", "x":
		return true, nil
	case "", "0", "n", "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

package csvimport

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(line int, kv ...string) *Row {
	r := &Row{LineNumber: line, Data: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Data[kv[i]] = kv[i+1]
	}
	return r
}

func TestFieldValidator(t *testing.T) {
	v := NewFieldValidator(
		Field("level").Required().OneOf("F", "I").Build(),
		Field("folder_no").Int().Range(1, 9999).Build(),
		Field("title").Required().MaxLength(10).Build(),
		Field("confidential").Bool().Build(),
		Field("date_from").Pattern(`^\d{4}(-\d{2}){0,2}$`, "YYYY, YYYY-MM or YYYY-MM-DD").Build(),
		Field("languages").Custom(func(s string) error {
			if strings.Contains(s, " ") {
				return errors.New("separate languages with ';'")
			}
			return nil
		}).Build(),
	)

	assert.Equal(t, []string{"level", "title"}, v.RequiredColumns())
	assert.Len(t, v.Columns(), 6)

	t.Run("clean row", func(t *testing.T) {
		errs := NewErrorCollection(10)
		ok := v.ValidateRow(row(2, "level", "f", "folder_no", "3", "title", "Minutes", "confidential", "yes", "date_from", "1956-10"), errs)
		assert.True(t, ok)
		assert.False(t, errs.HasErrors())
	})

	t.Run("every failure is reported", func(t *testing.T) {
		errs := NewErrorCollection(10)
		ok := v.ValidateRow(row(7,
			"level", "X",
			"folder_no", "0",
			"title", "",
			"confidential", "maybe",
			"date_from", "56",
			"languages", "hu en",
		), errs)
		require.False(t, ok)

		codes := map[string]string{}
		for _, e := range errs.Errors() {
			assert.Equal(t, 7, e.Row)
			codes[e.Column] = e.Code
		}
		assert.Equal(t, map[string]string{
			"level":        CodeInvalidValue,
			"folder_no":    CodeInvalidRange,
			"title":        CodeRequired,
			"confidential": CodeInvalidType,
			"date_from":    CodeInvalidValue,
			"languages":    CodeInvalidValue,
		}, codes)
	})

	t.Run("length counts runes", func(t *testing.T) {
		errs := NewErrorCollection(10)
		assert.True(t, v.ValidateRow(row(2, "level", "F", "title", "Levéltárak"), errs))
		assert.False(t, v.ValidateRow(row(3, "level", "F", "title", "Levéltárakk"), errs))
		assert.Equal(t, CodeInvalidLength, errs.Errors()[0].Code)
	})

	t.Run("non-numeric int", func(t *testing.T) {
		errs := NewErrorCollection(10)
		assert.False(t, v.ValidateRow(row(2, "level", "F", "title", "x", "folder_no", "two"), errs))
		assert.Equal(t, CodeInvalidType, errs.Errors()[0].Code)
		assert.Equal(t, "two", errs.Errors()[0].Value)
	})
}

func TestErrorCollection_Truncates(t *testing.T) {
	errs := NewErrorCollection(2)
	for i := 0; i < 5; i++ {
		errs.Add(RowError{Row: i + 2, Code: CodeRequired, Message: "value is required"})
	}
	assert.Len(t, errs.Errors(), 2)
	assert.Equal(t, 5, errs.Total())
	assert.True(t, errs.Truncated())
	assert.Equal(t, "row 2: value is required", errs.Errors()[0].Error())
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"1", "Y", "yes", "TRUE", "x"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"", "0", "n", "No", "false"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	_, err := ParseBool("perhaps")
	assert.Error(t, err)
}

package common

import (
	"testing"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestListParams_Filter(t *testing.T) {
	f := ListParams{}.Filter()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.Equal(t, "asc", f.OrderDir)
	assert.NotNil(t, f.Filters)

	f = ListParams{Page: 3, PageSize: 500, Search: "  radio ", SortBy: "title", SortOrder: "desc"}.Filter()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.Equal(t, "radio", f.Search)
	assert.Equal(t, "title", f.OrderBy)
	assert.Equal(t, "desc", f.OrderDir)
	assert.Equal(t, 200, f.Offset())
}

func TestNewListResult(t *testing.T) {
	f := shared.Filter{Page: 2, PageSize: 2}
	res := NewListResult([]int{1, 2}, 5, f, func(v *int) string {
		return string(rune('a' + *v))
	})
	assert.Equal(t, []string{"b", "c"}, res.Items)
	assert.Equal(t, int64(5), res.Total)
	assert.Equal(t, 2, res.Page)
}

type originStub struct {
	locale string
	values map[string]string
}

func (o originStub) OriginalLocaleCode() string        { return o.locale }
func (o originStub) OriginalValues() map[string]string { return o.values }

func TestOriginal(t *testing.T) {
	assert.Nil(t, Original(originStub{values: map[string]string{"title": "  "}}))

	got := Original(originStub{locale: "hu", values: map[string]string{
		"title":            "Levelezés",
		"contents_summary": "",
	}})
	if assert.NotNil(t, got) {
		assert.Equal(t, "hu", got.Locale)
		assert.Equal(t, map[string]string{"title_original": "Levelezés"}, got.Fields)
	}
}

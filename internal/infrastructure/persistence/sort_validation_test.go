package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder(" asc "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder("; DROP TABLE donors"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "reference_code", ValidateSortField("reference_code", FindingAidsSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password", FindingAidsSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("  ", FindingAidsSortFields, "created_at"))
	assert.True(t, DonorSortFields["updated_at"])
}

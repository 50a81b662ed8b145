package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// withCommonSortFields adds id and the timestamps to a whitelist
func withCommonSortFields(fields ...string) map[string]bool {
	m := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

var (
	DonorSortFields           = withCommonSortFields("name", "country")
	AccessionSortFields       = withCommonSortFields("seq_year", "seq_number", "transfer_date", "extent")
	IsaarSortFields           = withCommonSortFields("name", "type", "status")
	ArchivalUnitSortFields    = withCommonSortFields("fonds", "subfonds", "series", "title", "status")
	ContainerSortFields       = withCommonSortFields("container_no", "reference_code", "carrier_type")
	FindingAidsSortFields     = withCommonSortFields("reference_code", "folder_no", "sequence_no", "title", "date_from")
	DigitalVersionSortFields  = withCommonSortFields("identifier", "level")
	ResearcherSortFields      = withCommonSortFields("last_name", "email", "card_number")
	ResearchRequestSortFields = withCommonSortFields("status", "submitted_at")
)

package postgres

import "gorm.io/gorm"

// applySort adds an ORDER BY clause, restricted to a whitelist of sortable
// columns so filter input can never inject SQL.
func applySort(query *gorm.DB, sortBy, sortOrder, fallback string, allowed map[string]bool) *gorm.DB {
	column := fallback
	if allowed[sortBy] {
		column = sortBy
	}
	direction := "ASC"
	if sortOrder == "desc" {
		direction = "DESC"
	}
	return query.Order(column + " " + direction)
}

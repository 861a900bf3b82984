// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"vidtube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotOwned is returned by owner-scoped writes that matched no row: the
// entity is gone or is owned by someone else.
var ErrNotOwned = errors.New("repository: no row owned by caller")

// DefaultVideoSort is used when the requested sort field is not whitelisted.
const DefaultVideoSort = "createdAt"

// videoSortColumns whitelists client sort keys against real columns.
var videoSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"views":     "views",
	"duration":  "duration",
}

// NormalizeVideoSort resolves a client sortBy/sortType pair to a whitelisted
// column and direction. Unknown fields fall back to createdAt; anything other
// than "asc" (case-insensitive) sorts descending.
func NormalizeVideoSort(sortBy, sortType string) (column string, desc bool) {
	column, ok := videoSortColumns[strings.TrimSpace(sortBy)]
	if !ok {
		column = videoSortColumns[DefaultVideoSort]
	}
	return column, !strings.EqualFold(strings.TrimSpace(sortType), "asc")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching q anywhere. Callers fold case
// in SQL on both sides so the column and the pattern use the same LOWER.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// withOwnerSummary preloads the public owner projection.
func withOwnerSummary(db *gorm.DB) *gorm.DB {
	return db.Preload("Owner", func(tx *gorm.DB) *gorm.DB {
		return tx.Select(models.SummaryColumns)
	})
}

func orderBy(table, column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Table: table, Name: column}, Desc: desc}
}

// findPage counts base, then loads one page of it with scopes applied. base
// must be a Session so the count and the fetch do not share a statement.
func findPage[T any](base *gorm.DB, req models.PageRequest, scopes ...func(*gorm.DB) *gorm.DB) (*models.Page[T], error) {
	req = req.Normalize()

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	docs := make([]T, 0)
	if total > int64(req.Offset()) {
		err := base.Scopes(scopes...).
			Offset(req.Offset()).
			Limit(req.Limit).
			Find(&docs).Error
		if err != nil {
			return nil, err
		}
	}

	return models.NewPage(docs, total, req), nil
}

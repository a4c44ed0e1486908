package utils

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize is used when the client does not ask for a size
	DefaultPageSize = 50
	// MaxPageSize caps how many rows one page may return
	MaxPageSize = 200
)

// ListParams carries the common list query parameters: pagination, partial
// search, and ordering
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Ordering string
}

// ParseListParams reads page, page_size, search and ordering from the query
// string, clamping pagination to sane bounds
func ParseListParams(query url.Values) ListParams {
	params := ListParams{
		Page:     1,
		PageSize: DefaultPageSize,
		Search:   query.Get("search"),
		Ordering: query.Get("ordering"),
	}

	if page, err := strconv.Atoi(query.Get("page")); err == nil && page > 0 {
		params.Page = page
	}
	if size, err := strconv.Atoi(query.Get("page_size")); err == nil && size > 0 {
		params.PageSize = size
		if params.PageSize > MaxPageSize {
			params.PageSize = MaxPageSize
		}
	}

	return params
}

// ApplySearch adds a case-insensitive partial match over the given columns.
// Column names come from code, never from the request.
func ApplySearch(db *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return db
	}

	pattern := "%" + strings.ToLower(search) + "%"
	conditions := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		conditions = append(conditions, "LOWER("+column+") LIKE ?")
		args = append(args, pattern)
	}
	return db.Where(strings.Join(conditions, " OR "), args...)
}

// ApplyOrdering adds an ORDER BY for a client-requested field. A leading '-'
// means descending. Fields not present in allowed are ignored and the
// default ordering is used instead, so the client can never inject SQL
// through the ordering parameter.
func ApplyOrdering(db *gorm.DB, ordering string, allowed map[string]bool, defaultOrder string) *gorm.DB {
	if ordering != "" {
		field := ordering
		desc := false
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			desc = true
		}
		if allowed[field] {
			if desc {
				return db.Order(field + " DESC")
			}
			return db.Order(field + " ASC")
		}
	}

	if defaultOrder != "" {
		return db.Order(defaultOrder)
	}
	return db
}

// Paginate adds LIMIT/OFFSET for the requested page
func Paginate(db *gorm.DB, params ListParams) *gorm.DB {
	offset := (params.Page - 1) * params.PageSize
	return db.Offset(offset).Limit(params.PageSize)
}

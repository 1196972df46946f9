package view

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"domain-panel/internal/models"
)

// SortField names a sortable column.
type SortField string

const (
	SortNone         SortField = ""
	SortDomain       SortField = "domain"
	SortStatus       SortField = "status"
	SortRegistrar    SortField = "registrar"
	SortRegisterDate SortField = "registerDate"
	SortExpireDate   SortField = "expireDate"
	SortDaysLeft     SortField = "daysLeft"
	SortProgress     SortField = "progress"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// Query holds the UI parameters of a view.
type Query struct {
	Search    string    `form:"search" json:"search"`
	Status    string    `form:"status" json:"status"`
	SortField SortField `form:"sort" json:"sort"`
	SortOrder SortOrder `form:"order" json:"order"`
}

// FilterAndSort keeps matching records and orders them. Without a sort
// field the result is ascending by expireDate. The sort is stable.
func FilterAndSort(records []models.DomainRecord, q Query, now time.Time) []Row {
	needle := strings.ToLower(q.Search)
	rows := make([]Row, 0, len(records))
	for i, r := range records {
		if q.Status != "" && q.Status != StatusAll && string(r.Status) != q.Status {
			continue
		}
		if needle != "" && !matches(r, needle) {
			continue
		}
		rows = append(rows, NewRow(r, i, now))
	}

	field, order := q.SortField, q.SortOrder
	if field == SortNone {
		field, order = SortExpireDate, Asc
	}
	compare := comparator(field)
	slices.SortStableFunc(rows, func(a, b Row) int {
		c := compare(a, b)
		if order == Desc {
			return -c
		}
		return c
	})
	return rows
}

func matches(r models.DomainRecord, needle string) bool {
	return strings.Contains(strings.ToLower(r.Domain), needle) ||
		strings.Contains(strings.ToLower(r.Registrar), needle) ||
		strings.Contains(strings.ToLower(string(r.Status)), needle)
}

func comparator(field SortField) func(a, b Row) int {
	switch field {
	case SortRegisterDate:
		return func(a, b Row) int {
			return models.DateOrZero(a.RegisterDate).Compare(models.DateOrZero(b.RegisterDate))
		}
	case SortExpireDate:
		return func(a, b Row) int {
			return models.DateOrZero(a.ExpireDate).Compare(models.DateOrZero(b.ExpireDate))
		}
	case SortDaysLeft:
		return func(a, b Row) int { return cmp.Compare(a.DaysLeft, b.DaysLeft) }
	case SortProgress:
		return func(a, b Row) int { return cmp.Compare(a.Progress, b.Progress) }
	default:
		return func(a, b Row) int {
			return strings.Compare(strings.ToLower(fieldText(a, field)), strings.ToLower(fieldText(b, field)))
		}
	}
}

func fieldText(r Row, field SortField) string {
	switch field {
	case SortDomain:
		return r.Domain
	case SortStatus:
		return string(r.Status)
	case SortRegistrar:
		return r.Registrar
	}
	return ""
}

// Paginate returns rows[(page-1)*size : page*size]. Pages are 1-indexed;
// out-of-range pages yield an empty slice. It does not clamp.
func Paginate[T any](rows []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	// checked before multiplying: (page-1)*pageSize may overflow
	if len(rows) == 0 || page-1 > (len(rows)-1)/pageSize {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(rows)-start)
	return rows[start:end]
}

// PageCount returns ceil(n / pageSize), at least 1.
func PageCount(n, pageSize int) int {
	if pageSize < 1 || n <= 0 {
		return 1
	}
	return (n-1)/pageSize + 1
}

// ClampPage limits page to [1, PageCount(n, pageSize)].
func ClampPage(page, n, pageSize int) int {
	return max(1, min(page, PageCount(n, pageSize)))
}

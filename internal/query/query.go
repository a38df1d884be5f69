// Package query compiles a filter/sort/pagination descriptor into the SQL
// tail shared by the order and product listings.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/ecoprint/b2b-manager/internal/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	asc  = "asc"
	desc = "desc"
)

// Filter is the transient listing descriptor. Zero values mean "no filter".
type Filter struct {
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
	SearchTerm string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

// Builder knows one collection's filterable surface: which API sort names map
// to which columns, which columns a search term matches, and where the status
// and date filters live.
type Builder struct {
	sortColumns   map[string]string
	searchColumns []string
	defaultSort   string
	statusColumn  string
	dateColumn    string
}

// Orders filters on status and created_at and searches customer fields.
func Orders() *Builder {
	return &Builder{
		sortColumns: map[string]string{
			"createdAt":   "created_at",
			"updatedAt":   "updated_at",
			"totalAmount": "total_amount",
			"status":      "status",
		},
		searchColumns: []string{"customer_name", "customer_email", "customer_phone"},
		defaultSort:   "created_at",
		statusColumn:  "status",
		dateColumn:    "created_at",
	}
}

// Products searches name/sku/description; no status filter.
func Products() *Builder {
	return &Builder{
		sortColumns: map[string]string{
			"createdAt": "created_at",
			"name":      "name",
			"price":     "price",
		},
		searchColumns: []string{"name", "sku", "description"},
		defaultSort:   "created_at",
		dateColumn:    "created_at",
	}
}

// Compiled is the SQL tail of one listing query.
type Compiled struct {
	Where   string
	OrderBy string
	Limit   int
	Offset  int
	Args    []any
}

// Tail renders WHERE/ORDER BY/LIMIT/OFFSET with positional args continuing
// after the already-placed WHERE args.
func (c Compiled) Tail() (string, []any) {
	args := append([]any{}, c.Args...)
	var sb strings.Builder
	sb.WriteString(c.Where)
	sb.WriteString(" ORDER BY ")
	sb.WriteString(c.OrderBy)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, c.Limit, c.Offset)
	return sb.String(), args
}

// CountTail renders only the WHERE clause, for the filtered total.
func (c Compiled) CountTail() (string, []any) {
	return c.Where, append([]any{}, c.Args...)
}

func (b *Builder) Compile(f Filter) (Compiled, error) {
	verr := domain.NewValidationError()

	var conds []string
	var args []any

	if f.Status != "" {
		if b.statusColumn == "" {
			verr.Add("status", "filter not supported")
		} else if !domain.OrderStatus(f.Status).Valid() {
			verr.Add("status", "unknown status")
		} else {
			args = append(args, f.Status)
			conds = append(conds, fmt.Sprintf("%s = $%d", b.statusColumn, len(args)))
		}
	}

	// Date range takes both bounds together or neither.
	if (f.DateFrom == nil) != (f.DateTo == nil) {
		verr.Add("dateRange", "both start and end are required")
	}
	if f.DateFrom != nil && f.DateTo != nil {
		if f.DateTo.Before(*f.DateFrom) {
			verr.Add("dateRange", "end precedes start")
		} else {
			args = append(args, *f.DateFrom)
			conds = append(conds, fmt.Sprintf("%s >= $%d", b.dateColumn, len(args)))
			args = append(args, *f.DateTo)
			conds = append(conds, fmt.Sprintf("%s <= $%d", b.dateColumn, len(args)))
		}
	}

	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		ors := make([]string, 0, len(b.searchColumns))
		for _, col := range b.searchColumns {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	sortCol := b.defaultSort
	if f.SortBy != "" {
		col, ok := b.sortColumns[f.SortBy]
		if !ok {
			verr.Add("sortBy", "unsupported sort field")
		} else {
			sortCol = col
		}
	}
	direction := "DESC"
	switch f.SortOrder {
	case "", desc:
	case asc:
		direction = "ASC"
	default:
		verr.Add("sortOrder", "must be asc or desc")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := f.Offset
	if offset < 0 {
		verr.Add("offset", "must not be negative")
	}

	if !verr.Empty() {
		return Compiled{}, verr
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	return Compiled{
		Where: where,
		// Secondary id key keeps pages deterministic when the sort column ties.
		OrderBy: fmt.Sprintf("%s %s, id %s", sortCol, direction, direction),
		Limit:   limit,
		Offset:  offset,
		Args:    args,
	}, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

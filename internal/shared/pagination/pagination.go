// Package pagination turns optional filter, sort and page parameters into a single bounded,
// ordered page of records together with its metadata.
package pagination

import (
	"context"
	"reflect"
	"strconv"
	"strings"
)

const (
	// DefaultPage is used when the page parameter is absent or not a number.
	DefaultPage = 1
	// DefaultLimit is used when the limit parameter is absent, not a number or not positive.
	DefaultLimit = 10
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100

	// DefaultSortField is the column used when no sort is requested.
	DefaultSortField = "created_at"
)

// Operator is the comparison applied by a Filter.
type Operator int

const (
	// OpEqual matches records whose field equals the value exactly.
	OpEqual Operator = iota
	// OpContains matches records whose field contains the value as a substring.
	OpContains
)

// Filter is a single predicate over one field.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Sort orders the records by Field.
type Sort struct {
	Field string
	Desc  bool
}

// Request describes which page of which subset of records is wanted.
type Request struct {
	Page    int
	Limit   int
	Filters []Filter
	Sort    Sort
}

// NewRequest builds a Request from raw page and limit query values.
// Missing or non-numeric values fall back to the defaults, page is clamped to at least 1
// and limit to the range [1, MaxLimit].
func NewRequest(page, limit string) *Request {
	p, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil {
		p = DefaultPage
	}
	if p < 1 {
		p = DefaultPage
	}

	l, err := strconv.Atoi(strings.TrimSpace(limit))
	if err != nil || l < 1 {
		l = DefaultLimit
	}
	if l > MaxLimit {
		l = MaxLimit
	}

	return &Request{Page: p, Limit: l}
}

// WhereEqual adds an equality predicate when value is present.
// nil values, nil pointers and empty strings are ignored; pointers are dereferenced.
func (r *Request) WhereEqual(field string, value any) *Request {
	if v, ok := present(value); ok {
		r.Filters = append(r.Filters, Filter{Field: field, Op: OpEqual, Value: v})
	}
	return r
}

// WhereContains adds a case-sensitive substring predicate when value is non-empty.
func (r *Request) WhereContains(field, value string) *Request {
	if value != "" {
		r.Filters = append(r.Filters, Filter{Field: field, Op: OpContains, Value: value})
	}
	return r
}

// SortBy replaces the sort order. An empty field keeps the default order.
func (r *Request) SortBy(field string, desc bool) *Request {
	r.Sort = Sort{Field: field, Desc: desc}
	return r
}

// Offset is the number of matching records skipped before the page starts.
func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Query is what a Store receives: the predicates, the order and the slice to return.
type Query struct {
	Filters []Filter
	Sort    Sort
	Offset  int
	Limit   int
}

// Query resolves the request into a store query, applying the default order.
func (r Request) Query() Query {
	s := r.Sort
	if s.Field == "" {
		s = Sort{Field: DefaultSortField, Desc: true}
	}
	return Query{
		Filters: r.Filters,
		Sort:    s,
		Offset:  r.Offset(),
		Limit:   r.Limit,
	}
}

// Store returns the page of records matching q and the number of records matching
// q.Filters before slicing. Both values must come from the same snapshot.
type Store[T any] interface {
	FindMatching(ctx context.Context, q Query) ([]T, int64, error)
}

// Result is one page of records with its pagination metadata.
type Result[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Paginate runs req against store and assembles the Result.
func Paginate[T any](ctx context.Context, store Store[T], req Request) (Result[T], error) {
	data, total, err := store.FindMatching(ctx, req.Query())
	if err != nil {
		return Result[T]{}, err
	}
	return NewResult(data, total, req), nil
}

// NewResult wraps data and total into a Result for req.
func NewResult[T any](data []T, total int64, req Request) Result[T] {
	if data == nil {
		data = []T{}
	}
	return Result[T]{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: TotalPages(total, req.Limit),
	}
}

// Map converts the records of r with fn, keeping the metadata.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	out := make([]U, len(r.Data))
	for i, v := range r.Data {
		out[i] = fn(v)
	}
	return Result[U]{
		Data:       out,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}

// TotalPages returns ceil(total/limit), or 0 when there is nothing to page through.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}

func present(value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	if s, ok := value.(string); ok {
		return s, s != ""
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		return present(rv.Elem().Interface())
	}
	return value, true
}

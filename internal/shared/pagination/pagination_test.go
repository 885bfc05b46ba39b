package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceStore is an in-memory Store over integers used to check the pure paging logic.
type sliceStore struct {
	items []int
	err   error
	got   Query
}

func (s *sliceStore) FindMatching(_ context.Context, q Query) ([]int, int64, error) {
	s.got = q
	if s.err != nil {
		return nil, 0, s.err
	}
	total := int64(len(s.items))
	if q.Offset >= len(s.items) {
		return nil, total, nil
	}
	end := min(q.Offset+q.Limit, len(s.items))
	return s.items[q.Offset:end], total, nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestNewRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"defaults when absent", "", "", 1, 10},
		{"explicit values", "3", "25", 3, 25},
		{"non-numeric falls back", "abc", "x", 1, 10},
		{"page zero clamped", "0", "10", 1, 10},
		{"negative page clamped", "-4", "10", 1, 10},
		{"zero limit falls back", "1", "0", 1, 10},
		{"negative limit falls back", "1", "-5", 1, 10},
		{"limit above max clamped", "1", "1000", 1, MaxLimit},
		{"limit at max kept", "2", "100", 2, 100},
		{"surrounding spaces", " 2 ", " 5 ", 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := NewRequest(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantLimit, req.Limit)
		})
	}
}

func TestRequest_Offset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, NewRequest("1", "10").Offset())
	assert.Equal(t, 20, NewRequest("3", "10").Offset())
	assert.Equal(t, 50, NewRequest("6", "10").Offset())
}

func TestRequest_WhereEqual_SkipsAbsentValues(t *testing.T) {
	t.Parallel()

	var nilBool *bool
	yes := true
	status := "ativo"

	req := NewRequest("", "")
	req.WhereEqual("a", nil).
		WhereEqual("b", "").
		WhereEqual("c", nilBool).
		WhereEqual("d", &yes).
		WhereEqual("e", &status).
		WhereEqual("f", false).
		WhereEqual("g", 0)

	require.Len(t, req.Filters, 4)
	assert.Equal(t, Filter{Field: "d", Op: OpEqual, Value: true}, req.Filters[0])
	assert.Equal(t, Filter{Field: "e", Op: OpEqual, Value: "ativo"}, req.Filters[1])
	assert.Equal(t, Filter{Field: "f", Op: OpEqual, Value: false}, req.Filters[2])
	assert.Equal(t, Filter{Field: "g", Op: OpEqual, Value: 0}, req.Filters[3])
}

func TestRequest_WhereContains(t *testing.T) {
	t.Parallel()

	req := NewRequest("", "")
	req.WhereContains("name", "").WhereContains("email", "example")

	require.Len(t, req.Filters, 1)
	assert.Equal(t, Filter{Field: "email", Op: OpContains, Value: "example"}, req.Filters[0])
}

func TestRequest_Query_DefaultSort(t *testing.T) {
	t.Parallel()

	q := NewRequest("2", "5").Query()
	assert.Equal(t, Sort{Field: "created_at", Desc: true}, q.Sort)
	assert.Equal(t, 5, q.Offset)
	assert.Equal(t, 5, q.Limit)

	q = NewRequest("", "").SortBy("name", false).Query()
	assert.Equal(t, Sort{Field: "name", Desc: false}, q.Sort)
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 100, 1},
		{5, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		items      int
		page       string
		limit      string
		wantData   []int
		wantTotal  int64
		wantPages  int
		wantOffset int
	}{
		{"first page", 25, "1", "10", seq(10), 25, 3, 0},
		{"last partial page", 25, "3", "10", []int{21, 22, 23, 24, 25}, 25, 3, 20},
		{"page past the end", 25, "4", "10", []int{}, 25, 3, 30},
		{"empty store", 0, "1", "10", []int{}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &sliceStore{items: seq(tt.items)}
			req := NewRequest(tt.page, tt.limit)

			res, err := Paginate[int](context.Background(), store, *req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantData, res.Data)
			assert.Equal(t, tt.wantTotal, res.Total)
			assert.Equal(t, tt.wantPages, res.TotalPages)
			assert.Equal(t, req.Page, res.Page)
			assert.Equal(t, req.Limit, res.Limit)
			assert.Equal(t, tt.wantOffset, store.got.Offset)
			assert.LessOrEqual(t, len(res.Data), res.Limit)
		})
	}
}

func TestPaginate_StoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Paginate[int](context.Background(), &sliceStore{err: boom}, *NewRequest("", ""))
	assert.ErrorIs(t, err, boom)
}

func TestMap(t *testing.T) {
	t.Parallel()

	in := Result[int]{Data: []int{1, 2}, Total: 12, Page: 2, Limit: 2, TotalPages: 6}
	out := Map(in, func(v int) string { return string(rune('a' + v)) })

	assert.Equal(t, []string{"b", "c"}, out.Data)
	assert.Equal(t, int64(12), out.Total)
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 2, out.Limit)
	assert.Equal(t, 6, out.TotalPages)
}

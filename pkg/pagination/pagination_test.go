package pagination_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/orgs-directory-service/pkg/pagination"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate_PagesPartitionCollection(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25, 50, 51, 137} {
		for _, perPage := range []int{1, 3, 10, 20, 50} {
			t.Run(fmt.Sprintf("n=%d/per_page=%d", n, perPage), func(t *testing.T) {
				elements := seq(n)
				var got []int
				page, totalPages := 1, 1
				for page <= totalPages {
					res := pagination.Paginate(elements, pagination.Params{Page: page, PerPage: perPage})
					got = append(got, res.Data...)
					totalPages = res.Meta.TotalPages
					page++
				}
				require.Len(t, got, n)
				for i, v := range got {
					if v != i {
						t.Fatalf("gap or overlap at index %d: got %d", i, v)
					}
				}
			})
		}
	}
}

func TestPaginate_ClampsPerPage(t *testing.T) {
	res := pagination.Paginate(seq(120), pagination.Params{Page: 1, PerPage: 500})
	assert.Equal(t, 50, res.Meta.PerPage)
	assert.Len(t, res.Data, 50)
	assert.Equal(t, 3, res.Meta.TotalPages)
}

func TestPaginate_TotalPages(t *testing.T) {
	cases := []struct {
		count, perPage, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 50, 2},
	}
	for _, tc := range cases {
		res := pagination.Paginate(seq(tc.count), pagination.Params{Page: 1, PerPage: tc.perPage})
		assert.Equal(t, tc.want, res.Meta.TotalPages, "count=%d per_page=%d", tc.count, tc.perPage)
		assert.Equal(t, tc.count, res.Meta.Count)
	}
}

func TestPaginate_TwentyFiveOrgsFirstPage(t *testing.T) {
	res := pagination.Paginate(seq(25), pagination.Params{Page: 1, PerPage: 10})
	require.Len(t, res.Data, 10)

	raw, err := json.Marshal(res.Meta)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":25,"page":1,"total_pages":3,"per_page":10,"next_page":2}`, string(raw))
}

func TestPaginate_PrevNextPresence(t *testing.T) {
	elements := seq(25)

	last := pagination.Paginate(elements, pagination.Params{Page: 3, PerPage: 10})
	require.NotNil(t, last.Meta.PrevPage)
	assert.Equal(t, 2, *last.Meta.PrevPage)
	assert.Nil(t, last.Meta.NextPage)
	assert.Len(t, last.Data, 5)

	mid := pagination.Paginate(elements, pagination.Params{Page: 2, PerPage: 10})
	require.NotNil(t, mid.Meta.PrevPage)
	require.NotNil(t, mid.Meta.NextPage)
	assert.Equal(t, 1, *mid.Meta.PrevPage)
	assert.Equal(t, 3, *mid.Meta.NextPage)
}

func TestPaginate_OutOfRangePageIsEmpty(t *testing.T) {
	res := pagination.Paginate(seq(5), pagination.Params{Page: 4, PerPage: 10})
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, 5, res.Meta.Count)
	assert.Equal(t, 1, res.Meta.TotalPages)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":[]`)
}

func TestPaginate_EmptyCollection(t *testing.T) {
	res := pagination.Paginate([]string{}, pagination.Params{})
	assert.Equal(t, 0, res.Meta.TotalPages)
	assert.Equal(t, 1, res.Meta.Page)
	assert.Equal(t, pagination.DefaultPerPage, res.Meta.PerPage)
	assert.Nil(t, res.Meta.PrevPage)
	assert.Nil(t, res.Meta.NextPage)
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	elements := seq(4)
	res := pagination.Paginate(elements, pagination.Params{Page: 1, PerPage: 2})
	res.Data[0] = 99
	assert.Equal(t, 0, elements[0])
}

func TestParseParams(t *testing.T) {
	p, err := pagination.ParseParams("", "")
	require.NoError(t, err)
	assert.Equal(t, pagination.Params{Page: 1, PerPage: 10}, p)

	p, err = pagination.ParseParams("3", "75")
	require.NoError(t, err)
	assert.Equal(t, pagination.Params{Page: 3, PerPage: 50}, p)

	p, err = pagination.ParseParams("-2", "0")
	require.NoError(t, err)
	assert.Equal(t, pagination.Params{Page: 1, PerPage: 10}, p)

	_, err = pagination.ParseParams("one", "x")
	var perr *pagination.ParamError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, []string{"page", "per_page"}, perr.Fields)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, pagination.Check(0, pagination.Params{Page: 1, PerPage: 10}))
	assert.NoError(t, pagination.Check(25, pagination.Params{Page: 3, PerPage: 10}))
	assert.ErrorIs(t, pagination.Check(25, pagination.Params{Page: 4, PerPage: 10}), pagination.ErrPageOutOfRange)
}

func TestParseParams_PageNearIntLimit(t *testing.T) {
	p, err := pagination.ParseParams(strconv.Itoa(pagination.MaxPage), "50")
	require.NoError(t, err)
	assert.Equal(t, pagination.MaxPage, p.Page)
	assert.GreaterOrEqual(t, p.Offset(), 0)

	for _, raw := range []string{strconv.Itoa(math.MaxInt/50 + 2), strconv.Itoa(math.MaxInt), "99999999999999999999"} {
		_, err := pagination.ParseParams(raw, "50")
		var perr *pagination.ParamError
		require.True(t, errors.As(err, &perr), "page=%s", raw)
		assert.Equal(t, []string{"page"}, perr.Fields)
		assert.Len(t, perr.Messages, 1)
	}
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	elements := seq(25)
	for _, page := range []int{math.MaxInt/50 + 2, math.MaxInt} {
		var res pagination.Page[int]
		require.NotPanics(t, func() {
			res = pagination.Paginate(elements, pagination.Params{Page: page, PerPage: 50})
		})
		assert.Empty(t, res.Data)
		assert.NotNil(t, res.Data)
		assert.Equal(t, pagination.MaxPage, res.Meta.Page)
		assert.Equal(t, 1, res.Meta.TotalPages)
		assert.Nil(t, res.Meta.NextPage)
		assert.ErrorIs(t, pagination.Check(len(elements), pagination.Params{Page: page, PerPage: 50}), pagination.ErrPageOutOfRange)
	}
}

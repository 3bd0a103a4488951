package client_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/orgs-directory-service/pkg/client"
	"github.com/maxviazov/orgs-directory-service/pkg/pagination"
)

var fastRetry = client.RetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

func sliceSource(items []int, calls *int) client.PageFunc[int] {
	return func(ctx context.Context, page, perPage int) (pagination.Page[int], error) {
		*calls++
		return pagination.Paginate(items, pagination.Params{Page: page, PerPage: perPage}), nil
	}
}

func TestFetchAll_ReassemblesCollection(t *testing.T) {
	items := make([]int, 47)
	for i := range items {
		items[i] = i
	}
	for _, perPage := range []int{1, 7, 10, 47, 50} {
		calls := 0
		got, err := client.FetchAll(context.Background(), sliceSource(items, &calls), perPage, fastRetry, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, items, got, "per_page=%d", perPage)
		assert.Equal(t, pagination.TotalPages(len(items), perPage), calls, "per_page=%d", perPage)
	}
}

func TestFetchAll_EmptyCollectionSingleRequest(t *testing.T) {
	calls := 0
	got, err := client.FetchAll(context.Background(), sliceSource(nil, &calls), 20, fastRetry, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, 1, calls)
}

func TestFetchAll_RecoversFromTransientFailure(t *testing.T) {
	items := []int{1, 2, 3}
	calls := 0
	src := func(ctx context.Context, page, perPage int) (pagination.Page[int], error) {
		calls++
		if calls == 1 {
			return pagination.Page[int]{}, errors.New("connection reset")
		}
		return pagination.Paginate(items, pagination.Params{Page: page, PerPage: perPage}), nil
	}
	got, err := client.FetchAll(context.Background(), src, 2, fastRetry, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, 3, calls)
}

func TestFetchAll_AbortsAfterBoundedRetries(t *testing.T) {
	boom := errors.New("server down")
	calls := 0
	src := func(ctx context.Context, page, perPage int) (pagination.Page[int], error) {
		calls++
		return pagination.Page[int]{}, boom
	}
	got, err := client.FetchAll(context.Background(), src, 10, fastRetry, zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, boom)

	var ferr *client.FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Page)
	assert.Equal(t, 3, ferr.Attempts)
}

func TestFetchAll_PermanentErrorIsNotRetried(t *testing.T) {
	calls := 0
	src := func(ctx context.Context, page, perPage int) (pagination.Page[int], error) {
		calls++
		return pagination.Page[int]{}, &client.HTTPError{StatusCode: 400}
	}
	_, err := client.FetchAll(context.Background(), src, 10, fastRetry, zerolog.Nop())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetchAll_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	src := func(ctx context.Context, page, perPage int) (pagination.Page[int], error) {
		calls++
		cancel()
		// claims more pages so only cancellation can end the loop
		return pagination.Page[int]{Meta: pagination.Meta{TotalPages: 100}, Data: []int{page}}, nil
	}
	_, err := client.FetchAll(ctx, src, 1, fastRetry, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestHTTPError_Temporary(t *testing.T) {
	cases := map[int]bool{400: false, 404: false, 408: true, 422: false, 429: true, 500: true, 503: true}
	for code, want := range cases {
		assert.Equal(t, want, (&client.HTTPError{StatusCode: code}).Temporary(), "status %d", code)
	}
	assert.ErrorIs(t, &client.HTTPError{StatusCode: 404}, client.ErrNotFound)
}

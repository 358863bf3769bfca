package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub-backend/internal/shared/apperror"
)

func TestParseDefaults(t *testing.T) {
	opts, err := Parse(url.Values{}, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultPage, opts.Page)
	assert.Equal(t, DefaultPageSize, opts.PageSize)
	assert.Empty(t, opts.Order)
	assert.Empty(t, opts.Filters)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantPage  int
		wantSize  int
		wantError bool
	}{
		{
			name:     "explicit page and size",
			values:   url.Values{"page": {"3"}, "pageSize": {"25"}},
			wantPage: 3,
			wantSize: 25,
		},
		{
			name:      "page zero rejected",
			values:    url.Values{"page": {"0"}},
			wantError: true,
		},
		{
			name:      "page not a number",
			values:    url.Values{"page": {"abc"}},
			wantError: true,
		},
		{
			name:      "pageSize above maximum",
			values:    url.Values{"pageSize": {"101"}},
			wantError: true,
		},
		{
			name:     "pageSize at maximum",
			values:   url.Values{"pageSize": {"100"}},
			wantPage: 1,
			wantSize: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := Parse(tt.values, nil)
			if tt.wantError {
				require.Error(t, err)
				var appErr *apperror.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, opts.Page)
			assert.Equal(t, tt.wantSize, opts.PageSize)
		})
	}
}

func TestParseOrder(t *testing.T) {
	allowed := []string{"createdAt", "name"}

	tests := []struct {
		name      string
		order     []string
		want      []string
		wantError bool
	}{
		{
			name:  "valid tokens",
			order: []string{"createdAt:DESC", "name:ASC"},
			want:  []string{"createdAt:DESC", "name:ASC"},
		},
		{
			name:      "field not in allow-list",
			order:     []string{"password:ASC"},
			wantError: true,
		},
		{
			name:      "bad direction",
			order:     []string{"name:UP"},
			wantError: true,
		},
		{
			name:      "missing direction",
			order:     []string{"name"},
			wantError: true,
		},
		{
			name:      "lowercase direction rejected",
			order:     []string{"name:asc"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := Parse(url.Values{"order": tt.order}, allowed)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.Order)
		})
	}
}

func TestParseLeftoverFilters(t *testing.T) {
	values := url.Values{
		"page":     {"2"},
		"pageSize": {"20"},
		"order":    {"createdAt:ASC"},
		"city":     {"Hanoi"},
		"status":   {"pending"},
	}

	opts, err := Parse(values, []string{"createdAt"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"city": "Hanoi", "status": "pending"}, opts.Filters)
}

func TestSplitTokenFirstColonOnly(t *testing.T) {
	field, dir := SplitToken("meta:field:DESC")
	assert.Equal(t, "meta", field)
	assert.Equal(t, "field:DESC", dir)
}

func TestPopFilter(t *testing.T) {
	opts := Default()
	opts.SetFilter("search", "beach")

	val, ok := opts.PopFilter("search")
	assert.True(t, ok)
	assert.Equal(t, "beach", val)

	_, ok = opts.PopFilter("search")
	assert.False(t, ok)
}

func TestSkipLimit(t *testing.T) {
	opts := &Options{Page: 3, PageSize: 20}
	assert.Equal(t, int64(40), opts.Skip())
	assert.Equal(t, int64(20), opts.Limit())
}

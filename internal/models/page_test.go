package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"defaults when empty", "", "", 1, 10},
		{"valid values", "2", "5", 2, 5},
		{"zero page", "0", "5", 1, 5},
		{"negative limit", "3", "-1", 3, 10},
		{"non numeric", "abc", "x", 1, 10},
		{"fractional", "1.5", "2.5", 1, 10},
		{"limit capped", "1", "1000", 1, MaxLimit},
		{"whitespace tolerated", " 4 ", " 20 ", 4, 20},
		{"page capped", "9223372036854775807", "10", MaxPage, 10},
		{"page beyond int64", "99999999999999999999", "10", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := ParsePageRequest(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantLimit, req.Limit)
		})
	}
}

func TestNewPage_Metadata(t *testing.T) {
	docs := []int{6, 7, 8, 9, 10}
	p := NewPage(docs, 12, PageRequest{Page: 2, Limit: 5})

	assert.Equal(t, docs, p.Docs)
	assert.EqualValues(t, 12, p.TotalDocs)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 6, p.PagingCounter)
	assert.True(t, p.HasPrevPage)
	assert.True(t, p.HasNextPage)
	require.NotNil(t, p.PrevPage)
	require.NotNil(t, p.NextPage)
	assert.Equal(t, 1, *p.PrevPage)
	assert.Equal(t, 3, *p.NextPage)
}

func TestPageRequest_NormalizeCapsPage(t *testing.T) {
	req := PageRequest{Page: math.MaxInt, Limit: MaxLimit}.Normalize()

	assert.Equal(t, MaxPage, req.Page)
	assert.Positive(t, req.Offset())

	p := NewPage[int](nil, 3, PageRequest{Page: math.MaxInt, Limit: 10})
	assert.Equal(t, MaxPage, p.Page)
	assert.Positive(t, p.PagingCounter)
	assert.False(t, p.HasNextPage)
}

func TestNewPage_Empty(t *testing.T) {
	p := NewPage[string](nil, 0, PageRequest{})

	assert.NotNil(t, p.Docs)
	assert.Empty(t, p.Docs)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 1, p.PagingCounter)
	assert.False(t, p.HasPrevPage)
	assert.False(t, p.HasNextPage)
	assert.Nil(t, p.PrevPage)
	assert.Nil(t, p.NextPage)
}

func TestNewPage_LastPage(t *testing.T) {
	p := NewPage([]int{11, 12}, 12, PageRequest{Page: 3, Limit: 5})

	assert.False(t, p.HasNextPage)
	assert.Nil(t, p.NextPage)
	assert.Equal(t, 2, *p.PrevPage)
}

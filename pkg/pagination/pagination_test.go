package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boiiloat/pos-api/pkg/pagination"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"zero values fall back to defaults", 0, 0, 1, 15},
		{"negative values fall back to defaults", -3, -10, 1, 15},
		{"per_page is capped at 100", 2, 500, 2, 100},
		{"valid values pass through", 3, 25, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &pagination.PaginationParams{Page: tt.page, PerPage: tt.perPage}
			p.Validate()

			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

func TestPaginationParams_Offset(t *testing.T) {
	p := &pagination.PaginationParams{Page: 3, PerPage: 15}
	assert.Equal(t, 30, p.Offset())

	first := pagination.DefaultPagination()
	assert.Equal(t, 0, first.Offset())
}

func TestNewPagination(t *testing.T) {
	t.Run("middle page has both neighbours", func(t *testing.T) {
		p := pagination.NewPagination(2, 10, 45)

		assert.Equal(t, 5, p.TotalPages)
		assert.True(t, p.HasNext)
		assert.True(t, p.HasPrev)
	})

	t.Run("last page has no next", func(t *testing.T) {
		p := pagination.NewPagination(5, 10, 45)

		assert.False(t, p.HasNext)
		assert.True(t, p.HasPrev)
	})

	t.Run("single page has no neighbours", func(t *testing.T) {
		p := pagination.NewPagination(1, 10, 7)

		assert.Equal(t, 1, p.TotalPages)
		assert.False(t, p.HasNext)
		assert.False(t, p.HasPrev)
	})

	t.Run("empty result has zero pages", func(t *testing.T) {
		p := pagination.NewPagination(1, 10, 0)

		assert.Equal(t, 0, p.TotalPages)
		assert.False(t, p.HasNext)
	})
}

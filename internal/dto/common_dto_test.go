package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		name               string
		total              int64
		page, limit        int
		wantPages          int
		wantNext, wantPrev bool
	}{
		{"empty", 0, 1, 10, 0, false, false},
		{"empty later page", 0, 3, 10, 0, false, true},
		{"middle page", 25, 2, 10, 3, true, true},
		{"last page", 25, 3, 10, 3, false, true},
		{"first page", 25, 1, 10, 3, true, false},
		{"exact fit", 20, 2, 10, 2, false, true},
		{"single partial page", 7, 1, 50, 1, false, false},
		{"page past the end", 5, 4, 2, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewPaginationMeta(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.limit, meta.Limit)
			assert.Equal(t, tt.wantPages, meta.TotalPages)
			assert.Equal(t, tt.wantNext, meta.HasNext)
			assert.Equal(t, tt.wantPrev, meta.HasPrev)
		})
	}
}

func TestPaginationInvariants(t *testing.T) {
	for total := int64(0); total <= 60; total++ {
		for limit := 1; limit <= 50; limit += 7 {
			for page := 1; page <= 8; page++ {
				meta := NewPaginationMeta(total, page, limit)
				assert.GreaterOrEqual(t, int64(meta.TotalPages)*int64(limit), total)
				if meta.TotalPages > 0 {
					assert.Less(t, int64(meta.TotalPages-1)*int64(limit), total)
				}
				assert.Equal(t, page < meta.TotalPages, meta.HasNext)
				assert.Equal(t, page > 1, meta.HasPrev)
			}
		}
	}
}

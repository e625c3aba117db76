package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"defaults", 0, 0, 1, pagination.DefaultLimit},
		{"negative page", -3, 10, 1, 10},
		{"limit capped", 2, 500, 2, pagination.MaxLimit},
		{"passthrough", 4, 25, 4, 25},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit := pagination.Normalize(tc.page, tc.limit)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Offset(1, 20))
	assert.Equal(t, 40, pagination.Offset(3, 20))
}

func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 20, 41)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 41, meta.Total)
	assert.Equal(t, 3, meta.Pages)

	assert.Equal(t, 0, pagination.NewMeta(1, 20, 0).Pages)
}

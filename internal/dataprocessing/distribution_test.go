package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

func enrichedBikes(t *testing.T) []domain.EnrichedSale {
	t.Helper()
	sales, products := normalizedBikes(t)
	enriched, _, err := Join(sales, products, "ProductKey")
	require.NoError(t, err)
	return enriched
}

func TestBin_ColorAllowList(t *testing.T) {
	records := enrichedBikes(t)
	allowed := []string{"Red", "Blue"}

	group, err := Bin(records, domain.FieldColor, allowed)
	require.NoError(t, err)

	want := 0
	for _, r := range records {
		if r.Color == "Red" || r.Color == "Blue" {
			want++
		}
	}
	assert.Equal(t, want, group.Count())
	for _, g := range group.Groups {
		assert.Contains(t, allowed, g.Category)
	}
	red, ok := group.Get("Red")
	require.True(t, ok)
	assert.Equal(t, []float64{100, 25, 150}, red)
	blue, ok := group.Get("Blue")
	require.True(t, ok)
	assert.Equal(t, []float64{200}, blue)
	_, ok = group.Get("Black")
	assert.False(t, ok)
}

func TestBin_Options(t *testing.T) {
	records := enrichedBikes(t)

	tests := []struct {
		name      string
		field     domain.CategoryField
		allowed   []string
		opts      []BinOption
		wantOrder []string
		wantCount int
	}{
		{
			name:      "order follows allow-list",
			field:     domain.FieldColor,
			allowed:   []string{"Black", "Blue", "Red"},
			wantOrder: []string{"Black", "Blue", "Red"},
			wantCount: 5,
		},
		{
			name:      "category filter",
			field:     domain.FieldColor,
			allowed:   []string{"Red", "Silver", "Black", "Yellow", "Blue"},
			opts:      []BinOption{WithCategory("Bikes")},
			wantOrder: []string{"Red", "Black", "Blue"},
			wantCount: 4,
		},
		{
			name:      "duplicates and blanks in allow-list ignored",
			field:     domain.FieldSubCategory,
			allowed:   []string{"Road Bikes", "", "Road Bikes"},
			wantOrder: []string{"Road Bikes"},
			wantCount: 2,
		},
		{
			name:      "no matches",
			field:     domain.FieldColor,
			allowed:   []string{"Yellow"},
			wantOrder: []string{},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, err := Bin(records, tt.field, tt.allowed, tt.opts...)
			require.NoError(t, err)
			order := make([]string, 0, len(group.Groups))
			for _, g := range group.Groups {
				order = append(order, g.Category)
			}
			assert.Equal(t, tt.wantOrder, order)
			assert.Equal(t, tt.wantCount, group.Count())
		})
	}
}

func TestBin_UnknownField(t *testing.T) {
	_, err := Bin(nil, domain.CategoryField("size"), []string{"L"})
	assert.ErrorIs(t, err, &apperrors.AppError{Type: apperrors.ErrTypeValidation})
}

func TestFilterSubcategories(t *testing.T) {
	records := enrichedBikes(t)
	got := FilterSubcategories(records, NewCategorySet("Mountain Bikes", "Road Bikes", "Touring Bikes"))

	require.Len(t, got, 4)
	for _, r := range got {
		assert.Equal(t, "Bikes", r.Category)
	}
	assert.Empty(t, FilterSubcategories(records, NewCategorySet()))
}

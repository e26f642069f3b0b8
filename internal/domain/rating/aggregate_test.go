package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/officemeals/snack-provider-api/internal/models"
)

func ratings(values ...int) []models.Rating {
	out := make([]models.Rating, len(values))
	for i, v := range values {
		out[i] = models.Rating{Rating: v}
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		values    []int
		wantAvg   float64
		wantTotal int
	}{
		{"no ratings", nil, 0, 0},
		{"single rating", []int{5}, 5.0, 1},
		{"exact mean", []int{5, 2}, 3.5, 2},
		{"half rounds up", []int{1, 2}, 1.5, 2},
		{"repeating decimal rounds", []int{3, 4, 4}, 3.7, 3},
		{"one third rounds down", []int{1, 1, 2}, 1.3, 3},
		{"after overwrite scenario", []int{3, 2}, 2.5, 2},
		{"all minimum", []int{1, 1, 1}, 1.0, 3},
		{"all maximum", []int{5, 5, 5, 5}, 5.0, 4},
		{"2.45 mean rounds half up", []int{3, 3, 3, 3, 3, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}, 2.5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, total := Aggregate(ratings(tt.values...))
			assert.InDelta(t, tt.wantAvg, avg, 1e-9)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestIsValidValue(t *testing.T) {
	assert.False(t, IsValidValue(0))
	assert.True(t, IsValidValue(1))
	assert.True(t, IsValidValue(5))
	assert.False(t, IsValidValue(6))
	assert.False(t, IsValidValue(-1))
}

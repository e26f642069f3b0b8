package rating

import (
	"math"

	"github.com/officemeals/snack-provider-api/internal/models"
)

const (
	MinValue = 1
	MaxValue = 5
)

func IsValidValue(value int) bool {
	return value >= MinValue && value <= MaxValue
}

// Aggregate computes a provider's derived fields from the full current set
// of its ratings. The average is the mean rounded half-up to one decimal,
// or 0 when no ratings exist.
func Aggregate(ratings []models.Rating) (averageRating float64, totalRatings int) {
	totalRatings = len(ratings)
	if totalRatings == 0 {
		return 0, 0
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}

	averageRating = math.Round(float64(sum)/float64(totalRatings)*10) / 10
	return averageRating, totalRatings
}

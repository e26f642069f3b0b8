package rating

import (
	"context"

	"github.com/officemeals/snack-provider-api/internal/models"
)

type Repository interface {
	// -------- Provider --------
	GetProvider(
		ctx context.Context,
		providerID string,
	) (*models.Provider, error)

	UpdateProviderAggregate(
		ctx context.Context,
		providerID string,
		averageRating float64,
		totalRatings int,
	) error

	// -------- Rating --------
	GetRating(
		ctx context.Context,
		userID string,
		providerID string,
	) (*models.Rating, error)

	CreateRating(
		ctx context.Context,
		r *models.Rating,
	) error

	UpdateRating(
		ctx context.Context,
		r *models.Rating,
	) error

	ListRatings(
		ctx context.Context,
		providerID string,
	) ([]models.Rating, error)

	// InTransaction runs fn against a repository bound to a single storage
	// transaction; any error rolls the whole unit back.
	InTransaction(
		ctx context.Context,
		fn func(Repository) error,
	) error
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/officemeals/snack-provider-api/internal/domain/rating"
	"github.com/officemeals/snack-provider-api/internal/httperr"
	"github.com/officemeals/snack-provider-api/internal/models"
)

type RatingGormRepository struct {
	db *gorm.DB
}

func NewRatingGormRepository(db *gorm.DB) *RatingGormRepository {
	return &RatingGormRepository{db: db}
}

// --------------------------------------------------
// Provider
// --------------------------------------------------

func (r *RatingGormRepository) GetProvider(
	ctx context.Context,
	providerID string,
) (*models.Provider, error) {

	var provider models.Provider
	if err := r.db.WithContext(ctx).
		First(&provider, "id = ?", providerID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("provider_not_found")
		}
		return nil, err
	}
	return &provider, nil
}

func (r *RatingGormRepository) UpdateProviderAggregate(
	ctx context.Context,
	providerID string,
	averageRating float64,
	totalRatings int,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", providerID).
		Updates(map[string]any{
			"average_rating": averageRating,
			"total_ratings":  totalRatings,
		}).Error
}

// --------------------------------------------------
// Rating
// --------------------------------------------------

func (r *RatingGormRepository) GetRating(
	ctx context.Context,
	userID string,
	providerID string,
) (*models.Rating, error) {

	var rating models.Rating
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider_id = ?", userID, providerID).
		First(&rating).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("rating_not_found")
		}
		return nil, err
	}
	return &rating, nil
}

func (r *RatingGormRepository) CreateRating(
	ctx context.Context,
	rating *models.Rating,
) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *RatingGormRepository) UpdateRating(
	ctx context.Context,
	rating *models.Rating,
) error {
	// Only the fields an overwrite may touch; created_at stays intact.
	return r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("id = ?", rating.ID).
		Updates(map[string]any{
			"rating":  rating.Rating,
			"comment": rating.Comment,
		}).Error
}

func (r *RatingGormRepository) ListRatings(
	ctx context.Context,
	providerID string,
) ([]models.Rating, error) {

	var ratings []models.Rating
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *RatingGormRepository) InTransaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RatingGormRepository{db: tx})
	})
}

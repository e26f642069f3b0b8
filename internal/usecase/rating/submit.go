package rating

import (
	"context"

	"github.com/officemeals/snack-provider-api/internal/audit"
	domain "github.com/officemeals/snack-provider-api/internal/domain/rating"
	"github.com/officemeals/snack-provider-api/internal/httperr"
	"github.com/officemeals/snack-provider-api/internal/models"
)

type SubmitRatingInput struct {
	UserID     string
	ProviderID string
	Rating     int
	Comment    *string
}

type SubmitRatingOutput struct {
	Rating   *models.Rating
	Provider *models.Provider
}

type SubmitRating struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSubmitRating(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SubmitRating {
	return &SubmitRating{
		repo:  repo,
		audit: audit,
	}
}

// Execute upserts the caller's rating for a provider and recomputes the
// provider's aggregate fields from the full current rating set. The upsert,
// the recount and the provider update share one storage transaction.
func (uc *SubmitRating) Execute(
	ctx context.Context,
	in SubmitRatingInput,
) (*SubmitRatingOutput, error) {

	if !domain.IsValidValue(in.Rating) {
		return nil, httperr.ErrBusiness("invalid_rating_value")
	}

	var out SubmitRatingOutput

	err := uc.repo.InTransaction(ctx, func(tx domain.Repository) error {
		provider, err := tx.GetProvider(ctx, in.ProviderID)
		if err != nil {
			return err
		}

		existing, err := tx.GetRating(ctx, in.UserID, in.ProviderID)
		switch {
		case err == nil:
			// Overwrite in place: same row, created_at untouched.
			existing.Rating = in.Rating
			existing.Comment = in.Comment
			if err := tx.UpdateRating(ctx, existing); err != nil {
				return err
			}
			out.Rating = existing
		case httperr.IsBusiness(err, "rating_not_found"):
			created := &models.Rating{
				UserID:     in.UserID,
				ProviderID: in.ProviderID,
				Rating:     in.Rating,
				Comment:    in.Comment,
			}
			if err := tx.CreateRating(ctx, created); err != nil {
				return err
			}
			out.Rating = created
		default:
			return err
		}

		// Recompute from the full rating set rather than an incremental sum.
		all, err := tx.ListRatings(ctx, in.ProviderID)
		if err != nil {
			return err
		}

		avg, total := domain.Aggregate(all)
		if err := tx.UpdateProviderAggregate(ctx, in.ProviderID, avg, total); err != nil {
			return err
		}

		provider.AverageRating = avg
		provider.TotalRatings = total
		out.Provider = provider
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "rating_submitted",
		Entity:   "provider",
		EntityID: &in.ProviderID,
		Metadata: map[string]any{"rating": in.Rating},
	})

	return &out, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/officemeals/snack-provider-api/internal/cache"
	"github.com/officemeals/snack-provider-api/internal/httperr"
	"github.com/officemeals/snack-provider-api/internal/httpresp"
	"github.com/officemeals/snack-provider-api/internal/middleware"
	ucRating "github.com/officemeals/snack-provider-api/internal/usecase/rating"
)

type RatingHandler struct {
	submitUC *ucRating.SubmitRating
	cache    *cache.ProviderCache
}

func NewRatingHandler(submitUC *ucRating.SubmitRating, providerCache *cache.ProviderCache) *RatingHandler {
	return &RatingHandler{
		submitUC: submitUC,
		cache:    providerCache,
	}
}

type SubmitRatingRequest struct {
	ProviderID string  `json:"provider_id" binding:"required"`
	Rating     *int    `json:"rating" binding:"required"`
	Comment    *string `json:"comment"`
}

func (h *RatingHandler) Submit(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httperr.Unauthorized(c, "missing_credential", "No identity in request context.")
		return
	}

	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	out, err := h.submitUC.Execute(c.Request.Context(), ucRating.SubmitRatingInput{
		UserID:     identity.ID,
		ProviderID: req.ProviderID,
		Rating:     *req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		switch httperr.BusinessCode(err) {
		case "invalid_rating_value":
			httperr.BadRequest(c, "invalid_rating_value", "Rating must be an integer between 1 and 5.")
		case "provider_not_found":
			httperr.NotFound(c, "provider_not_found", "Provider does not exist.")
		default:
			httperr.Internal(c, "failed_to_submit_rating", "Could not store the rating.")
		}
		return
	}

	h.cache.Invalidate(c.Request.Context())

	httpresp.OK(c, gin.H{
		"rating": out.Rating,
		"provider": gin.H{
			"id":             out.Provider.ID,
			"average_rating": out.Provider.AverageRating,
			"total_ratings":  out.Provider.TotalRatings,
		},
	})
}

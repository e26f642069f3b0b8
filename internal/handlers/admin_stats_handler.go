package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/officemeals/snack-provider-api/internal/httperr"
	"github.com/officemeals/snack-provider-api/internal/httpresp"
	"github.com/officemeals/snack-provider-api/internal/models"
)

type AdminStatsHandler struct {
	db *gorm.DB
}

func NewAdminStatsHandler(db *gorm.DB) *AdminStatsHandler {
	return &AdminStatsHandler{db: db}
}

type ActivityEntry struct {
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
}

func (h *AdminStatsHandler) Stats(c *gin.Context) {
	var totalProviders, totalFoods, totalUsers, totalRatings int64

	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.Provider{}, &totalProviders},
		{&models.Food{}, &totalFoods},
		{&models.User{}, &totalUsers},
		{&models.Rating{}, &totalRatings},
	}

	for _, q := range counts {
		if err := h.db.Model(q.model).Count(q.dst).Error; err != nil {
			httperr.Internal(c, "failed_to_get_stats", "Could not load dashboard counts.")
			return
		}
	}

	httpresp.OK(c, gin.H{
		"total_providers": totalProviders,
		"total_foods":     totalFoods,
		"total_users":     totalUsers,
		"total_ratings":   totalRatings,
	})
}

func (h *AdminStatsHandler) RecentActivity(c *gin.Context) {
	var ratings []models.Rating
	if err := h.db.
		Preload("User").
		Preload("Provider").
		Order("created_at DESC").
		Limit(10).
		Find(&ratings).Error; err != nil {

		httperr.Internal(c, "failed_to_get_activity", "Could not load recent activity.")
		return
	}

	activity := make([]ActivityEntry, 0, len(ratings))
	for _, r := range ratings {
		userName, providerName := "unknown user", "unknown provider"
		if r.User != nil {
			userName = r.User.Name
		}
		if r.Provider != nil {
			providerName = r.Provider.Name
		}

		activity = append(activity, ActivityEntry{
			Description: fmt.Sprintf("%s rated %s %d stars", userName, providerName, r.Rating),
			Time:        r.CreatedAt,
		})
	}

	httpresp.OK(c, activity)
}

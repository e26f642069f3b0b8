package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/officemeals/snack-provider-api/internal/audit"
	"github.com/officemeals/snack-provider-api/internal/cache"
	"github.com/officemeals/snack-provider-api/internal/httperr"
	"github.com/officemeals/snack-provider-api/internal/httpresp"
	"github.com/officemeals/snack-provider-api/internal/middleware"
	"github.com/officemeals/snack-provider-api/internal/models"
)

type FoodHandler struct {
	db    *gorm.DB
	cache *cache.ProviderCache
	audit *audit.Dispatcher
}

func NewFoodHandler(db *gorm.DB, providerCache *cache.ProviderCache, auditDispatcher *audit.Dispatcher) *FoodHandler {
	return &FoodHandler{
		db:    db,
		cache: providerCache,
		audit: auditDispatcher,
	}
}

// --------- Requests ---------

type FoodRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category" binding:"required"`
	ProviderID  string   `json:"provider_id" binding:"required"`
	IsAvailable *bool    `json:"is_available"`
}

// --------- Handlers ---------

func (h *FoodHandler) List(c *gin.Context) {
	var foods []models.Food
	if err := h.db.
		Preload("Provider").
		Order("created_at DESC").
		Find(&foods).Error; err != nil {

		httperr.Internal(c, "failed_to_list_foods", "Could not load foods.")
		return
	}

	httpresp.OK(c, foods)
}

func (h *FoodHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var food models.Food
	if err := h.db.Preload("Provider").First(&food, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "food_not_found", "Food does not exist.")
			return
		}
		httperr.Internal(c, "failed_to_get_food", "Could not load the food.")
		return
	}

	httpresp.OK(c, food)
}

func (h *FoodHandler) Create(c *gin.Context) {
	var req FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Price != nil && *req.Price <= 0 {
		httperr.BadRequest(c, "invalid_price", "Price must be a positive amount.")
		return
	}

	// The provider reference must exist; a dangling id is a caller mistake.
	var count int64
	h.db.Model(&models.Provider{}).Where("id = ?", req.ProviderID).Count(&count)
	if count == 0 {
		httperr.BadRequest(c, "provider_not_found", "Referenced provider does not exist.")
		return
	}

	food := models.Food{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ProviderID:  req.ProviderID,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		food.IsAvailable = *req.IsAvailable
	}

	if err := h.db.Create(&food).Error; err != nil {
		httperr.Internal(c, "failed_to_create_food", "Could not create the food.")
		return
	}

	h.cache.Invalidate(c.Request.Context())
	h.dispatchAudit(c, "food_created", food.ID)

	httpresp.Created(c, food)
}

func (h *FoodHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var food models.Food
	if err := h.db.First(&food, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "food_not_found", "Food does not exist.")
			return
		}
		httperr.Internal(c, "failed_to_get_food", "Could not load the food.")
		return
	}

	var req FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Price != nil && *req.Price <= 0 {
		httperr.BadRequest(c, "invalid_price", "Price must be a positive amount.")
		return
	}

	var count int64
	h.db.Model(&models.Provider{}).Where("id = ?", req.ProviderID).Count(&count)
	if count == 0 {
		httperr.BadRequest(c, "provider_not_found", "Referenced provider does not exist.")
		return
	}

	food.Name = req.Name
	food.Description = req.Description
	food.Price = req.Price
	food.Category = req.Category
	food.ProviderID = req.ProviderID
	if req.IsAvailable != nil {
		food.IsAvailable = *req.IsAvailable
	} else {
		food.IsAvailable = true
	}

	if err := h.db.Save(&food).Error; err != nil {
		httperr.Internal(c, "failed_to_update_food", "Could not update the food.")
		return
	}

	h.cache.Invalidate(c.Request.Context())
	h.dispatchAudit(c, "food_updated", food.ID)

	httpresp.OK(c, food)
}

func (h *FoodHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var food models.Food
	if err := h.db.First(&food, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "food_not_found", "Food does not exist.")
			return
		}
		httperr.Internal(c, "failed_to_get_food", "Could not load the food.")
		return
	}

	if err := h.db.Delete(&food).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_food", "Could not delete the food.")
		return
	}

	h.cache.Invalidate(c.Request.Context())
	h.dispatchAudit(c, "food_deleted", food.ID)

	httpresp.OK(c, gin.H{"message": "food_deleted"})
}

func (h *FoodHandler) dispatchAudit(c *gin.Context, action, foodID string) {
	var userID *string
	if identity, ok := middleware.IdentityFrom(c); ok {
		userID = &identity.ID
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   action,
		Entity:   "food",
		EntityID: &foodID,
	})
}

package handlers

import (
	"encoding/json"
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

type ProviderHandler struct {
	db    *gorm.DB
	cache *cache.ProviderCache
	audit *audit.Dispatcher
}

func NewProviderHandler(db *gorm.DB, providerCache *cache.ProviderCache, auditDispatcher *audit.Dispatcher) *ProviderHandler {
	return &ProviderHandler{
		db:    db,
		cache: providerCache,
		audit: auditDispatcher,
	}
}

// --------- Requests ---------

type ProviderRequest struct {
	Name           string   `json:"name" binding:"required"`
	CanGiveReceipt bool     `json:"can_give_receipt"`
	HasStamp       bool     `json:"has_stamp"`
	CanCredit      bool     `json:"can_credit"`
	Description    *string  `json:"description"`
	Address        *string  `json:"address"`
	Phone          *string  `json:"phone"`
}

// --------- Responses ---------

type MyRating struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

type ProviderListItem struct {
	models.Provider
	MyRating *MyRating `json:"my_rating,omitempty"`
}

// --------- Handlers ---------

// List is public; authenticated callers additionally get their own rating
// per provider. Only the anonymous shape is served from the cache, since
// the authenticated one differs per caller.
func (h *ProviderHandler) List(c *gin.Context) {
	identity, authenticated := middleware.IdentityFrom(c)

	if !authenticated {
		if payload, hit := h.cache.GetList(c.Request.Context()); hit {
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}
	}

	var providers []models.Provider
	if err := h.db.
		Preload("Foods", func(db *gorm.DB) *gorm.DB {
			return db.Order("category ASC, name ASC")
		}).
		Order("average_rating DESC").
		Find(&providers).Error; err != nil {

		httperr.Internal(c, "failed_to_list_providers", "Could not load providers.")
		return
	}

	items := make([]ProviderListItem, len(providers))
	for i := range providers {
		items[i] = ProviderListItem{Provider: providers[i]}
	}

	if authenticated {
		var mine []models.Rating
		if err := h.db.Where("user_id = ?", identity.ID).Find(&mine).Error; err != nil {
			httperr.Internal(c, "failed_to_list_providers", "Could not load providers.")
			return
		}

		byProvider := make(map[string]*models.Rating, len(mine))
		for i := range mine {
			byProvider[mine[i].ProviderID] = &mine[i]
		}
		for i := range items {
			if r, ok := byProvider[items[i].ID]; ok {
				items[i].MyRating = &MyRating{Rating: r.Rating, Comment: r.Comment}
			}
		}
	} else if payload, err := json.Marshal(items); err == nil {
		h.cache.SetList(c.Request.Context(), payload)
	}

	httpresp.OK(c, items)
}

func (h *ProviderHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var provider models.Provider
	if err := h.db.
		Preload("Foods").
		Preload("Ratings").
		First(&provider, "id = ?", id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "provider_not_found", "Provider does not exist.")
			return
		}
		httperr.Internal(c, "failed_to_get_provider", "Could not load the provider.")
		return
	}

	httpresp.OK(c, provider)
}

func (h *ProviderHandler) Create(c *gin.Context) {
	var req ProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	provider := models.Provider{
		Name:           req.Name,
		CanGiveReceipt: req.CanGiveReceipt,
		HasStamp:       req.HasStamp,
		CanCredit:      req.CanCredit,
		Description:    req.Description,
		Address:        req.Address,
		Phone:          req.Phone,
	}

	if err := h.db.Create(&provider).Error; err != nil {
		httperr.Internal(c, "failed_to_create_provider", "Could not create the provider.")
		return
	}

	h.cache.Invalidate(c.Request.Context())
	h.dispatchAudit(c, "provider_created", provider.ID)

	httpresp.Created(c, provider)
}

func (h *ProviderHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var provider models.Provider
	if err := h.db.First(&provider, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "provider_not_found", "Provider does not exist.")
			return
		}
		httperr.Internal(c, "failed_to_get_provider", "Could not load the provider.")
		return
	}

	var req ProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// Full replace of the descriptive fields; the derived aggregate fields
	// are owned by the rating aggregator and never touched here.
	provider.Name = req.Name
	provider.CanGiveReceipt = req.CanGiveReceipt
	provider.HasStamp = req.HasStamp
	provider.CanCredit = req.CanCredit
	provider.Description = req.Description
	provider.Address = req.Address
	provider.Phone = req.Phone

	if err := h.db.Save(&provider).Error; err != nil {
		httperr.Internal(c, "failed_to_update_provider", "Could not update the provider.")
		return
	}

	h.cache.Invalidate(c.Request.Context())
	h.dispatchAudit(c, "provider_updated", provider.ID)

	httpresp.OK(c, provider)
}

func (h *ProviderHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var provider models.Provider
	if err := h.db.First(&provider, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "provider_not_found", "Provider does not exist.")
			return
		}
		httperr.Internal(c, "failed_to_get_provider", "Could not load the provider.")
		return
	}

	// Cascades to the provider's foods and ratings.
	if err := h.db.Select("Foods", "Ratings").Delete(&provider).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_provider", "Could not delete the provider.")
		return
	}

	h.cache.Invalidate(c.Request.Context())
	h.dispatchAudit(c, "provider_deleted", provider.ID)

	httpresp.OK(c, gin.H{"message": "provider_deleted"})
}

func (h *ProviderHandler) dispatchAudit(c *gin.Context, action, providerID string) {
	var userID *string
	if identity, ok := middleware.IdentityFrom(c); ok {
		userID = &identity.ID
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   action,
		Entity:   "provider",
		EntityID: &providerID,
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/officemeals/snack-provider-api/internal/httperr"
	"github.com/officemeals/snack-provider-api/internal/httpresp"
	"github.com/officemeals/snack-provider-api/internal/middleware"
	"github.com/officemeals/snack-provider-api/internal/models"
	"github.com/officemeals/snack-provider-api/internal/validators"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httperr.Unauthorized(c, "missing_credential", "No identity in request context.")
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", identity.ID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "Could not load the account.")
		return
	}

	var ratingsCount int64
	h.db.Model(&models.Rating{}).Where("user_id = ?", user.ID).Count(&ratingsCount)

	httpresp.OK(c, gin.H{
		"user":          userPayload(&user),
		"ratings_count": ratingsCount,
	})
}

func (h *MeHandler) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httperr.Unauthorized(c, "missing_credential", "No identity in request context.")
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", identity.ID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "Could not load the account.")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := validators.NormalizeEmail(*req.Email)

		var other models.User
		err := h.db.Where("email = ? AND id <> ?", email, user.ID).First(&other).Error
		if err == nil {
			httperr.BadRequest(c, "email_already_used", "This email is used by another account.")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Internal(c, "internal_error", "Could not check email uniqueness.")
			return
		}
		user.Email = email
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not update the account.")
		return
	}

	httpresp.OK(c, gin.H{"user": userPayload(&user)})
}

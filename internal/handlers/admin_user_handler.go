package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/officemeals/snack-provider-api/internal/audit"
	"github.com/officemeals/snack-provider-api/internal/auth"
	"github.com/officemeals/snack-provider-api/internal/httperr"
	"github.com/officemeals/snack-provider-api/internal/httpresp"
	"github.com/officemeals/snack-provider-api/internal/middleware"
	"github.com/officemeals/snack-provider-api/internal/models"
	"github.com/officemeals/snack-provider-api/internal/validators"
)

type AdminUserHandler struct {
	db    *gorm.DB
	guard *auth.Guard
	audit *audit.Dispatcher
}

func NewAdminUserHandler(db *gorm.DB, guard *auth.Guard, auditDispatcher *audit.Dispatcher) *AdminUserHandler {
	return &AdminUserHandler{
		db:    db,
		guard: guard,
		audit: auditDispatcher,
	}
}

// --------- Requests ---------

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=USER ADMIN"`
}

// --------- Responses ---------

type AdminUserView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RatingsCount int64     `json:"ratings_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// --------- Handlers ---------

func (h *AdminUserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Could not load users.")
		return
	}

	counts, err := h.ratingCounts()
	if err != nil {
		httperr.Internal(c, "failed_to_list_users", "Could not load users.")
		return
	}

	views := make([]AdminUserView, len(users))
	for i := range users {
		views[i] = userView(&users[i], counts[users[i].ID])
	}

	httpresp.OK(c, views)
}

func (h *AdminUserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_used", "A user with this email already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}

	if err := h.db.Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Could not create the user.")
		return
	}

	h.dispatchAudit(c, "user_created", user.ID)

	httpresp.Created(c, userView(&user, 0))
}

func (h *AdminUserHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User does not exist.")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Could not load the user.")
		return
	}

	var ratingsCount int64
	h.db.Model(&models.Rating{}).Where("user_id = ?", user.ID).Count(&ratingsCount)

	httpresp.OK(c, userView(&user, ratingsCount))
}

func (h *AdminUserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User does not exist.")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Could not load the user.")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
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
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not update the user.")
		return
	}

	h.dispatchAudit(c, "user_updated", user.ID)

	var ratingsCount int64
	h.db.Model(&models.Rating{}).Where("user_id = ?", user.ID).Count(&ratingsCount)

	httpresp.OK(c, userView(&user, ratingsCount))
}

func (h *AdminUserHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		httperr.Unauthorized(c, "missing_credential", "No identity in request context.")
		return
	}

	// Admins cannot remove their own account.
	if denial := h.guard.AuthorizeUserDeletion(identity, id); denial != nil {
		httperr.BadRequest(c, string(denial.Reason), "You cannot delete your own account.")
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User does not exist.")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Could not load the user.")
		return
	}

	// Cascades to the user's ratings.
	if err := h.db.Select("Ratings").Delete(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_user", "Could not delete the user.")
		return
	}

	h.dispatchAudit(c, "user_deleted", user.ID)

	httpresp.OK(c, gin.H{"message": "user_deleted"})
}

// --------- Helpers ---------

func (h *AdminUserHandler) ratingCounts() (map[string]int64, error) {
	type row struct {
		UserID string
		Total  int64
	}

	var rows []row
	if err := h.db.Model(&models.Rating{}).
		Select("user_id, COUNT(*) AS total").
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Total
	}
	return counts, nil
}

func (h *AdminUserHandler) dispatchAudit(c *gin.Context, action, targetUserID string) {
	var userID *string
	if identity, ok := middleware.IdentityFrom(c); ok {
		userID = &identity.ID
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   action,
		Entity:   "user",
		EntityID: &targetUserID,
	})
}

func userView(user *models.User, ratingsCount int64) AdminUserView {
	return AdminUserView{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		RatingsCount: ratingsCount,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/officemeals/snack-provider-api/internal/auth"
	"github.com/officemeals/snack-provider-api/internal/middleware"
	"github.com/officemeals/snack-provider-api/internal/models"
)

// setupAdminRouter wires the admin user routes behind the real guard-backed
// middleware so credential and role denials are exercised end to end.
func setupAdminRouter(t *testing.T, db *gorm.DB) (*gin.Engine, *auth.Verifier) {
	verifier := auth.NewVerifier("test-secret")
	guard := auth.NewGuard(verifier)
	handler := NewAdminUserHandler(db, guard, testDispatcher(db))

	r := setupTestRouter()
	admin := r.Group("/api/admin")
	admin.Use(middleware.Authenticate(guard, auth.CapabilityAdmin))
	{
		admin.GET("/users", handler.List)
		admin.POST("/users", handler.Create)
		admin.GET("/users/:id", handler.Get)
		admin.PUT("/users/:id", handler.Update)
		admin.DELETE("/users/:id", handler.Delete)
	}

	return r, verifier
}

func adminRequest(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminUsers_CredentialGate(t *testing.T) {
	db := setupTestDB(t)
	r, verifier := setupAdminRouter(t, db)

	regular := createTestUser(t, db, "Jane", "jane@example.com", "secret1", models.RoleUser)
	userToken, err := verifier.Generate(regular)
	require.NoError(t, err)

	newUser := map[string]string{"name": "X", "email": "x@example.com", "password": "secret1"}

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"missing credential", "", http.StatusUnauthorized},
		{"invalid credential", "garbage", http.StatusUnauthorized},
		{"insufficient role", userToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := adminRequest(r, http.MethodPost, "/api/admin/users", tt.token, newUser)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	// Blocked requests leave the store untouched.
	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAdminUsers_CRUD(t *testing.T) {
	db := setupTestDB(t)
	r, verifier := setupAdminRouter(t, db)

	admin := createTestUser(t, db, "Root", "root@example.com", "admin123", models.RoleAdmin)
	adminToken, err := verifier.Generate(admin)
	require.NoError(t, err)

	// Create.
	w := adminRequest(r, http.MethodPost, "/api/admin/users", adminToken, map[string]string{
		"name": "Jane", "email": "Jane@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created AdminUserView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "jane@example.com", created.Email) // normalized
	assert.Equal(t, models.RoleUser, created.Role)     // default

	// Duplicate email is rejected.
	w = adminRequest(r, http.MethodPost, "/api/admin/users", adminToken, map[string]string{
		"name": "Jane2", "email": "jane@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email_already_used")

	// Update role.
	w = adminRequest(r, http.MethodPut, "/api/admin/users/"+created.ID, adminToken, map[string]string{
		"role": models.RoleAdmin,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated AdminUserView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.RoleAdmin, updated.Role)

	// Delete another user works.
	w = adminRequest(r, http.MethodDelete, "/api/admin/users/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = adminRequest(r, http.MethodGet, "/api/admin/users/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUsers_SelfDeletionForbidden(t *testing.T) {
	db := setupTestDB(t)
	r, verifier := setupAdminRouter(t, db)

	admin := createTestUser(t, db, "Root", "root@example.com", "admin123", models.RoleAdmin)
	adminToken, err := verifier.Generate(admin)
	require.NoError(t, err)

	w := adminRequest(r, http.MethodDelete, "/api/admin/users/"+admin.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "self_deletion_forbidden")

	// The account remains.
	var count int64
	db.Model(&models.User{}).Where("id = ?", admin.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAdminUsers_DeleteCascadesRatings(t *testing.T) {
	db := setupTestDB(t)
	r, verifier := setupAdminRouter(t, db)

	admin := createTestUser(t, db, "Root", "root@example.com", "admin123", models.RoleAdmin)
	adminToken, err := verifier.Generate(admin)
	require.NoError(t, err)

	victim := createTestUser(t, db, "Jane", "jane@example.com", "secret1", models.RoleUser)
	provider := createTestProvider(t, db, "Snack Corner")
	require.NoError(t, db.Create(&models.Rating{UserID: victim.ID, ProviderID: provider.ID, Rating: 4}).Error)

	w := adminRequest(r, http.MethodDelete, "/api/admin/users/"+victim.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	db.Model(&models.Rating{}).Where("user_id = ?", victim.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

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
	"github.com/officemeals/snack-provider-api/internal/models"
)

func setupProviderRouter(db *gorm.DB, caller *auth.Identity) *gin.Engine {
	handler := NewProviderHandler(db, nil, testDispatcher(db))

	r := setupTestRouter()
	list := r.Group("/api")
	if caller != nil {
		list.Use(mockIdentity(caller))
	}
	list.GET("/providers", handler.List)
	r.GET("/api/providers/:id", handler.Get)
	r.POST("/api/providers", handler.Create)
	r.PUT("/api/providers/:id", handler.Update)
	r.DELETE("/api/providers/:id", handler.Delete)
	return r
}

func TestProviderList_OrderAndMyRating(t *testing.T) {
	db := setupTestDB(t)

	low := createTestProvider(t, db, "Low Rated")
	high := createTestProvider(t, db, "High Rated")
	require.NoError(t, db.Model(low).Updates(map[string]any{"average_rating": 2.0, "total_ratings": 1}).Error)
	require.NoError(t, db.Model(high).Updates(map[string]any{"average_rating": 4.5, "total_ratings": 3}).Error)

	user := createTestUser(t, db, "Jane", "jane@example.com", "secret1", models.RoleUser)
	comment := "solid snacks"
	require.NoError(t, db.Create(&models.Rating{
		UserID: user.ID, ProviderID: high.ID, Rating: 5, Comment: &comment,
	}).Error)

	t.Run("anonymous listing has no my_rating", func(t *testing.T) {
		r := setupProviderRouter(db, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/providers", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var items []ProviderListItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		require.Len(t, items, 2)
		// Best-rated first.
		assert.Equal(t, "High Rated", items[0].Name)
		assert.Nil(t, items[0].MyRating)
	})

	t.Run("authenticated listing carries caller's rating", func(t *testing.T) {
		r := setupProviderRouter(db, identityOf(user))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/providers", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var items []ProviderListItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		require.Len(t, items, 2)
		require.NotNil(t, items[0].MyRating)
		assert.Equal(t, 5, items[0].MyRating.Rating)
		require.NotNil(t, items[0].MyRating.Comment)
		assert.Equal(t, "solid snacks", *items[0].MyRating.Comment)
		assert.Nil(t, items[1].MyRating)
	})
}

func TestProviderCreateUpdateDelete(t *testing.T) {
	db := setupTestDB(t)
	r := setupProviderRouter(db, nil)

	// Create.
	payload, _ := json.Marshal(map[string]any{
		"name": "Catering Bu Sari", "can_credit": true,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/providers", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Provider
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.CanCredit)

	// Missing name is rejected.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/providers", bytes.NewReader([]byte(`{"can_credit":true}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Update never touches aggregates.
	require.NoError(t, db.Model(&models.Provider{}).Where("id = ?", created.ID).
		Updates(map[string]any{"average_rating": 4.0, "total_ratings": 2}).Error)

	payload, _ = json.Marshal(map[string]any{"name": "Catering Bu Sari Baru"})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/providers/"+created.ID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Provider
	require.NoError(t, db.First(&updated, "id = ?", created.ID).Error)
	assert.Equal(t, "Catering Bu Sari Baru", updated.Name)
	assert.Equal(t, 4.0, updated.AverageRating)
	assert.Equal(t, 2, updated.TotalRatings)

	// Delete cascades to foods and ratings.
	user := createTestUser(t, db, "Jane", "jane@example.com", "secret1", models.RoleUser)
	require.NoError(t, db.Create(&models.Food{Name: "Nasi Box", Category: "Box Set", ProviderID: created.ID}).Error)
	require.NoError(t, db.Create(&models.Rating{UserID: user.ID, ProviderID: created.ID, Rating: 4}).Error)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/providers/"+created.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var foods, ratings int64
	db.Model(&models.Food{}).Where("provider_id = ?", created.ID).Count(&foods)
	db.Model(&models.Rating{}).Where("provider_id = ?", created.ID).Count(&ratings)
	assert.EqualValues(t, 0, foods)
	assert.EqualValues(t, 0, ratings)

	// Unknown ids are 404s.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/providers/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/officemeals/snack-provider-api/internal/audit"
	"github.com/officemeals/snack-provider-api/internal/auth"
	dbpkg "github.com/officemeals/snack-provider-api/internal/db"
	"github.com/officemeals/snack-provider-api/internal/middleware"
	"github.com/officemeals/snack-provider-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// One connection, or every pooled connection gets its own empty
	// in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func testDispatcher(db *gorm.DB) *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(db))
}

// mockIdentity injects a verified identity the way the real Authenticate
// middleware does, bypassing token parsing.
func mockIdentity(identity *auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextIdentity, identity)
		c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, name, email, password, role string) *models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProvider(t *testing.T, db *gorm.DB, name string) *models.Provider {
	provider := &models.Provider{Name: name}
	require.NoError(t, db.Create(provider).Error)
	return provider
}

func identityOf(user *models.User) *auth.Identity {
	return &auth.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

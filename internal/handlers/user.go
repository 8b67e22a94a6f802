package handlers

import (
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler exposes public profiles. Users are addressed by opaque UUID, so
// numeric account IDs never appear in profile URLs.
type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetProfile returns a user's public profile by UUID
// GET /api/users/:publicId
func (h *UserHandler) GetProfile(c *gin.Context) {
	publicID := c.Param("publicId")

	var user models.User
	if err := h.db.Where("public_id = ?", publicID).First(&user).Error; err != nil {
		response.NotFound(c, "user not found")
		return
	}

	response.Success(c, gin.H{
		"public_id":  user.PublicID,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	})
}

// Search finds users by username prefix, for member and friend pickers
// GET /api/users?q=prefix
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if len(q) < 2 {
		response.BadRequest(c, "query must be at least 2 characters")
		return
	}

	var users []models.User
	if err := h.db.Where("username LIKE ?", q+"%").
		Order("username ASC").
		Limit(20).
		Find(&users).Error; err != nil {
		response.ServerError(c, err.Error())
		return
	}

	results := make([]gin.H, 0, len(users))
	for _, u := range users {
		results = append(results, gin.H{
			"id":        u.ID,
			"public_id": u.PublicID,
			"username":  u.Username,
		})
	}

	response.Success(c, results)
}

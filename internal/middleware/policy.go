package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mtakagi/task-tracker-api/internal/constants"
	"github.com/mtakagi/task-tracker-api/internal/database"
	apierrors "github.com/mtakagi/task-tracker-api/internal/errors"
	"github.com/mtakagi/task-tracker-api/internal/models"
)

// Role is the privilege a route declares as data; roleAllows is the single
// policy evaluation shared by every endpoint.
type Role string

const (
	// RoleAuthenticated requires only a valid session
	RoleAuthenticated Role = "authenticated"
	// RoleStaff additionally requires the is_staff flag
	RoleStaff Role = "staff"
)

func roleAllows(role Role, user *models.User) bool {
	switch role {
	case RoleStaff:
		return user.IsStaff
	default:
		return true
	}
}

// RequireRole loads the authenticated user, stores it in the context for
// handlers, and rejects the request when the declared role is not met.
func RequireRole(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			// Session references a user that no longer resolves
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyCurrentUser, user)

		if !roleAllows(role, &user) {
			apierrors.Forbidden(c, "You do not have permission to perform this action.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser retrieves the authenticated user loaded by RequireRole
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(constants.ContextKeyCurrentUser)
	if !exists {
		return models.User{}, false
	}

	user, ok := value.(models.User)
	return user, ok
}

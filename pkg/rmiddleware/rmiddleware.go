package rmiddleware

import (
	"net/http"

	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/gin-gonic/gin"
)

// RoleMiddleware admits only actors holding one of requiredRoles. It must run
// after the auth middleware.
func RoleMiddleware(requiredRoles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := common.ActorFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		if !actor.Is(requiredRoles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Forbidden",
				"message":   "You don't have permission to access this resource",
				"required":  requiredRoles,
				"user_role": actor.Role,
			})
			return
		}
		c.Next()
	}
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(user.RoleAdmin)
}

func CoachMiddleware() gin.HandlerFunc {
	return RoleMiddleware(user.RoleCoach)
}

func PlayerMiddleware() gin.HandlerFunc {
	return RoleMiddleware(user.RolePlayer)
}

// CoachOrAdminMiddleware is a convenience middleware for coach or admin access
func CoachOrAdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(user.RoleCoach, user.RoleAdmin)
}

func RefereeOrAdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(user.RoleReferee, user.RoleAdmin)
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/MUNGAI-JOHN/lu-league/pkg/responses"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// AuthMiddleware verifies the session token and stores the acting account in
// the context. Role and status are re-read from the database on every request.
func AuthMiddleware(issuer *token.Issuer, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := BearerToken(c)
		if !ok {
			responses.Unauthorized(c, "Authorization header is required. Expected: Bearer <token>")
			return
		}

		claims, err := issuer.ParseSession(raw)
		if err != nil {
			responses.Unauthorized(c, "Invalid or expired token")
			return
		}

		var account struct {
			ID     uint
			Role   user.Role
			Status user.Status
		}
		err = db.Table("users").Select("id, role, status").Where("id = ?", claims.AccountID).Take(&account).Error
		if err != nil {
			responses.Unauthorized(c, "User not found or inactive")
			return
		}
		if account.Status != user.StatusApproved {
			responses.Forbidden(c, "Account is not approved")
			return
		}

		actor := common.Actor{ID: account.ID, Role: account.Role}
		common.SetActor(c, actor)

		logger := log.Ctx(c.Request.Context()).With().Uint("actor_id", actor.ID).Str("actor_role", string(actor.Role)).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}

// MustActor returns the acting account or aborts with 401.
func MustActor(c *gin.Context) (common.Actor, bool) {
	actor, err := common.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
		return common.Actor{}, false
	}
	return actor, true
}

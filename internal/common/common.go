package common

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/gin-gonic/gin"
)

const (
	// ContextActorKey is where the auth middleware stores the acting account.
	ContextActorKey = "actor"
)

// Actor is the authenticated account an operation runs on behalf of.
type Actor struct {
	ID   uint      `json:"id"`
	Role user.Role `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// Is reports whether the actor holds any of roles.
func (a Actor) Is(roles ...user.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

func SetActor(c *gin.Context, a Actor) {
	c.Set(ContextActorKey, a)
}

// ActorFromContext retrieves the authenticated actor from the Gin context.
func ActorFromContext(c *gin.Context) (Actor, error) {
	v, exists := c.Get(ContextActorKey)
	if !exists {
		return Actor{}, errors.New("actor not found in context")
	}
	a, ok := v.(Actor)
	if !ok {
		return Actor{}, errors.New("actor in context has unexpected type")
	}
	return a, nil
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(id), nil
}

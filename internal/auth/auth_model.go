package auth

import "github.com/MUNGAI-JOHN/lu-league/internal/user"

const (
	dashboardPrefix = "/dashboard/"
)

// --- DTOs for requests ---

type RegisterPhase1Request struct {
	Name     string    `json:"name" binding:"required,min=2,max=100"`
	Email    string    `json:"email" binding:"required,email"`
	Phone    string    `json:"phone" binding:"omitempty,max=20"`
	Password string    `json:"password" binding:"required,min=6,max=72"`
	Role     user.Role `json:"role" binding:"required,oneof=coach referee player"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type CreateUserRequest struct {
	Name     string      `json:"name" binding:"required,min=2,max=100"`
	Email    string      `json:"email" binding:"required,email"`
	Phone    string      `json:"phone" binding:"omitempty,max=20"`
	Password string      `json:"password" binding:"required,min=6,max=72"`
	Role     user.Role   `json:"role" binding:"required,oneof=admin coach referee player"`
	Status   user.Status `json:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// --- Results ---

// Registration is returned by phase 1 registration.
type Registration struct {
	AccountID uint        `json:"account_id"`
	Role      user.Role   `json:"role"`
	Status    user.Status `json:"status"`
}

// AccountApproval is returned by ApproveAccount. Phase2Token is empty for admins
// and for accounts that have already completed phase 2.
type AccountApproval struct {
	User            *user.User `json:"user"`
	AlreadyApproved bool       `json:"already_approved"`
	Phase2Token     string     `json:"-"`
}

type LoginResult struct {
	Token           string     `json:"token"`
	User            *user.User `json:"user"`
	Phase2Completed bool       `json:"phase2_completed"`
	RedirectTo      string     `json:"redirect_to"`
	// Phase2Token is set only while phase 2 is outstanding.
	Phase2Token string `json:"phase2_token,omitempty"`
}

// Phase2Identity is the decoded content of a continuation credential.
type Phase2Identity struct {
	AccountID uint        `json:"account_id"`
	Role      user.Role   `json:"role"`
	Status    user.Status `json:"status"`
}

// RedirectFor picks the frontend route a user lands on after login.
func RedirectFor(role user.Role, phase2Completed bool) string {
	if role == user.RoleAdmin {
		return dashboardPrefix + string(role)
	}
	if !phase2Completed {
		return "/register/" + string(role) + "-details"
	}
	return dashboardPrefix + string(role)
}

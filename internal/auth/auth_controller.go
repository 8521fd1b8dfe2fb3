package auth

import (
	"context"
	"net/http"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/MUNGAI-JOHN/lu-league/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// TeamJoiner files the membership request a player named during phase 2.
type TeamJoiner interface {
	JoinAfterRegistration(ctx context.Context, actor common.Actor, details profile.PlayerDetails) (*profile.Player, error)
}

type AuthController struct {
	service *AuthService
	joiner  TeamJoiner
}

func NewAuthController(service *AuthService, joiner TeamJoiner) *AuthController {
	return &AuthController{service: service, joiner: joiner}
}

// RegisterPhase1 godoc
// @Summary Register an account (phase 1)
// @Description Creates a pending coach, referee or player account. An admin must approve it before login.
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body RegisterPhase1Request true "Account data"
// @Success 201 {object} responses.SuccessResponse{data=Registration}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Email already registered"
// @Router /auth/register-phase1 [post]
func (ac *AuthController) RegisterPhase1(c *gin.Context) {
	var req RegisterPhase1Request
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}

	reg, err := ac.service.RegisterPhase1(c.Request.Context(), req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Registration received. Wait for admin approval.", reg)
}

// Login godoc
// @Summary Log in
// @Description Returns a session token, whether phase 2 is complete and where the client should go next.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} responses.SuccessResponse{data=LoginResult}
// @Failure 401 {object} responses.ErrorResponse "Bad credentials"
// @Failure 403 {object} responses.ErrorResponse "Account not approved"
// @Failure 404 {object} responses.ErrorResponse "Account not found"
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}

	result, err := ac.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Login successful", result)
}

// VerifyToken godoc
// @Summary Decode a phase 2 token
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body VerifyTokenRequest true "Phase 2 token"
// @Success 200 {object} responses.SuccessResponse{data=Phase2Identity}
// @Failure 401 {object} responses.ErrorResponse
// @Router /auth/verify-token [post]
func (ac *AuthController) VerifyToken(c *gin.Context) {
	var req VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}
	identity, err := ac.service.VerifyPhase2Token(c.Request.Context(), req.Token)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Token is valid", identity)
}

// RegisterPhase2 godoc
// @Summary Complete registration (phase 2)
// @Description Creates the role profile. Requires the phase 2 token from the approval email as a Bearer token. Players may name a team by id, coach or join code.
// @Tags Auth
// @Accept json
// @Produce json
// @Param role path string true "coach, referee or player"
// @Success 201 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Phase 2 already completed"
// @Security ApiKeyAuth
// @Router /auth/register-phase2/{role} [post]
func (ac *AuthController) RegisterPhase2(c *gin.Context) {
	raw, ok := middleware.BearerToken(c)
	if !ok {
		responses.Unauthorized(c, "Phase 2 token is required")
		return
	}

	var details profile.Details
	var player *profile.PlayerDetails
	switch user.Role(c.Param("role")) {
	case user.RoleCoach:
		var d profile.CoachDetails
		if err := c.ShouldBindJSON(&d); err != nil {
			responses.SendBindError(c, err)
			return
		}
		details = d
	case user.RoleReferee:
		var d profile.RefereeDetails
		if err := c.ShouldBindJSON(&d); err != nil {
			responses.SendBindError(c, err)
			return
		}
		details = d
	case user.RolePlayer:
		var d profile.PlayerDetails
		if err := c.ShouldBindJSON(&d); err != nil {
			responses.SendBindError(c, err)
			return
		}
		details, player = d, &d
	default:
		responses.BadRequest(c, "role must be coach, referee or player")
		return
	}

	created, err := ac.service.CompletePhase2(c.Request.Context(), raw, details)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}

	body := gin.H{"profile": created}
	if p, ok := created.(*profile.Player); ok && player != nil && player.WantsTeam() && ac.joiner != nil {
		actor := common.Actor{ID: p.UserID, Role: user.RolePlayer}
		joined, err := ac.joiner.JoinAfterRegistration(c.Request.Context(), actor, *player)
		if err != nil {
			log.Ctx(c.Request.Context()).Warn().Err(err).Uint("account_id", p.UserID).Msg("Team request after phase 2 failed")
			body["membership_error"] = apperr.Message(err)
		} else {
			body["profile"] = joined
		}
	}
	responses.SendSuccess(c, http.StatusCreated, "Phase 2 registration completed", body)
}

// --- Admin handlers ---

// ListUsers godoc
// @Summary List accounts
// @Tags Admin
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} responses.SuccessResponse{data=[]user.User}
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (ac *AuthController) ListUsers(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	users, err := ac.service.ListUsers(actor, user.Status(c.Query("status")))
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Users retrieved successfully", users)
}

// ListPendingUsers godoc
// @Summary List accounts awaiting approval
// @Tags Admin
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]user.User}
// @Security ApiKeyAuth
// @Router /admin/users/pending [get]
func (ac *AuthController) ListPendingUsers(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	users, err := ac.service.ListPendingAccounts(actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Pending users retrieved successfully", users)
}

// CreateUser godoc
// @Summary Create an account as admin
// @Tags Admin
// @Accept json
// @Produce json
// @Param account body CreateUserRequest true "Account data"
// @Success 201 {object} responses.SuccessResponse{data=user.User}
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users [post]
func (ac *AuthController) CreateUser(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}
	u, err := ac.service.CreateUser(c.Request.Context(), actor, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "User created successfully", u)
}

// GetUser godoc
// @Summary Get an account
// @Tags Admin
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} responses.SuccessResponse{data=user.User}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id} [get]
func (ac *AuthController) GetUser(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	u, err := ac.service.GetUser(actor, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User retrieved successfully", u)
}

// ApproveUser godoc
// @Summary Approve an account
// @Description Approves the account and emails a phase 2 registration link. Approving an approved account resends the link while phase 2 is outstanding.
// @Tags Admin
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} responses.SuccessResponse{data=AccountApproval}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id}/approve [put]
func (ac *AuthController) ApproveUser(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	approval, err := ac.service.ApproveAccount(c.Request.Context(), actor, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	msg := "User approved and phase 2 link sent"
	switch {
	case approval.AlreadyApproved && approval.Phase2Token != "":
		msg = "User already approved, phase 2 link resent"
	case approval.AlreadyApproved:
		msg = "User already approved"
	case approval.Phase2Token == "":
		msg = "User approved"
	}
	responses.SendSuccess(c, http.StatusOK, msg, approval)
}

// RejectUser godoc
// @Summary Reject an account
// @Tags Admin
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} responses.SuccessResponse{data=user.User}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id}/reject [put]
func (ac *AuthController) RejectUser(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	u, err := ac.service.RejectAccount(c.Request.Context(), actor, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User rejected", u)
}

// DeleteUser godoc
// @Summary Delete an account without a profile
// @Tags Admin
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 409 {object} responses.ErrorResponse "Account has a profile"
// @Security ApiKeyAuth
// @Router /admin/users/{id} [delete]
func (ac *AuthController) DeleteUser(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := ac.service.DeleteUser(c.Request.Context(), actor, id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User deleted", nil)
}

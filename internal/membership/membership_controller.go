package membership

import (
	"net/http"
	"strconv"

	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/pkg/responses"
	"github.com/gin-gonic/gin"
)

type MembershipController struct {
	service *MembershipService
}

func NewMembershipController(service *MembershipService) *MembershipController {
	return &MembershipController{service: service}
}

// RequestMembership godoc
// @Summary Ask to join a team
// @Description Players name a team by id, coach id or join code. A valid join code approves at once.
// @Tags Membership
// @Accept json
// @Produce json
// @Param request body JoinRequest true "Target team"
// @Success 200 {object} responses.SuccessResponse{data=profile.Player}
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Already on a team"
// @Security ApiKeyAuth
// @Router /players/membership [post]
func (mc *MembershipController) RequestMembership(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}
	player, err := mc.service.RequestMembership(c.Request.Context(), actor, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	msg := "Membership request sent to the coach"
	if player.TeamApproval == profile.TeamApprovalApproved {
		msg = "Joined team with join code"
	}
	responses.SendSuccess(c, http.StatusOK, msg, player)
}

// ListPending godoc
// @Summary Pending membership requests
// @Tags Membership
// @Produce json
// @Param coach_id query int false "Coach profile id (admins only)"
// @Success 200 {object} responses.SuccessResponse{data=[]PendingPlayer}
// @Security ApiKeyAuth
// @Router /players/pending [get]
func (mc *MembershipController) ListPending(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var coachID uint
	if raw := c.Query("coach_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			responses.BadRequest(c, "invalid coach_id")
			return
		}
		coachID = uint(id)
	}
	players, err := mc.service.ListPendingMemberships(actor, coachID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Pending players retrieved successfully", players)
}

// Approve godoc
// @Summary Approve a membership request
// @Tags Membership
// @Accept json
// @Produce json
// @Param id path int true "Player profile ID"
// @Param request body ApproveRequest false "Team, defaults to the coach's team"
// @Success 200 {object} responses.SuccessResponse{data=profile.Player}
// @Failure 403 {object} responses.ErrorResponse "Coach does not own the team"
// @Security ApiKeyAuth
// @Router /players/{id}/approve [put]
func (mc *MembershipController) Approve(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	playerID, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.SendBindError(c, err)
			return
		}
	}
	var teamID uint
	if req.TeamID != nil {
		teamID = *req.TeamID
	}
	player, err := mc.service.ApproveMembership(c.Request.Context(), actor, playerID, teamID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Player approved", player)
}

// Reject godoc
// @Summary Reject a membership request
// @Tags Membership
// @Produce json
// @Param id path int true "Player profile ID"
// @Success 200 {object} responses.SuccessResponse{data=profile.Player}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /players/{id}/reject [put]
func (mc *MembershipController) Reject(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	playerID, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	player, err := mc.service.RejectMembership(c.Request.Context(), actor, playerID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Player rejected", player)
}

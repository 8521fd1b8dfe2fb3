package team

import (
	"net/http"
	"strconv"

	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/responses"
	"github.com/gin-gonic/gin"
)

// TeamController handles team-related HTTP requests
type TeamController struct {
	service *TeamService
}

// NewTeamController creates a new team controller
func NewTeamController(service *TeamService) *TeamController {
	return &TeamController{service: service}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	return page, limit
}

// CreateTeam godoc
// @Summary Create a team
// @Description Coaches create their own team, pending admin approval. Admins must pass coach_id and the team is approved at once.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team data"
// @Success 201 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Coach already owns a team or name taken"
// @Security ApiKeyAuth
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}
	team, err := tc.service.CreateTeam(c.Request.Context(), actor, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Team created successfully", team)
}

// GetAllTeams godoc
// @Summary List teams
// @Tags Teams
// @Produce json
// @Param status query string false "pending or approved"
// @Param name query string false "Name contains"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} responses.PaginatedResponse{data=[]Team}
// @Router /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	page, limit := pageParams(c)
	filter := ListFilter{
		Status: ApprovalStatus(c.Query("status")),
		Name:   c.Query("name"),
		Page:   page,
		Limit:  limit,
	}
	teams, total, err := tc.service.ListTeams(filter)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Teams retrieved successfully", teams, total, page, limit)
}

// GetPendingTeams godoc
// @Summary List teams awaiting approval
// @Tags Teams
// @Produce json
// @Success 200 {object} responses.PaginatedResponse{data=[]Team}
// @Security ApiKeyAuth
// @Router /teams/pending [get]
func (tc *TeamController) GetPendingTeams(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	teams, total, err := tc.service.ListPendingTeams(actor, page, limit)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Pending teams retrieved successfully", teams, total, page, limit)
}

// GetMyTeam godoc
// @Summary Team owned by the current coach
// @Tags Teams
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/mine [get]
func (tc *TeamController) GetMyTeam(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	team, err := tc.service.MyTeam(actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team retrieved successfully", team)
}

// GetTeamByID godoc
// @Summary Get a team
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	team, err := tc.service.GetTeam(teamID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team retrieved successfully", team)
}

// UpdateTeam godoc
// @Summary Update a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param team body UpdateTeamRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/{id} [put]
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	teamID, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}
	team, err := tc.service.UpdateTeam(c.Request.Context(), actor, teamID, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team updated successfully", team)
}

// ApproveTeam godoc
// @Summary Approve a team
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Security ApiKeyAuth
// @Router /teams/{id}/approve [put]
func (tc *TeamController) ApproveTeam(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	teamID, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	team, err := tc.service.ApproveTeam(c.Request.Context(), actor, teamID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team approved", team)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Description Fails while any match references the team.
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/{id} [delete]
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	teamID, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := tc.service.DeleteTeam(c.Request.Context(), actor, teamID); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team deleted successfully", nil)
}

package match

import (
	"net/http"
	"strconv"

	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/responses"
	"github.com/gin-gonic/gin"
)

// MatchController handles fixture and result requests.
type MatchController struct {
	matches *MatchService
	results *ResultService
}

// NewMatchController creates a new MatchController.
func NewMatchController(matches *MatchService, results *ResultService) *MatchController {
	return &MatchController{matches: matches, results: results}
}

// CreateMatch godoc
// @Summary Schedule a match
// @Tags Matches
// @Accept json
// @Produce json
// @Param match body CreateMatchRequest true "Fixture"
// @Success 201 {object} responses.SuccessResponse{data=Match}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Duplicate fixture or unapproved team"
// @Security ApiKeyAuth
// @Router /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}
	match, err := mc.matches.CreateMatch(c.Request.Context(), actor, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Match scheduled successfully", match)
}

// GetMatches godoc
// @Summary List matches
// @Tags Matches
// @Produce json
// @Param team_id query int false "Home or away team"
// @Param status query string false "scheduled, completed, cancelled or postponed"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} responses.PaginatedResponse{data=[]Match}
// @Router /matches [get]
func (mc *MatchController) GetMatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	teamID, _ := strconv.ParseUint(c.Query("team_id"), 10, 32)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	filter := MatchFilter{
		TeamID: uint(teamID),
		Status: MatchStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	}
	matches, total, err := mc.matches.ListMatches(filter)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Matches retrieved successfully", matches, total, page, limit)
}

// GetMatchByID godoc
// @Summary Get a match
// @Tags Matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	match, err := mc.matches.GetMatch(id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match retrieved successfully", match)
}

// DeleteMatch godoc
// @Summary Delete a match without a result
// @Tags Matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /matches/{id} [delete]
func (mc *MatchController) DeleteMatch(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := mc.matches.DeleteMatch(c.Request.Context(), actor, id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match deleted successfully", nil)
}

// --- Results ---

// SubmitResult godoc
// @Summary Submit a match result
// @Description Referees may submit results only for matches they officiate.
// @Tags Results
// @Accept json
// @Produce json
// @Param result body SubmitResultRequest true "Score line"
// @Success 201 {object} responses.SuccessResponse{data=Result}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Match already has a result"
// @Security ApiKeyAuth
// @Router /results [post]
func (mc *MatchController) SubmitResult(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	var req SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}
	result, err := mc.results.SubmitResult(c.Request.Context(), actor, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Result submitted, awaiting approval", result)
}

// EditResult godoc
// @Summary Edit an unapproved result
// @Tags Results
// @Accept json
// @Produce json
// @Param id path int true "Result ID"
// @Param result body EditResultRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=Result}
// @Failure 409 {object} responses.ErrorResponse "Result is approved"
// @Security ApiKeyAuth
// @Router /results/{id} [put]
func (mc *MatchController) EditResult(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req EditResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendBindError(c, err)
		return
	}
	result, err := mc.results.EditResult(c.Request.Context(), actor, id, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Result updated successfully", result)
}

// GetResults godoc
// @Summary List results
// @Tags Results
// @Produce json
// @Param approved query bool false "Filter by approval"
// @Param match_id query int false "Filter by match"
// @Success 200 {object} responses.SuccessResponse{data=[]Result}
// @Router /results [get]
func (mc *MatchController) GetResults(c *gin.Context) {
	var filter ResultFilter
	if raw := c.Query("approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			responses.BadRequest(c, "approved must be true or false")
			return
		}
		filter.Approved = &approved
	}
	if raw := c.Query("match_id"); raw != "" {
		matchID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			responses.BadRequest(c, "invalid match_id")
			return
		}
		filter.MatchID = uint(matchID)
	}
	results, err := mc.results.ListResults(filter)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Results retrieved successfully", results)
}

// GetResultByID godoc
// @Summary Get a result
// @Tags Results
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} responses.SuccessResponse{data=Result}
// @Failure 404 {object} responses.ErrorResponse
// @Router /results/{id} [get]
func (mc *MatchController) GetResultByID(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	result, err := mc.results.GetResult(id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Result retrieved successfully", result)
}

// ApproveResult godoc
// @Summary Approve a result
// @Description Adds the result to the league table exactly once. Approving again is a no-op.
// @Tags Results
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} responses.SuccessResponse{data=ApprovalOutcome}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /results/{id}/approve [put]
func (mc *MatchController) ApproveResult(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	outcome, err := mc.results.ApproveResult(c.Request.Context(), actor, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	msg := "Result approved and standings updated"
	switch {
	case outcome.AlreadyApproved:
		msg = "Result already approved"
	case outcome.Warning != "":
		msg = "Result approved; standings not updated"
	}
	responses.SendSuccess(c, http.StatusOK, msg, outcome)
}

// UnapproveResult godoc
// @Summary Unapprove a result
// @Description Removes the result from the league table so it can be edited.
// @Tags Results
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} responses.SuccessResponse{data=ApprovalOutcome}
// @Security ApiKeyAuth
// @Router /results/{id}/unapprove [put]
func (mc *MatchController) UnapproveResult(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	outcome, err := mc.results.UnapproveResult(c.Request.Context(), actor, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Result unapproved", outcome)
}

// DeleteResult godoc
// @Summary Delete a result
// @Tags Results
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /results/{id} [delete]
func (mc *MatchController) DeleteResult(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := mc.results.DeleteResult(c.Request.Context(), actor, id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Result deleted successfully", nil)
}

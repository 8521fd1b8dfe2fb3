package standings

import (
	"net/http"

	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/responses"
	"github.com/gin-gonic/gin"
)

type StandingsController struct {
	engine *Engine
}

func NewStandingsController(engine *Engine) *StandingsController {
	return &StandingsController{engine: engine}
}

// GetTable godoc
// @Summary League table
// @Description Ordered by points, goal difference, then goals scored.
// @Tags Standings
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]StandingRow}
// @Router /standings [get]
func (sc *StandingsController) GetTable(c *gin.Context) {
	rows, err := sc.engine.RankedTable()
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Standings retrieved successfully", rows)
}

// GetTeamStanding godoc
// @Summary Standing of one team
// @Tags Standings
// @Produce json
// @Param teamId path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=StandingRow}
// @Failure 404 {object} responses.ErrorResponse
// @Router /standings/{teamId} [get]
func (sc *StandingsController) GetTeamStanding(c *gin.Context) {
	teamID, err := common.ParseIDParam(c, "teamId")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	row, err := sc.engine.TeamStanding(teamID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Standing retrieved successfully", row)
}

// Recalculate godoc
// @Summary Rebuild the table from approved results
// @Tags Standings
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=RecalculateSummary}
// @Security ApiKeyAuth
// @Router /standings/recalculate [post]
func (sc *StandingsController) Recalculate(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	summary, err := sc.engine.RecalculateAsAdmin(c.Request.Context(), actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Standings recalculated", summary)
}

package profile

import (
	"net/http"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/MUNGAI-JOHN/lu-league/pkg/responses"
	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	repo Repository
}

func NewProfileController(repo Repository) *ProfileController {
	return &ProfileController{repo: repo}
}

// ForActor loads the role profile of the acting account.
func ForActor(repo Repository, actor common.Actor) (any, error) {
	var (
		found any
		err   error
	)
	switch actor.Role {
	case user.RoleCoach:
		var p *Coach
		p, err = repo.GetCoachByUserID(actor.ID)
		if p != nil {
			found = p
		}
	case user.RoleReferee:
		var p *Referee
		p, err = repo.GetRefereeByUserID(actor.ID)
		if p != nil {
			found = p
		}
	case user.RolePlayer:
		var p *Player
		p, err = repo.GetPlayerByUserID(actor.ID)
		if p != nil {
			found = p
		}
	default:
		return nil, apperr.NotFound("%s accounts have no profile", actor.Role)
	}
	if err != nil {
		return nil, apperr.Internal("load profile", err)
	}
	if found == nil {
		return nil, apperr.NotFound("profile not found; complete phase 2 registration")
	}
	return found, nil
}

// GetMyProfile godoc
// @Summary Role profile of the current account
// @Tags Profiles
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Phase 2 not completed"
// @Security ApiKeyAuth
// @Router /profiles/me [get]
func (pc *ProfileController) GetMyProfile(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	p, err := ForActor(pc.repo, actor)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile retrieved successfully", p)
}

package membership

import (
	"strings"

	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
)

// JoinRequest names the team a player wants to join. Exactly one target is
// used, in the order join code, team id, coach id.
type JoinRequest struct {
	TeamID   *uint  `json:"team_id"`
	CoachID  *uint  `json:"coach_id"`
	JoinCode string `json:"join_code" binding:"omitempty,max=10"`
}

func (r JoinRequest) normalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(r.JoinCode))
}

func (r JoinRequest) empty() bool {
	return r.TeamID == nil && r.CoachID == nil && r.normalizedCode() == ""
}

type ApproveRequest struct {
	// TeamID defaults to the team owned by the acting coach.
	TeamID *uint `json:"team_id"`
}

// PendingPlayer is a membership request as a coach sees it.
type PendingPlayer struct {
	profile.Player
	Name  string `json:"name"`
	Email string `json:"email"`
}

package standings

import (
	"fmt"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/models"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// StandingRow is the running total for one team, derived only from approved
// results. GoalDifference is always GoalsFor - GoalsAgainst, Points is always
// 3*Wins + Draws and Played is always Wins + Draws + Losses.
type StandingRow struct {
	models.Model
	TeamID         uint   `json:"team_id" gorm:"uniqueIndex;not null"`
	TeamName       string `json:"team_name,omitempty" gorm:"->;-:migration"`
	Played         int    `json:"played" gorm:"not null;default:0"`
	Wins           int    `json:"wins" gorm:"not null;default:0"`
	Draws          int    `json:"draws" gorm:"not null;default:0"`
	Losses         int    `json:"losses" gorm:"not null;default:0"`
	GoalsFor       int    `json:"goals_for" gorm:"not null;default:0"`
	GoalsAgainst   int    `json:"goals_against" gorm:"not null;default:0"`
	GoalDifference int    `json:"goal_difference" gorm:"not null;default:0"`
	Points         int    `json:"points" gorm:"not null;default:0"`
}

// Outcome is one approved match result as seen by the table.
type Outcome struct {
	HomeTeamID uint
	AwayTeamID uint
	HomeGoals  int
	AwayGoals  int
}

func (o Outcome) Validate() error {
	if o.HomeTeamID == 0 || o.AwayTeamID == 0 {
		return apperr.Validation("both team ids are required")
	}
	if o.HomeTeamID == o.AwayTeamID {
		return apperr.Validation("a team cannot play itself")
	}
	if o.HomeGoals < 0 || o.AwayGoals < 0 {
		return apperr.Validation("scores cannot be negative")
	}
	return nil
}

func (o Outcome) String() string {
	return fmt.Sprintf("%d %d-%d %d", o.HomeTeamID, o.HomeGoals, o.AwayGoals, o.AwayTeamID)
}

// tally is what one team earns from one match: exactly one of win, draw or
// loss, and the matching points.
type tally struct {
	win, draw, loss, points int
}

func tallyFor(goalsFor, goalsAgainst int) tally {
	switch {
	case goalsFor > goalsAgainst:
		return tally{win: 1, points: pointsWin}
	case goalsFor == goalsAgainst:
		return tally{draw: 1, points: pointsDraw}
	default:
		return tally{loss: 1}
	}
}

// RecalculateSummary reports what a full rebuild replayed.
type RecalculateSummary struct {
	Replayed int `json:"replayed"`
	Skipped  int `json:"skipped"`
	Teams    int `json:"teams"`
}

package match

import (
	"time"

	"github.com/MUNGAI-JOHN/lu-league/internal/models"
)

type MatchStatus string

const (
	StatusMatchScheduled MatchStatus = "scheduled"
	StatusMatchCompleted MatchStatus = "completed"
	StatusMatchCancelled MatchStatus = "cancelled"
	StatusMatchPostponed MatchStatus = "postponed"
)

const defaultDurationMinutes = 90

// Match is a fixture between two distinct teams officiated by one referee.
type Match struct {
	models.Model
	HomeTeamID      uint        `json:"home_team_id" gorm:"not null;uniqueIndex:idx_fixture,priority:1"`
	AwayTeamID      uint        `json:"away_team_id" gorm:"not null;uniqueIndex:idx_fixture,priority:2"`
	ScheduledAt     time.Time   `json:"scheduled_at" gorm:"not null;uniqueIndex:idx_fixture,priority:3"`
	RefereeID       uint        `json:"referee_id" gorm:"not null;index"`
	Venue           string      `json:"venue,omitempty" gorm:"size:150"`
	DurationMinutes int         `json:"duration_minutes" gorm:"not null;default:90"`
	Status          MatchStatus `json:"status" gorm:"size:20;not null;default:scheduled;index"`
	CreatedByUserID uint        `json:"created_by_user_id" gorm:"index"`
}

// Result is the single score line of a match. Only approved results count
// toward the league table.
type Result struct {
	models.Model
	MatchID         uint   `json:"match_id" gorm:"uniqueIndex;not null"`
	HomeScore       *int   `json:"home_score"`
	AwayScore       *int   `json:"away_score"`
	HalfTimeScore   string `json:"half_time_score,omitempty" gorm:"size:10"`
	ManOfTheMatchID *uint  `json:"man_of_the_match_id,omitempty" gorm:"index"`
	Notes           string `json:"notes,omitempty" gorm:"type:text"`
	SubmittedByID   uint   `json:"submitted_by_id" gorm:"index"`
	Approved        bool   `json:"approved" gorm:"not null;default:false;index"`
	Match           *Match `json:"match,omitempty" gorm:"foreignKey:MatchID"`
}

// --- DTOs for requests ---

type CreateMatchRequest struct {
	HomeTeamID      uint      `json:"home_team_id" binding:"required"`
	AwayTeamID      uint      `json:"away_team_id" binding:"required,nefield=HomeTeamID"`
	RefereeID       uint      `json:"referee_id" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	Venue           string    `json:"venue" binding:"max=150"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,gte=1,lte=300"`
}

type SubmitResultRequest struct {
	MatchID         uint   `json:"match_id" binding:"required"`
	HomeScore       *int   `json:"home_score" binding:"required,gte=0"`
	AwayScore       *int   `json:"away_score" binding:"required,gte=0"`
	HalfTimeScore   string `json:"half_time_score" binding:"omitempty,max=10"`
	ManOfTheMatchID *uint  `json:"man_of_the_match_id"`
	Notes           string `json:"notes" binding:"max=2000"`
}

type EditResultRequest struct {
	HomeScore       *int    `json:"home_score" binding:"omitempty,gte=0"`
	AwayScore       *int    `json:"away_score" binding:"omitempty,gte=0"`
	HalfTimeScore   *string `json:"half_time_score" binding:"omitempty,max=10"`
	ManOfTheMatchID *uint   `json:"man_of_the_match_id"`
	Notes           *string `json:"notes" binding:"omitempty,max=2000"`
}

type MatchFilter struct {
	TeamID uint
	Status MatchStatus
	Page   int
	Limit  int
}

type ResultFilter struct {
	// Approved nil lists every result.
	Approved *bool
	MatchID  uint
}

// WarningStandingsSkipped marks an approval whose table update did not run.
const WarningStandingsSkipped = "standings_skipped"

// ApprovalOutcome is the result of an approval transition.
type ApprovalOutcome struct {
	Result *Result `json:"result"`
	// AlreadyApproved is set when the call changed nothing.
	AlreadyApproved bool   `json:"already_approved"`
	Warning         string `json:"warning,omitempty"`
	WarningDetail   string `json:"warning_detail,omitempty"`
}

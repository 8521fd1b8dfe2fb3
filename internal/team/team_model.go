// team/model.go
package team

import (
	"github.com/MUNGAI-JOHN/lu-league/internal/models"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
)

// Team is owned by exactly one coach profile. A coach owns at most one team.
type Team struct {
	models.Model
	Name           string         `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Abbreviation   *string        `json:"abbreviation,omitempty" gorm:"size:10;uniqueIndex"`
	FoundedYear    *int           `json:"founded_year,omitempty"`
	City           string         `json:"city,omitempty" gorm:"size:100"`
	StadiumName    string         `json:"stadium_name,omitempty" gorm:"size:100"`
	Country        string         `json:"country,omitempty" gorm:"size:50"`
	TeamLogo       string         `json:"team_logo,omitempty" gorm:"size:255"`
	CoachID        uint           `json:"coach_id" gorm:"uniqueIndex;not null"`
	JoinCode       string         `json:"join_code" gorm:"size:10;uniqueIndex;not null"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"size:20;not null;default:pending;index"`
	CreatedBy      user.Role      `json:"created_by" gorm:"size:20;not null"`
}

// --- DTOs for requests ---

type CreateTeamRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=100"`
	Abbreviation *string `json:"abbreviation" binding:"omitempty,min=2,max=10"`
	FoundedYear  *int    `json:"founded_year" binding:"omitempty,gte=1800,lte=2100"`
	City         string  `json:"city" binding:"max=100"`
	StadiumName  string  `json:"stadium_name" binding:"max=100"`
	Country      string  `json:"country" binding:"max=50"`
	TeamLogo     string  `json:"team_logo" binding:"max=255"`
	// CoachID is required when an admin creates the team and ignored for coaches.
	CoachID *uint `json:"coach_id"`
}

type UpdateTeamRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=100"`
	Abbreviation *string `json:"abbreviation" binding:"omitempty,min=2,max=10"`
	FoundedYear  *int    `json:"founded_year" binding:"omitempty,gte=1800,lte=2100"`
	City         *string `json:"city" binding:"omitempty,max=100"`
	StadiumName  *string `json:"stadium_name" binding:"omitempty,max=100"`
	Country      *string `json:"country" binding:"omitempty,max=50"`
	TeamLogo     *string `json:"team_logo" binding:"omitempty,max=255"`
}

// ListFilter narrows ListTeams. Zero values match everything.
type ListFilter struct {
	Status ApprovalStatus
	Name   string
	Page   int
	Limit  int
}

package profile

import (
	"fmt"
	"time"

	"github.com/MUNGAI-JOHN/lu-league/internal/models"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
)

const dateLayout = "2006-01-02"

// TeamApproval is the state of a player's membership request.
type TeamApproval string

const (
	TeamApprovalPending  TeamApproval = "pending"
	TeamApprovalApproved TeamApproval = "approved"
	TeamApprovalRejected TeamApproval = "rejected"
)

type Coach struct {
	models.Model
	UserID          uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	DateOfBirth     time.Time `json:"date_of_birth" gorm:"type:date;not null"`
	Gender          string    `json:"gender,omitempty" gorm:"size:10"`
	Nationality     string    `json:"nationality,omitempty" gorm:"size:50"`
	Address         string    `json:"address,omitempty" gorm:"size:255"`
	ExperienceYears int       `json:"experience_years" gorm:"default:0"`
	Certifications  string    `json:"certifications,omitempty"`
	ProfileImage    string    `json:"profile_image,omitempty" gorm:"size:255"`
}

type Referee struct {
	models.Model
	UserID             uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	DateOfBirth        time.Time `json:"date_of_birth" gorm:"type:date;not null"`
	Gender             string    `json:"gender,omitempty" gorm:"size:10"`
	Nationality        string    `json:"nationality,omitempty" gorm:"size:50"`
	Address            string    `json:"address,omitempty" gorm:"size:255"`
	CertificationLevel string    `json:"certification_level,omitempty" gorm:"size:50"`
	ExperienceYears    int       `json:"experience_years" gorm:"default:0"`
	MatchesOfficiated  int       `json:"matches_officiated" gorm:"default:0"`
	ProfileImage       string    `json:"profile_image,omitempty" gorm:"size:255"`
}

// Player carries the membership edge: the candidate or current team, its
// coach and the approval state of the request.
type Player struct {
	models.Model
	UserID        uint         `json:"user_id" gorm:"uniqueIndex;not null"`
	DateOfBirth   time.Time    `json:"date_of_birth" gorm:"type:date;not null"`
	Gender        string       `json:"gender,omitempty" gorm:"size:10"`
	Nationality   string       `json:"nationality,omitempty" gorm:"size:50"`
	Position      string       `json:"position,omitempty" gorm:"size:30"`
	IsSubstitute  bool         `json:"is_substitute" gorm:"default:false"`
	JerseyNumber  *int         `json:"jersey_number,omitempty"`
	PreferredFoot string       `json:"preferred_foot,omitempty" gorm:"size:10"`
	Height        float64      `json:"height,omitempty"`
	Weight        float64      `json:"weight,omitempty"`
	InjuryStatus  string       `json:"injury_status" gorm:"size:20;default:healthy"`
	PlayerImage   string       `json:"player_image,omitempty" gorm:"size:255"`
	TeamID        *uint        `json:"team_id,omitempty" gorm:"index"`
	CoachID       *uint        `json:"coach_id,omitempty" gorm:"index"`
	JoinCode      string       `json:"join_code,omitempty" gorm:"size:10"`
	TeamApproval  TeamApproval `json:"team_approval" gorm:"size:20;not null;default:pending;index"`
}

// Details is the role specific payload submitted during phase 2. Exactly one
// variant exists per role.
type Details interface {
	Role() user.Role
	NewProfile(userID uint) (any, error)
}

type CoachDetails struct {
	DateOfBirth     string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Gender          string `json:"gender" binding:"omitempty,max=10"`
	Nationality     string `json:"nationality" binding:"omitempty,max=50"`
	Address         string `json:"address" binding:"omitempty,max=255"`
	ExperienceYears int    `json:"experience_years" binding:"gte=0"`
	Certifications  string `json:"certifications"`
	ProfileImage    string `json:"profile_image" binding:"omitempty,max=255"`
}

func (d CoachDetails) Role() user.Role { return user.RoleCoach }

func (d CoachDetails) NewProfile(userID uint) (any, error) {
	dob, err := parseDate(d.DateOfBirth)
	if err != nil {
		return nil, err
	}
	return &Coach{
		UserID:          userID,
		DateOfBirth:     dob,
		Gender:          d.Gender,
		Nationality:     d.Nationality,
		Address:         d.Address,
		ExperienceYears: d.ExperienceYears,
		Certifications:  d.Certifications,
		ProfileImage:    d.ProfileImage,
	}, nil
}

type RefereeDetails struct {
	DateOfBirth        string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Gender             string `json:"gender" binding:"omitempty,max=10"`
	Nationality        string `json:"nationality" binding:"omitempty,max=50"`
	Address            string `json:"address" binding:"omitempty,max=255"`
	CertificationLevel string `json:"certification_level" binding:"omitempty,max=50"`
	ExperienceYears    int    `json:"experience_years" binding:"gte=0"`
	ProfileImage       string `json:"profile_image" binding:"omitempty,max=255"`
}

func (d RefereeDetails) Role() user.Role { return user.RoleReferee }

func (d RefereeDetails) NewProfile(userID uint) (any, error) {
	dob, err := parseDate(d.DateOfBirth)
	if err != nil {
		return nil, err
	}
	return &Referee{
		UserID:             userID,
		DateOfBirth:        dob,
		Gender:             d.Gender,
		Nationality:        d.Nationality,
		Address:            d.Address,
		CertificationLevel: d.CertificationLevel,
		ExperienceYears:    d.ExperienceYears,
		ProfileImage:       d.ProfileImage,
	}, nil
}

// PlayerDetails may name a team to join. The membership request is filed
// after the profile exists.
type PlayerDetails struct {
	DateOfBirth   string  `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Gender        string  `json:"gender" binding:"omitempty,max=10"`
	Nationality   string  `json:"nationality" binding:"omitempty,max=50"`
	Position      string  `json:"position" binding:"omitempty,max=30"`
	IsSubstitute  bool    `json:"is_substitute"`
	JerseyNumber  *int    `json:"jersey_number" binding:"omitempty,gte=0,lte=99"`
	PreferredFoot string  `json:"preferred_foot" binding:"omitempty,oneof=left right both"`
	Height        float64 `json:"height" binding:"gte=0"`
	Weight        float64 `json:"weight" binding:"gte=0"`
	PlayerImage   string  `json:"player_image" binding:"omitempty,max=255"`

	TeamID   *uint  `json:"team_id"`
	CoachID  *uint  `json:"coach_id"`
	JoinCode string `json:"join_code" binding:"omitempty,max=10"`
}

func (d PlayerDetails) Role() user.Role { return user.RolePlayer }

func (d PlayerDetails) NewProfile(userID uint) (any, error) {
	dob, err := parseDate(d.DateOfBirth)
	if err != nil {
		return nil, err
	}
	return &Player{
		UserID:        userID,
		DateOfBirth:   dob,
		Gender:        d.Gender,
		Nationality:   d.Nationality,
		Position:      d.Position,
		IsSubstitute:  d.IsSubstitute,
		JerseyNumber:  d.JerseyNumber,
		PreferredFoot: d.PreferredFoot,
		Height:        d.Height,
		Weight:        d.Weight,
		InjuryStatus:  "healthy",
		PlayerImage:   d.PlayerImage,
		TeamApproval:  TeamApprovalPending,
	}, nil
}

// WantsTeam reports whether the player named a team to join.
func (d PlayerDetails) WantsTeam() bool {
	return d.TeamID != nil || d.CoachID != nil || d.JoinCode != ""
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date_of_birth must use YYYY-MM-DD: %w", err)
	}
	return t, nil
}

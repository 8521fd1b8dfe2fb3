package user

import "github.com/MUNGAI-JOHN/lu-league/internal/models"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCoach   Role = "coach"
	RoleReferee Role = "referee"
	RolePlayer  Role = "player"
)

// SelfRegistrable reports whether accounts of this role may sign themselves up.
func (r Role) SelfRegistrable() bool {
	return r == RoleCoach || r == RoleReferee || r == RolePlayer
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r.SelfRegistrable()
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// User is a league account. Role specific attributes live in the profile tables.
type User struct {
	models.Model
	Name            string `json:"name" gorm:"size:100;not null"`
	Email           string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Phone           string `json:"phone,omitempty" gorm:"size:20"`
	Password        string `json:"-" gorm:"size:255;not null"`
	Role            Role   `json:"role" gorm:"size:20;not null;index"`
	Status          Status `json:"status" gorm:"size:20;not null;default:pending;index"`
	Phase2Completed bool   `json:"phase2_completed" gorm:"not null;default:false"`
}

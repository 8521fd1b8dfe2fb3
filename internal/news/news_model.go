// news/model.go
package news

import (
	"github.com/MUNGAI-JOHN/lu-league/internal/models"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// News is a post by any approved account. Only approved posts are public.
type News struct {
	models.Model
	AuthorID   uint      `json:"author_id" gorm:"index;not null"`
	AuthorName string    `json:"author_name,omitempty" gorm:"->;-:migration"`
	Title      string    `json:"title" gorm:"size:255;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	ImageURL   string    `json:"image_url,omitempty" gorm:"size:500"`
	Role       user.Role `json:"role" gorm:"size:50;not null"`
	Status     Status    `json:"status" gorm:"size:50;not null;default:pending;index"`
}

// TableName keeps the table singular.
func (News) TableName() string {
	return "news"
}

type CreateNewsRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=255"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url" binding:"omitempty,url,max=500"`
}

type UpdateNewsRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=3,max=255"`
	Content  *string `json:"content" binding:"omitempty,min=1"`
	ImageURL *string `json:"image_url" binding:"omitempty,max=500"`
}

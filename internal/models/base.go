// internal/models/base.go
package models

import "time"

// Model is gorm.Model without soft deletes. Unique keys such as email,
// join code and one result per match must be reusable once a row is removed.
type Model struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

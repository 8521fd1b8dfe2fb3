package profile

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	GetCoachByID(id uint) (*Coach, error)
	GetCoachByUserID(userID uint) (*Coach, error)
	GetRefereeByID(id uint) (*Referee, error)
	GetRefereeByUserID(userID uint) (*Referee, error)
	GetPlayerByID(id uint) (*Player, error)
	GetPlayerByUserID(userID uint) (*Player, error)
	// ExistsForUser reports whether any role profile references the account.
	ExistsForUser(userID uint) (bool, error)
	Create(profile any) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// first returns nil, nil when no row matches.
func first[T any](db *gorm.DB, query string, args ...any) (*T, error) {
	var out T
	if err := db.Where(query, args...).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *repository) GetCoachByID(id uint) (*Coach, error) {
	return first[Coach](r.db, "id = ?", id)
}

func (r *repository) GetCoachByUserID(userID uint) (*Coach, error) {
	return first[Coach](r.db, "user_id = ?", userID)
}

func (r *repository) GetRefereeByID(id uint) (*Referee, error) {
	return first[Referee](r.db, "id = ?", id)
}

func (r *repository) GetRefereeByUserID(userID uint) (*Referee, error) {
	return first[Referee](r.db, "user_id = ?", userID)
}

func (r *repository) GetPlayerByID(id uint) (*Player, error) {
	return first[Player](r.db, "id = ?", id)
}

func (r *repository) GetPlayerByUserID(userID uint) (*Player, error) {
	return first[Player](r.db, "user_id = ?", userID)
}

func (r *repository) ExistsForUser(userID uint) (bool, error) {
	for _, model := range []any{&Coach{}, &Referee{}, &Player{}} {
		var count int64
		if err := r.db.Model(model).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *repository) Create(profile any) error {
	return r.db.Create(profile).Error
}

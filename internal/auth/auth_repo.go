package auth

import (
	"errors"

	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(u *user.User) error
	GetUserByEmail(email string) (*user.User, error)
	GetUserByID(id uint) (*user.User, error)
	ListUsers(status user.Status) ([]user.User, error)
	// SetStatus writes the status and reports whether the row changed.
	SetStatus(id uint, status user.Status) (bool, error)
	// MarkPhase2Completed flips the flag false -> true and reports whether it did.
	MarkPhase2Completed(id uint) (bool, error)
	DeleteUser(id uint) error

	Profiles() profile.Repository
	WithTransaction(txFunc func(AuthRepository) error) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *authRepository) GetUserByEmail(email string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) ListUsers(status user.Status) ([]user.User, error) {
	var users []user.User
	query := r.db.Order("created_at ASC, id ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *authRepository) SetStatus(id uint, status user.Status) (bool, error) {
	result := r.db.Model(&user.User{}).
		Where("id = ? AND status <> ?", id, status).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *authRepository) MarkPhase2Completed(id uint) (bool, error) {
	result := r.db.Model(&user.User{}).
		Where("id = ? AND phase2_completed = ?", id, false).
		Update("phase2_completed", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *authRepository) DeleteUser(id uint) error {
	return r.db.Delete(&user.User{}, id).Error
}

func (r *authRepository) Profiles() profile.Repository {
	return profile.NewRepository(r.db)
}

func (r *authRepository) WithTransaction(txFunc func(AuthRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&authRepository{db: tx})
	})
}

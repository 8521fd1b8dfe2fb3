package news

import (
	"errors"

	"gorm.io/gorm"
)

type NewsRepository interface {
	CreateNews(n *News) error
	GetNewsByID(id uint) (*News, error)
	// ListNews returns posts in status, newest first. An empty status lists all.
	ListNews(status Status) ([]News, error)
	ListByAuthor(authorID uint) ([]News, error)
	// UpdatePending saves the editable fields while the post is pending.
	UpdatePending(n *News) (bool, error)
	// Moderate moves a pending post to status and reports whether it did.
	Moderate(id uint, status Status) (bool, error)
	DeleteNews(id uint) error
}

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) withAuthor() *gorm.DB {
	return r.db.Model(&News{}).
		Select("news.*, users.name AS author_name").
		Joins("LEFT JOIN users ON users.id = news.author_id")
}

func (r *newsRepository) CreateNews(n *News) error {
	return r.db.Create(n).Error
}

func (r *newsRepository) GetNewsByID(id uint) (*News, error) {
	var n News
	if err := r.withAuthor().Where("news.id = ?", id).Take(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *newsRepository) ListNews(status Status) ([]News, error) {
	var items []News
	query := r.withAuthor()
	if status != "" {
		query = query.Where("news.status = ?", status)
	}
	if err := query.Order("news.created_at desc, news.id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *newsRepository) ListByAuthor(authorID uint) ([]News, error) {
	var items []News
	err := r.withAuthor().
		Where("news.author_id = ?", authorID).
		Order("news.created_at desc, news.id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *newsRepository) UpdatePending(n *News) (bool, error) {
	result := r.db.Model(&News{}).
		Where("id = ? AND status = ?", n.ID, StatusPending).
		Updates(map[string]interface{}{
			"title":     n.Title,
			"content":   n.Content,
			"image_url": n.ImageURL,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *newsRepository) Moderate(id uint, status Status) (bool, error) {
	result := r.db.Model(&News{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", status)
	return result.RowsAffected > 0, result.Error
}

func (r *newsRepository) DeleteNews(id uint) error {
	return r.db.Delete(&News{}, id).Error
}

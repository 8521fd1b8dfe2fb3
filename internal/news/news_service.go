package news

import (
	"context"
	"strings"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/rs/zerolog/log"
)

// NewsService moderates posts: authors write, admins approve or reject once.
type NewsService struct {
	repo NewsRepository
}

func NewNewsService(repo NewsRepository) *NewsService {
	return &NewsService{repo: repo}
}

func (s *NewsService) CreateNews(ctx context.Context, actor common.Actor, req CreateNewsRequest) (*News, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, apperr.Validation("title and content are required")
	}
	n := &News{
		AuthorID: actor.ID,
		Title:    title,
		Content:  content,
		ImageURL: strings.TrimSpace(req.ImageURL),
		Role:     actor.Role,
		Status:   StatusPending,
	}
	if err := s.repo.CreateNews(n); err != nil {
		return nil, apperr.Internal("create news", err)
	}
	log.Ctx(ctx).Info().Uint("news_id", n.ID).Uint("author_id", actor.ID).Msg("News submitted for review")
	return n, nil
}

// UpdateNews lets the author edit a post until it is moderated.
func (s *NewsService) UpdateNews(ctx context.Context, actor common.Actor, id uint, req UpdateNewsRequest) (*News, error) {
	n, err := s.GetNews(actor, id)
	if err != nil {
		return nil, err
	}
	if n.AuthorID != actor.ID {
		return nil, apperr.Forbidden("only the author can edit this post")
	}
	if n.Status != StatusPending {
		return nil, apperr.Conflict("post is already %s and can no longer be edited", n.Status)
	}

	if req.Title != nil {
		n.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		n.Content = strings.TrimSpace(*req.Content)
	}
	if req.ImageURL != nil {
		n.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if n.Title == "" || n.Content == "" {
		return nil, apperr.Validation("title and content cannot be empty")
	}

	ok, err := s.repo.UpdatePending(n)
	if err != nil {
		return nil, apperr.Internal("update news", err)
	}
	if !ok {
		return nil, apperr.Conflict("post was moderated while you were editing")
	}
	log.Ctx(ctx).Info().Uint("news_id", id).Msg("News updated")
	return n, nil
}

func (s *NewsService) ApproveNews(ctx context.Context, actor common.Actor, id uint) (*News, error) {
	return s.moderate(ctx, actor, id, StatusApproved)
}

func (s *NewsService) RejectNews(ctx context.Context, actor common.Actor, id uint) (*News, error) {
	return s.moderate(ctx, actor, id, StatusRejected)
}

// moderate decides a pending post. Repeating the same decision is a no-op;
// reversing a decision is a conflict.
func (s *NewsService) moderate(ctx context.Context, actor common.Actor, id uint, status Status) (*News, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only admins can moderate news")
	}
	changed, err := s.repo.Moderate(id, status)
	if err != nil {
		return nil, apperr.Internal("moderate news", err)
	}
	n, err := s.GetNews(actor, id)
	if err != nil {
		return nil, err
	}
	if !changed {
		if n.Status == status {
			return n, nil
		}
		return nil, apperr.Conflict("post is already %s", n.Status)
	}
	log.Ctx(ctx).Info().Uint("news_id", id).Str("status", string(status)).Uint("moderated_by", actor.ID).Msg("News moderated")
	return n, nil
}

// ListApprovedNews is the public feed, newest first.
func (s *NewsService) ListApprovedNews() ([]News, error) {
	items, err := s.repo.ListNews(StatusApproved)
	if err != nil {
		return nil, apperr.Internal("list news", err)
	}
	return items, nil
}

func (s *NewsService) ListPendingNews(actor common.Actor) ([]News, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only admins can review pending news")
	}
	items, err := s.repo.ListNews(StatusPending)
	if err != nil {
		return nil, apperr.Internal("list news", err)
	}
	return items, nil
}

// ListMyNews returns every post by the actor whatever its status.
func (s *NewsService) ListMyNews(actor common.Actor) ([]News, error) {
	items, err := s.repo.ListByAuthor(actor.ID)
	if err != nil {
		return nil, apperr.Internal("list news", err)
	}
	return items, nil
}

// GetNews returns an approved post to anyone. Unapproved posts are visible
// to their author and admins only.
func (s *NewsService) GetNews(actor common.Actor, id uint) (*News, error) {
	n, err := s.repo.GetNewsByID(id)
	if err != nil {
		return nil, apperr.Internal("load news", err)
	}
	if n == nil || (n.Status != StatusApproved && !actor.IsAdmin() && n.AuthorID != actor.ID) {
		return nil, apperr.NotFound("news %d not found", id)
	}
	return n, nil
}

func (s *NewsService) DeleteNews(ctx context.Context, actor common.Actor, id uint) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("only admins can delete news")
	}
	if _, err := s.GetNews(actor, id); err != nil {
		return err
	}
	if err := s.repo.DeleteNews(id); err != nil {
		return apperr.Internal("delete news", err)
	}
	log.Ctx(ctx).Info().Uint("news_id", id).Uint("deleted_by", actor.ID).Msg("News deleted")
	return nil
}

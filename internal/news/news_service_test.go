package news

import (
	"context"
	"testing"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/testutil"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
)

var admin = common.Actor{ID: 100, Role: user.RoleAdmin}

func newService(t *testing.T) (*NewsService, common.Actor) {
	t.Helper()
	db := testutil.NewTestDB(t, &user.User{}, &News{})
	author := &user.User{Name: "Amina Otieno", Email: "amina@example.com", Password: "x", Role: user.RoleCoach, Status: user.StatusApproved}
	if err := db.Create(author).Error; err != nil {
		t.Fatalf("seed author: %v", err)
	}
	return NewNewsService(NewNewsRepository(db)), common.Actor{ID: author.ID, Role: author.Role}
}

func post(t *testing.T, s *NewsService, actor common.Actor, title string) *News {
	t.Helper()
	n, err := s.CreateNews(context.Background(), actor, CreateNewsRequest{Title: title, Content: "Match report"})
	if err != nil {
		t.Fatalf("CreateNews() error = %v", err)
	}
	return n
}

func TestNewsModeration(t *testing.T) {
	s, author := newService(t)
	ctx := context.Background()
	n := post(t, s, author, "Derby day")
	if n.Status != StatusPending || n.Role != user.RoleCoach {
		t.Fatalf("created post = %+v", n)
	}

	feed, err := s.ListApprovedNews()
	if err != nil {
		t.Fatalf("ListApprovedNews() error = %v", err)
	}
	if len(feed) != 0 {
		t.Fatalf("pending post in public feed: %+v", feed)
	}
	if _, err := s.GetNews(common.Actor{}, n.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("GetNews(anonymous, pending) error = %v, want not found", err)
	}
	if _, err := s.GetNews(author, n.ID); err != nil {
		t.Fatalf("GetNews(author, pending) error = %v", err)
	}

	if _, err := s.ApproveNews(ctx, author, n.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("ApproveNews() by author error = %v, want forbidden", err)
	}
	for i := 0; i < 2; i++ {
		approved, err := s.ApproveNews(ctx, admin, n.ID)
		if err != nil {
			t.Fatalf("ApproveNews() call %d error = %v", i+1, err)
		}
		if approved.Status != StatusApproved {
			t.Fatalf("status = %s, want approved", approved.Status)
		}
	}
	if _, err := s.RejectNews(ctx, admin, n.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("RejectNews() after approval error = %v, want conflict", err)
	}

	feed, err = s.ListApprovedNews()
	if err != nil {
		t.Fatalf("ListApprovedNews() error = %v", err)
	}
	if len(feed) != 1 || feed[0].AuthorName != "Amina Otieno" {
		t.Fatalf("public feed = %+v", feed)
	}
	if _, err := s.GetNews(common.Actor{}, n.ID); err != nil {
		t.Fatalf("GetNews(anonymous, approved) error = %v", err)
	}
}

func TestNewsEditingWindow(t *testing.T) {
	s, author := newService(t)
	ctx := context.Background()
	n := post(t, s, author, "Transfer rumours")

	title := "Transfer news"
	stranger := common.Actor{ID: author.ID + 1, Role: user.RolePlayer}
	if _, err := s.UpdateNews(ctx, stranger, n.ID, UpdateNewsRequest{Title: &title}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("UpdateNews() by stranger error = %v, want not found", err)
	}
	updated, err := s.UpdateNews(ctx, author, n.ID, UpdateNewsRequest{Title: &title})
	if err != nil {
		t.Fatalf("UpdateNews() error = %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title = %q", updated.Title)
	}

	if _, err := s.RejectNews(ctx, admin, n.ID); err != nil {
		t.Fatalf("RejectNews() error = %v", err)
	}
	if _, err := s.UpdateNews(ctx, author, n.ID, UpdateNewsRequest{Title: &title}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("UpdateNews() after rejection error = %v, want conflict", err)
	}

	mine, err := s.ListMyNews(author)
	if err != nil {
		t.Fatalf("ListMyNews() error = %v", err)
	}
	if len(mine) != 1 || mine[0].Status != StatusRejected {
		t.Fatalf("my posts = %+v", mine)
	}
}

func TestNewsAdminQueue(t *testing.T) {
	s, author := newService(t)
	ctx := context.Background()
	post(t, s, author, "First")
	second := post(t, s, author, "Second")

	if _, err := s.ListPendingNews(author); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("ListPendingNews(author) error = %v, want forbidden", err)
	}
	queue, err := s.ListPendingNews(admin)
	if err != nil {
		t.Fatalf("ListPendingNews() error = %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("queue = %d, want 2", len(queue))
	}

	if err := s.DeleteNews(ctx, author, second.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("DeleteNews() by author error = %v, want forbidden", err)
	}
	if err := s.DeleteNews(ctx, admin, second.ID); err != nil {
		t.Fatalf("DeleteNews() error = %v", err)
	}
	if err := s.DeleteNews(ctx, admin, second.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("second DeleteNews() error = %v, want not found", err)
	}
	if _, err := s.CreateNews(ctx, author, CreateNewsRequest{Title: "   ", Content: "x"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("CreateNews(blank title) error = %v, want validation", err)
	}
}

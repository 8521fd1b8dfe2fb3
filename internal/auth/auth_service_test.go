package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MUNGAI-JOHN/lu-league/config"
	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/testutil"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/MUNGAI-JOHN/lu-league/utils"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

type sentMail struct {
	recipient string
	subject   string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeNotifier) Send(_ context.Context, recipient, subject, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{recipient: recipient, subject: subject})
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

var admin = common.Actor{ID: 9999, Role: user.RoleAdmin}

func newTestService(t *testing.T) (*AuthService, *fakeNotifier) {
	t.Helper()
	return newTestServiceAt(t, clockwork.NewFakeClock())
}

func newTestServiceAt(t *testing.T, clock clockwork.Clock) (*AuthService, *fakeNotifier) {
	t.Helper()
	utils.HashCost = bcrypt.MinCost

	db := testutil.NewTestDB(t, &user.User{}, &profile.Coach{}, &profile.Referee{}, &profile.Player{})
	issuer := token.NewIssuer(token.Options{
		SessionSecret: "session",
		SessionTTL:    time.Hour,
		Phase2Secret:  "phase2",
		Phase2TTL:     24 * time.Hour,
		Clock:         clock,
	})
	mail := &fakeNotifier{}
	return NewAuthService(NewAuthRepository(db), issuer, mail, config.Defaults()), mail
}

func register(t *testing.T, s *AuthService, email string, role user.Role) *Registration {
	t.Helper()
	reg, err := s.RegisterPhase1(context.Background(), RegisterPhase1Request{
		Name:     "Jane Wanjiru",
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("RegisterPhase1() error = %v", err)
	}
	return reg
}

func TestPlayerRegistrationLifecycle(t *testing.T) {
	s, mail := newTestService(t)
	ctx := context.Background()

	reg := register(t, s, "Jane@Example.com", user.RolePlayer)
	if reg.Status != user.StatusPending {
		t.Fatalf("status = %s, want pending", reg.Status)
	}

	if _, err := s.Login(ctx, "jane@example.com", "secret123"); !errors.Is(err, apperr.ErrNotApproved) {
		t.Fatalf("Login() before approval error = %v, want ErrNotApproved", err)
	}

	approval, err := s.ApproveAccount(ctx, admin, reg.AccountID)
	if err != nil {
		t.Fatalf("ApproveAccount() error = %v", err)
	}
	if approval.AlreadyApproved || approval.Phase2Token == "" {
		t.Fatalf("unexpected approval: %+v", approval)
	}
	if mail.count() != 1 || mail.sent[0].recipient != "jane@example.com" {
		t.Fatalf("approval mail = %+v", mail.sent)
	}

	login, err := s.Login(ctx, "jane@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.Phase2Completed || login.RedirectTo != "/register/player-details" || login.Phase2Token == "" {
		t.Fatalf("login before phase 2 = %+v", login)
	}

	details := profile.PlayerDetails{DateOfBirth: "2001-04-12", Position: "midfielder"}
	created, err := s.CompletePhase2(ctx, approval.Phase2Token, details)
	if err != nil {
		t.Fatalf("CompletePhase2() error = %v", err)
	}
	p, ok := created.(*profile.Player)
	if !ok || p.UserID != reg.AccountID || p.TeamApproval != profile.TeamApprovalPending {
		t.Fatalf("created profile = %#v", created)
	}

	retry := profile.PlayerDetails{DateOfBirth: "1999-12-31", Position: "goalkeeper"}
	if _, err := s.CompletePhase2(ctx, login.Phase2Token, retry); !errors.Is(err, apperr.ErrAlreadyCompleted) {
		t.Fatalf("second CompletePhase2() error = %v, want ErrAlreadyCompleted", err)
	}
	stored, err := s.repo.Profiles().GetPlayerByUserID(reg.AccountID)
	if err != nil || stored == nil {
		t.Fatalf("GetPlayerByUserID() = %v, %v", stored, err)
	}
	if stored.ID != p.ID || stored.Position != "midfielder" || stored.DateOfBirth.Format("2006-01-02") != "2001-04-12" {
		t.Fatalf("profile after second submission = %+v, want %+v", stored, p)
	}

	login, err = s.Login(ctx, "jane@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !login.Phase2Completed || login.RedirectTo != "/dashboard/player" || login.Phase2Token != "" {
		t.Fatalf("login after phase 2 = %+v", login)
	}
}

func TestApproveTwiceResendsLinkUntilPhase2(t *testing.T) {
	s, mail := newTestService(t)
	ctx := context.Background()
	reg := register(t, s, "coach@example.com", user.RoleCoach)

	if _, err := s.ApproveAccount(ctx, admin, reg.AccountID); err != nil {
		t.Fatalf("ApproveAccount() error = %v", err)
	}
	again, err := s.ApproveAccount(ctx, admin, reg.AccountID)
	if err != nil {
		t.Fatalf("second ApproveAccount() error = %v", err)
	}
	if !again.AlreadyApproved || again.Phase2Token == "" || again.User.Status != user.StatusApproved {
		t.Fatalf("second approval = %+v", again)
	}
	if mail.count() != 2 {
		t.Fatalf("emails sent = %d, want 2", mail.count())
	}

	if _, err := s.CompletePhase2(ctx, again.Phase2Token, profile.CoachDetails{DateOfBirth: "1980-01-01"}); err != nil {
		t.Fatalf("CompletePhase2() error = %v", err)
	}
	third, err := s.ApproveAccount(ctx, admin, reg.AccountID)
	if err != nil {
		t.Fatalf("third ApproveAccount() error = %v", err)
	}
	if !third.AlreadyApproved || third.Phase2Token != "" {
		t.Fatalf("approval after phase 2 = %+v", third)
	}
	if mail.count() != 2 {
		t.Fatalf("emails sent after phase 2 = %d, want 2", mail.count())
	}
}

func TestApproveRequiresAdmin(t *testing.T) {
	s, _ := newTestService(t)
	reg := register(t, s, "ref@example.com", user.RoleReferee)

	coach := common.Actor{ID: 1, Role: user.RoleCoach}
	if _, err := s.ApproveAccount(context.Background(), coach, reg.AccountID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("ApproveAccount() by coach error = %v, want forbidden", err)
	}
	if _, err := s.ApproveAccount(context.Background(), admin, 424242); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("ApproveAccount() unknown id error = %v, want not found", err)
	}
}

func TestRejectedAccountCannotLogIn(t *testing.T) {
	s, mail := newTestService(t)
	ctx := context.Background()
	reg := register(t, s, "late@example.com", user.RolePlayer)

	if _, err := s.RejectAccount(ctx, admin, reg.AccountID); err != nil {
		t.Fatalf("RejectAccount() error = %v", err)
	}
	if _, err := s.Login(ctx, "late@example.com", "secret123"); !errors.Is(err, apperr.ErrNotApproved) {
		t.Fatalf("Login() after reject error = %v, want ErrNotApproved", err)
	}

	approval, err := s.ApproveAccount(ctx, admin, reg.AccountID)
	if err != nil {
		t.Fatalf("ApproveAccount() error = %v", err)
	}
	if approval.Phase2Token == "" || mail.count() != 1 {
		t.Fatalf("approval after reject = %+v, mails = %d", approval, mail.count())
	}
}

func TestDuplicateEmailIgnoresCase(t *testing.T) {
	s, _ := newTestService(t)
	register(t, s, "dup@example.com", user.RolePlayer)

	_, err := s.RegisterPhase1(context.Background(), RegisterPhase1Request{
		Name:     "Other",
		Email:    "  DUP@example.com",
		Password: "secret123",
		Role:     user.RoleCoach,
	})
	if !errors.Is(err, apperr.ErrDuplicateEmail) {
		t.Fatalf("RegisterPhase1() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestSelfRegistrationRejectsAdmin(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.RegisterPhase1(context.Background(), RegisterPhase1Request{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "secret123",
		Role:     user.RoleAdmin,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("RegisterPhase1(admin) error = %v, want validation", err)
	}
}

func TestLoginFailures(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	reg := register(t, s, "who@example.com", user.RoleReferee)
	if _, err := s.ApproveAccount(ctx, admin, reg.AccountID); err != nil {
		t.Fatalf("ApproveAccount() error = %v", err)
	}

	if _, err := s.Login(ctx, "nobody@example.com", "secret123"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("Login(unknown) error = %v, want not found", err)
	}
	if _, err := s.Login(ctx, "who@example.com", "wrong"); !errors.Is(err, apperr.ErrBadCredentials) {
		t.Fatalf("Login(bad password) error = %v, want ErrBadCredentials", err)
	}
}

func TestPhase2RoleMustMatchToken(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	reg := register(t, s, "player@example.com", user.RolePlayer)
	approval, err := s.ApproveAccount(ctx, admin, reg.AccountID)
	if err != nil {
		t.Fatalf("ApproveAccount() error = %v", err)
	}

	_, err = s.CompletePhase2(ctx, approval.Phase2Token, profile.CoachDetails{DateOfBirth: "1980-01-01"})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("CompletePhase2(coach details) error = %v, want forbidden", err)
	}
	if _, err := s.CompletePhase2(ctx, "not-a-token", profile.PlayerDetails{DateOfBirth: "2000-01-01"}); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("CompletePhase2(garbage) error = %v, want ErrInvalidToken", err)
	}
}

func TestPhase2TokenExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s, _ := newTestServiceAt(t, clock)
	ctx := context.Background()
	reg := register(t, s, "slow@example.com", user.RoleCoach)
	approval, err := s.ApproveAccount(ctx, admin, reg.AccountID)
	if err != nil {
		t.Fatalf("ApproveAccount() error = %v", err)
	}

	clock.Advance(25 * time.Hour)
	details := profile.CoachDetails{DateOfBirth: "1980-01-01"}
	if _, err := s.CompletePhase2(ctx, approval.Phase2Token, details); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("CompletePhase2() after expiry error = %v, want ErrInvalidToken", err)
	}

	login, err := s.Login(ctx, "slow@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := s.CompletePhase2(ctx, login.Token, details); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("CompletePhase2(session token) error = %v, want ErrInvalidToken", err)
	}
	if _, err := s.CompletePhase2(ctx, login.Phase2Token, details); err != nil {
		t.Fatalf("CompletePhase2() with login token error = %v", err)
	}
}

func TestReapprovalAfterExpiryMailsFreshLink(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s, mail := newTestServiceAt(t, clock)
	ctx := context.Background()
	reg := register(t, s, "later@example.com", user.RoleReferee)
	if _, err := s.ApproveAccount(ctx, admin, reg.AccountID); err != nil {
		t.Fatalf("ApproveAccount() error = %v", err)
	}

	clock.Advance(25 * time.Hour)
	again, err := s.ApproveAccount(ctx, admin, reg.AccountID)
	if err != nil {
		t.Fatalf("second ApproveAccount() error = %v", err)
	}
	if again.Phase2Token == "" || mail.count() != 2 {
		t.Fatalf("re-approval = %+v, mails = %d", again, mail.count())
	}
	if _, err := s.CompletePhase2(ctx, again.Phase2Token, profile.RefereeDetails{DateOfBirth: "1975-06-30"}); err != nil {
		t.Fatalf("CompletePhase2() error = %v", err)
	}
}

func TestAdminCreatedCoachGetsPhase2Link(t *testing.T) {
	s, mail := newTestService(t)
	ctx := context.Background()
	u, err := s.CreateUser(ctx, admin, CreateUserRequest{
		Name:     "Direct Coach",
		Email:    "direct@example.com",
		Password: "secret123",
		Role:     user.RoleCoach,
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.Status != user.StatusApproved || u.Phase2Completed {
		t.Fatalf("created coach = %+v", u)
	}
	if mail.count() != 1 || mail.sent[0].recipient != "direct@example.com" {
		t.Fatalf("mail = %+v", mail.sent)
	}

	pending, err := s.CreateUser(ctx, admin, CreateUserRequest{
		Name:     "Waiting Player",
		Email:    "waiting@example.com",
		Password: "secret123",
		Role:     user.RolePlayer,
		Status:   user.StatusPending,
	})
	if err != nil {
		t.Fatalf("CreateUser(pending) error = %v", err)
	}
	if pending.Status != user.StatusPending || mail.count() != 1 {
		t.Fatalf("pending account = %+v, mails = %d", pending, mail.count())
	}

	login, err := s.Login(ctx, "direct@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.RedirectTo != "/register/coach-details" || login.Phase2Token == "" {
		t.Fatalf("login = %+v", login)
	}
	if _, err := s.CompletePhase2(ctx, login.Phase2Token, profile.CoachDetails{DateOfBirth: "1982-02-02"}); err != nil {
		t.Fatalf("CompletePhase2() error = %v", err)
	}
}

func TestDeleteUserWithProfileConflicts(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	reg := register(t, s, "keep@example.com", user.RoleReferee)
	approval, err := s.ApproveAccount(ctx, admin, reg.AccountID)
	if err != nil {
		t.Fatalf("ApproveAccount() error = %v", err)
	}
	if _, err := s.CompletePhase2(ctx, approval.Phase2Token, profile.RefereeDetails{DateOfBirth: "1975-06-30"}); err != nil {
		t.Fatalf("CompletePhase2() error = %v", err)
	}

	if err := s.DeleteUser(ctx, admin, reg.AccountID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("DeleteUser() error = %v, want conflict", err)
	}

	bare := register(t, s, "gone@example.com", user.RolePlayer)
	if err := s.DeleteUser(ctx, admin, bare.AccountID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := s.GetUser(admin, bare.AccountID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("GetUser() after delete error = %v, want not found", err)
	}
}

func TestAdminCreatedAdminSkipsPhase2(t *testing.T) {
	s, mail := newTestService(t)
	ctx := context.Background()
	u, err := s.CreateUser(ctx, admin, CreateUserRequest{
		Name:     "Second Admin",
		Email:    "admin2@example.com",
		Password: "secret123",
		Role:     user.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.Status != user.StatusApproved || !u.Phase2Completed {
		t.Fatalf("created admin = %+v", u)
	}

	login, err := s.Login(ctx, "admin2@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.RedirectTo != "/dashboard/admin" || login.Phase2Token != "" {
		t.Fatalf("login = %+v", login)
	}
	if mail.count() != 0 {
		t.Fatalf("emails sent = %d, want 0", mail.count())
	}
}

func TestRedirectFor(t *testing.T) {
	tests := []struct {
		role      user.Role
		completed bool
		want      string
	}{
		{user.RoleAdmin, false, "/dashboard/admin"},
		{user.RoleAdmin, true, "/dashboard/admin"},
		{user.RoleCoach, false, "/register/coach-details"},
		{user.RoleCoach, true, "/dashboard/coach"},
		{user.RoleReferee, false, "/register/referee-details"},
		{user.RolePlayer, true, "/dashboard/player"},
	}
	for _, tt := range tests {
		if got := RedirectFor(tt.role, tt.completed); got != tt.want {
			t.Errorf("RedirectFor(%s, %v) = %q, want %q", tt.role, tt.completed, got, tt.want)
		}
	}
}

package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/MUNGAI-JOHN/lu-league/config"
	"github.com/MUNGAI-JOHN/lu-league/internal/auth"
	"github.com/MUNGAI-JOHN/lu-league/internal/match"
	"github.com/MUNGAI-JOHN/lu-league/internal/membership"
	"github.com/MUNGAI-JOHN/lu-league/internal/news"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/standings"
	"github.com/MUNGAI-JOHN/lu-league/internal/team"
	"github.com/MUNGAI-JOHN/lu-league/internal/testutil"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/MUNGAI-JOHN/lu-league/utils"
)

var phase2TokenPattern = regexp.MustCompile(`token=([A-Za-z0-9._-]+)`)

// mailbox keeps the last phase 2 token mailed to each recipient.
type mailbox struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *mailbox) Send(_ context.Context, recipient, _, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if found := phase2TokenPattern.FindStringSubmatch(html); found != nil {
		m.tokens[recipient] = found[1]
	}
	return nil
}

func (m *mailbox) token(recipient string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[recipient]
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	mail   *mailbox
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.HashCost = bcrypt.MinCost

	db := testutil.NewTestDB(t,
		&user.User{},
		&profile.Coach{}, &profile.Referee{}, &profile.Player{},
		&team.Team{},
		&match.Match{}, &match.Result{},
		&standings.StandingRow{},
		&news.News{},
	)
	cfg := config.Defaults()
	issuer := token.NewIssuer(token.Options{
		SessionSecret: "session",
		SessionTTL:    time.Hour,
		Phase2Secret:  "phase2",
		Phase2TTL:     time.Hour,
	})
	mail := &mailbox{tokens: map[string]string{}}
	engine := standings.NewEngine(standings.NewRepository(db))
	matchRepo := match.NewGormMatchRepository(db)
	memberships := membership.NewMembershipService(membership.NewRepository(db))

	hash, err := utils.HashPassword("admin-pass")
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	root := &user.User{Name: "League Admin", Email: "admin@example.com", Password: hash, Role: user.RoleAdmin, Status: user.StatusApproved, Phase2Completed: true}
	if err := db.Create(root).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	router := SetupRoutes(Deps{
		DB:         db,
		Issuer:     issuer,
		Auth:       auth.NewAuthService(auth.NewAuthRepository(db), issuer, mail, cfg),
		Teams:      team.NewTeamService(team.NewTeamRepository(db)),
		Membership: memberships,
		Matches:    match.NewMatchService(matchRepo),
		Results:    match.NewResultService(matchRepo, engine),
		Standings:  engine,
		News:       news.NewNewsService(news.NewNewsRepository(db)),
	})
	return &server{t: t, engine: router, mail: mail}
}

func (s *server) do(method, path, bearer string, body any, wantStatus int) envelope {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		s.t.Fatalf("%s %s = %d, want %d: %s", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, raw)
	}
	return out
}

func (s *server) login(email, password string) auth.LoginResult {
	s.t.Helper()
	env := s.do(http.MethodPost, "/api/auth/login", "", auth.LoginRequest{Email: email, Password: password}, http.StatusOK)
	return decode[auth.LoginResult](s.t, env.Data)
}

// onboard registers, approves and completes phase 2 for an account, returning its session token.
func (s *server) onboard(adminToken, email string, role user.Role, details any) string {
	s.t.Helper()
	env := s.do(http.MethodPost, "/api/auth/register-phase1", "", map[string]any{
		"name": "Test " + string(role), "email": email, "password": "secret123", "role": role,
	}, http.StatusCreated)
	reg := decode[auth.Registration](s.t, env.Data)

	s.do(http.MethodPost, "/api/auth/login", "", auth.LoginRequest{Email: email, Password: "secret123"}, http.StatusForbidden)
	s.do(http.MethodPut, "/api/admin/users/"+itoa(reg.AccountID)+"/approve", adminToken, nil, http.StatusOK)

	if got := s.login(email, "secret123"); got.RedirectTo != "/register/"+string(role)+"-details" {
		s.t.Fatalf("redirect before phase 2 = %q", got.RedirectTo)
	}

	phase2 := s.mail.token(email)
	if phase2 == "" {
		s.t.Fatalf("no phase 2 token mailed to %s", email)
	}
	s.do(http.MethodPost, "/api/auth/register-phase2/"+string(role), phase2, details, http.StatusCreated)
	s.do(http.MethodPost, "/api/auth/register-phase2/"+string(role), phase2, details, http.StatusConflict)

	result := s.login(email, "secret123")
	if !result.Phase2Completed || result.RedirectTo != "/dashboard/"+string(role) {
		s.t.Fatalf("login after phase 2 = %+v", result)
	}
	return result.Token
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	s.do(http.MethodGet, "/health", "", nil, http.StatusOK)
}

func TestUnknownRouteAndPanic(t *testing.T) {
	s := newServer(t)
	env := s.do(http.MethodGet, "/api/nowhere", "", nil, http.StatusNotFound)
	if env.Message != "route not found" {
		t.Fatalf("message = %q", env.Message)
	}

	s.engine.GET("/boom", func(*gin.Context) { panic("kaboom") })
	env = s.do(http.MethodGet, "/boom", "", nil, http.StatusInternalServerError)
	if env.Status != "fail" || env.Message == "kaboom" {
		t.Fatalf("panic response = %+v", env)
	}
}

func TestLeagueOnboardingFlow(t *testing.T) {
	s := newServer(t)
	adminToken := s.login("admin@example.com", "admin-pass").Token

	coachToken := s.onboard(adminToken, "coach@example.com", user.RoleCoach, map[string]any{"date_of_birth": "1980-05-01"})

	env := s.do(http.MethodPost, "/api/teams", coachToken, map[string]any{"name": "Lakeside FC"}, http.StatusCreated)
	created := decode[team.Team](t, env.Data)
	if created.ApprovalStatus != team.StatusPending {
		t.Fatalf("team status = %s, want pending", created.ApprovalStatus)
	}
	s.do(http.MethodPut, "/api/teams/"+itoa(created.ID)+"/approve", coachToken, nil, http.StatusForbidden)
	s.do(http.MethodPut, "/api/teams/"+itoa(created.ID)+"/approve", adminToken, nil, http.StatusOK)

	playerToken := s.onboard(adminToken, "player@example.com", user.RolePlayer, map[string]any{
		"date_of_birth": "2004-09-09",
		"join_code":     created.JoinCode,
	})

	env = s.do(http.MethodGet, "/api/profiles/me", playerToken, nil, http.StatusOK)
	player := decode[profile.Player](t, env.Data)
	if player.TeamID == nil || *player.TeamID != created.ID || player.TeamApproval != profile.TeamApprovalApproved {
		t.Fatalf("player after join code = %+v", player)
	}

	env = s.do(http.MethodGet, "/api/players/pending", coachToken, nil, http.StatusOK)
	if pending := decode[[]membership.PendingPlayer](t, env.Data); len(pending) != 0 {
		t.Fatalf("pending requests = %+v", pending)
	}
}

func TestProtectedRoutes(t *testing.T) {
	s := newServer(t)
	adminToken := s.login("admin@example.com", "admin-pass").Token

	s.do(http.MethodGet, "/api/standings", "", nil, http.StatusOK)
	s.do(http.MethodPost, "/api/standings/recalculate", "", nil, http.StatusUnauthorized)
	s.do(http.MethodPost, "/api/standings/recalculate", "garbage", nil, http.StatusUnauthorized)
	env := s.do(http.MethodPost, "/api/standings/recalculate", adminToken, nil, http.StatusOK)
	if summary := decode[standings.RecalculateSummary](t, env.Data); summary.Replayed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	refToken := s.onboard(adminToken, "ref@example.com", user.RoleReferee, map[string]any{"date_of_birth": "1975-01-01"})
	s.do(http.MethodPost, "/api/standings/recalculate", refToken, nil, http.StatusForbidden)
	s.do(http.MethodPut, "/api/results/1/approve", refToken, nil, http.StatusForbidden)
	s.do(http.MethodGet, "/api/standings/42", "", nil, http.StatusNotFound)

	env = s.do(http.MethodPost, "/api/auth/register-phase1", "", map[string]any{"email": "not-an-email"}, http.StatusBadRequest)
	if env.Kind != "validation" {
		t.Fatalf("bind error kind = %q, want validation", env.Kind)
	}
}

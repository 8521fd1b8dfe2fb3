package team_test

import (
	"context"
	"testing"
	"time"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/match"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/standings"
	"github.com/MUNGAI-JOHN/lu-league/internal/team"
	"github.com/MUNGAI-JOHN/lu-league/internal/testutil"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"gorm.io/gorm"
)

var admin = common.Actor{ID: 1, Role: user.RoleAdmin}

func newService(t *testing.T) (*team.TeamService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t,
		&profile.Coach{}, &profile.Player{},
		&team.Team{}, &match.Match{}, &standings.StandingRow{},
	)
	return team.NewTeamService(team.NewTeamRepository(db)), db
}

// seedCoach creates a coach profile for account userID and returns the acting coach.
func seedCoach(t *testing.T, db *gorm.DB, userID uint) (common.Actor, *profile.Coach) {
	t.Helper()
	c := &profile.Coach{UserID: userID, DateOfBirth: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed coach: %v", err)
	}
	return common.Actor{ID: userID, Role: user.RoleCoach}, c
}

func TestCoachCreatesPendingTeam(t *testing.T) {
	s, db := newService(t)
	coach, profileRow := seedCoach(t, db, 10)
	abbr := " fcl "

	tm, err := s.CreateTeam(context.Background(), coach, team.CreateTeamRequest{Name: "FC Lakeside", Abbreviation: &abbr})
	if err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}
	if tm.ApprovalStatus != team.StatusPending || tm.CoachID != profileRow.ID || tm.CreatedBy != user.RoleCoach {
		t.Fatalf("created team = %+v", tm)
	}
	if len(tm.JoinCode) != 6 {
		t.Fatalf("join code = %q, want 6 characters", tm.JoinCode)
	}
	if tm.Abbreviation == nil || *tm.Abbreviation != "FCL" {
		t.Fatalf("abbreviation = %v, want FCL", tm.Abbreviation)
	}

	if _, err := s.CreateTeam(context.Background(), coach, team.CreateTeamRequest{Name: "Second Team"}); !apperr.Is(err, apperr.KindDuplicate) {
		t.Fatalf("second CreateTeam() error = %v, want duplicate", err)
	}

	mine, err := s.MyTeam(coach)
	if err != nil {
		t.Fatalf("MyTeam() error = %v", err)
	}
	if mine.ID != tm.ID {
		t.Fatalf("MyTeam() = %d, want %d", mine.ID, tm.ID)
	}
}

func TestCreateTeamRules(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()
	_, coachRow := seedCoach(t, db, 10)
	_, otherRow := seedCoach(t, db, 11)

	noProfile := common.Actor{ID: 99, Role: user.RoleCoach}
	if _, err := s.CreateTeam(ctx, noProfile, team.CreateTeamRequest{Name: "Ghost FC"}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("CreateTeam() without profile error = %v, want conflict", err)
	}

	referee := common.Actor{ID: 12, Role: user.RoleReferee}
	if _, err := s.CreateTeam(ctx, referee, team.CreateTeamRequest{Name: "Whistle FC"}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("CreateTeam() by referee error = %v, want forbidden", err)
	}

	if _, err := s.CreateTeam(ctx, admin, team.CreateTeamRequest{Name: "Admin FC"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("CreateTeam() by admin without coach error = %v, want validation", err)
	}
	missing := uint(4242)
	if _, err := s.CreateTeam(ctx, admin, team.CreateTeamRequest{Name: "Admin FC", CoachID: &missing}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("CreateTeam() with unknown coach error = %v, want not found", err)
	}

	tm, err := s.CreateTeam(ctx, admin, team.CreateTeamRequest{Name: "Admin FC", CoachID: &coachRow.ID})
	if err != nil {
		t.Fatalf("CreateTeam() by admin error = %v", err)
	}
	if tm.ApprovalStatus != team.StatusApproved {
		t.Fatalf("admin created team status = %s, want approved", tm.ApprovalStatus)
	}

	if _, err := s.CreateTeam(ctx, admin, team.CreateTeamRequest{Name: "admin fc", CoachID: &otherRow.ID}); !apperr.Is(err, apperr.KindDuplicate) {
		t.Fatalf("CreateTeam() with taken name error = %v, want duplicate", err)
	}
}

func TestApproveTeam(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()
	coach, _ := seedCoach(t, db, 10)
	tm, err := s.CreateTeam(ctx, coach, team.CreateTeamRequest{Name: "Riverside"})
	if err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}

	pending, total, err := s.ListPendingTeams(admin, 1, 10)
	if err != nil {
		t.Fatalf("ListPendingTeams() error = %v", err)
	}
	if total != 1 || len(pending) != 1 || pending[0].ID != tm.ID {
		t.Fatalf("pending = %+v (total %d)", pending, total)
	}

	if _, err := s.ApproveTeam(ctx, coach, tm.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("ApproveTeam() by coach error = %v, want forbidden", err)
	}
	for i := 0; i < 2; i++ {
		approved, err := s.ApproveTeam(ctx, admin, tm.ID)
		if err != nil {
			t.Fatalf("ApproveTeam() call %d error = %v", i+1, err)
		}
		if approved.ApprovalStatus != team.StatusApproved {
			t.Fatalf("status = %s, want approved", approved.ApprovalStatus)
		}
	}

	pending, total, err = s.ListPendingTeams(admin, 1, 10)
	if err != nil {
		t.Fatalf("ListPendingTeams() error = %v", err)
	}
	if total != 0 || len(pending) != 0 {
		t.Fatalf("pending after approval = %+v", pending)
	}
}

func TestListTeamsFilters(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()
	for i, name := range []string{"Lakeside", "Hillside", "Riverside"} {
		coach, _ := seedCoach(t, db, uint(10+i))
		if _, err := s.CreateTeam(ctx, coach, team.CreateTeamRequest{Name: name}); err != nil {
			t.Fatalf("CreateTeam(%s) error = %v", name, err)
		}
	}

	teams, total, err := s.ListTeams(team.ListFilter{Name: "SIDE", Limit: 2})
	if err != nil {
		t.Fatalf("ListTeams() error = %v", err)
	}
	if total != 3 || len(teams) != 2 || teams[0].Name != "Hillside" {
		t.Fatalf("ListTeams() = %+v (total %d)", teams, total)
	}
	if _, _, err := s.ListTeams(team.ListFilter{Status: "archived"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("ListTeams(bad status) error = %v, want validation", err)
	}
}

func TestUpdateTeamOwnership(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()
	owner, _ := seedCoach(t, db, 10)
	stranger, _ := seedCoach(t, db, 11)
	tm, err := s.CreateTeam(ctx, owner, team.CreateTeamRequest{Name: "Lakeside"})
	if err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}

	city := "Kisumu"
	if _, err := s.UpdateTeam(ctx, stranger, tm.ID, team.UpdateTeamRequest{City: &city}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("UpdateTeam() by stranger error = %v, want forbidden", err)
	}
	updated, err := s.UpdateTeam(ctx, owner, tm.ID, team.UpdateTeamRequest{City: &city})
	if err != nil {
		t.Fatalf("UpdateTeam() by owner error = %v", err)
	}
	if updated.City != "Kisumu" {
		t.Fatalf("city = %q", updated.City)
	}
}

func TestDeleteTeam(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()
	_, c1 := seedCoach(t, db, 10)
	_, c2 := seedCoach(t, db, 11)
	home, err := s.CreateTeam(ctx, admin, team.CreateTeamRequest{Name: "Home FC", CoachID: &c1.ID})
	if err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}
	away, err := s.CreateTeam(ctx, admin, team.CreateTeamRequest{Name: "Away FC", CoachID: &c2.ID})
	if err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}

	fixture := match.Match{HomeTeamID: home.ID, AwayTeamID: away.ID, ScheduledAt: time.Now().UTC(), RefereeID: 1}
	if err := db.Create(&fixture).Error; err != nil {
		t.Fatalf("seed match: %v", err)
	}
	if err := s.DeleteTeam(ctx, admin, home.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("DeleteTeam() with fixture error = %v, want conflict", err)
	}
	if err := db.Delete(&fixture).Error; err != nil {
		t.Fatalf("remove match: %v", err)
	}

	player := profile.Player{
		UserID:       50,
		DateOfBirth:  time.Date(2002, 5, 5, 0, 0, 0, 0, time.UTC),
		TeamID:       &home.ID,
		CoachID:      &c1.ID,
		TeamApproval: profile.TeamApprovalApproved,
	}
	if err := db.Create(&player).Error; err != nil {
		t.Fatalf("seed player: %v", err)
	}
	if err := db.Create(&standings.StandingRow{TeamID: home.ID}).Error; err != nil {
		t.Fatalf("seed standing: %v", err)
	}

	if err := s.DeleteTeam(ctx, common.Actor{ID: 10, Role: user.RoleCoach}, home.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("DeleteTeam() by coach error = %v, want forbidden", err)
	}
	if err := s.DeleteTeam(ctx, admin, home.ID); err != nil {
		t.Fatalf("DeleteTeam() error = %v", err)
	}

	if _, err := s.GetTeam(home.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("GetTeam() after delete error = %v, want not found", err)
	}
	var released profile.Player
	if err := db.First(&released, player.ID).Error; err != nil {
		t.Fatalf("reload player: %v", err)
	}
	if released.TeamID != nil || released.CoachID != nil || released.TeamApproval != profile.TeamApprovalPending {
		t.Fatalf("player after delete = %+v", released)
	}
	var rows int64
	if err := db.Model(&standings.StandingRow{}).Where("team_id = ?", home.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count standings: %v", err)
	}
	if rows != 0 {
		t.Fatalf("standing rows for deleted team = %d, want 0", rows)
	}
}

func TestNewJoinCodeAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := team.NewJoinCode()
		if err != nil {
			t.Fatalf("NewJoinCode() error = %v", err)
		}
		for _, r := range code {
			if r == '0' || r == 'O' || r == '1' || r == 'I' {
				t.Fatalf("join code %q contains an ambiguous symbol", code)
			}
		}
	}
}

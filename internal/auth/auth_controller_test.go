package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
)

type failingJoiner struct{ err error }

func (f failingJoiner) JoinAfterRegistration(context.Context, common.Actor, profile.PlayerDetails) (*profile.Player, error) {
	return nil, f.err
}

func TestRegisterPhase2HidesStorageErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, _ := newTestService(t)
	reg := register(t, s, "joiner@example.com", user.RolePlayer)
	approval, err := s.ApproveAccount(context.Background(), admin, reg.AccountID)
	if err != nil {
		t.Fatalf("ApproveAccount() error = %v", err)
	}

	storage := apperr.Internal("file membership", errors.New("pq: relation \"players\" is locked"))
	r := gin.New()
	r.POST("/register-phase2/:role", NewAuthController(s, failingJoiner{err: storage}).RegisterPhase2)

	body := strings.NewReader(`{"date_of_birth":"2003-03-03","join_code":"ABC123"}`)
	req := httptest.NewRequest(http.MethodPost, "/register-phase2/player", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+approval.Phase2Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "pq:") {
		t.Fatalf("response leaks storage detail: %s", rec.Body.String())
	}
	var resp struct {
		Data struct {
			MembershipError string `json:"membership_error"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.MembershipError != apperr.Message(storage) {
		t.Fatalf("membership_error = %q", resp.Data.MembershipError)
	}
}

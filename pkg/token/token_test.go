package token

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func newTestIssuer(clock clockwork.Clock) *Issuer {
	return NewIssuer(Options{
		SessionSecret: "session-secret",
		SessionTTL:    7 * 24 * time.Hour,
		Phase2Secret:  "phase2-secret",
		Phase2TTL:     24 * time.Hour,
		Clock:         clock,
	})
}

func TestSessionRoundTrip(t *testing.T) {
	issuer := newTestIssuer(clockwork.NewFakeClock())

	tok, err := issuer.IssueSession(42, "coach", "approved")
	if err != nil {
		t.Fatalf("IssueSession() error = %v", err)
	}
	claims, err := issuer.ParseSession(tok)
	if err != nil {
		t.Fatalf("ParseSession() error = %v", err)
	}
	if claims.AccountID != 42 || claims.Role != "coach" || claims.Status != "approved" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestPhase2TokenExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	issuer := newTestIssuer(clock)

	tok, err := issuer.IssuePhase2(7, "player")
	if err != nil {
		t.Fatalf("IssuePhase2() error = %v", err)
	}
	if _, err := issuer.ParsePhase2(tok); err != nil {
		t.Fatalf("ParsePhase2() before expiry error = %v", err)
	}

	clock.Advance(25 * time.Hour)
	if _, err := issuer.ParsePhase2(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("ParsePhase2() after expiry error = %v, want ErrTokenExpired", err)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	issuer := newTestIssuer(clockwork.NewFakeClock())

	phase2, err := issuer.IssuePhase2(7, "player")
	if err != nil {
		t.Fatalf("IssuePhase2() error = %v", err)
	}
	if _, err := issuer.ParseSession(phase2); err == nil {
		t.Fatal("ParseSession() accepted a phase 2 token")
	}

	session, err := issuer.IssueSession(7, "player", "approved")
	if err != nil {
		t.Fatalf("IssueSession() error = %v", err)
	}
	if _, err := issuer.ParsePhase2(session); err == nil {
		t.Fatal("ParsePhase2() accepted a session token")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(clockwork.NewFakeClock())
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := issuer.ParseSession(tok); err == nil {
			t.Fatalf("ParseSession(%q) succeeded", tok)
		}
	}
}

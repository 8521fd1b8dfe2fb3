package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/MUNGAI-JOHN/lu-league/config"
	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/notify"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/MUNGAI-JOHN/lu-league/utils"
	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AuthService owns the account lifecycle: two phase registration, admin
// approval and login.
type AuthService struct {
	repo     AuthRepository
	tokens   *token.Issuer
	notifier notify.Notifier
	cfg      *config.Config
}

func NewAuthService(repo AuthRepository, tokens *token.Issuer, notifier notify.Notifier, cfg *config.Config) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
	}
}

// RegisterPhase1 creates a pending account for a coach, referee or player.
func (s *AuthService) RegisterPhase1(ctx context.Context, req RegisterPhase1Request) (*Registration, error) {
	if !req.Role.SelfRegistrable() {
		return nil, apperr.Validation("role must be one of coach, referee or player")
	}

	u, err := s.newUser(req.Name, req.Email, req.Phone, req.Password, req.Role, user.StatusPending)
	if err != nil {
		return nil, err
	}
	if err := s.insertUser(u); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint("account_id", u.ID).Str("role", string(u.Role)).Msg("Account registered, awaiting approval")
	return &Registration{AccountID: u.ID, Role: u.Role, Status: u.Status}, nil
}

// ApproveAccount approves an account and mails it a phase 2 link. Approving an
// approved account does not change its status, but an account still missing
// its profile is mailed a fresh link.
func (s *AuthService) ApproveAccount(ctx context.Context, actor common.Actor, accountID uint) (*AccountApproval, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only admins can approve accounts")
	}

	u, err := s.getUser(accountID)
	if err != nil {
		return nil, err
	}

	changed, err := s.repo.SetStatus(accountID, user.StatusApproved)
	if err != nil {
		return nil, apperr.Internal("approve account", err)
	}
	u.Status = user.StatusApproved

	out := &AccountApproval{User: u, AlreadyApproved: !changed}
	if !needsPhase2(u) {
		return out, nil
	}
	out.Phase2Token, err = s.mailPhase2Link(ctx, u)
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint("account_id", u.ID).Uint("approved_by", actor.ID).Bool("resent", !changed).Msg("Account approved")
	return out, nil
}

func needsPhase2(u *user.User) bool {
	return u.Role != user.RoleAdmin && !u.Phase2Completed
}

// mailPhase2Link issues a continuation token and mails the link. Delivery
// failures are logged only.
func (s *AuthService) mailPhase2Link(ctx context.Context, u *user.User) (string, error) {
	phase2Token, err := s.tokens.IssuePhase2(u.ID, string(u.Role))
	if err != nil {
		return "", apperr.Internal("issue phase 2 token", err)
	}
	s.sendApprovalEmail(ctx, u, phase2Token)
	return phase2Token, nil
}

// RejectAccount blocks login and phase 2 for the account until an admin
// approves it again.
func (s *AuthService) RejectAccount(ctx context.Context, actor common.Actor, accountID uint) (*user.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only admins can reject accounts")
	}
	if actor.ID == accountID {
		return nil, apperr.Conflict("admins cannot reject their own account")
	}

	u, err := s.getUser(accountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.SetStatus(accountID, user.StatusRejected); err != nil {
		return nil, apperr.Internal("reject account", err)
	}
	u.Status = user.StatusRejected

	log.Ctx(ctx).Info().Uint("account_id", u.ID).Uint("rejected_by", actor.ID).Msg("Account rejected")
	return u, nil
}

// CompletePhase2 creates the role profile named by a continuation token. It
// succeeds at most once per account.
func (s *AuthService) CompletePhase2(ctx context.Context, phase2Token string, details profile.Details) (any, error) {
	claims, err := s.tokens.ParsePhase2(phase2Token)
	if err != nil {
		return nil, apperr.ErrInvalidToken
	}
	role := user.Role(claims.Role)
	if details.Role() != role {
		return nil, apperr.Forbidden("token was issued for a %s account", role)
	}

	var created any
	err = s.repo.WithTransaction(func(repo AuthRepository) error {
		u, err := repo.GetUserByID(claims.AccountID)
		if err != nil {
			return apperr.Internal("load account", err)
		}
		if u == nil {
			return apperr.NotFound("account not found")
		}
		if u.Role != role {
			return apperr.Forbidden("token role does not match the account")
		}
		if u.Status != user.StatusApproved {
			return apperr.ErrNotApproved
		}

		exists, err := repo.Profiles().ExistsForUser(u.ID)
		if err != nil {
			return apperr.Internal("check profile", err)
		}
		if exists || u.Phase2Completed {
			return apperr.ErrAlreadyCompleted
		}

		p, err := details.NewProfile(u.ID)
		if err != nil {
			return apperr.Validation("%v", err)
		}
		if err := repo.Profiles().Create(p); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.ErrAlreadyCompleted
			}
			return apperr.Internal("create profile", err)
		}

		flipped, err := repo.MarkPhase2Completed(u.ID)
		if err != nil {
			return apperr.Internal("mark phase 2 completed", err)
		}
		if !flipped {
			return apperr.ErrAlreadyCompleted
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint("account_id", claims.AccountID).Str("role", string(role)).Msg("Phase 2 registration completed")
	return created, nil
}

// VerifyPhase2Token decodes a continuation token for the frontend.
func (s *AuthService) VerifyPhase2Token(ctx context.Context, phase2Token string) (*Phase2Identity, error) {
	claims, err := s.tokens.ParsePhase2(phase2Token)
	if err != nil {
		return nil, apperr.ErrInvalidToken
	}
	u, err := s.getUser(claims.AccountID)
	if err != nil {
		return nil, err
	}
	return &Phase2Identity{AccountID: u.ID, Role: user.Role(claims.Role), Status: u.Status}, nil
}

// Login checks, in order, that the account exists, is approved and that the
// password matches.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.repo.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		return nil, apperr.Internal("load account", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	if u.Status != user.StatusApproved {
		return nil, apperr.ErrNotApproved
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, apperr.ErrBadCredentials
	}

	completed := !needsPhase2(u)
	session, err := s.tokens.IssueSession(u.ID, string(u.Role), string(u.Status))
	if err != nil {
		return nil, apperr.Internal("issue session token", err)
	}
	result := &LoginResult{
		Token:           session,
		User:            u,
		Phase2Completed: completed,
		RedirectTo:      RedirectFor(u.Role, completed),
	}
	if !completed {
		// The details form posts this back to register-phase2.
		result.Phase2Token, err = s.tokens.IssuePhase2(u.ID, string(u.Role))
		if err != nil {
			return nil, apperr.Internal("issue phase 2 token", err)
		}
	}

	log.Ctx(ctx).Info().Uint("account_id", u.ID).Msg("Login succeeded")
	return result, nil
}

// --- Admin account management ---

// CreateUser lets an admin add an account directly. Status defaults to
// approved; approved non-admin accounts are mailed a phase 2 link.
func (s *AuthService) CreateUser(ctx context.Context, actor common.Actor, req CreateUserRequest) (*user.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only admins can create accounts")
	}
	if !req.Role.Valid() {
		return nil, apperr.Validation("unknown role %q", req.Role)
	}
	status := req.Status
	if status == "" {
		status = user.StatusApproved
	}
	if !status.Valid() {
		return nil, apperr.Validation("unknown status %q", status)
	}

	u, err := s.newUser(req.Name, req.Email, req.Phone, req.Password, req.Role, status)
	if err != nil {
		return nil, err
	}
	u.Phase2Completed = req.Role == user.RoleAdmin
	if err := s.insertUser(u); err != nil {
		return nil, err
	}
	if u.Status == user.StatusApproved && needsPhase2(u) {
		if _, err := s.mailPhase2Link(ctx, u); err != nil {
			return nil, err
		}
	}

	log.Ctx(ctx).Info().Uint("account_id", u.ID).Uint("created_by", actor.ID).Str("role", string(u.Role)).Msg("Account created by admin")
	return u, nil
}

// ListUsers returns every account, or only those with the given status.
func (s *AuthService) ListUsers(actor common.Actor, status user.Status) ([]user.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only admins can list accounts")
	}
	if status != "" && !status.Valid() {
		return nil, apperr.Validation("unknown status %q", status)
	}
	users, err := s.repo.ListUsers(status)
	if err != nil {
		return nil, apperr.Internal("list accounts", err)
	}
	return users, nil
}

func (s *AuthService) ListPendingAccounts(actor common.Actor) ([]user.User, error) {
	return s.ListUsers(actor, user.StatusPending)
}

func (s *AuthService) GetUser(actor common.Actor, accountID uint) (*user.User, error) {
	if !actor.IsAdmin() && actor.ID != accountID {
		return nil, apperr.Forbidden("you can only view your own account")
	}
	return s.getUser(accountID)
}

// DeleteUser removes an account that has no role profile yet.
func (s *AuthService) DeleteUser(ctx context.Context, actor common.Actor, accountID uint) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("only admins can delete accounts")
	}
	if actor.ID == accountID {
		return apperr.Conflict("admins cannot delete their own account")
	}
	err := s.repo.WithTransaction(func(repo AuthRepository) error {
		u, err := repo.GetUserByID(accountID)
		if err != nil {
			return apperr.Internal("load account", err)
		}
		if u == nil {
			return apperr.NotFound("account not found")
		}
		exists, err := repo.Profiles().ExistsForUser(accountID)
		if err != nil {
			return apperr.Internal("check profile", err)
		}
		if exists {
			return apperr.Conflict("account has a %s profile and cannot be deleted", u.Role)
		}
		if err := repo.DeleteUser(accountID); err != nil {
			return apperr.Internal("delete account", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info().Uint("account_id", accountID).Uint("deleted_by", actor.ID).Msg("Account deleted")
	return nil
}

// --- helpers ---

func (s *AuthService) getUser(id uint) (*user.User, error) {
	u, err := s.repo.GetUserByID(id)
	if err != nil {
		return nil, apperr.Internal("load account", err)
	}
	if u == nil {
		return nil, apperr.NotFound("account not found")
	}
	return u, nil
}

func (s *AuthService) newUser(name, email, phone, password string, role user.Role, status user.Status) (*user.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}

	normalizedPhone, err := normalizePhone(phone, s.cfg.App.PhoneRegion)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	return &user.User{
		Name:     name,
		Email:    email,
		Phone:    normalizedPhone,
		Password: hash,
		Role:     role,
		Status:   status,
	}, nil
}

func (s *AuthService) insertUser(u *user.User) error {
	existing, err := s.repo.GetUserByEmail(u.Email)
	if err != nil {
		return apperr.Internal("check email", err)
	}
	if existing != nil {
		return apperr.ErrDuplicateEmail
	}
	if err := s.repo.CreateUser(u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrDuplicateEmail
		}
		return apperr.Internal("create account", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizePhone formats a phone number as E.164. Empty input stays empty.
func normalizePhone(phone, region string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(phone, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", apperr.Validation("phone number %q is not valid", phone)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/shopdesk-backend/internal/identity"
	"github.com/angelmondragon/shopdesk-backend/internal/stores"
	"github.com/angelmondragon/shopdesk-backend/internal/users"
	pkgAuth "github.com/angelmondragon/shopdesk-backend/pkg/auth"
	"github.com/angelmondragon/shopdesk-backend/pkg/auth/session"
	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/mailer"
)

// Service runs the back-office user credential lifecycle.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	VerifyEmail(ctx context.Context, req VerifyCodeRequest) (*AuthResponse, error)
	ResendVerification(ctx context.Context, req EmailRequest) (*MessageResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	ForgotPassword(ctx context.Context, req EmailRequest) (*MessageResponse, error)
	VerifyResetCode(ctx context.Context, req VerifyCodeRequest) (*MessageResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error)
	Logout(ctx context.Context, userID uint) error
	SetPassword(ctx context.Context, userID uint, req SetPasswordRequest) (*MessageResponse, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	UpdateLastActive(ctx context.Context, id uint, at time.Time) error
}

type storeSummaries interface {
	SummaryForUser(ctx context.Context, userID uint) (*stores.Summary, error)
}

type sessionManager interface {
	Issue(ctx context.Context, id uint, storeID *uint) (session.TokenPair, error)
	Refresh(ctx context.Context, provided string) (string, *pkgAuth.Claims, error)
	Revoke(ctx context.Context, id uint) error
}

type codeRenderer interface {
	VerificationEmail(to, name, code string, ttl time.Duration) (mailer.Message, error)
	PasswordResetEmail(to, name, code string, ttl time.Duration) (mailer.Message, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users          userRepository
	Stores         storeSummaries
	Sessions       sessionManager
	Mailer         mailer.Sender
	Renderer       codeRenderer
	PasswordConfig config.PasswordConfig
}

type service struct {
	users    userRepository
	stores   storeSummaries
	sessions sessionManager
	mailer   mailer.Sender
	renderer codeRenderer
	pwCfg    config.PasswordConfig
	now      func() time.Time
}

// NewService constructs the user auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store service is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Mailer == nil || params.Renderer == nil {
		return nil, fmt.Errorf("mailer and renderer are required")
	}
	if params.PasswordConfig.CodeTTL <= 0 {
		params.PasswordConfig.CodeTTL = 15 * time.Minute
	}
	return &service{
		users:    params.Users,
		stores:   params.Stores,
		sessions: params.Sessions,
		mailer:   params.Mailer,
		renderer: params.Renderer,
		pwCfg:    params.PasswordConfig,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := identity.NormalizeEmail(req.Email)
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if email == "" || first == "" || last == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email, firstname, lastname and password are required")
	}
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}
	hash, err := identity.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, identity.ErrAlreadyRegistered()
	} else if !db.IsNotFound(err) {
		return nil, db.Translate(err, "user")
	}

	code, err := identity.IssueCode(s.now(), s.pwCfg.CodeTTL)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:                   email,
		PasswordHash:            hash,
		FirstName:               first,
		LastName:                last,
		Phone:                   req.Phone,
		VerificationCode:        code.Value,
		VerificationCodeExpires: code.Expires,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "email") {
			return nil, identity.ErrAlreadyRegistered()
		}
		return nil, db.Translate(err, "user")
	}

	msg, err := s.renderer.VerificationEmail(user.Email, user.FirstName, code.Value, s.pwCfg.CodeTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render verification email")
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "failed to send verification email")
	}

	return &RegisterResponse{
		Message: "registration successful, check your email for the verification code",
		ID:      user.ID,
	}, nil
}

func (s *service) VerifyEmail(ctx context.Context, req VerifyCodeRequest) (*AuthResponse, error) {
	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, identity.ErrAlreadyVerified()
	}
	if err := identity.CheckCode(user.VerificationCode, user.VerificationCodeExpires, req.Code, s.now()); err != nil {
		return nil, err
	}

	err = s.users.UpdateFields(ctx, user.ID, map[string]any{
		"is_verified":               true,
		"verification_code":         nil,
		"verification_code_expires": nil,
	})
	if err != nil {
		return nil, db.Translate(err, "user")
	}
	return s.startSession(ctx, user.ID)
}

func (s *service) ResendVerification(ctx context.Context, req EmailRequest) (*MessageResponse, error) {
	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, identity.ErrAlreadyVerified()
	}

	code, err := identity.IssueCode(s.now(), s.pwCfg.CodeTTL)
	if err != nil {
		return nil, err
	}
	err = s.users.UpdateFields(ctx, user.ID, map[string]any{
		"verification_code":         code.Value,
		"verification_code_expires": code.Expires,
	})
	if err != nil {
		return nil, db.Translate(err, "user")
	}

	msg, err := s.renderer.VerificationEmail(user.Email, user.FirstName, code.Value, s.pwCfg.CodeTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render verification email")
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "failed to send verification email")
	}
	return &MessageResponse{Message: "verification code sent"}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := identity.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, identity.ErrInvalidCredentials()
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, identity.ErrInvalidCredentials()
		}
		return nil, db.Translate(err, "user")
	}
	if err := identity.CheckPassword(req.Password, user.PasswordHash); err != nil {
		return nil, err
	}
	if !user.IsVerified {
		return nil, identity.ErrEmailNotVerified()
	}

	resp, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := s.users.UpdateLastActive(ctx, user.ID, now); err != nil {
		return nil, db.Translate(err, "user")
	}
	resp.User.LastActiveAt = &now
	return resp, nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	access, _, err := s.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) || db.IsNotFound(err) {
			return nil, identity.ErrInvalidOrExpiredToken()
		}
		return nil, db.Translate(err, "user")
	}
	return &RefreshResponse{AccessToken: access}, nil
}

// Logout clears the refresh slot. Repeated calls succeed.
func (s *service) Logout(ctx context.Context, userID uint) error {
	if err := s.sessions.Revoke(ctx, userID); err != nil {
		return db.Translate(err, "user")
	}
	return nil
}

// SetPassword changes the password of an authenticated user without the old one.
func (s *service) SetPassword(ctx context.Context, userID uint, req SetPasswordRequest) (*MessageResponse, error) {
	hash, err := identity.HashPassword(req.NewPassword, s.pwCfg)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{"password_hash": hash}); err != nil {
		return nil, db.Translate(err, "user")
	}
	return &MessageResponse{Message: "password updated"}, nil
}

func (s *service) startSession(ctx context.Context, userID uint) (*AuthResponse, error) {
	pair, err := s.sessions.Issue(ctx, userID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue tokens")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "user")
	}
	store, err := s.stores.SummaryForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         users.FromModel(user),
		Store:        store,
	}, nil
}

func (s *service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	email = identity.NormalizeEmail(email)
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, identity.ErrNotFound("user")
		}
		return nil, db.Translate(err, "user")
	}
	return user, nil
}

package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/shopdesk-backend/internal/identity"
	pkgAuth "github.com/angelmondragon/shopdesk-backend/pkg/auth"
	"github.com/angelmondragon/shopdesk-backend/pkg/auth/session"
	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/mailer"
)

// AuthService runs the storefront customer credential lifecycle. Every call
// is scoped to the store resolved from the storefront URL.
type AuthService interface {
	Register(ctx context.Context, storeID uint, req RegisterRequest) (*RegisterResponse, error)
	VerifyEmail(ctx context.Context, storeID uint, req VerifyCodeRequest) (*AuthResponse, error)
	ResendVerification(ctx context.Context, storeID uint, req EmailRequest) (*MessageResponse, error)
	Login(ctx context.Context, storeID uint, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, storeID uint, req RefreshRequest) (*RefreshResponse, error)
	ForgotPassword(ctx context.Context, storeID uint, req EmailRequest) (*MessageResponse, error)
	VerifyResetCode(ctx context.Context, storeID uint, req VerifyCodeRequest) (*MessageResponse, error)
	ResetPassword(ctx context.Context, storeID uint, req ResetPasswordRequest) (*MessageResponse, error)
	Logout(ctx context.Context, customerID uint) error
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

// AuthParams bundles the dependencies of the customer auth service.
type AuthParams struct {
	Repo           *Repository
	Sessions       sessionManager
	Mailer         mailer.Sender
	Renderer       codeRenderer
	PasswordConfig config.PasswordConfig
}

type authService struct {
	repo     *Repository
	sessions sessionManager
	mailer   mailer.Sender
	renderer codeRenderer
	pwCfg    config.PasswordConfig
	now      func() time.Time
}

func NewAuthService(params AuthParams) (AuthService, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("customer repository is required")
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
	return &authService{
		repo:     params.Repo,
		sessions: params.Sessions,
		mailer:   params.Mailer,
		renderer: params.Renderer,
		pwCfg:    params.PasswordConfig,
		now:      time.Now,
	}, nil
}

func (s *authService) Register(ctx context.Context, storeID uint, req RegisterRequest) (*RegisterResponse, error) {
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

	if _, err := s.repo.FindByEmail(ctx, storeID, email); err == nil {
		return nil, identity.ErrAlreadyRegistered()
	} else if !db.IsNotFound(err) {
		return nil, db.Translate(err, "customer")
	}

	code, err := identity.IssueCode(s.now(), s.pwCfg.CodeTTL)
	if err != nil {
		return nil, err
	}
	customer := &models.Customer{
		StoreID:                 storeID,
		Email:                   email,
		PasswordHash:            hash,
		FirstName:               first,
		LastName:                last,
		Phone:                   req.Phone,
		ShippingAddress:         req.ShippingAddress,
		BillingAddress:          req.BillingAddress,
		Newsletter:              req.Newsletter,
		VerificationCode:        &code.Value,
		VerificationCodeExpires: &code.Expires,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, identity.ErrAlreadyRegistered()
		}
		return nil, db.Translate(err, "customer")
	}

	if err := s.sendCode(ctx, customer, code.Value, false); err != nil {
		return nil, err
	}
	return &RegisterResponse{
		Message: "registration successful, check your email for the verification code",
		ID:      customer.ID,
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, storeID uint, req VerifyCodeRequest) (*AuthResponse, error) {
	customer, err := s.findByEmail(ctx, storeID, req.Email)
	if err != nil {
		return nil, err
	}
	if customer.IsVerified {
		return nil, identity.ErrAlreadyVerified()
	}
	if err := identity.CheckCode(customer.VerificationCode, customer.VerificationCodeExpires, req.Code, s.now()); err != nil {
		return nil, err
	}
	err = s.repo.UpdateFields(ctx, storeID, customer.ID, map[string]any{
		"is_verified":               true,
		"verification_code":         nil,
		"verification_code_expires": nil,
	})
	if err != nil {
		return nil, db.Translate(err, "customer")
	}
	return s.startSession(ctx, storeID, customer.ID)
}

func (s *authService) ResendVerification(ctx context.Context, storeID uint, req EmailRequest) (*MessageResponse, error) {
	customer, err := s.findByEmail(ctx, storeID, req.Email)
	if err != nil {
		return nil, err
	}
	if customer.IsVerified {
		return nil, identity.ErrAlreadyVerified()
	}
	code, err := identity.IssueCode(s.now(), s.pwCfg.CodeTTL)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateFields(ctx, storeID, customer.ID, map[string]any{
		"verification_code":         code.Value,
		"verification_code_expires": code.Expires,
	})
	if err != nil {
		return nil, db.Translate(err, "customer")
	}
	if err := s.sendCode(ctx, customer, code.Value, false); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "verification code sent"}, nil
}

func (s *authService) Login(ctx context.Context, storeID uint, req LoginRequest) (*AuthResponse, error) {
	email := identity.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, identity.ErrInvalidCredentials()
	}
	customer, err := s.repo.FindByEmail(ctx, storeID, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, identity.ErrInvalidCredentials()
		}
		return nil, db.Translate(err, "customer")
	}
	if err := identity.CheckPassword(req.Password, customer.PasswordHash); err != nil {
		return nil, err
	}
	if !customer.IsVerified {
		return nil, identity.ErrEmailNotVerified()
	}

	resp, err := s.startSession(ctx, storeID, customer.ID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := s.repo.UpdateLastActive(ctx, customer.ID, now); err != nil {
		return nil, db.Translate(err, "customer")
	}
	resp.Customer.LastActiveAt = &now
	return resp, nil
}

// Refresh also rejects tokens minted for a different storefront.
func (s *authService) Refresh(ctx context.Context, storeID uint, req RefreshRequest) (*RefreshResponse, error) {
	access, claims, err := s.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) || db.IsNotFound(err) {
			return nil, identity.ErrInvalidOrExpiredToken()
		}
		return nil, db.Translate(err, "customer")
	}
	if claims.StoreID == nil || *claims.StoreID != storeID {
		return nil, identity.ErrInvalidOrExpiredToken()
	}
	return &RefreshResponse{AccessToken: access}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, storeID uint, req EmailRequest) (*MessageResponse, error) {
	customer, err := s.findByEmail(ctx, storeID, req.Email)
	if err != nil {
		return nil, err
	}
	code, err := identity.IssueCode(s.now(), s.pwCfg.CodeTTL)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateFields(ctx, storeID, customer.ID, map[string]any{
		"reset_password_token":   code.Value,
		"reset_password_expires": code.Expires,
	})
	if err != nil {
		return nil, db.Translate(err, "customer")
	}
	if err := s.sendCode(ctx, customer, code.Value, true); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "password reset code sent"}, nil
}

func (s *authService) VerifyResetCode(ctx context.Context, storeID uint, req VerifyCodeRequest) (*MessageResponse, error) {
	customer, err := s.findByEmail(ctx, storeID, req.Email)
	if err != nil {
		return nil, err
	}
	if err := identity.CheckCode(customer.ResetPasswordToken, customer.ResetPasswordExpires, req.Code, s.now()); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "reset code is valid"}, nil
}

func (s *authService) ResetPassword(ctx context.Context, storeID uint, req ResetPasswordRequest) (*MessageResponse, error) {
	customer, err := s.findByEmail(ctx, storeID, req.Email)
	if err != nil {
		return nil, err
	}
	if err := identity.CheckCode(customer.ResetPasswordToken, customer.ResetPasswordExpires, req.Code, s.now()); err != nil {
		return nil, err
	}
	hash, err := identity.HashPassword(req.NewPassword, s.pwCfg)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateFields(ctx, storeID, customer.ID, map[string]any{
		"password_hash":          hash,
		"reset_password_token":   nil,
		"reset_password_expires": nil,
		"refresh_token":          nil,
	})
	if err != nil {
		return nil, db.Translate(err, "customer")
	}
	return &MessageResponse{Message: "password has been reset"}, nil
}

func (s *authService) Logout(ctx context.Context, customerID uint) error {
	if err := s.sessions.Revoke(ctx, customerID); err != nil {
		return db.Translate(err, "customer")
	}
	return nil
}

func (s *authService) startSession(ctx context.Context, storeID, customerID uint) (*AuthResponse, error) {
	pair, err := s.sessions.Issue(ctx, customerID, &storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue tokens")
	}
	customer, err := s.repo.FindByID(ctx, storeID, customerID)
	if err != nil {
		return nil, db.Translate(err, "customer")
	}
	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Customer:     FromModel(customer),
	}, nil
}

func (s *authService) findByEmail(ctx context.Context, storeID uint, email string) (*models.Customer, error) {
	email = identity.NormalizeEmail(email)
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByEmail(ctx, storeID, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, identity.ErrNotFound("customer")
		}
		return nil, db.Translate(err, "customer")
	}
	return customer, nil
}

func (s *authService) sendCode(ctx context.Context, customer *models.Customer, code string, reset bool) error {
	var (
		msg mailer.Message
		err error
	)
	if reset {
		msg, err = s.renderer.PasswordResetEmail(customer.Email, customer.FirstName, code, s.pwCfg.CodeTTL)
	} else {
		msg, err = s.renderer.VerificationEmail(customer.Email, customer.FirstName, code, s.pwCfg.CodeTTL)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render email")
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "failed to send email")
	}
	return nil
}

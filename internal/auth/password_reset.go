package auth

import (
	"context"

	"github.com/angelmondragon/shopdesk-backend/internal/identity"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
)

func (s *service) ForgotPassword(ctx context.Context, req EmailRequest) (*MessageResponse, error) {
	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	code, err := identity.IssueCode(s.now(), s.pwCfg.CodeTTL)
	if err != nil {
		return nil, err
	}
	err = s.users.UpdateFields(ctx, user.ID, map[string]any{
		"reset_password_token":   code.Value,
		"reset_password_expires": code.Expires,
	})
	if err != nil {
		return nil, db.Translate(err, "user")
	}

	msg, err := s.renderer.PasswordResetEmail(user.Email, user.FirstName, code.Value, s.pwCfg.CodeTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render reset email")
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "failed to send reset email")
	}
	return &MessageResponse{Message: "password reset code sent"}, nil
}

func (s *service) VerifyResetCode(ctx context.Context, req VerifyCodeRequest) (*MessageResponse, error) {
	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if err := identity.CheckCode(user.ResetPasswordToken, user.ResetPasswordExpires, req.Code, s.now()); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "reset code is valid"}, nil
}

// ResetPassword re-checks the code, stores the new hash and ends any session.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if err := identity.CheckCode(user.ResetPasswordToken, user.ResetPasswordExpires, req.Code, s.now()); err != nil {
		return nil, err
	}
	hash, err := identity.HashPassword(req.NewPassword, s.pwCfg)
	if err != nil {
		return nil, err
	}

	err = s.users.UpdateFields(ctx, user.ID, map[string]any{
		"password_hash":          hash,
		"reset_password_token":   nil,
		"reset_password_expires": nil,
		"refresh_token":          nil,
	})
	if err != nil {
		return nil, db.Translate(err, "user")
	}
	return &MessageResponse{Message: "password has been reset"}, nil
}

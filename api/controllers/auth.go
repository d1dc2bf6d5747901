package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	"github.com/angelmondragon/shopdesk-backend/internal/auth"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusCreated, func(ctx context.Context, _ *http.Request, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
		return svc.Register(ctx, req)
	})
}

func AuthVerifyEmail(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, _ *http.Request, req auth.VerifyCodeRequest) (*auth.AuthResponse, error) {
		return svc.VerifyEmail(ctx, req)
	})
}

func AuthResendVerification(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, _ *http.Request, req auth.EmailRequest) (*auth.MessageResponse, error) {
		return svc.ResendVerification(ctx, req)
	})
}

func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, _ *http.Request, req auth.LoginRequest) (*auth.AuthResponse, error) {
		return svc.Login(ctx, req)
	})
}

func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, _ *http.Request, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
		return svc.Refresh(ctx, req)
	})
}

func AuthForgotPassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, _ *http.Request, req auth.EmailRequest) (*auth.MessageResponse, error) {
		return svc.ForgotPassword(ctx, req)
	})
}

func AuthVerifyResetCode(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, _ *http.Request, req auth.VerifyCodeRequest) (*auth.MessageResponse, error) {
		return svc.VerifyResetCode(ctx, req)
	})
}

func AuthResetPassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, _ *http.Request, req auth.ResetPasswordRequest) (*auth.MessageResponse, error) {
		return svc.ResetPassword(ctx, req)
	})
}

// AuthSetPassword changes the password of the authenticated user.
func AuthSetPassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, r *http.Request, req auth.SetPasswordRequest) (*auth.MessageResponse, error) {
		userID, err := principal(r)
		if err != nil {
			return nil, err
		}
		return svc.SetPassword(ctx, userID, req)
	})
}

// AuthLogout clears the refresh token slot. Access tokens stay valid until expiry.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Logout(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "logged out")
	}
}

package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	"github.com/angelmondragon/shopdesk-backend/internal/customers"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// Customer identity routes live under /api/storefront/{storeUrl}; the store
// context middleware has already resolved the store from the URL.

func CustomerRegister(svc customers.AuthService, logg *logger.Logger) http.HandlerFunc {
	return storeAction(logg, http.StatusCreated, svc.Register)
}

func CustomerVerifyEmail(svc customers.AuthService, logg *logger.Logger) http.HandlerFunc {
	return storeAction(logg, http.StatusOK, svc.VerifyEmail)
}

func CustomerResendVerification(svc customers.AuthService, logg *logger.Logger) http.HandlerFunc {
	return storeAction(logg, http.StatusOK, svc.ResendVerification)
}

func CustomerLogin(svc customers.AuthService, logg *logger.Logger) http.HandlerFunc {
	return storeAction(logg, http.StatusOK, svc.Login)
}

func CustomerRefresh(svc customers.AuthService, logg *logger.Logger) http.HandlerFunc {
	return storeAction(logg, http.StatusOK, svc.Refresh)
}

func CustomerForgotPassword(svc customers.AuthService, logg *logger.Logger) http.HandlerFunc {
	return storeAction(logg, http.StatusOK, svc.ForgotPassword)
}

func CustomerVerifyResetCode(svc customers.AuthService, logg *logger.Logger) http.HandlerFunc {
	return storeAction(logg, http.StatusOK, svc.VerifyResetCode)
}

func CustomerResetPassword(svc customers.AuthService, logg *logger.Logger) http.HandlerFunc {
	return storeAction(logg, http.StatusOK, svc.ResetPassword)
}

func CustomerLogout(svc customers.AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Logout(r.Context(), customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "logged out")
	}
}

// CustomerMe returns the authenticated customer's own profile.
func CustomerMe(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		me, err := svc.Get(r.Context(), storeID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, me)
	}
}

func CustomerUpdateMe(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return jsonAction(logg, http.StatusOK, func(ctx context.Context, r *http.Request, req customers.UpdateCustomerRequest) (*customers.CustomerDTO, error) {
		storeID, err := storeScope(r)
		if err != nil {
			return nil, err
		}
		customerID, err := principal(r)
		if err != nil {
			return nil, err
		}
		return svc.Update(ctx, storeID, customerID, req)
	})
}

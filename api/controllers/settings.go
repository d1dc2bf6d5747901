package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	"github.com/angelmondragon/shopdesk-backend/internal/settings"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// storeRead wraps a read that only needs the resolved store id.
func storeRead[T any](logg *logger.Logger, fn func(context.Context, uint) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := fn(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SettingsGetShipping(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return storeRead(logg, svc.GetShipping)
}

func SettingsSaveShipping(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return storeAction(logg, http.StatusOK, svc.SaveShipping)
}

func SettingsListShippingMethods(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return storeRead(logg, svc.ListShippingMethods)
}

func SettingsCreateShippingMethod(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedCreate(logg, svc.CreateShippingMethod)
}

func SettingsDeleteShippingMethod(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedDelete(logg, "shipping method", svc.DeleteShippingMethod)
}

func SettingsGetGeneral(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return storeRead(logg, svc.GetGeneral)
}

func SettingsSaveGeneral(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return storeAction(logg, http.StatusOK, svc.SaveGeneral)
}

func SettingsListLocations(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return storeRead(logg, svc.ListLocations)
}

func SettingsCreateLocation(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedCreate(logg, svc.CreateLocation)
}

func SettingsDeleteLocation(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return scopedDelete(logg, "location", svc.DeleteLocation)
}

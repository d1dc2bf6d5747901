package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopDesk-Env", cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "UP"})
	}
}

// HealthReady pings every registered dependency and reports 503 when any fails.
func HealthReady(cfg *config.Config, deps map[string]db.Pinger, logg *logger.Logger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopDesk-Env", cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := make(map[string]string, len(names))
		var errs error
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				checks[name] = "DOWN"
				errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				continue
			}
			checks[name] = "UP"
		}

		if errs != nil {
			if logg != nil {
				logg.Error(logg.WithField(r.Context(), "checks", checks), "health.not_ready", errs)
			}
			responses.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "DOWN", "checks": checks})
			return
		}
		responses.WriteJSON(w, http.StatusOK, map[string]any{"status": "UP", "checks": checks})
	}
}

package controllers

import (
	"context"
	"net/http"

	"github.com/shopsmart/shopsmart-backend/api/responses"
	"github.com/shopsmart/shopsmart-backend/pkg/config"
	pkgerrors "github.com/shopsmart/shopsmart-backend/pkg/errors"
	"github.com/shopsmart/shopsmart-backend/pkg/logger"
)

type catalogPinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady reports readiness, including reachability of the remote
// catalog API.
func HealthReady(cfg *config.Config, logg *logger.Logger, catalog catalogPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog != nil {
			if err := catalog.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{
			"status": "ready",
			"env":    cfg.App.Env,
		})
	}
}

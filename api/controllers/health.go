package controllers

import (
	"net/http"

	"github.com/kafanica/kafanica-backend/api/responses"
	"github.com/kafanica/kafanica-backend/pkg/config"
	"github.com/kafanica/kafanica-backend/pkg/db"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
	"github.com/kafanica/kafanica-backend/pkg/logger"
)

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := ""
		if cfg != nil {
			env = cfg.App.Env
		}
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    env,
		})
	}
}

// HealthReady reports readiness: the snapshot store must answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, pinger db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "snapshot store unavailable"))
			return
		}

		if err := pinger.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "snapshot store ping failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

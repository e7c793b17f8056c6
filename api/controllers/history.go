package controllers

import (
	"net/http"

	"github.com/kafanica/kafanica-backend/api/responses"
	historysvc "github.com/kafanica/kafanica-backend/internal/history"
	"github.com/kafanica/kafanica-backend/internal/sales"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
	"github.com/kafanica/kafanica-backend/pkg/logger"
)

// ListHistory returns settled tabs, most recently settled first.
func ListHistory(svc historysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

// ClearHistory wipes the archive. There is no partial clear.
func ClearHistory(svc historysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}

		if err := svc.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// SalesReport aggregates the archive into per-drink totals. Revenue figures
// are rounded to two decimal places at this boundary only.
func SalesReport(svc historysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}

		report := sales.Build(svc.List(r.Context()))
		report.TotalRevenue = report.TotalRevenue.Round(2)
		for i := range report.Items {
			report.Items[i].TotalRevenue = report.Items[i].TotalRevenue.Round(2)
		}

		responses.WriteSuccess(w, report)
	}
}

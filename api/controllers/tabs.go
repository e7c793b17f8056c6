package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kafanica/kafanica-backend/api/responses"
	"github.com/kafanica/kafanica-backend/api/validators"
	tabssvc "github.com/kafanica/kafanica-backend/internal/tabs"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
	"github.com/kafanica/kafanica-backend/pkg/logger"
)

// ListTabs returns the open tabs in insertion order.
func ListTabs(svc tabssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tab service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

type openTabRequest struct {
	Name string `json:"name" validate:"required"`
}

// OpenTab starts an empty tab for a named guest.
func OpenTab(svc tabssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tab service unavailable"))
			return
		}

		var payload openTabRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tab, err := svc.OpenTab(r.Context(), payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, tab)
	}
}

// CloseTab deletes an open tab without payment; it never reaches history.
func CloseTab(svc tabssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tab service unavailable"))
			return
		}

		tabID := chi.URLParam(r, "tabID")
		ctx := logg.WithTabID(r.Context(), tabID)

		if err := svc.CloseTabWithoutPayment(ctx, tabID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"id": tabID})
	}
}

type addDrinkRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

// AddDrinkToTab puts one unit of an item on a tab, reserving it from stock.
func AddDrinkToTab(svc tabssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tab service unavailable"))
			return
		}

		tabID := chi.URLParam(r, "tabID")
		ctx := logg.WithTabID(r.Context(), tabID)

		var payload addDrinkRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ctx = logg.WithItemID(ctx, payload.ItemID)

		tab, err := svc.AddDrinkToTab(ctx, tabID, payload.ItemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, tab)
	}
}

type tabTotalResponse struct {
	TabID string          `json:"tabId"`
	Total decimal.Decimal `json:"total"`
}

// TabTotal returns the current bill for an open tab.
func TabTotal(svc tabssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tab service unavailable"))
			return
		}

		tabID := chi.URLParam(r, "tabID")
		ctx := logg.WithTabID(r.Context(), tabID)

		tab, err := svc.Find(ctx, tabID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, tabTotalResponse{
			TabID: tab.ID,
			Total: tab.Total().Round(2),
		})
	}
}

// SettleTab marks a tab paid and moves it into the history archive.
func SettleTab(svc tabssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tab service unavailable"))
			return
		}

		tabID := chi.URLParam(r, "tabID")
		ctx := logg.WithTabID(r.Context(), tabID)

		settled, err := svc.SettleTab(ctx, tabID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, settled)
	}
}

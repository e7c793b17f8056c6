package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kafanica/kafanica-backend/api/responses"
	"github.com/kafanica/kafanica-backend/api/validators"
	inventorysvc "github.com/kafanica/kafanica-backend/internal/inventory"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
	"github.com/kafanica/kafanica-backend/pkg/logger"
)

// ListInventory returns the ledger in display order.
func ListInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

type upsertStockRequest struct {
	Name     string          `json:"name" validate:"required"`
	Quantity int             `json:"quantity" validate:"required"`
	Emoji    string          `json:"emoji"`
	Price    decimal.Decimal `json:"price"`
}

// UpsertStock records a stock delivery: a restock when the name matches an
// existing item, a new item otherwise.
func UpsertStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload upsertStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpsertStock(r.Context(), inventorysvc.UpsertStockInput{
			Name:     payload.Name,
			Quantity: payload.Quantity,
			Emoji:    payload.Emoji,
			Price:    payload.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type adjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// AdjustInventoryQuantity applies a signed delta, clamped at zero.
func AdjustInventoryQuantity(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		itemID := chi.URLParam(r, "itemID")
		ctx := logg.WithItemID(r.Context(), itemID)

		var payload adjustQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.AdjustQuantity(ctx, itemID, payload.Delta)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

type reorderInventoryRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// ReorderInventory rearranges the display sequence without touching stock.
func ReorderInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload reorderInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reorder(r.Context(), payload.IDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

// DeleteInventoryItem removes an item from the ledger. Order-line snapshots
// referencing it stay valid.
func DeleteInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		itemID := chi.URLParam(r, "itemID")
		ctx := logg.WithItemID(r.Context(), itemID)

		if err := svc.RemoveItem(ctx, itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"id": itemID})
	}
}

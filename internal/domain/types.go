package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is one sellable drink in the ledger. Quantity never drops
// below zero; adjustments clamp at the floor instead of failing.
type InventoryItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Emoji    string          `json:"emoji"`
	Price    decimal.Decimal `json:"price"`
}

// OrderLine is one billed position on a tab. Name and PricePerItem are
// snapshots taken when the drink was first ordered, so settled bills do not
// change if the inventory item is later renamed, repriced or deleted.
type OrderLine struct {
	DrinkID      string          `json:"drinkId"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"pricePerItem"`
}

// LineTotal returns quantity times the snapshotted unit price.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.PricePerItem.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// GuestTab is a guest's collection of ordered drinks. While PaidAt is nil the
// tab is open and mutable; once settled it lives in the history archive and
// its orders are immutable.
type GuestTab struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Orders []OrderLine `json:"orders"`
	PaidAt *time.Time  `json:"paidAt,omitempty"`
}

// Total returns the bill total over all order lines.
func (t GuestTab) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Orders {
		total = total.Add(line.LineTotal())
	}
	return total
}

// Clone returns a deep copy so callers cannot alias internal state.
func (t GuestTab) Clone() GuestTab {
	out := t
	out.Orders = make([]OrderLine, len(t.Orders))
	copy(out.Orders, t.Orders)
	if t.PaidAt != nil {
		paidAt := *t.PaidAt
		out.PaidAt = &paidAt
	}
	return out
}

// CloneTabs deep-copies a tab sequence.
func CloneTabs(tabs []GuestTab) []GuestTab {
	out := make([]GuestTab, len(tabs))
	for i := range tabs {
		out[i] = tabs[i].Clone()
	}
	return out
}

// CloneItems copies an inventory sequence.
func CloneItems(items []InventoryItem) []InventoryItem {
	out := make([]InventoryItem, len(items))
	copy(out, items)
	return out
}

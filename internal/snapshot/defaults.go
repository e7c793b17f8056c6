package snapshot

import (
	"github.com/shopspring/decimal"

	"github.com/kafanica/kafanica-backend/internal/domain"
)

// DefaultInventory is the starter stock a fresh install boots with. Used
// whenever the inventory snapshot is absent or unreadable.
func DefaultInventory() []domain.InventoryItem {
	return []domain.InventoryItem{
		{ID: "coke", Name: "Koka-Kola", Quantity: 24, Emoji: "🥤", Price: decimal.NewFromInt(200)},
		{ID: "cockta", Name: "Cockta", Quantity: 18, Emoji: "🥤", Price: decimal.NewFromInt(200)},
		{ID: "water", Name: "Voda Rosa", Quantity: 30, Emoji: "💧", Price: decimal.NewFromInt(120)},
		{ID: "orange-juice", Name: "Next Pomorandža", Quantity: 12, Emoji: "🍊", Price: decimal.NewFromInt(200)},
		{ID: "apple-juice", Name: "Somersby Jabuka", Quantity: 15, Emoji: "🍏", Price: decimal.NewFromInt(250)},
		{ID: "iced-tea", Name: "Fuze Tea", Quantity: 20, Emoji: "🍹", Price: decimal.NewFromInt(200)},
		{ID: "lemonade", Name: "Next Limunada", Quantity: 10, Emoji: "🍋", Price: decimal.NewFromInt(200)},
		{ID: "energy-drink", Name: "Red Bull", Quantity: 8, Emoji: "⚡", Price: decimal.NewFromInt(300)},
		{ID: "black-coffee", Name: "Domaća kafa", Quantity: 30, Emoji: "☕", Price: decimal.NewFromInt(120)},
		{ID: "heineken-small", Name: "Heineken 0.25l", Quantity: 24, Emoji: "🍺", Price: decimal.NewFromInt(250)},
	}
}

package snapshot

import (
	"context"
	"encoding/json"

	"github.com/kafanica/kafanica-backend/internal/domain"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
	"github.com/kafanica/kafanica-backend/pkg/logger"
)

// State is everything the core components are seeded with at startup.
type State struct {
	Inventory []domain.InventoryItem
	OpenTabs  []domain.GuestTab
	History   []domain.GuestTab
}

// LoadState reads the three snapshot records. A record that is absent,
// unparseable or structurally invalid falls back to its default; that is not
// an error, the tool just starts fresh for that collection.
func LoadState(ctx context.Context, repo Repository, logg *logger.Logger) State {
	state := State{
		Inventory: DefaultInventory(),
		OpenTabs:  []domain.GuestTab{},
		History:   []domain.GuestTab{},
	}

	var inventory []domain.InventoryItem
	if loadRecord(ctx, repo, logg, NameInventory, &inventory) && validInventory(inventory) {
		state.Inventory = inventory
	}

	var openTabs []domain.GuestTab
	if loadRecord(ctx, repo, logg, NameOpenTabs, &openTabs) && validOpenTabs(openTabs) {
		state.OpenTabs = openTabs
	}

	var history []domain.GuestTab
	if loadRecord(ctx, repo, logg, NameHistory, &history) && validHistory(history) {
		state.History = history
	}

	return state
}

func loadRecord(ctx context.Context, repo Repository, logg *logger.Logger, name string, dest any) bool {
	ctx = logg.WithSnapshotName(ctx, name)

	payload, err := repo.Load(ctx, name)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			logg.Info(ctx, "snapshot absent, using defaults")
		} else {
			logg.Warn(ctx, "snapshot unreadable, using defaults")
		}
		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		logg.Warn(ctx, "snapshot failed to parse, using defaults")
		return false
	}
	return true
}

func validInventory(items []domain.InventoryItem) bool {
	for _, item := range items {
		if item.ID == "" || item.Quantity < 0 || item.Price.IsNegative() {
			return false
		}
	}
	return true
}

func validOpenTabs(tabs []domain.GuestTab) bool {
	for _, tab := range tabs {
		if tab.ID == "" || tab.PaidAt != nil {
			return false
		}
	}
	return true
}

func validHistory(tabs []domain.GuestTab) bool {
	for _, tab := range tabs {
		if tab.ID == "" || tab.PaidAt == nil {
			return false
		}
	}
	return true
}

package tabs

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafanica/kafanica-backend/internal/domain"
	"github.com/kafanica/kafanica-backend/internal/inventory"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
)

type stubLedger struct {
	stock    map[string]int
	items    map[string]inventory.ReservedItem
	reserves int
}

func (s *stubLedger) ReserveOne(ctx context.Context, itemID string) (inventory.ReservedItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return inventory.ReservedItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	if s.stock[itemID] <= 0 {
		return inventory.ReservedItem{}, pkgerrors.New(pkgerrors.CodeStateConflict, "item is out of stock")
	}
	s.stock[itemID]--
	s.reserves++
	return item, nil
}

type stubArchive struct {
	recorded []domain.GuestTab
	err      error
}

func (s *stubArchive) Record(ctx context.Context, tab domain.GuestTab) error {
	if s.err != nil {
		return s.err
	}
	s.recorded = append([]domain.GuestTab{tab}, s.recorded...)
	return nil
}

func newStubLedger() *stubLedger {
	return &stubLedger{
		stock: map[string]int{"coke": 5, "beer": 1, "empty": 0},
		items: map[string]inventory.ReservedItem{
			"coke":  {ItemID: "coke", Name: "Koka-Kola", Price: decimal.NewFromInt(200)},
			"beer":  {ItemID: "beer", Name: "Heineken 0.25l", Price: decimal.NewFromInt(250)},
			"empty": {ItemID: "empty", Name: "Fuze Tea", Price: decimal.NewFromInt(200)},
		},
	}
}

func newTestService(t *testing.T, ledger Ledger, archive Archive, initial ...domain.GuestTab) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Initial: initial,
		Ledger:  ledger,
		Archive: archive,
		Now:     func() time.Time { return time.Date(2026, 9, 1, 22, 30, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceValidatesCollaborators(t *testing.T) {
	_, err := NewService(ServiceParams{Archive: &stubArchive{}})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{Ledger: newStubLedger()})
	assert.Error(t, err)
}

func TestNewServiceRejectsSettledTabs(t *testing.T) {
	paidAt := time.Now()
	_, err := NewService(ServiceParams{
		Initial: []domain.GuestTab{{ID: "t1", Name: "Marko", PaidAt: &paidAt}},
		Ledger:  newStubLedger(),
		Archive: &stubArchive{},
	})
	assert.Error(t, err)
}

func TestOpenTab(t *testing.T) {
	svc := newTestService(t, newStubLedger(), &stubArchive{})
	ctx := context.Background()

	tab, err := svc.OpenTab(ctx, "  Marko  ")
	require.NoError(t, err)
	assert.NotEmpty(t, tab.ID)
	assert.Equal(t, "Marko", tab.Name)
	assert.Empty(t, tab.Orders)
	assert.Nil(t, tab.PaidAt)

	second, err := svc.OpenTab(ctx, "Jovana")
	require.NoError(t, err)
	assert.NotEqual(t, tab.ID, second.ID)

	open := svc.List(ctx)
	require.Len(t, open, 2)
	assert.Equal(t, "Marko", open[0].Name, "insertion order is display order")
	assert.Equal(t, "Jovana", open[1].Name)
}

func TestOpenTabRejectsBlankName(t *testing.T) {
	svc := newTestService(t, newStubLedger(), &stubArchive{})

	_, err := svc.OpenTab(context.Background(), "   ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, svc.List(context.Background()))
}

func TestAddDrinkAccumulatesIntoOneLine(t *testing.T) {
	ledger := newStubLedger()
	svc := newTestService(t, ledger, &stubArchive{})
	ctx := context.Background()

	tab, err := svc.OpenTab(ctx, "Marko")
	require.NoError(t, err)

	_, err = svc.AddDrinkToTab(ctx, tab.ID, "coke")
	require.NoError(t, err)
	updated, err := svc.AddDrinkToTab(ctx, tab.ID, "coke")
	require.NoError(t, err)

	require.Len(t, updated.Orders, 1, "repeat additions must not append a new line")
	assert.Equal(t, 2, updated.Orders[0].Quantity)
	assert.Equal(t, "Koka-Kola", updated.Orders[0].Name)
	assert.True(t, updated.Orders[0].PricePerItem.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 3, ledger.stock["coke"], "stock decremented by exactly 2")
}

func TestAddDrinkKeepsSeparateLinesPerDrink(t *testing.T) {
	svc := newTestService(t, newStubLedger(), &stubArchive{})
	ctx := context.Background()

	tab, err := svc.OpenTab(ctx, "Marko")
	require.NoError(t, err)

	_, err = svc.AddDrinkToTab(ctx, tab.ID, "coke")
	require.NoError(t, err)
	updated, err := svc.AddDrinkToTab(ctx, tab.ID, "beer")
	require.NoError(t, err)

	require.Len(t, updated.Orders, 2)
	assert.Equal(t, "coke", updated.Orders[0].DrinkID)
	assert.Equal(t, "beer", updated.Orders[1].DrinkID)
}

func TestAddDrinkOutOfStockIsNoOp(t *testing.T) {
	ledger := newStubLedger()
	svc := newTestService(t, ledger, &stubArchive{})
	ctx := context.Background()

	tab, err := svc.OpenTab(ctx, "Marko")
	require.NoError(t, err)

	_, err = svc.AddDrinkToTab(ctx, tab.ID, "empty")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	current, err := svc.Find(ctx, tab.ID)
	require.NoError(t, err)
	assert.Empty(t, current.Orders, "tab unchanged on oversell")
	assert.Equal(t, 0, ledger.stock["empty"], "inventory unchanged on oversell")
}

func TestAddDrinkUnknownTabDoesNotReserve(t *testing.T) {
	ledger := newStubLedger()
	svc := newTestService(t, ledger, &stubArchive{})

	_, err := svc.AddDrinkToTab(context.Background(), "ghost", "coke")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, 0, ledger.reserves, "missing tab must not touch inventory")
}

func TestAddDrinkUnknownItem(t *testing.T) {
	svc := newTestService(t, newStubLedger(), &stubArchive{})
	ctx := context.Background()

	tab, err := svc.OpenTab(ctx, "Marko")
	require.NoError(t, err)

	_, err = svc.AddDrinkToTab(ctx, tab.ID, "ghost")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	current, err := svc.Find(ctx, tab.ID)
	require.NoError(t, err)
	assert.Empty(t, current.Orders)
}

func TestSettleTabMovesTabIntoArchive(t *testing.T) {
	archive := &stubArchive{}
	svc := newTestService(t, newStubLedger(), archive)
	ctx := context.Background()

	tab, err := svc.OpenTab(ctx, "Marko")
	require.NoError(t, err)
	_, err = svc.AddDrinkToTab(ctx, tab.ID, "coke")
	require.NoError(t, err)
	before, err := svc.Find(ctx, tab.ID)
	require.NoError(t, err)

	settled, err := svc.SettleTab(ctx, tab.ID)
	require.NoError(t, err)

	require.NotNil(t, settled.PaidAt)
	assert.Equal(t, time.Date(2026, 9, 1, 22, 30, 0, 0, time.UTC), *settled.PaidAt)
	assert.Equal(t, before.Orders, settled.Orders, "orders identical across the move")

	assert.Empty(t, svc.List(ctx), "open collection shrinks by one")
	require.Len(t, archive.recorded, 1, "history grows by one")
	assert.Equal(t, settled.ID, archive.recorded[0].ID)

	_, err = svc.SettleTab(ctx, tab.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "a settled tab cannot be settled again")
}

func TestSettleTabArchiveFailureKeepsTabOpen(t *testing.T) {
	archive := &stubArchive{err: pkgerrors.New(pkgerrors.CodeInternal, "archive down")}
	svc := newTestService(t, newStubLedger(), archive)
	ctx := context.Background()

	tab, err := svc.OpenTab(ctx, "Marko")
	require.NoError(t, err)

	_, err = svc.SettleTab(ctx, tab.ID)
	require.Error(t, err)
	assert.Len(t, svc.List(ctx), 1, "tab stays open when the archive rejects it")
}

func TestCloseTabWithoutPaymentSkipsArchive(t *testing.T) {
	archive := &stubArchive{}
	svc := newTestService(t, newStubLedger(), archive)
	ctx := context.Background()

	tab, err := svc.OpenTab(ctx, "Marko")
	require.NoError(t, err)

	require.NoError(t, svc.CloseTabWithoutPayment(ctx, tab.ID))
	assert.Empty(t, svc.List(ctx))
	assert.Empty(t, archive.recorded, "closing without payment never archives")

	err = svc.CloseTabWithoutPayment(ctx, tab.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	var count int
	svc, err := NewService(ServiceParams{
		Ledger:   newStubLedger(),
		Archive:  &stubArchive{},
		OnChange: func(context.Context, []domain.GuestTab) { count++ },
	})
	require.NoError(t, err)
	ctx := context.Background()

	tab, err := svc.OpenTab(ctx, "Marko")
	require.NoError(t, err)
	_, err = svc.AddDrinkToTab(ctx, tab.ID, "coke")
	require.NoError(t, err)
	_, err = svc.SettleTab(ctx, tab.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, count)
}

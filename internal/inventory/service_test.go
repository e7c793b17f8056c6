package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafanica/kafanica-backend/internal/domain"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
)

func newTestService(t *testing.T, initial ...domain.InventoryItem) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Initial: initial})
	require.NoError(t, err)
	return svc
}

func item(id, name string, qty int, price int64) domain.InventoryItem {
	return domain.InventoryItem{ID: id, Name: name, Quantity: qty, Emoji: "🥤", Price: decimal.NewFromInt(price)}
}

func TestUpsertStockCreatesNewItem(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.UpsertStock(context.Background(), UpsertStockInput{
		Name:     "Cola",
		Quantity: 10,
		Emoji:    "🥤",
		Price:    decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Cola", created.Name)
	assert.Equal(t, 10, created.Quantity)

	items := svc.List(context.Background())
	require.Len(t, items, 1)
}

func TestUpsertStockMergesCaseInsensitiveKeepingPriceAndID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.UpsertStock(ctx, UpsertStockInput{Name: "Cola", Quantity: 10, Emoji: "🥤", Price: decimal.NewFromInt(200)})
	require.NoError(t, err)

	merged, err := svc.UpsertStock(ctx, UpsertStockInput{Name: "cola", Quantity: 5, Emoji: "🧃", Price: decimal.NewFromInt(999)})
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, "Cola", merged.Name)
	assert.Equal(t, 15, merged.Quantity)
	assert.Equal(t, "🧃", merged.Emoji)
	assert.True(t, merged.Price.Equal(decimal.NewFromInt(200)), "price from first creation wins")

	items := svc.List(ctx)
	require.Len(t, items, 1)
}

func TestUpsertStockRejectsInvalidInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input UpsertStockInput
	}{
		{"blank name", UpsertStockInput{Name: "   ", Quantity: 1, Price: decimal.NewFromInt(1)}},
		{"zero quantity", UpsertStockInput{Name: "Cola", Quantity: 0, Price: decimal.NewFromInt(1)}},
		{"negative quantity", UpsertStockInput{Name: "Cola", Quantity: -3, Price: decimal.NewFromInt(1)}},
		{"negative price", UpsertStockInput{Name: "Cola", Quantity: 1, Price: decimal.NewFromInt(-1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpsertStock(ctx, tc.input)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}

	assert.Empty(t, svc.List(ctx), "rejected input must not mutate state")
}

func TestAdjustQuantityClampsAtZero(t *testing.T) {
	svc := newTestService(t, item("coke", "Koka-Kola", 3, 200))
	ctx := context.Background()

	updated, err := svc.AdjustQuantity(ctx, "coke", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)

	updated, err = svc.AdjustQuantity(ctx, "coke", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
}

func TestAdjustQuantityNeverGoesNegative(t *testing.T) {
	svc := newTestService(t, item("coke", "Koka-Kola", 2, 200))
	ctx := context.Background()

	deltas := []int{-1, -5, 3, -2, -2, 1, -100}
	for _, delta := range deltas {
		updated, err := svc.AdjustQuantity(ctx, "coke", delta)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, updated.Quantity, 0)
	}
}

func TestAdjustQuantityUnknownItem(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.AdjustQuantity(context.Background(), "ghost", 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRemoveItem(t *testing.T) {
	svc := newTestService(t, item("coke", "Koka-Kola", 3, 200), item("water", "Voda Rosa", 5, 120))
	ctx := context.Background()

	require.NoError(t, svc.RemoveItem(ctx, "coke"))

	items := svc.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "water", items[0].ID)

	err := svc.RemoveItem(ctx, "coke")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestReorder(t *testing.T) {
	svc := newTestService(t,
		item("coke", "Koka-Kola", 3, 200),
		item("water", "Voda Rosa", 5, 120),
		item("beer", "Heineken 0.25l", 7, 250),
	)
	ctx := context.Background()

	require.NoError(t, svc.Reorder(ctx, []string{"beer", "coke", "water"}))

	items := svc.List(ctx)
	assert.Equal(t, []string{"beer", "coke", "water"}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, 7, items[0].Quantity, "reorder must not touch quantities")
}

func TestReorderRejectsBadPermutations(t *testing.T) {
	svc := newTestService(t, item("coke", "Koka-Kola", 3, 200), item("water", "Voda Rosa", 5, 120))
	ctx := context.Background()

	err := svc.Reorder(ctx, []string{"coke"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = svc.Reorder(ctx, []string{"coke", "ghost"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = svc.Reorder(ctx, []string{"coke", "coke"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	items := svc.List(ctx)
	assert.Equal(t, "coke", items[0].ID, "failed reorder must leave order unchanged")
}

func TestReserveOneDecrementsAndSnapshots(t *testing.T) {
	svc := newTestService(t, item("coke", "Koka-Kola", 1, 200))
	ctx := context.Background()

	reserved, err := svc.ReserveOne(ctx, "coke")
	require.NoError(t, err)
	assert.Equal(t, "Koka-Kola", reserved.Name)
	assert.True(t, reserved.Price.Equal(decimal.NewFromInt(200)))

	items := svc.List(ctx)
	assert.Equal(t, 0, items[0].Quantity)

	_, err = svc.ReserveOne(ctx, "coke")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	items = svc.List(ctx)
	assert.Equal(t, 0, items[0].Quantity, "failed reserve must not under-deduct")
}

func TestOnChangeFiresPerMutationInOrder(t *testing.T) {
	var snapshots [][]domain.InventoryItem
	svc, err := NewService(ServiceParams{
		Initial: []domain.InventoryItem{item("coke", "Koka-Kola", 3, 200)},
		OnChange: func(_ context.Context, items []domain.InventoryItem) {
			snapshots = append(snapshots, items)
		},
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.AdjustQuantity(ctx, "coke", 2)
	require.NoError(t, err)
	_, err = svc.ReserveOne(ctx, "coke")
	require.NoError(t, err)

	require.Len(t, snapshots, 2)
	assert.Equal(t, 5, snapshots[0][0].Quantity)
	assert.Equal(t, 4, snapshots[1][0].Quantity)
}

func TestListReturnsCopy(t *testing.T) {
	svc := newTestService(t, item("coke", "Koka-Kola", 3, 200))
	ctx := context.Background()

	items := svc.List(ctx)
	items[0].Quantity = 999

	fresh := svc.List(ctx)
	assert.Equal(t, 3, fresh[0].Quantity)
}

func TestNewServiceRejectsCorruptState(t *testing.T) {
	_, err := NewService(ServiceParams{Initial: []domain.InventoryItem{{Name: "no id"}}})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{Initial: []domain.InventoryItem{{ID: "x", Name: "neg", Quantity: -1}}})
	assert.Error(t, err)
}

package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kafanica/kafanica-backend/internal/domain"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
	"github.com/kafanica/kafanica-backend/pkg/metrics"
)

// Service owns the sellable items and their stock counts and prices.
type Service interface {
	List(ctx context.Context) []domain.InventoryItem
	UpsertStock(ctx context.Context, input UpsertStockInput) (domain.InventoryItem, error)
	AdjustQuantity(ctx context.Context, itemID string, delta int) (domain.InventoryItem, error)
	RemoveItem(ctx context.Context, itemID string) error
	Reorder(ctx context.Context, ids []string) error
	ReserveOne(ctx context.Context, itemID string) (ReservedItem, error)
}

// UpsertStockInput carries a stock delivery. A case-insensitive name match
// against an existing item restocks it instead of creating a duplicate.
type UpsertStockInput struct {
	Name     string
	Quantity int
	Emoji    string
	Price    decimal.Decimal
}

// ReservedItem is the snapshot handed to the tab manager when one unit is
// taken off the shelf.
type ReservedItem struct {
	ItemID string
	Name   string
	Price  decimal.Decimal
}

// ServiceParams wires the ledger with its initial state and change hook.
type ServiceParams struct {
	Initial  []domain.InventoryItem
	OnChange func(ctx context.Context, items []domain.InventoryItem)
	Metrics  *metrics.POSMetrics
}

type service struct {
	mu       sync.Mutex
	items    []domain.InventoryItem
	onChange func(ctx context.Context, items []domain.InventoryItem)
	metrics  *metrics.POSMetrics
}

// NewService builds the inventory ledger seeded from a loaded snapshot.
func NewService(params ServiceParams) (Service, error) {
	for _, item := range params.Initial {
		if item.ID == "" {
			return nil, fmt.Errorf("inventory item %q has no id", item.Name)
		}
		if item.Quantity < 0 {
			return nil, fmt.Errorf("inventory item %q has negative quantity", item.Name)
		}
	}
	return &service{
		items:    domain.CloneItems(params.Initial),
		onChange: params.OnChange,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) List(ctx context.Context) []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneItems(s.items)
}

func (s *service) UpsertStock(ctx context.Context, input UpsertStockInput) (domain.InventoryItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.InventoryItem{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Quantity <= 0 {
		return domain.InventoryItem{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.Price.IsNegative() {
		return domain.InventoryItem{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Restock: quantity sums, emoji is replaced, price and id stay as created.
	for i := range s.items {
		if strings.EqualFold(s.items[i].Name, name) {
			s.items[i].Quantity += input.Quantity
			s.items[i].Emoji = input.Emoji
			s.changed(ctx, "upsert_stock")
			return s.items[i], nil
		}
	}

	item := domain.InventoryItem{
		ID:       uuid.NewString(),
		Name:     name,
		Quantity: input.Quantity,
		Emoji:    input.Emoji,
		Price:    input.Price,
	}
	s.items = append(s.items, item)
	s.changed(ctx, "upsert_stock")
	return item, nil
}

func (s *service) AdjustQuantity(ctx context.Context, itemID string, delta int) (domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return domain.InventoryItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}

	next := s.items[idx].Quantity + delta
	if next < 0 {
		next = 0
	}
	s.items[idx].Quantity = next
	s.changed(ctx, "adjust_quantity")
	return s.items[idx], nil
}

func (s *service) RemoveItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.changed(ctx, "remove_item")
	return nil
}

// Reorder rearranges the display sequence. The id list must be a permutation
// of the current ledger; quantities and prices are untouched.
func (s *service) Reorder(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) != len(s.items) {
		return pkgerrors.New(pkgerrors.CodeValidation, "reorder must list every inventory item exactly once")
	}

	byID := make(map[string]domain.InventoryItem, len(s.items))
	for _, item := range s.items {
		byID[item.ID] = item
	}

	next := make([]domain.InventoryItem, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "reorder references an unknown item").WithDetails(map[string]string{"id": id})
		}
		delete(byID, id)
		next = append(next, item)
	}

	s.items = next
	s.changed(ctx, "reorder")
	return nil
}

func (s *service) ReserveOne(ctx context.Context, itemID string) (ReservedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return ReservedItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	if s.items[idx].Quantity <= 0 {
		return ReservedItem{}, pkgerrors.New(pkgerrors.CodeStateConflict, "item is out of stock")
	}

	s.items[idx].Quantity--
	s.changed(ctx, "reserve_one")
	return ReservedItem{
		ItemID: s.items[idx].ID,
		Name:   s.items[idx].Name,
		Price:  s.items[idx].Price,
	}, nil
}

// indexOf must be called with the lock held.
func (s *service) indexOf(itemID string) int {
	for i := range s.items {
		if s.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// changed must be called with the lock held so snapshot writes are enqueued
// in mutation order.
func (s *service) changed(ctx context.Context, operation string) {
	s.metrics.IncMutation(operation)
	if s.onChange != nil {
		s.onChange(ctx, domain.CloneItems(s.items))
	}
}

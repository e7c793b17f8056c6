package tabs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kafanica/kafanica-backend/internal/domain"
	"github.com/kafanica/kafanica-backend/internal/inventory"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
	"github.com/kafanica/kafanica-backend/pkg/metrics"
)

// Ledger is the slice of the inventory service the tab manager consumes.
type Ledger interface {
	ReserveOne(ctx context.Context, itemID string) (inventory.ReservedItem, error)
}

// Archive receives settled tabs. Recording is the only way a tab enters it.
type Archive interface {
	Record(ctx context.Context, tab domain.GuestTab) error
}

// Service owns the open guest tabs.
type Service interface {
	List(ctx context.Context) []domain.GuestTab
	OpenTab(ctx context.Context, name string) (domain.GuestTab, error)
	CloseTabWithoutPayment(ctx context.Context, tabID string) error
	AddDrinkToTab(ctx context.Context, tabID, itemID string) (domain.GuestTab, error)
	SettleTab(ctx context.Context, tabID string) (domain.GuestTab, error)
	Find(ctx context.Context, tabID string) (domain.GuestTab, error)
}

// ServiceParams wires the tab manager with its collaborators and initial
// state.
type ServiceParams struct {
	Initial  []domain.GuestTab
	Ledger   Ledger
	Archive  Archive
	OnChange func(ctx context.Context, tabs []domain.GuestTab)
	Metrics  *metrics.POSMetrics
	Now      func() time.Time
}

type service struct {
	mu       sync.Mutex
	tabs     []domain.GuestTab
	ledger   Ledger
	archive  Archive
	onChange func(ctx context.Context, tabs []domain.GuestTab)
	metrics  *metrics.POSMetrics
	now      func() time.Time
}

// NewService builds the tab manager seeded from a loaded snapshot.
func NewService(params ServiceParams) (Service, error) {
	if params.Ledger == nil {
		return nil, errors.New("inventory ledger is required")
	}
	if params.Archive == nil {
		return nil, errors.New("history archive is required")
	}
	for _, tab := range params.Initial {
		if tab.ID == "" {
			return nil, fmt.Errorf("open tab %q has no id", tab.Name)
		}
		if tab.PaidAt != nil {
			return nil, fmt.Errorf("tab %q is settled and cannot be loaded as open", tab.Name)
		}
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		tabs:     domain.CloneTabs(params.Initial),
		ledger:   params.Ledger,
		archive:  params.Archive,
		onChange: params.OnChange,
		metrics:  params.Metrics,
		now:      now,
	}, nil
}

func (s *service) List(ctx context.Context) []domain.GuestTab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneTabs(s.tabs)
}

func (s *service) Find(ctx context.Context, tabID string) (domain.GuestTab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(tabID)
	if idx < 0 {
		return domain.GuestTab{}, pkgerrors.New(pkgerrors.CodeNotFound, "tab not found")
	}
	return s.tabs[idx].Clone(), nil
}

func (s *service) OpenTab(ctx context.Context, name string) (domain.GuestTab, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.GuestTab{}, pkgerrors.New(pkgerrors.CodeValidation, "guest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tab := domain.GuestTab{
		ID:     uuid.NewString(),
		Name:   name,
		Orders: []domain.OrderLine{},
	}
	s.tabs = append(s.tabs, tab)
	s.changed(ctx, "open_tab")
	return tab.Clone(), nil
}

// CloseTabWithoutPayment removes the tab permanently. It never reaches the
// history archive; that is what distinguishes it from settlement.
func (s *service) CloseTabWithoutPayment(ctx context.Context, tabID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(tabID)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "tab not found")
	}

	s.tabs = append(s.tabs[:idx], s.tabs[idx+1:]...)
	s.changed(ctx, "close_tab")
	return nil
}

// AddDrinkToTab reserves one unit from the ledger and applies it to the tab's
// order line for that drink. The reserve and the line mutation succeed or
// fail together: a missing tab never reserves stock, and a failed reserve
// leaves the tab untouched.
func (s *service) AddDrinkToTab(ctx context.Context, tabID, itemID string) (domain.GuestTab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(tabID)
	if idx < 0 {
		return domain.GuestTab{}, pkgerrors.New(pkgerrors.CodeNotFound, "tab not found")
	}

	reserved, err := s.ledger.ReserveOne(ctx, itemID)
	if err != nil {
		return domain.GuestTab{}, err
	}

	tab := &s.tabs[idx]
	lineIdx := -1
	for i := range tab.Orders {
		if tab.Orders[i].DrinkID == itemID {
			lineIdx = i
			break
		}
	}

	if lineIdx >= 0 {
		tab.Orders[lineIdx].Quantity++
	} else {
		tab.Orders = append(tab.Orders, domain.OrderLine{
			DrinkID:      reserved.ItemID,
			Name:         reserved.Name,
			Quantity:     1,
			PricePerItem: reserved.Price,
		})
	}

	s.changed(ctx, "add_drink")
	return tab.Clone(), nil
}

// SettleTab stamps the payment time and moves the tab into the archive. The
// tab leaves the open collection in the same step, so it never exists in
// both.
func (s *service) SettleTab(ctx context.Context, tabID string) (domain.GuestTab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(tabID)
	if idx < 0 {
		return domain.GuestTab{}, pkgerrors.New(pkgerrors.CodeNotFound, "tab not found")
	}

	settled := s.tabs[idx].Clone()
	paidAt := s.now()
	settled.PaidAt = &paidAt

	if err := s.archive.Record(ctx, settled); err != nil {
		return domain.GuestTab{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "archiving settled tab")
	}

	s.tabs = append(s.tabs[:idx], s.tabs[idx+1:]...)
	s.changed(ctx, "settle_tab")
	return settled, nil
}

// indexOf must be called with the lock held.
func (s *service) indexOf(tabID string) int {
	for i := range s.tabs {
		if s.tabs[i].ID == tabID {
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
		s.onChange(ctx, domain.CloneTabs(s.tabs))
	}
}

package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/kafanica/kafanica-backend/internal/domain"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
	"github.com/kafanica/kafanica-backend/pkg/metrics"
)

// Service owns the settled-tab archive, most recent first. Entries are
// immutable once recorded; Clear is the only way anything leaves.
type Service interface {
	Record(ctx context.Context, tab domain.GuestTab) error
	List(ctx context.Context) []domain.GuestTab
	Clear(ctx context.Context) error
}

// ServiceParams wires the archive with its initial state and change hook.
type ServiceParams struct {
	Initial  []domain.GuestTab
	OnChange func(ctx context.Context, tabs []domain.GuestTab)
	Metrics  *metrics.POSMetrics
}

type service struct {
	mu       sync.Mutex
	entries  []domain.GuestTab
	onChange func(ctx context.Context, tabs []domain.GuestTab)
	metrics  *metrics.POSMetrics
}

// NewService builds the archive seeded from a loaded snapshot.
func NewService(params ServiceParams) (Service, error) {
	for _, tab := range params.Initial {
		if tab.PaidAt == nil {
			return nil, fmt.Errorf("history entry %q has no payment timestamp", tab.Name)
		}
	}
	return &service{
		entries:  domain.CloneTabs(params.Initial),
		onChange: params.OnChange,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) Record(ctx context.Context, tab domain.GuestTab) error {
	if tab.PaidAt == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "only settled tabs can be archived")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]domain.GuestTab{tab.Clone()}, s.entries...)
	s.changed(ctx, "record_history")
	return nil
}

func (s *service) List(ctx context.Context) []domain.GuestTab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneTabs(s.entries)
}

func (s *service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.changed(ctx, "clear_history")
	return nil
}

// changed must be called with the lock held so snapshot writes are enqueued
// in mutation order.
func (s *service) changed(ctx context.Context, operation string) {
	s.metrics.IncMutation(operation)
	if s.onChange != nil {
		s.onChange(ctx, domain.CloneTabs(s.entries))
	}
}

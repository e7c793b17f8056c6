package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/kafanica/kafanica-backend/internal/domain"
	"github.com/kafanica/kafanica-backend/pkg/config"
	"github.com/kafanica/kafanica-backend/pkg/logger"
	"github.com/kafanica/kafanica-backend/pkg/metrics"
)

// Saver persists snapshot records asynchronously. Writes are applied by a
// single goroutine in enqueue order, so a later snapshot can never be
// overtaken by an earlier one. Failures are logged and counted, never
// surfaced to the mutation that triggered them: the in-memory state stays
// authoritative for the session.
type Saver struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.POSMetrics
	timeout time.Duration

	queue chan write
	done  chan struct{}
	once  sync.Once

	errMu  sync.Mutex
	errs   []error
	closed bool
}

type write struct {
	name    string
	payload []byte
}

// SaverParams wires the saver.
type SaverParams struct {
	Repo    Repository
	Logger  *logger.Logger
	Metrics *metrics.POSMetrics
	Config  config.SnapshotConfig
}

// NewSaver builds the saver and starts its writer goroutine.
func NewSaver(params SaverParams) (*Saver, error) {
	if params.Repo == nil {
		return nil, errors.New("snapshot repository is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}

	queueSize := params.Config.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	timeout := params.Config.FlushTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	s := &Saver{
		repo:    params.Repo,
		logg:    params.Logger,
		metrics: params.Metrics,
		timeout: timeout,
		queue:   make(chan write, queueSize),
		done:    make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// SaveInventory enqueues the inventory record.
func (s *Saver) SaveInventory(ctx context.Context, items []domain.InventoryItem) {
	s.enqueue(ctx, NameInventory, items)
}

// SaveOpenTabs enqueues the open-tabs record.
func (s *Saver) SaveOpenTabs(ctx context.Context, tabs []domain.GuestTab) {
	s.enqueue(ctx, NameOpenTabs, tabs)
}

// SaveHistory enqueues the history record.
func (s *Saver) SaveHistory(ctx context.Context, tabs []domain.GuestTab) {
	s.enqueue(ctx, NameHistory, tabs)
}

func (s *Saver) enqueue(ctx context.Context, name string, value any) {
	ctx = s.logg.WithSnapshotName(ctx, name)

	payload, err := json.Marshal(value)
	if err != nil {
		s.metrics.IncSnapshotFailure(name)
		s.logg.Error(ctx, "snapshot marshal failed", err)
		return
	}

	s.errMu.Lock()
	if s.closed {
		s.errMu.Unlock()
		s.logg.Warn(ctx, "snapshot write after close, dropped")
		return
	}
	var dropped bool
	select {
	case s.queue <- write{name: name, payload: payload}:
	default:
		dropped = true
	}
	s.errMu.Unlock()

	if dropped {
		// Persistence is best effort: under backpressure the write is
		// dropped rather than blocking the mutation path. A newer snapshot
		// for the same record will follow.
		s.metrics.IncSnapshotFailure(name)
		s.logg.Warn(ctx, "snapshot queue full, write dropped")
	}
}

func (s *Saver) run() {
	defer close(s.done)

	for w := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.repo.Save(s.logg.WithSnapshotName(ctx, w.name), w.name, w.payload)
		cancel()

		if err != nil {
			s.metrics.IncSnapshotFailure(w.name)
			s.logg.Error(s.logg.WithSnapshotName(context.Background(), w.name), "snapshot persist failed", err)
			s.recordErr(err)
			continue
		}
		s.metrics.IncSnapshotWrite(w.name)
	}
}

func (s *Saver) recordErr(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	// Bounded so a long-broken store cannot grow memory.
	if len(s.errs) < 16 {
		s.errs = append(s.errs, err)
	}
}

// Close stops accepting writes, drains the queue and returns the persistence
// errors seen during the session combined.
func (s *Saver) Close(ctx context.Context) error {
	s.once.Do(func() {
		s.errMu.Lock()
		s.closed = true
		s.errMu.Unlock()
		close(s.queue)
	})

	select {
	case <-s.done:
	case <-ctx.Done():
		return multierr.Append(ctx.Err(), s.combinedErrs())
	}
	return s.combinedErrs()
}

func (s *Saver) combinedErrs() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return multierr.Combine(s.errs...)
}

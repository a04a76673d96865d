package system

import (
	"context"
	"time"

	"github.com/fcsgo/fcs/internal/core/event"
	coresys "github.com/fcsgo/fcs/internal/core/system"
	"github.com/fcsgo/fcs/internal/persist"
	"go.uber.org/zap"
)

// JournalWriter is the part of persist.JournalRepo the journal needs.
type JournalWriter interface {
	WriteTransitions(ctx context.Context, entries []persist.Transition) error
}

// maxBacklogBatches caps how many unwritten batches are kept while the
// database is failing; older transitions are dropped beyond that.
const maxBacklogBatches = 16

// JournalSystem collects visibility transitions from the bus and writes them
// in batches every interval ticks, or as soon as a full batch is waiting.
// Phase 4 (Persist).
type JournalSystem struct {
	writer    JournalWriter
	log       *zap.Logger
	pending   []persist.Transition
	batchSize int
	interval  int
	tickCount int
	written   int
	dropped   int
}

func NewJournalSystem(bus *event.Bus, writer JournalWriter, log *zap.Logger, intervalTicks, batchSize int) *JournalSystem {
	if batchSize < 1 {
		batchSize = 1
	}
	s := &JournalSystem{
		writer:    writer,
		log:       log,
		batchSize: batchSize,
		interval:  intervalTicks,
	}
	event.Subscribe(bus, func(ev event.BecameVisible) {
		s.record(uint64(ev.EntityID), ev.Name, true, ev.Cycle)
	})
	event.Subscribe(bus, func(ev event.BecameInvisible) {
		s.record(uint64(ev.EntityID), ev.Name, false, ev.Cycle)
	})
	return s
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) record(id uint64, name string, visible bool, cycle uint64) {
	s.pending = append(s.pending, persist.Transition{
		EntityID:   id,
		ObjectName: name,
		Visible:    visible,
		Cycle:      cycle,
		RecordedAt: time.Now(),
	})
}

// Pending returns how many transitions wait to be written.
func (s *JournalSystem) Pending() int { return len(s.pending) }

// Written returns how many transitions were written so far.
func (s *JournalSystem) Written() int { return s.written }

// Dropped returns how many transitions were discarded after write failures.
func (s *JournalSystem) Dropped() int { return s.dropped }

func (s *JournalSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval && len(s.pending) < s.batchSize {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Flush writes everything pending now. Called for graceful shutdown as well.
func (s *JournalSystem) Flush() {
	for len(s.pending) > 0 {
		n := min(len(s.pending), s.batchSize)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.writer.WriteTransitions(ctx, s.pending[:n])
		cancel()
		if err != nil {
			s.log.Error("journal write failed", zap.Int("pending", len(s.pending)), zap.Error(err))
			s.trimBacklog()
			return
		}
		s.written += n
		s.pending = s.pending[n:]
	}
	s.pending = s.pending[:0]
}

func (s *JournalSystem) trimBacklog() {
	limit := s.batchSize * maxBacklogBatches
	if len(s.pending) <= limit {
		return
	}
	drop := len(s.pending) - limit
	s.dropped += drop
	s.pending = append(s.pending[:0], s.pending[drop:]...)
	s.log.Warn("journal backlog trimmed", zap.Int("dropped", drop))
}

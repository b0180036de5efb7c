package ingest

import (
	"context"
	"sync"

	"github.com/agentic-research/jsxprops/api"
)

// MemorySink collects records in memory.
type MemorySink struct {
	mu      sync.Mutex
	records []*api.Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Put(_ context.Context, rec *api.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns the collected records in delivery order.
func (s *MemorySink) Records() []*api.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*api.Record(nil), s.records...)
}

// Get returns the record with the given ID.
func (s *MemorySink) Get(id string) (*api.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return nil, false
}

var _ Sink = (*MemorySink)(nil)

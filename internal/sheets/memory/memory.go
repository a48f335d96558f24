package memory

import (
	"context"
	"fmt"
	"sync"

	"rentabilidad/internal/core"
)

// Export is one recorded call to ExportReport.
type Export struct {
	Ref      string
	Business core.Business
	Report   core.Report
}

// Store keeps exported reports in memory, latest per business plus a log of
// every call.
type Store struct {
	mu     sync.Mutex
	log    []Export
	latest map[string]core.Report
}

func New() *Store {
	return &Store{latest: make(map[string]core.Report)}
}

// ExportReport stores the report and returns a synthetic reference.
func (s *Store) ExportReport(_ context.Context, b core.Business, r core.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := fmt.Sprintf("mem:%s:%d", b.ID, len(s.log)+1)
	s.log = append(s.log, Export{Ref: ref, Business: b, Report: r})
	s.latest[b.ID] = r
	return ref, nil
}

// Exports returns a copy of every export so far, oldest first.
func (s *Store) Exports() []Export {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Export(nil), s.log...)
}

// Latest returns the last report exported for a business.
func (s *Store) Latest(businessID string) (core.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.latest[businessID]
	return r, ok
}

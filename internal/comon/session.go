// Package comon implements the COM-call interception engine: the
// attach/detach session lifecycle, the registry of observed interface
// vtables, method breakpoints addressed by vtable slot, and the
// CLSID filter that gates which classes are tracked.
package comon

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/comon-ext/comon/internal/cometa"
	"github.com/comon-ext/comon/internal/dbgeng"
)

// Session is the per-target lifecycle root: it holds zero or one
// active Monitor plus the type metadata store. It is an explicit,
// injectable object owned by the host's load/unload boundary, so
// independent Sessions can coexist in one process.
//
// The host debugger dispatches commands on a single thread, but the
// Session takes a lock anyway: operations are short and never
// recursive, so the lock costs nothing and the engine stays correct
// under hosts that deliver events from multiple threads.
type Session struct {
	mu      sync.Mutex
	logger  zerolog.Logger
	dbg     dbgeng.Debugger
	meta    *cometa.Store
	monitor *Monitor
}

// NewSession creates a detached session over the given debugger
// collaborator and metadata store.
func NewSession(logger zerolog.Logger, dbg dbgeng.Debugger, meta *cometa.Store) *Session {
	return &Session{
		logger: logger.With().Str("component", "session").Logger(),
		dbg:    dbg,
		meta:   meta,
	}
}

// Attach constructs a Monitor with the given filter and sets it
// active. At most one Monitor exists per session; attaching twice
// fails with ErrAlreadyAttached.
func (s *Session) Attach(filter Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.monitor != nil {
		return ErrAlreadyAttached
	}
	s.monitor = NewMonitor(s.logger, s.dbg, s.meta, filter)
	s.logger.Info().Stringer("filter", filter).Msg("Monitor attached")
	return nil
}

// Detach tears down the active Monitor, removing all its real
// breakpoints. Detaching an already-detached session is a no-op: the
// host calls cleanup paths unconditionally at unload.
func (s *Session) Detach() {
	s.mu.Lock()
	monitor := s.monitor
	s.monitor = nil
	s.mu.Unlock()

	if monitor == nil {
		return
	}
	monitor.close()
	s.logger.Info().Msg("Monitor detached")
}

// ActiveMonitor returns the attached Monitor, if any.
func (s *Session) ActiveMonitor() (*Monitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monitor, s.monitor != nil
}

// Monitor returns the attached Monitor, failing with ErrNotAttached
// when there is none. For callers that require an active Monitor.
func (s *Session) Monitor() (*Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.monitor == nil {
		return nil, ErrNotAttached
	}
	return s.monitor, nil
}

// Metadata returns the type/class metadata store. Name resolution is
// independent of attach state and works before any Attach.
func (s *Session) Metadata() *cometa.Store {
	return s.meta
}

// Close force-detaches any active Monitor. The unload path calls this
// unconditionally, possibly after an explicit Detach.
func (s *Session) Close() {
	s.Detach()
}

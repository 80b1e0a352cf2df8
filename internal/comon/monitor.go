package comon

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/comon-ext/comon/internal/comguid"
	"github.com/comon-ext/comon/internal/cometa"
	"github.com/comon-ext/comon/internal/dbgeng"
)

// Monitor is the active per-target interception controller. It owns
// one vtable registry, one breakpoint manager and one filter, and can
// be paused without tearing any of that down: while paused, new vtable
// observations are dropped silently but existing records and
// breakpoints stay live, and breakpoint management remains available.
type Monitor struct {
	mu          sync.Mutex
	logger      zerolog.Logger
	dbg         dbgeng.Debugger
	filter      Filter
	paused      bool
	registry    *VtableRegistry
	breakpoints *BreakpointManager
}

// NewMonitor creates a running Monitor over the given collaborators.
func NewMonitor(logger zerolog.Logger, dbg dbgeng.Debugger, meta cometa.Resolver, filter Filter) *Monitor {
	logger = logger.With().Str("component", "monitor").Logger()
	registry := NewVtableRegistry(logger, filter)
	return &Monitor{
		logger:      logger,
		dbg:         dbg,
		filter:      filter,
		registry:    registry,
		breakpoints: NewBreakpointManager(logger, dbg, meta, registry),
	}
}

// Pause suspends vtable observation. Noise reduction during an
// investigation: events delivered while paused are dropped, nothing is
// removed.
func (m *Monitor) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
	m.logger.Info().Msg("Monitor paused")
}

// Resume re-enables vtable observation.
func (m *Monitor) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
	m.logger.Info().Msg("Monitor resumed")
}

// IsPaused reports whether observation is suspended.
func (m *Monitor) IsPaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// RegisterVtable records a vtable observed in the debuggee. The owning
// module name is resolved through the debugger's module list. While
// paused this is a silent no-op.
func (m *Monitor) RegisterVtable(clsid comguid.CLSID, iid comguid.IID, address uint64, is64Bit bool) error {
	m.mu.Lock()
	paused := m.paused
	m.mu.Unlock()
	if paused {
		m.logger.Debug().
			Stringer("clsid", clsid).
			Stringer("iid", iid).
			Msg("Observation dropped while paused")
		return nil
	}

	moduleName := dbgeng.UnknownModule
	if mod, ok := dbgeng.ResolveModule(m.dbg, address); ok {
		moduleName = mod.Name
	}

	m.registry.Register(VtableRecord{
		ModuleName: moduleName,
		CLSID:      clsid,
		IID:        iid,
		Is64Bit:    is64Bit,
		Address:    address,
	})
	return nil
}

// CreateBreakpoint installs an intercept point on a method of (clsid,
// iid). Available regardless of pause state.
func (m *Monitor) CreateBreakpoint(clsid comguid.CLSID, iid comguid.IID, sel MethodSelector) (Breakpoint, error) {
	return m.breakpoints.Create(clsid, iid, sel)
}

// RemoveBreakpoint removes an intercept point by id.
func (m *Monitor) RemoveBreakpoint(id uint32) error {
	return m.breakpoints.Remove(id)
}

// ListBreakpoints returns live breakpoints in creation order.
func (m *Monitor) ListBreakpoints() []Breakpoint {
	return m.breakpoints.List()
}

// ListCoTypes groups every recorded vtable by class for status
// reporting.
func (m *Monitor) ListCoTypes() map[comguid.CLSID][]VtableBinding {
	return m.registry.ListAll()
}

// Registry exposes the vtable registry for metadata queries.
func (m *Monitor) Registry() *VtableRegistry {
	return m.registry
}

// Filter returns the filter the Monitor was attached with.
func (m *Monitor) Filter() Filter {
	return m.filter
}

// close tears the Monitor down, removing every real breakpoint. Called
// by the Session on detach.
func (m *Monitor) close() {
	m.breakpoints.Clear()
	m.logger.Info().Msg("Monitor torn down")
}

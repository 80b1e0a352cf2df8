package comon

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/comon-ext/comon/internal/comguid"
	"github.com/comon-ext/comon/internal/cometa"
	"github.com/comon-ext/comon/internal/dbgeng"
)

// MethodSelector identifies an interface method either by vtable slot
// index or by name. Name selectors are resolved against the
// interface's method list once, at the manager boundary, so all
// address arithmetic downstream works on a plain index.
type MethodSelector struct {
	name   string
	index  uint32
	byName bool
}

// SelectByIndex selects a method by vtable slot index.
func SelectByIndex(index uint32) MethodSelector {
	return MethodSelector{index: index}
}

// SelectByName selects a method by name, to be resolved through the
// metadata store.
func SelectByName(name string) MethodSelector {
	return MethodSelector{name: name, byName: true}
}

// ParseMethodSelector interprets a user token: a non-negative integer
// selects by index, anything else selects by name.
func ParseMethodSelector(token string) MethodSelector {
	if n, err := strconv.ParseUint(token, 10, 32); err == nil {
		return SelectByIndex(uint32(n))
	}
	return SelectByName(token)
}

func (s MethodSelector) String() string {
	if s.byName {
		return s.name
	}
	return strconv.FormatUint(uint64(s.index), 10)
}

// Breakpoint is one logical intercept point on an interface method.
// The underlying real debugger breakpoint mirrors its lifetime
// exactly.
type Breakpoint struct {
	ID          uint32
	Description string
	Address     uint64
}

type managedBreakpoint struct {
	Breakpoint
	handle dbgeng.BreakpointHandle
}

// BreakpointManager creates, removes and lists intercept points keyed
// by (CLSID, IID, method). IDs are unique and monotonically assigned
// within one Monitor; ids of removed breakpoints are never reused.
type BreakpointManager struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	dbg      dbgeng.Debugger
	meta     cometa.Resolver
	registry *VtableRegistry
	nextID   uint32
	order    []uint32
	byID     map[uint32]managedBreakpoint
}

// NewBreakpointManager creates a manager resolving vtables through the
// given registry and names through the given metadata resolver.
func NewBreakpointManager(logger zerolog.Logger, dbg dbgeng.Debugger, meta cometa.Resolver, registry *VtableRegistry) *BreakpointManager {
	return &BreakpointManager{
		logger:   logger.With().Str("component", "breakpoint_manager").Logger(),
		dbg:      dbg,
		meta:     meta,
		registry: registry,
		byID:     make(map[uint32]managedBreakpoint),
	}
}

// Create installs a breakpoint on one method of one interface of one
// class. The method address is vtable base + index * pointer size,
// with the pointer size taken from the observed vtable's bitness. If
// the debugger refuses to place the real breakpoint no logical record
// is allocated.
func (m *BreakpointManager) Create(clsid comguid.CLSID, iid comguid.IID, sel MethodSelector) (Breakpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	index, methodName, err := m.resolveSelector(iid, sel)
	if err != nil {
		return Breakpoint{}, err
	}

	records := m.registry.Find(clsid, iid)
	if len(records) == 0 {
		return Breakpoint{}, fmt.Errorf("%w: %s / %s", ErrUnknownVtable, clsid, iid)
	}
	rec := records[0]

	addr := rec.Address + uint64(index)*rec.PointerSize()
	handle, err := m.dbg.PlaceBreakpoint(addr)
	if err != nil {
		return Breakpoint{}, fmt.Errorf("%w: place at %#x: %v", ErrUnderlyingBreakpoint, addr, err)
	}

	bp := Breakpoint{
		ID:          m.nextID,
		Description: m.describe(clsid, iid, index, methodName),
		Address:     addr,
	}
	m.nextID++
	m.byID[bp.ID] = managedBreakpoint{Breakpoint: bp, handle: handle}
	m.order = append(m.order, bp.ID)

	m.logger.Info().
		Uint32("id", bp.ID).
		Str("description", bp.Description).
		Uint64("address", addr).
		Msg("Breakpoint created")
	return bp, nil
}

// resolveSelector turns a selector into a slot index, plus the method
// name when one is known from metadata.
func (m *BreakpointManager) resolveSelector(iid comguid.IID, sel MethodSelector) (uint32, string, error) {
	methods, haveMeta := m.meta.TypeMethods(iid)

	if sel.byName {
		if !haveMeta {
			return 0, "", fmt.Errorf("%w: no metadata for %s", ErrMethodNotFound, iid)
		}
		for i, name := range methods {
			if name == sel.name {
				return uint32(i), name, nil
			}
		}
		return 0, "", fmt.Errorf("%w: %q on %s", ErrMethodNotFound, sel.name, iid)
	}

	name := ""
	if haveMeta && int(sel.index) < len(methods) {
		name = methods[sel.index]
	}
	return sel.index, name, nil
}

func (m *BreakpointManager) describe(clsid comguid.CLSID, iid comguid.IID, index uint32, methodName string) string {
	className, ok := m.meta.ResolveClassName(clsid)
	if !ok {
		className = "N/A"
	}
	typeName, ok := m.meta.ResolveTypeName(iid)
	if !ok {
		typeName = "N/A"
	}
	method := fmt.Sprintf("[%d]", index)
	if methodName != "" {
		method = fmt.Sprintf("%s [%d]", methodName, index)
	}
	return fmt.Sprintf("%s (%s), %s (%s), method %s", clsid, className, iid, typeName, method)
}

// Remove deletes a breakpoint by id, mirroring the removal to the real
// debugger breakpoint. An unknown id fails with ErrBreakpointNotFound
// and leaves every other breakpoint untouched; if the debugger refuses
// the removal the logical record is kept so state stays consistent.
func (m *BreakpointManager) Remove(id uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mb, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrBreakpointNotFound, id)
	}
	if err := m.dbg.RemoveBreakpoint(mb.handle); err != nil {
		return fmt.Errorf("%w: remove id %d: %v", ErrUnderlyingBreakpoint, id, err)
	}

	delete(m.byID, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	m.logger.Info().Uint32("id", id).Msg("Breakpoint removed")
	return nil
}

// List returns all live breakpoints in insertion order.
func (m *BreakpointManager) List() []Breakpoint {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Breakpoint, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id].Breakpoint)
	}
	return out
}

// Clear removes every breakpoint, logical and real. Failures to remove
// a real breakpoint are logged and cleanup continues; Clear is used on
// Monitor teardown where partial cleanup must not abort the rest.
func (m *BreakpointManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		mb := m.byID[id]
		if err := m.dbg.RemoveBreakpoint(mb.handle); err != nil {
			m.logger.Warn().Err(err).
				Uint32("id", id).
				Uint64("address", mb.Address).
				Msg("Failed to remove real breakpoint during teardown")
		}
		delete(m.byID, id)
	}
	m.order = m.order[:0]
}

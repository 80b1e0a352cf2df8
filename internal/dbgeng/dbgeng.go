// Package dbgeng defines the interface the monitoring engine consumes
// from the host debugger: raw breakpoint placement, debuggee memory
// access and module enumeration. The host guarantees the debuggee is
// frozen for the duration of every call, so implementations are
// synchronous and never block.
package dbgeng

import "errors"

// ErrInvalidAddress is returned when the debugger refuses an address,
// e.g. a breakpoint outside any mapped region.
var ErrInvalidAddress = errors.New("invalid debuggee address")

// BreakpointHandle identifies a real breakpoint installed in the
// debuggee. Handles are opaque to the engine; it only stores them to
// mirror the breakpoint's lifetime.
type BreakpointHandle uint64

// ModuleInfo describes one module loaded in the debuggee.
type ModuleInfo struct {
	Name    string
	Base    uint64
	Size    uint64
	Is64Bit bool
}

// Contains reports whether addr falls inside the module's image.
func (m ModuleInfo) Contains(addr uint64) bool {
	return addr >= m.Base && addr < m.Base+m.Size
}

// Debugger is the host-debugger collaborator. Every call either
// completes or fails synchronously.
type Debugger interface {
	// PlaceBreakpoint installs an execution breakpoint at addr.
	PlaceBreakpoint(addr uint64) (BreakpointHandle, error)
	// RemoveBreakpoint deletes a previously placed breakpoint.
	RemoveBreakpoint(handle BreakpointHandle) error
	// ReadMemory reads debuggee memory at addr into buf, returning the
	// number of bytes read.
	ReadMemory(addr uint64, buf []byte) (int, error)
	// EnumerateModules lists the modules loaded in the debuggee.
	EnumerateModules() ([]ModuleInfo, error)
}

// UnknownModule is the module name recorded for a vtable address that
// no enumerated module spans.
const UnknownModule = "<unknown>"

// ResolveModule maps a debuggee address to the module that spans it.
func ResolveModule(dbg Debugger, addr uint64) (ModuleInfo, bool) {
	modules, err := dbg.EnumerateModules()
	if err != nil {
		return ModuleInfo{}, false
	}
	for _, m := range modules {
		if m.Contains(addr) {
			return m, true
		}
	}
	return ModuleInfo{}, false
}

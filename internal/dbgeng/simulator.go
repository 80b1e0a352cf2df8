package dbgeng

import (
	"fmt"
	"sync"
)

// Simulator is an in-memory Debugger used by tests and the sandbox
// CLI. It hands out sequential handles, tracks which breakpoints are
// live, and can be scripted to refuse placement or removal.
type Simulator struct {
	mu      sync.Mutex
	next    BreakpointHandle
	active  map[BreakpointHandle]uint64
	modules []ModuleInfo
	memory  map[uint64][]byte

	// PlaceErr, when set, makes every PlaceBreakpoint call fail.
	PlaceErr error
	// RemoveErr, when set, makes every RemoveBreakpoint call fail.
	RemoveErr error
}

// NewSimulator creates a Simulator exposing the given modules.
func NewSimulator(modules ...ModuleInfo) *Simulator {
	return &Simulator{
		next:    1,
		active:  make(map[BreakpointHandle]uint64),
		modules: modules,
		memory:  make(map[uint64][]byte),
	}
}

// PlaceBreakpoint installs a simulated breakpoint at addr.
func (s *Simulator) PlaceBreakpoint(addr uint64) (BreakpointHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.PlaceErr != nil {
		return 0, s.PlaceErr
	}
	h := s.next
	s.next++
	s.active[h] = addr
	return h, nil
}

// RemoveBreakpoint deletes a simulated breakpoint.
func (s *Simulator) RemoveBreakpoint(handle BreakpointHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	if _, ok := s.active[handle]; !ok {
		return fmt.Errorf("%w: unknown breakpoint handle %d", ErrInvalidAddress, handle)
	}
	delete(s.active, handle)
	return nil
}

// ReadMemory reads from the simulated address space. Reads outside any
// stored region fail with ErrInvalidAddress.
func (s *Simulator) ReadMemory(addr uint64, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.memory[addr]
	if !ok {
		return 0, fmt.Errorf("%w: %#x", ErrInvalidAddress, addr)
	}
	return copy(buf, data), nil
}

// EnumerateModules lists the simulated modules.
func (s *Simulator) EnumerateModules() ([]ModuleInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ModuleInfo(nil), s.modules...), nil
}

// WriteMemory stores data at addr in the simulated address space.
func (s *Simulator) WriteMemory(addr uint64, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memory[addr] = append([]byte(nil), data...)
}

// ActiveBreakpoints returns the addresses of all live breakpoints.
func (s *Simulator) ActiveBreakpoints() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	addrs := make([]uint64, 0, len(s.active))
	for _, addr := range s.active {
		addrs = append(addrs, addr)
	}
	return addrs
}

// ActiveCount returns the number of live breakpoints.
func (s *Simulator) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

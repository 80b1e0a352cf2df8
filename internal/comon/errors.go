package comon

import "errors"

// Engine failures are reported to the immediate caller as typed
// errors; none of them is fatal and a failed operation always leaves
// prior state (registry contents, existing breakpoints) intact.
var (
	ErrAlreadyAttached      = errors.New("monitor already attached to the current target")
	ErrNotAttached          = errors.New("no monitor attached to the current target")
	ErrUnknownVtable        = errors.New("vtable not yet observed")
	ErrMethodNotFound       = errors.New("method not found")
	ErrBreakpointNotFound   = errors.New("breakpoint not found")
	ErrUnderlyingBreakpoint = errors.New("underlying debugger breakpoint operation failed")
)

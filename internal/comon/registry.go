package comon

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/comon-ext/comon/internal/comguid"
)

// VtableRecord is one observed virtual-dispatch table: a class
// instance implementing an interface inside a named debuggee module.
// Records are immutable once created and live until the owning
// Monitor is torn down.
type VtableRecord struct {
	ModuleName string
	CLSID      comguid.CLSID
	IID        comguid.IID
	Is64Bit    bool
	Address    uint64
}

// PointerSize returns the debuggee pointer width for this vtable.
func (r VtableRecord) PointerSize() uint64 {
	if r.Is64Bit {
		return 8
	}
	return 4
}

// VtableBinding is one (address, IID) pair in a per-class grouping.
type VtableBinding struct {
	Address uint64
	IID     comguid.IID
}

type vtableKey struct {
	clsid   comguid.CLSID
	iid     comguid.IID
	address uint64
}

// VtableRegistry records every observed (module, CLSID, IID, bitness,
// address) tuple for one monitored target. Registration is gated by
// the Monitor's Filter; duplicate registration of an identical
// (clsid, iid, address) tuple is idempotent.
type VtableRegistry struct {
	mu      sync.RWMutex
	logger  zerolog.Logger
	filter  Filter
	seen    map[vtableKey]struct{}
	records []VtableRecord
}

// NewVtableRegistry creates a registry gated by the given filter.
func NewVtableRegistry(logger zerolog.Logger, filter Filter) *VtableRegistry {
	return &VtableRegistry{
		logger: logger.With().Str("component", "vtable_registry").Logger(),
		filter: filter,
		seen:   make(map[vtableKey]struct{}),
	}
}

// Register records an observed vtable. A class the filter rejects is
// discarded without error, and re-registering a known tuple is a
// no-op; Register reports whether a new record was stored.
func (r *VtableRegistry) Register(rec VtableRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.filter.Decide(rec.CLSID) {
		r.logger.Debug().
			Stringer("clsid", rec.CLSID).
			Msg("Class rejected by filter")
		return false
	}

	key := vtableKey{clsid: rec.CLSID, iid: rec.IID, address: rec.Address}
	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	r.records = append(r.records, rec)

	r.logger.Debug().
		Str("module", rec.ModuleName).
		Stringer("clsid", rec.CLSID).
		Stringer("iid", rec.IID).
		Bool("is_64bit", rec.Is64Bit).
		Uint64("address", rec.Address).
		Msg("Vtable recorded")
	return true
}

// FindByIID returns all records for an interface, in observation
// order.
func (r *VtableRegistry) FindByIID(iid comguid.IID) []VtableRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []VtableRecord
	for _, rec := range r.records {
		if rec.IID == iid {
			out = append(out, rec)
		}
	}
	return out
}

// FindByCLSID returns all records for a class, in observation order.
func (r *VtableRegistry) FindByCLSID(clsid comguid.CLSID) []VtableRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []VtableRecord
	for _, rec := range r.records {
		if rec.CLSID == clsid {
			out = append(out, rec)
		}
	}
	return out
}

// Find returns all records matching both the class and the interface,
// in observation order.
func (r *VtableRegistry) Find(clsid comguid.CLSID, iid comguid.IID) []VtableRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []VtableRecord
	for _, rec := range r.records {
		if rec.CLSID == clsid && rec.IID == iid {
			out = append(out, rec)
		}
	}
	return out
}

// ListAll groups every recorded vtable by class. The per-class
// sequences preserve observation order for deterministic status
// output.
func (r *VtableRegistry) ListAll() map[comguid.CLSID][]VtableBinding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[comguid.CLSID][]VtableBinding)
	for _, rec := range r.records {
		out[rec.CLSID] = append(out[rec.CLSID], VtableBinding{Address: rec.Address, IID: rec.IID})
	}
	return out
}

// Count returns the number of recorded vtables.
func (r *VtableRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

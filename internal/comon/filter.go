package comon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/comon-ext/comon/internal/comguid"
)

// FilterKind discriminates the filter variants.
type FilterKind int

const (
	// NoFilter observes every class.
	NoFilter FilterKind = iota
	// IncludingFilter observes only the listed classes.
	IncludingFilter
	// ExcludingFilter observes everything but the listed classes.
	ExcludingFilter
)

func (k FilterKind) String() string {
	switch k {
	case NoFilter:
		return "none"
	case IncludingFilter:
		return "including"
	case ExcludingFilter:
		return "excluding"
	}
	return fmt.Sprintf("FilterKind(%d)", int(k))
}

// Filter decides which observed COM classes are recorded. It is a
// tagged variant over {no filter, including-set, excluding-set} and is
// immutable once a Monitor is attached; replacing it requires
// detach + attach. The zero value is NoFilter.
type Filter struct {
	kind   FilterKind
	clsids map[comguid.CLSID]struct{}
}

// NewIncludingFilter builds a filter that observes only the given
// classes.
func NewIncludingFilter(clsids ...comguid.CLSID) Filter {
	return Filter{kind: IncludingFilter, clsids: clsidSet(clsids)}
}

// NewExcludingFilter builds a filter that observes everything but the
// given classes.
func NewExcludingFilter(clsids ...comguid.CLSID) Filter {
	return Filter{kind: ExcludingFilter, clsids: clsidSet(clsids)}
}

func clsidSet(clsids []comguid.CLSID) map[comguid.CLSID]struct{} {
	set := make(map[comguid.CLSID]struct{}, len(clsids))
	for _, c := range clsids {
		set[c] = struct{}{}
	}
	return set
}

// ParseFilter builds a Filter from user-supplied tokens. Tokens are
// scanned from the end: the first flag met ("-i" for Including, "-e"
// for Excluding, so the rightmost one in the input) fixes the variant,
// GUID-parseable tokens accumulate into the working set wherever they
// appear, and anything else is skipped. With no flag token the result
// defaults to Including when at least one GUID was collected, NoFilter
// otherwise. Flag-before-GUIDs and flag-after-GUIDs token orders
// therefore collect identical sets.
func ParseFilter(tokens []string) Filter {
	clsids := make(map[comguid.CLSID]struct{})
	kind := NoFilter
	for i := len(tokens) - 1; i >= 0; i-- {
		switch tok := tokens[i]; tok {
		case "-i":
			if kind == NoFilter {
				kind = IncludingFilter
			}
		case "-e":
			if kind == NoFilter {
				kind = ExcludingFilter
			}
		default:
			if g, err := comguid.Parse(tok); err == nil {
				clsids[comguid.CLSID(g)] = struct{}{}
			}
		}
	}
	if kind == NoFilter {
		if len(clsids) == 0 {
			return Filter{}
		}
		kind = IncludingFilter
	}
	return Filter{kind: kind, clsids: clsids}
}

// Decide reports whether a class should be observed.
func (f Filter) Decide(clsid comguid.CLSID) bool {
	switch f.kind {
	case IncludingFilter:
		_, ok := f.clsids[clsid]
		return ok
	case ExcludingFilter:
		_, ok := f.clsids[clsid]
		return !ok
	case NoFilter:
		return true
	}
	return true
}

// Kind returns the filter variant.
func (f Filter) Kind() FilterKind {
	return f.kind
}

// CLSIDs returns the filter set in stable byte order.
func (f Filter) CLSIDs() []comguid.CLSID {
	clsids := make([]comguid.CLSID, 0, len(f.clsids))
	for c := range f.clsids {
		clsids = append(clsids, c)
	}
	sort.Slice(clsids, func(i, j int) bool { return clsids[i].Compare(clsids[j]) < 0 })
	return clsids
}

func (f Filter) String() string {
	if f.kind == NoFilter {
		return "none"
	}
	parts := make([]string, 0, len(f.clsids))
	for _, c := range f.CLSIDs() {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("%s [%s]", f.kind, strings.Join(parts, " "))
}

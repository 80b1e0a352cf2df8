// Package cometa provides COM type metadata: display names for CLSIDs
// and IIDs, and ordered method lists for interfaces. The monitoring
// engine consumes it read-only through the Resolver interface.
package cometa

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/comon-ext/comon/internal/comguid"
)

// CoType describes a COM interface. Methods is the vtable dispatch
// order: index 0 is the interface's first slot (QueryInterface for
// IUnknown-derived interfaces).
type CoType struct {
	IID     comguid.IID
	Name    string
	Methods []string
}

// CoClass describes a COM class.
type CoClass struct {
	CLSID comguid.CLSID
	Name  string
}

// Resolver is the read-only metadata oracle the engine consumes.
type Resolver interface {
	ResolveType(iid comguid.IID) (CoType, bool)
	ResolveClass(clsid comguid.CLSID) (CoClass, bool)
	ResolveTypeName(iid comguid.IID) (string, bool)
	ResolveClassName(clsid comguid.CLSID) (string, bool)
	TypeMethods(iid comguid.IID) ([]string, bool)
}

// IUnknownIID is the IID of IUnknown, the root of every COM interface.
var IUnknownIID = comguid.IID(comguid.MustParse("{00000000-0000-0000-C000-000000000046}"))

// Store is an in-memory Resolver implementation. A new Store is seeded
// with IUnknown so name-based method selectors resolve QueryInterface,
// AddRef and Release without any registration.
type Store struct {
	mu      sync.RWMutex
	logger  zerolog.Logger
	types   map[comguid.IID]CoType
	classes map[comguid.CLSID]CoClass
}

// NewStore creates a metadata store seeded with IUnknown.
func NewStore(logger zerolog.Logger) *Store {
	s := &Store{
		logger:  logger.With().Str("component", "cometa").Logger(),
		types:   make(map[comguid.IID]CoType),
		classes: make(map[comguid.CLSID]CoClass),
	}
	s.types[IUnknownIID] = CoType{
		IID:     IUnknownIID,
		Name:    "IUnknown",
		Methods: []string{"QueryInterface", "AddRef", "Release"},
	}
	return s
}

// AddType records or replaces interface metadata.
func (s *Store) AddType(t CoType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.Methods = append([]string(nil), t.Methods...)
	s.types[t.IID] = t
	s.logger.Debug().
		Stringer("iid", t.IID).
		Str("name", t.Name).
		Int("methods", len(t.Methods)).
		Msg("Interface metadata recorded")
}

// AddClass records or replaces class metadata.
func (s *Store) AddClass(c CoClass) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.classes[c.CLSID] = c
	s.logger.Debug().
		Stringer("clsid", c.CLSID).
		Str("name", c.Name).
		Msg("Class metadata recorded")
}

// ResolveType returns the cotype descriptor for an IID.
func (s *Store) ResolveType(iid comguid.IID) (CoType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.types[iid]
	if !ok {
		return CoType{}, false
	}
	t.Methods = append([]string(nil), t.Methods...)
	return t, true
}

// ResolveClass returns the coclass descriptor for a CLSID.
func (s *Store) ResolveClass(clsid comguid.CLSID) (CoClass, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.classes[clsid]
	return c, ok
}

// ResolveTypeName returns the display name for an IID.
func (s *Store) ResolveTypeName(iid comguid.IID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.types[iid]
	if !ok {
		return "", false
	}
	return t.Name, true
}

// ResolveClassName returns the display name for a CLSID.
func (s *Store) ResolveClassName(clsid comguid.CLSID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.classes[clsid]
	if !ok {
		return "", false
	}
	return c.Name, true
}

// TypeMethods returns an interface's method names in vtable order.
func (s *Store) TypeMethods(iid comguid.IID) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.types[iid]
	if !ok {
		return nil, false
	}
	return append([]string(nil), t.Methods...), true
}

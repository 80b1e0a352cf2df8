// Package comguid implements parsing and formatting of the 128-bit
// identifiers COM uses for classes (CLSIDs) and interfaces (IIDs).
package comguid

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidFormat is returned when a textual GUID cannot be parsed.
var ErrInvalidFormat = errors.New("invalid GUID format")

// GUID is an immutable 128-bit globally unique identifier. It is a
// value type: comparable, usable as a map key, and totally ordered
// via Compare.
type GUID uuid.UUID

// CLSID identifies a concrete COM class.
type CLSID GUID

// IID identifies a COM interface contract.
type IID GUID

// Parse parses a textual GUID. It accepts the canonical form
// (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx), the braced registry form
// ({xxxxxxxx-...}) COM tools print, and the urn:uuid: form.
func Parse(text string) (GUID, error) {
	u, err := uuid.Parse(strings.TrimSpace(text))
	if err != nil {
		return GUID{}, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}
	return GUID(u), nil
}

// ParseCLSID parses a textual CLSID.
func ParseCLSID(text string) (CLSID, error) {
	g, err := Parse(text)
	return CLSID(g), err
}

// ParseIID parses a textual IID.
func ParseIID(text string) (IID, error) {
	g, err := Parse(text)
	return IID(g), err
}

// MustParse parses a textual GUID and panics on failure. Use only for
// compile-time constants and test fixtures.
func MustParse(text string) GUID {
	g, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return g
}

// String renders the GUID in the braced uppercase registry form,
// e.g. {00000000-0000-0000-C000-000000000046}.
func (g GUID) String() string {
	return "{" + strings.ToUpper(uuid.UUID(g).String()) + "}"
}

// Compare returns -1, 0 or 1 ordering g against other bytewise.
func (g GUID) Compare(other GUID) int {
	return bytes.Compare(g[:], other[:])
}

// IsZero reports whether g is the all-zero GUID.
func (g GUID) IsZero() bool {
	return uuid.UUID(g) == uuid.Nil
}

func (c CLSID) String() string { return GUID(c).String() }

// Compare returns -1, 0 or 1 ordering c against other bytewise.
func (c CLSID) Compare(other CLSID) int { return GUID(c).Compare(GUID(other)) }

func (i IID) String() string { return GUID(i).String() }

// Compare returns -1, 0 or 1 ordering i against other bytewise.
func (i IID) Compare(other IID) int { return GUID(i).Compare(GUID(other)) }

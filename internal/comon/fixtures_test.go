package comon

import (
	"github.com/rs/zerolog"

	"github.com/comon-ext/comon/internal/comguid"
	"github.com/comon-ext/comon/internal/cometa"
	"github.com/comon-ext/comon/internal/dbgeng"
)

var (
	clsidShellLink = comguid.CLSID(comguid.MustParse("{00021401-0000-0000-C000-000000000046}"))
	clsidTaskbar   = comguid.CLSID(comguid.MustParse("{56FDF344-FD6D-11D0-958A-006097C9A090}"))
	iidUnknown     = cometa.IUnknownIID
	iidShellLinkW  = comguid.IID(comguid.MustParse("{000214F9-0000-0000-C000-000000000046}"))
	iidPersistFile = comguid.IID(comguid.MustParse("{0000010B-0000-0000-C000-000000000046}"))
)

const (
	ole32Base   = uint64(0x7ff800000000)
	shell32Base = uint64(0x7ff900000000)
)

func testModules() []dbgeng.ModuleInfo {
	return []dbgeng.ModuleInfo{
		{Name: "ole32.dll", Base: ole32Base, Size: 0x100000, Is64Bit: true},
		{Name: "shell32.dll", Base: shell32Base, Size: 0x200000, Is64Bit: true},
	}
}

func testStore() *cometa.Store {
	store := cometa.NewStore(zerolog.Nop())
	store.AddType(cometa.CoType{
		IID:  iidShellLinkW,
		Name: "IShellLinkW",
		Methods: []string{
			"QueryInterface", "AddRef", "Release",
			"GetPath", "GetIDList", "SetIDList",
		},
	})
	store.AddClass(cometa.CoClass{CLSID: clsidShellLink, Name: "ShellLink"})
	return store
}

// testMonitor builds a Monitor over a fresh simulator and metadata
// store, with no filter.
func testMonitor() (*Monitor, *dbgeng.Simulator) {
	sim := dbgeng.NewSimulator(testModules()...)
	return NewMonitor(zerolog.Nop(), sim, testStore(), Filter{}), sim
}

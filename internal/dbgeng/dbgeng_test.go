package dbgeng

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModule(t *testing.T) {
	sim := NewSimulator(
		ModuleInfo{Name: "ole32.dll", Base: 0x7ff800000000, Size: 0x100000, Is64Bit: true},
		ModuleInfo{Name: "shell32.dll", Base: 0x7ff900000000, Size: 0x200000, Is64Bit: true},
	)

	t.Run("address inside a module", func(t *testing.T) {
		m, ok := ResolveModule(sim, 0x7ff900001000)
		require.True(t, ok)
		assert.Equal(t, "shell32.dll", m.Name)
	})

	t.Run("module base is inclusive, end is exclusive", func(t *testing.T) {
		_, ok := ResolveModule(sim, 0x7ff800000000)
		assert.True(t, ok)
		_, ok = ResolveModule(sim, 0x7ff800100000)
		assert.False(t, ok)
	})

	t.Run("unmapped address", func(t *testing.T) {
		_, ok := ResolveModule(sim, 0x1000)
		assert.False(t, ok)
	})
}

func TestSimulator_BreakpointLifecycle(t *testing.T) {
	sim := NewSimulator()

	h1, err := sim.PlaceBreakpoint(0x1000)
	require.NoError(t, err)
	h2, err := sim.PlaceBreakpoint(0x2000)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, sim.ActiveCount())

	require.NoError(t, sim.RemoveBreakpoint(h1))
	assert.Equal(t, 1, sim.ActiveCount())

	err = sim.RemoveBreakpoint(h1)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestSimulator_ScriptedFailures(t *testing.T) {
	sim := NewSimulator()
	placeErr := errors.New("page not mapped")
	sim.PlaceErr = placeErr

	_, err := sim.PlaceBreakpoint(0x1000)
	assert.ErrorIs(t, err, placeErr)
	assert.Equal(t, 0, sim.ActiveCount())
}

func TestSimulator_ReadMemory(t *testing.T) {
	sim := NewSimulator()
	sim.WriteMemory(0x4000, []byte{0xde, 0xad, 0xbe, 0xef})

	buf := make([]byte, 4)
	n, err := sim.ReadMemory(0x4000, buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, buf)

	_, err = sim.ReadMemory(0x5000, buf)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

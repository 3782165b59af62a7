// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewPresentationSpace(t *testing.T) {
	ps := NewPresentationSpace(24, 80)
	assert.Equal(t, 1920, ps.Size())
	assert.Equal(t, 0, ps.Cursor())
	assert.True(t, ps.KeyboardLocked())

	b, addrs := ps.BufferSpan(0, ps.Size())
	require.Len(t, addrs, ps.Size())
	for _, c := range b {
		assert.Equal(t, byte(spaceByte), c)
	}
}

func TestWriteCellSetsMDT(t *testing.T) {
	ps := NewPresentationSpace(24, 80)
	ps.Fields.Add(10, Attribute{Protected: false}, nil, false)

	err := ps.WriteCell(11, 'A', nil)
	require.NoError(t, err)

	f := ps.Fields.Find(11)
	require.NotNil(t, f)
	assert.True(t, f.MDT)
}

func TestWriteCellOutOfBounds(t *testing.T) {
	ps := NewPresentationSpace(24, 80)
	err := ps.WriteCell(-1, 'A', nil)
	require.Error(t, err)
	tErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrOutOfBounds, tErr.Kind)
}

func TestClearResetsEverything(t *testing.T) {
	ps := NewPresentationSpace(24, 80)
	ps.Fields.Add(5, Attribute{}, nil, false)
	ps.WriteCell(6, 'x', nil)
	ps.SetCursor(42)
	gen := ps.Generation()

	ps.Clear()

	assert.Equal(t, 0, ps.Cursor())
	assert.Equal(t, 0, ps.Fields.Len())
	assert.Greater(t, ps.Generation(), gen)
	b, _, _ := ps.ReadCell(6)
	assert.Equal(t, byte(spaceByte), b)
}

func TestBufferSpanWraps(t *testing.T) {
	ps := NewPresentationSpace(2, 2) // size 4
	for i := 0; i < 4; i++ {
		ps.WriteCell(i, byte('A'+i), nil)
	}

	b, addrs := ps.BufferSpan(3, 4)
	assert.Equal(t, []byte{'D', 'A', 'B', 'C'}, b)
	assert.Equal(t, []int{3, 0, 1, 2}, addrs)
}

// TestGenerationMonotonic checks the §8 invariant that Generation()
// strictly increases across any sequence of mutating calls.
func TestGenerationMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ps := NewPresentationSpace(24, 80)
		last := ps.Generation()

		n := rapid.IntRange(1, 20).Draw(t, "ops")
		for i := 0; i < n; i++ {
			addr := rapid.IntRange(0, ps.Size()-1).Draw(t, "addr")
			ch := byte(rapid.IntRange(0x40, 0xF9).Draw(t, "ch"))
			require.NoError(t, ps.WriteCell(addr, ch, nil))
			next := ps.Generation()
			assert.Greater(t, next, last)
			last = next
		}
	})
}

// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFramerSingleRecord(t *testing.T) {
	f := NewFramer()
	in := []byte{0x01, 0x02, 0x03, tnIAC, tnEOR}

	records, err := f.Feed(in)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, records[0])
}

func TestFramerEscapedIAC(t *testing.T) {
	f := NewFramer()
	in := []byte{0x01, tnIAC, tnIAC, 0x02, tnIAC, tnEOR}

	records, err := f.Feed(in)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []byte{0x01, tnIAC, 0x02}, records[0])
}

func TestFramerSplitAcrossFeeds(t *testing.T) {
	f := NewFramer()

	records, err := f.Feed([]byte{0x01, 0x02, tnIAC})
	require.NoError(t, err)
	assert.Empty(t, records, "partial record stays buffered")

	records, err = f.Feed([]byte{tnEOR})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []byte{0x01, 0x02}, records[0])
}

func TestFramerMultipleRecordsOneFeed(t *testing.T) {
	f := NewFramer()
	in := []byte{0x01, tnIAC, tnEOR, 0x02, 0x03, tnIAC, tnEOR}

	records, err := f.Feed(in)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []byte{0x01}, records[0])
	assert.Equal(t, []byte{0x02, 0x03}, records[1])
}

func TestFramerDiscardsSubnegotiation(t *testing.T) {
	f := NewFramer()
	in := []byte{0x01, tnIAC, tnSB, optTermType, ttSend, tnIAC, tnSE, 0x02, tnIAC, tnEOR}

	records, err := f.Feed(in)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []byte{0x01, 0x02}, records[0])
}

func TestFramerRecordTooLarge(t *testing.T) {
	f := NewFramer()
	big := make([]byte, MaxRecordSize+1)
	for i := range big {
		big[i] = 'A'
	}

	_, err := f.Feed(big)
	require.Error(t, err)
	tErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrRecordTooLarge, tErr.Kind)
}

func TestFramerReset(t *testing.T) {
	f := NewFramer()
	f.Feed([]byte{0x01, 0x02})
	f.Reset()

	records, err := f.Feed([]byte{0x03, tnIAC, tnEOR})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []byte{0x03}, records[0])
}

// TestFramerIdempotentOnCompleteInput checks §8's "Framer idempotence on
// complete input" property: feeding a well-formed, already-complete
// EncodeRecord output through the Framer always yields back exactly the
// original payload, regardless of how the bytes are chunked across Feed
// calls.
func TestFramerIdempotentOnCompleteInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "payload")
		encoded := EncodeRecord(payload)

		chunkSize := rapid.IntRange(1, len(encoded)+1).Draw(t, "chunk")
		f := NewFramer()
		var got [][]byte
		for i := 0; i < len(encoded); i += chunkSize {
			end := i + chunkSize
			if end > len(encoded) {
				end = len(encoded)
			}
			records, err := f.Feed(encoded[i:end])
			require.NoError(t, err)
			got = append(got, records...)
		}

		require.Len(t, got, 1)
		assert.Equal(t, payload, got[0])
	})
}

// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClear(t *testing.T) {
	rb := NewResponseBuilder()
	assert.Equal(t, []byte{byte(AIDClear)}, rb.BuildClear())
}

func TestBuildReadModifiedOnlyModifiedFields(t *testing.T) {
	ps := NewPresentationSpace(24, 80)
	ps.Fields.Add(0, Attribute{Protected: true}, nil, false)
	ps.Fields.Add(10, Attribute{}, nil, false)
	ps.WriteCell(11, ebcA, nil)
	ps.SetCursor(12)

	rb := NewResponseBuilder()
	resp := rb.BuildReadModified(AIDEnter, ps)

	want := []byte{byte(AIDEnter)}
	cur := EncodeAddress(12)
	want = append(want, cur[0], cur[1])
	want = append(want, byte(orderSBA))
	a := EncodeAddress(11)
	want = append(want, a[0], a[1], ebcA)

	assert.Equal(t, want, resp)
}

func TestBuildShortRead(t *testing.T) {
	ps := NewPresentationSpace(24, 80)
	ps.Fields.Add(0, Attribute{}, nil, false)
	ps.WriteCell(1, ebcA, nil)
	ps.SetCursor(5)

	rb := NewResponseBuilder()
	resp := rb.BuildShortRead(AIDPA1, ps)

	cur := EncodeAddress(5)
	assert.Equal(t, []byte{byte(AIDPA1), cur[0], cur[1]}, resp,
		"a PA key's response carries no field data, modified or not")
}

// TestBuildReadModifiedTrimsTrailingFill exercises an unprotected field
// that wraps almost all the way around an otherwise-empty 24x80 screen:
// the reply must carry only the bytes the operator actually typed, not
// the field's full ~1900-byte content view padded out with space fill.
func TestBuildReadModifiedTrimsTrailingFill(t *testing.T) {
	ps := NewPresentationSpace(24, 80)
	ps.Fields.Add(0, Attribute{Protected: true}, nil, false)
	ps.Fields.Add(10, Attribute{}, nil, false)
	ps.WriteCell(11, ebcA, nil)
	ps.WriteCell(12, ebcB, nil)
	ps.WriteCell(13, ebcC, nil)
	ps.SetCursor(14)

	rb := NewResponseBuilder()
	resp := rb.BuildReadModified(AIDEnter, ps)

	want := []byte{byte(AIDEnter)}
	cur := EncodeAddress(14)
	want = append(want, cur[0], cur[1])
	want = append(want, byte(orderSBA))
	a := EncodeAddress(11)
	want = append(want, a[0], a[1], ebcA, ebcB, ebcC)

	assert.Equal(t, want, resp)
}

func TestBuildReadModifiedAllIncludesEveryField(t *testing.T) {
	ps := NewPresentationSpace(24, 80)
	ps.Fields.Add(0, Attribute{Protected: true}, nil, false)
	ps.Fields.Add(10, Attribute{}, nil, false)
	ps.writeDataRaw(1, ebcA, nil)
	ps.WriteCell(11, ebcB, nil)

	rb := NewResponseBuilder()
	resp := rb.BuildReadModifiedAll(AIDPA1, ps)

	require.True(t, len(resp) > 0)
	assert.Equal(t, byte(AIDPA1), resp[0])
	assert.Contains(t, string(resp), string([]byte{ebcA}))
	assert.Contains(t, string(resp), string([]byte{ebcB}))
}

func TestBuildReadBufferIncludesAttributeBytes(t *testing.T) {
	ps := NewPresentationSpace(2, 2) // size 4
	ps.Fields.Add(0, Attribute{Protected: true}, nil, false)
	ps.writeDataRaw(1, ebcA, nil)

	rb := NewResponseBuilder()
	resp := rb.BuildReadBuffer(ps)

	cur := EncodeAddress(ps.Cursor())
	assert.Equal(t, cur[0], resp[0])
	assert.Equal(t, cur[1], resp[1])
	assert.Equal(t, byte(orderSF), resp[2])
	assert.Equal(t, Attribute{Protected: true}.Encode(), resp[3])
	assert.Equal(t, ebcA, resp[4])
}

func TestQueryReplyProducesLengthTaggedFields(t *testing.T) {
	ps := NewPresentationSpace(24, 80)
	rb := NewResponseBuilder()

	resp := rb.QueryReply(ps, []byte{qrUsableArea, qrColor})
	require.True(t, len(resp) > 4)

	length := int(resp[0])<<8 | int(resp[1])
	assert.Equal(t, sfidQueryReply, resp[2])
	assert.Equal(t, qrUsableArea, resp[3])
	assert.Equal(t, length, 4+len(rb.queryReplyBody(ps, qrUsableArea)))

	// Second structured field starts right after the first.
	next := resp[length:]
	nextLen := int(next[0])<<8 | int(next[1])
	assert.Equal(t, sfidQueryReply, next[2])
	assert.Equal(t, qrColor, next[3])
	assert.Equal(t, nextLen, 4+len(rb.queryReplyBody(ps, qrColor)))
}

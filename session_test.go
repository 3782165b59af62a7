// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeDialer returns a dialer that ignores network/addr and hands back one
// side of a net.Pipe, with the other side available to the test as
// hostConn, standing in for the real TCP host during Session tests.
func pipeDialer(hostConn net.Conn) func(network, addr string, timeout time.Duration) (net.Conn, error) {
	return func(network, addr string, timeout time.Duration) (net.Conn, error) {
		return hostConn, nil
	}
}

// negotiateFromHost plays the host side of §4.5's negotiation over a
// synchronous net.Pipe. It reads the client's four WILL offers first
// (each its own client Write, so each gets its own matching Read, with no
// host Write in between to deadlock against), then answers everything
// -- four DOs and the Terminal-Type SEND subnegotiation -- in a single
// Write so the client's receive loop observes it as one chunk, exactly
// like the bytes.Buffer-backed negotiation tests.
func negotiateFromHost(t *testing.T, host net.Conn) {
	t.Helper()
	buf := make([]byte, 256)
	for _, opt := range []byte{optBinary, optSGA, optTermType, optEOR} {
		n, err := host.Read(buf)
		require.NoError(t, err)
		require.Equal(t, []byte{tnIAC, tnWILL, opt}, buf[:n])
	}

	var resp []byte
	for _, opt := range []byte{optBinary, optSGA, optTermType, optEOR} {
		resp = append(resp, tnIAC, tnDO, opt)
	}
	resp = append(resp, tnIAC, tnSB, optTermType, ttSend, tnIAC, tnSE)
	_, err := host.Write(resp)
	require.NoError(t, err)

	n, err := host.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, byte(tnIAC), buf[0])
	assert.Equal(t, byte(tnSB), buf[1])
}

func TestSessionConnectAndReceive(t *testing.T) {
	clientSide, hostSide := net.Pipe()
	defer clientSide.Close()
	defer hostSide.Close()

	s := NewSession(Config{Host: "example.invalid", Port: 23}, nil)
	s.dialer = pipeDialer(clientSide)

	done := make(chan struct{})
	go func() {
		defer close(done)
		negotiateFromHost(t, hostSide)

		record := append([]byte{byte(CmdEraseWrite), 0xC3}, sba(0)...)
		record = append(record, ebcH, ebcE, ebcL, ebcL, ebcO)
		hostSide.Write(EncodeRecord(record))
	}()

	require.NoError(t, s.Connect())
	assert.Equal(t, StateSessionBound, s.State())

	require.NoError(t, s.ReceiveOnce())
	<-done

	assert.Equal(t, StateInputAllowed, s.State())
	assert.False(t, s.PresentationSpace().KeyboardLocked())
	got, _ := s.PresentationSpace().BufferSpan(0, 5)
	assert.Equal(t, []byte{ebcH, ebcE, ebcL, ebcL, ebcO}, got)
}

func TestSessionSendAID(t *testing.T) {
	clientSide, hostSide := net.Pipe()
	defer clientSide.Close()
	defer hostSide.Close()

	s := NewSession(Config{Host: "example.invalid", Port: 23}, nil)
	s.dialer = pipeDialer(clientSide)

	negDone := make(chan struct{})
	go func() {
		defer close(negDone)
		negotiateFromHost(t, hostSide)
	}()
	require.NoError(t, s.Connect())
	<-negDone

	readDone := make(chan []byte)
	go func() {
		buf := make([]byte, 256)
		n, _ := hostSide.Read(buf)
		readDone <- buf[:n]
	}()

	require.NoError(t, s.SendAID(AIDClear))
	got := <-readDone

	want := EncodeRecord([]byte{byte(AIDClear)})
	assert.Equal(t, want, got)
	assert.Equal(t, StateLockedWaitingReply, s.State())
}

func TestSessionSendAIDPAIsShortRead(t *testing.T) {
	clientSide, hostSide := net.Pipe()
	defer clientSide.Close()
	defer hostSide.Close()

	s := NewSession(Config{Host: "example.invalid", Port: 23}, nil)
	s.dialer = pipeDialer(clientSide)

	negDone := make(chan struct{})
	go func() {
		defer close(negDone)
		negotiateFromHost(t, hostSide)
	}()
	require.NoError(t, s.Connect())
	<-negDone

	s.PresentationSpace().Fields.Add(0, Attribute{}, nil, false)
	s.PresentationSpace().WriteCell(1, ebcA, nil)

	readDone := make(chan []byte)
	go func() {
		buf := make([]byte, 256)
		n, _ := hostSide.Read(buf)
		readDone <- buf[:n]
	}()

	require.NoError(t, s.SendAID(AIDPA1))
	got := <-readDone

	want := EncodeRecord(s.rb.BuildShortRead(AIDPA1, s.PresentationSpace()))
	assert.Equal(t, want, got, "PA keys never carry field data back, even when a field is modified")
}

func TestSessionDisconnectFailsSubsequentOps(t *testing.T) {
	s := NewSession(Config{Host: "example.invalid"}, nil)
	require.NoError(t, s.Disconnect())

	err := s.ReceiveOnce()
	require.Error(t, err)
	tErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrPeerClosed, tErr.Kind)
}

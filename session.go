// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ScreenModel names the standard 3270 screen geometries (§6).
type ScreenModel string

const (
	Model2 ScreenModel = "Model2" // 24x80
	Model3 ScreenModel = "Model3" // 32x80
	Model4 ScreenModel = "Model4" // 43x80
	Model5 ScreenModel = "Model5" // 27x132
)

// Dimensions returns the rows, cols pair for m, defaulting to Model2's
// 24x80 for an unrecognized value.
func (m ScreenModel) Dimensions() (rows, cols int) {
	switch m {
	case Model3:
		return 32, 80
	case Model4:
		return 43, 80
	case Model5:
		return 27, 132
	default:
		return 24, 80
	}
}

// LogLevel mirrors charmbracelet/log's level set, named the way §6's
// recognized option enumerates it so Config can carry it with a plain
// string-like yaml scalar.
type LogLevel string

const (
	LogDisabled LogLevel = "disabled"
	LogError    LogLevel = "error"
	LogWarn     LogLevel = "warn"
	LogInfo     LogLevel = "info"
	LogDebug    LogLevel = "debug"
	LogTrace    LogLevel = "trace"
)

func (l LogLevel) toCharm() log.Level {
	switch l {
	case LogError:
		return log.ErrorLevel
	case LogWarn:
		return log.WarnLevel
	case LogInfo:
		return log.InfoLevel
	case LogDebug, LogTrace:
		return log.DebugLevel
	default:
		return log.FatalLevel + 1 // above Fatal: nothing logs
	}
}

// Config carries the recognized session options from §6. Loading it from
// a file or environment is an external collaborator's job; this package
// only declares the shape, tagged for gopkg.in/yaml.v3 so a loader can
// unmarshal directly into it.
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	ConnectTimeoutMS int `yaml:"connect_timeout_ms"`
	ReadTimeoutMS    int `yaml:"read_timeout_ms"`
	WriteTimeoutMS   int `yaml:"write_timeout_ms"`
	MaxRetries       int `yaml:"max_retries"`

	ScreenModel ScreenModel `yaml:"screen_model"`
	Codepage    string      `yaml:"codepage"`
	LogLevel    LogLevel    `yaml:"log_level"`

	TermType string `yaml:"term_type"`
}

// defaults fills zero fields with the values §4.7/§6 specify.
func (c Config) defaults() Config {
	if c.Port == 0 {
		c.Port = 23
	}
	if c.ConnectTimeoutMS == 0 {
		c.ConnectTimeoutMS = 15000
	}
	if c.ReadTimeoutMS == 0 {
		c.ReadTimeoutMS = 10000
	}
	if c.WriteTimeoutMS == 0 {
		c.WriteTimeoutMS = 5000
	}
	if c.ScreenModel == "" {
		c.ScreenModel = Model2
	}
	if c.Codepage == "" {
		c.Codepage = "037"
	}
	if c.LogLevel == "" {
		c.LogLevel = LogWarn
	}
	if c.TermType == "" {
		c.TermType = "IBM-3278-2"
	}
	return c
}

// SessionState is one of the states in §4.7's lifecycle.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateNegotiating
	StateSessionBound
	StateLockedWaitingReply
	StateInputAllowed
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateNegotiating:
		return "negotiating"
	case StateSessionBound:
		return "bound"
	case StateLockedWaitingReply:
		return "locked_waiting_reply"
	case StateInputAllowed:
		return "input_allowed"
	default:
		return "unknown"
	}
}

// Session owns the transport, framer, interpreter, presentation space, and
// response builder for one connection, and coordinates the
// receive-parse-execute / input-reply cycle (§4.7). All mutation happens
// on whatever goroutine calls its methods; a Session is not safe for
// concurrent use by design (§5 "no shared-state concurrency inside a
// session").
type Session struct {
	cfg    Config
	conn   net.Conn
	dialer func(network, addr string, timeout time.Duration) (net.Conn, error)

	negotiator *Negotiator
	framer     *Framer
	interp     *Interpreter
	rb         *ResponseBuilder
	ps         *PresentationSpace

	state SessionState
	id    uuid.UUID
	log   *log.Logger
}

// NewSession builds a Session from cfg, filling unset fields with §6's
// defaults. logger may be nil, in which case diagnostics are discarded
// (go3270's "nil Debug-writer means silent" default, carried forward).
func NewSession(cfg Config, logger *log.Logger) *Session {
	cfg = cfg.defaults()

	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	id := uuid.New()
	logger = logger.With("session_id", id.String())
	logger.SetLevel(cfg.LogLevel.toCharm())

	rows, cols := cfg.ScreenModel.Dimensions()

	return &Session{
		cfg:        cfg,
		dialer:     dialTimeout,
		framer:     NewFramer(),
		interp:     NewInterpreter(),
		rb:         NewResponseBuilder(),
		ps:         NewPresentationSpace(rows, cols),
		state:      StateDisconnected,
		id:         id,
		log:        logger,
	}
}

func dialTimeout(network, addr string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, addr, timeout)
}

// State returns the session's current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// PresentationSpace returns the session's presentation space, for
// renderers to read.
func (s *Session) PresentationSpace() *PresentationSpace { return s.ps }

// Connect dials the host, negotiates the telnet TN3270 options, and
// leaves the session in StateSessionBound with the keyboard locked
// (§4.7 "On bound: presentation space initialised to spaces; keyboard
// locked until first server command releases it").
func (s *Session) Connect() error {
	s.state = StateConnecting
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.log.Debug("connecting", "addr", addr)

	conn, err := s.dialer("tcp", addr, time.Duration(s.cfg.ConnectTimeoutMS)*time.Millisecond)
	if err != nil {
		s.state = StateDisconnected
		s.log.Error("connect failed", "error", err)
		return newError(ErrConnectRefused, "dial %s: %v", addr, err)
	}
	s.conn = conn

	s.state = StateNegotiating
	s.negotiator = NewNegotiator(conn, s.cfg.TermType)
	if err := s.negotiator.Negotiate(time.Duration(s.cfg.ConnectTimeoutMS) * time.Millisecond); err != nil {
		s.conn.Close()
		s.state = StateDisconnected
		s.log.Error("negotiation failed", "error", err)
		return err
	}
	s.log.Info("negotiation complete", "term_type", s.cfg.TermType)

	s.state = StateSessionBound
	s.ps.SetKeyboardLocked(true)

	if pending := s.negotiator.Pending(); len(pending) > 0 {
		if err := s.feed(pending); err != nil {
			return err
		}
	}

	return nil
}

// Disconnect closes the transport and moves the session to
// StateDisconnected. All subsequent operations fail with not-connected
// (§4.7 "On transport error or received disconnect: move to
// disconnected").
func (s *Session) Disconnect() error {
	s.state = StateDisconnected
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.log.Info("disconnected")
	return err
}

// ReceiveOnce reads one batch of bytes from the transport, frames it into
// zero or more complete 3270 records, and interprets each in receive
// order (§4.7, §5 "Ordering guarantees"). A record-level interpreter
// error is logged and the remaining records are still interpreted; an
// error is returned only for a transport or framing failure. Callers
// typically loop calling ReceiveOnce until Disconnect.
func (s *Session) ReceiveOnce() error {
	if s.state == StateDisconnected {
		return newError(ErrPeerClosed, "session not connected")
	}

	s.conn.SetReadDeadline(time.Now().Add(time.Duration(s.cfg.ReadTimeoutMS) * time.Millisecond))
	buf := make([]byte, 4096)
	n, err := s.conn.Read(buf)
	if err != nil {
		s.log.Error("read failed", "error", err)
		s.Disconnect()
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return newError(ErrReadTimeout, "no data within %dms", s.cfg.ReadTimeoutMS)
		}
		return newError(ErrPeerClosed, "read: %v", err)
	}

	return s.feed(buf[:n])
}

// feed pushes raw bytes through the Framer and interprets every completed
// record.
func (s *Session) feed(b []byte) error {
	records, err := s.framer.Feed(b)
	if err != nil {
		s.log.Error("framing error", "error", err, "kind", err.(*Error).Kind)
		s.framer.Reset()
		if err.(*Error).Kind.Fatal() {
			s.Disconnect()
		}
		return err
	}

	for _, rec := range records {
		if err := s.executeRecord(rec); err != nil {
			continue
		}
	}
	return nil
}

// executeRecord runs one record through the Interpreter, applying the
// failure semantics of §4.3: protocol violations are logged with
// position and byte but never roll back the presentation space, and the
// session keeps processing subsequent records.
func (s *Session) executeRecord(rec []byte) error {
	result, err := s.interp.Execute(rec, s.ps)
	if err != nil {
		if e, ok := err.(*Error); ok {
			s.log.Warn("protocol_violation", "kind", e.Kind.String(), "position", e.Position, "byte", fmt.Sprintf("%#02x", e.Byte))
		} else {
			s.log.Warn("protocol_violation", "error", err)
		}
		return err
	}

	if result.HasWCC {
		if result.WCC.KeyboardRestore {
			s.ps.SetKeyboardLocked(false)
			s.state = StateInputAllowed
		}
	}

	if result.PendingRead {
		s.state = StateLockedWaitingReply
		s.log.Debug("pending_read", "command", result.Command, "read_all", result.ReadAll)
	}

	return nil
}

// SendAID builds the appropriate response for aid (Clear gets the minimal
// no-data response; PA1/PA2/PA3 get a short read of AID plus cursor
// address; every other AID gets a Read-Modified response) and
// writes it to the transport, then transitions to locked_waiting_reply
// (§4.7 "Input: on operator AID, build response via §4.6, flush to
// transport, transition to locked_waiting_reply").
func (s *Session) SendAID(aid AID) error {
	if s.state == StateDisconnected {
		return newError(ErrPeerClosed, "session not connected")
	}

	var payload []byte
	switch aid {
	case AIDClear:
		payload = s.rb.BuildClear()
	case AIDPA1, AIDPA2, AIDPA3:
		payload = s.rb.BuildShortRead(aid, s.ps)
	default:
		payload = s.rb.BuildReadModified(aid, s.ps)
	}

	if err := s.write(payload); err != nil {
		return err
	}

	s.ps.SetKeyboardLocked(true)
	s.state = StateLockedWaitingReply
	s.log.Debug("aid_sent", "aid", aid.String())
	return nil
}

func (s *Session) write(payload []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(time.Duration(s.cfg.WriteTimeoutMS) * time.Millisecond))
	record := EncodeRecord(payload)
	if _, err := s.conn.Write(record); err != nil {
		s.log.Error("write failed", "error", err)
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return newError(ErrWriteTimeout, "write deadline exceeded")
		}
		return newError(ErrPeerClosed, "write: %v", err)
	}
	return nil
}

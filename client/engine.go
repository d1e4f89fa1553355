// Package client implements spec.md's C5 session half: the ProtocolMachine
// state machine and session state (name, version, pendingChange) that
// drive a connection to a spreadsheet server, plus the UI-facing Engine
// API of spec.md §6. Grounded on debugger/dap/server.go's request-loop
// dispatch and repl/server.go's net.Dial two-goroutine split, collapsed
// here into a single background receive loop managed by an
// errgroup.Group (golang.org/x/sync/errgroup) instead of a bare channel,
// so a read failure propagates through one place.
package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"collabsheet/config"
	"collabsheet/events"
	"collabsheet/sheet"
	"collabsheet/wire"
	"collabsheet/xmlstore"
)

// State is the engine's connection lifecycle, per spec.md §3's "Session
// state" lifecycle: Connecting → (Creating | Joining) → Joined →
// (Leaving | Closed).
type State int

const (
	StateConnecting State = iota
	StateCreating
	StateJoining
	StateJoined
	StateLeaving
	StateClosed
)

type pendingChange struct {
	cell    string
	content string
}

// Engine is the client-side collaborative spreadsheet session: the
// CellStore/DependencyGraph pair (via sheet.Store), the wire connection,
// and the session state of spec.md §3, all serialized behind one mutex
// per spec.md §5 ("a single mutex around the engine").
type Engine struct {
	mu sync.Mutex

	conn   net.Conn
	reader *bufio.Reader

	store *sheet.Store
	bus   *events.Bus
	cfg   *config.Config

	state   State
	name    string
	version string
	pending *pendingChange
	undoing bool

	group *errgroup.Group
}

// Connect dials the server described by cfg and starts the session.
// Connect is non-blocking in the sense spec.md §6 describes: it returns
// as soon as the TCP connection and initial CREATE/JOIN frame are sent,
// without waiting for the server's reply — success or failure surfaces
// later via a Joined or Failed event on the returned Engine.
func Connect(ctx context.Context, cfg *config.Config) (*Engine, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return newEngine(ctx, conn, cfg)
}

func newEngine(ctx context.Context, conn net.Conn, cfg *config.Config) (*Engine, error) {
	e := &Engine{
		conn:   conn,
		reader: bufio.NewReader(conn),
		store:  sheet.New(cfg.IsValid, cfg.Normalize),
		bus:    events.NewBus(),
		cfg:    cfg,
		name:   cfg.File,
		state:  StateConnecting,
	}

	g, gctx := errgroup.WithContext(ctx)
	e.group = g
	g.Go(func() error {
		e.receiveLoop(gctx)
		return nil
	})

	var frame []byte
	if cfg.CreateNew {
		e.state = StateCreating
		frame = wire.Create(cfg.File, cfg.Password)
	} else {
		e.state = StateJoining
		frame = wire.Join(cfg.File, cfg.Password)
	}
	if _, err := e.conn.Write(frame); err != nil {
		e.conn.Close()
		return nil, err
	}
	return e, nil
}

// Wait blocks until the background receive loop exits — the connection
// closed, locally or by the server.
func (e *Engine) Wait() error {
	return e.group.Wait()
}

// Subscribe registers handler for every future event (spec.md §4.5).
func (e *Engine) Subscribe(handler events.Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bus.Subscribe(handler)
}

// Change proposes new contents for cell (spec.md §6's change). It
// validates the cell name and, for a formula, pre-checks acyclicity
// against the current graph before any network traffic; a change while
// one is already pending is silently dropped, per spec.md §7's
// at-most-one-in-flight policy.
func (e *Engine) Change(cell, content string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateJoined {
		return fmt.Errorf("collabsheet: not joined to a spreadsheet")
	}
	name, err := e.store.NormalizeName(cell)
	if err != nil {
		return err
	}
	if err := e.store.Validate(name, content); err != nil {
		return err
	}
	if e.pending != nil {
		return nil // at-most-one-in-flight: new local changes are dropped
	}

	e.pending = &pendingChange{cell: name, content: content}
	_, err = e.conn.Write(wire.Change(e.name, e.version, name, content))
	return err
}

// Undo sends an UNDO request (spec.md §6's undo).
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateJoined {
		return fmt.Errorf("collabsheet: not joined to a spreadsheet")
	}
	e.undoing = true
	_, err := e.conn.Write(wire.Undo(e.name, e.version))
	return err
}

// Save sends a SAVE request (spec.md §6's save — server-side save).
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateJoined {
		return fmt.Errorf("collabsheet: not joined to a spreadsheet")
	}
	_, err := e.conn.Write(wire.Save(e.name))
	return err
}

// SaveLocal writes the current sheet to path as XML (spec.md §6's
// saveLocal), raising a *xmlstore.ReadWriteError on failure.
func (e *Engine) SaveLocal(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := e.store.NamesOfAllNonemptyCells()
	cells := make([]xmlstore.Cell, 0, len(names))
	for _, name := range names {
		cells = append(cells, xmlstore.Cell{Name: name, Contents: e.store.GetContents(name).String()})
	}
	return xmlstore.Save(path, e.version, cells)
}

// Leave sends LEAVE and closes the connection (spec.md §6's leave).
func (e *Engine) Leave() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateClosed {
		return nil
	}
	_, err := e.conn.Write(wire.Leave(e.name))
	e.state = StateLeaving
	e.conn.Close()
	return err
}

// GetCellContents returns name's authored contents (spec.md §6).
func (e *Engine) GetCellContents(name string) sheet.Contents {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetContents(name)
}

// GetCellValue returns name's displayable value (spec.md §6).
func (e *Engine) GetCellValue(name string) sheet.Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetValue(name)
}

// NamesOfAllNonemptyCells returns every currently non-empty cell name
// (spec.md §6).
func (e *Engine) NamesOfAllNonemptyCells() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.NamesOfAllNonemptyCells()
}

// Version returns the engine's current opaque server version token.
func (e *Engine) Version() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

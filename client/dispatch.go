package client

import (
	"context"
	"errors"
	"io"

	"collabsheet/events"
	"collabsheet/wire"
	"collabsheet/xmlstore"
)

// receiveLoop is spec.md §4.4's receive state machine, collapsed (per the
// teacher's dap server loop and this repo's own §9 DESIGN NOTES decision)
// into a single loop reading one frame at a time and dispatching it,
// rather than the source's callback-rebinding continuation chain.
//
// receiveLoop runs until a read fails (the connection closed or a reply
// was malformed), a CREATE/JOIN failure ends the session, or ctx (the
// context passed to Connect) is found cancelled; ctx is checked only
// between frames. spec.md has no per-request timeout, so otherwise it
// blocks on the read indefinitely.
func (e *Engine) receiveLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		frame, err := wire.ReadFrame(e.reader)
		if err != nil {
			e.handleReadError(err)
			return
		}
		if stop := e.dispatch(frame); stop {
			return
		}
	}
}

func (e *Engine) handleReadError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateClosed || e.state == StateLeaving {
		return
	}
	e.state = StateClosed
	if errors.Is(err, io.EOF) {
		e.bus.Publish(events.ConnectionClosedEvent())
		return
	}
	var malformed *wire.MalformedFrameError
	if errors.As(err, &malformed) {
		e.bus.Publish(events.GenericErrorEvent())
		return
	}
	e.bus.Publish(events.SocketErrorEvent(err.Error()))
}

// dispatch applies one decoded reply. It returns true when the receive
// loop should stop (the session is now closed).
func (e *Engine) dispatch(f *wire.Frame) (stop bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch f.Kind {
	case "CREATE OK":
		e.handleCreateOK(f)
	case "CREATE FAIL":
		e.handleFailAndClose(f)
		return true
	case "JOIN OK":
		e.handleJoinOK(f)
	case "JOIN FAIL":
		e.handleFailAndClose(f)
		return true
	case "CHANGE OK":
		e.handleChangeOK(f)
	case "CHANGE WAIT":
		e.handleChangeWait(f)
	case "CHANGE FAIL":
		e.pending = nil
		e.bus.Publish(events.FailedEvent(f.Lines))
	case "UNDO OK":
		e.handleUndoOK(f)
	case "UNDO END":
		e.undoing = false
		if v := f.Header("Version"); v != "" {
			e.version = v
		}
		e.bus.Publish(events.UndoEndEvent())
	case "UNDO WAIT":
		e.handleUndoWait(f)
	case "UNDO FAIL":
		e.undoing = false
		e.bus.Publish(events.FailedEvent(f.Lines))
	case "SAVE OK":
		// terminal for the save; spec.md §4.5 defines no success event.
	case "SAVE FAIL":
		e.bus.Publish(events.FailedEvent(f.Lines))
	case "UPDATE":
		e.handleUpdate(f)
	case "ERROR":
		e.bus.Publish(events.GenericErrorEvent())
	default:
		e.bus.Publish(events.GenericErrorEvent())
	}
	return false
}

func (e *Engine) handleCreateOK(f *wire.Frame) {
	name := f.Header("Name")
	password := f.Header("Password")
	e.name = name
	e.state = StateJoining
	e.conn.Write(wire.Join(name, password))
}

func (e *Engine) handleFailAndClose(f *wire.Frame) {
	e.state = StateClosed
	e.bus.Publish(events.FailedEvent(f.Lines))
	e.conn.Close()
}

func (e *Engine) handleJoinOK(f *wire.Frame) {
	e.name = f.Header("Name")
	e.version = f.Header("Version")
	e.state = StateJoined

	version, cells, err := xmlstore.Parse(f.Payload)
	if err != nil {
		e.bus.Publish(events.GenericErrorEvent())
		return
	}
	if version != "" {
		e.version = version
	}
	for _, c := range cells {
		if _, err := e.store.SetContents(c.Name, c.Contents); err != nil {
			e.bus.Publish(events.GenericErrorEvent())
		}
	}
	e.bus.Publish(events.JoinedEvent())
}

func (e *Engine) handleChangeOK(f *wire.Frame) {
	pending := e.pending
	e.pending = nil
	e.version = f.Header("Version")
	if pending == nil {
		return
	}
	order, err := e.store.SetContents(pending.cell, pending.content)
	if err != nil {
		e.bus.Publish(events.GenericErrorEvent())
		return
	}
	e.bus.Publish(events.UpdatedEvent(order))
}

func (e *Engine) handleChangeWait(f *wire.Frame) {
	v := f.Header("Version")
	if e.pending == nil {
		return
	}
	if v == e.version {
		// Server is merely serializing and we're already caught up: resend.
		e.conn.Write(wire.Change(e.name, e.version, e.pending.cell, e.pending.content))
		return
	}
	// Open question (spec.md §9): the conservative behavior is to drop the
	// pending change silently; the client's version will be advanced by an
	// incoming UPDATE instead.
	e.pending = nil
}

func (e *Engine) handleUndoWait(f *wire.Frame) {
	v := f.Header("Version")
	if !e.undoing {
		return
	}
	if v == e.version {
		e.conn.Write(wire.Undo(e.name, e.version))
		return
	}
	e.undoing = false
}

func (e *Engine) handleUndoOK(f *wire.Frame) {
	e.undoing = false
	cell := f.Header("Cell")
	content := string(f.Payload)
	e.version = f.Header("Version")
	order, err := e.store.SetContents(cell, content)
	if err != nil {
		e.bus.Publish(events.GenericErrorEvent())
		return
	}
	e.bus.Publish(events.UpdatedEvent(order))
}

func (e *Engine) handleUpdate(f *wire.Frame) {
	cell := f.Header("Cell")
	content := string(f.Payload)
	e.version = f.Header("Version")
	order, err := e.store.SetContents(cell, content)
	if err != nil {
		e.bus.Publish(events.GenericErrorEvent())
		return
	}
	e.bus.Publish(events.UpdatedEvent(order))
}

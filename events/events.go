// Package events implements spec.md's C6 component: the typed
// notification sink the UI subscribes to. Grounded on
// spreadsheet/server.go's broadcast-to-subscribers loop, repurposed from
// a websocket client set to a plain in-process callback list — this
// client has no browser transport, just the engine talking directly to
// whatever UI registered a handler.
package events

// Kind tags which event variant an Event carries.
type Kind string

const (
	Joined           Kind = "JOINED"
	Updated          Kind = "UPDATED"
	Failed           Kind = "FAILED"
	UndoEnd          Kind = "UNDO_END"
	ConnectionClosed Kind = "CONNECTION_CLOSED"
	SocketError      Kind = "SOCKET_ERROR"
	GenericError     Kind = "GENERIC_ERROR"
)

// Event is the single payload type delivered to subscribers; only the
// fields relevant to Kind are populated, mirroring spec.md §4.5's payload
// list.
type Event struct {
	Kind Kind

	// Updated
	Cells []string

	// Failed
	Lines []string

	// SocketError
	Reason string
}

// Handler receives events in delivery order, synchronously with the
// reply dispatch that produced them (spec.md §4.5: "Delivery is ordered
// per subscriber and synchronous with reply dispatch").
type Handler func(Event)

// Bus is a single-producer, multi-subscriber event sink. It holds no lock
// of its own — spec.md §5 puts subscriber storage "behind the same lock
// as the engine", so the client engine embeds a Bus inside its own mutex
// rather than Bus managing concurrency independently.
type Bus struct {
	subscribers []Handler
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler to receive all future events.
func (b *Bus) Subscribe(handler Handler) {
	b.subscribers = append(b.subscribers, handler)
}

// Publish delivers ev to every subscriber, in subscription order.
// Handlers must not call back into the engine re-entrantly; they may
// schedule work for later instead (spec.md §5).
func (b *Bus) Publish(ev Event) {
	for _, h := range b.subscribers {
		h(ev)
	}
}

func JoinedEvent() Event                   { return Event{Kind: Joined} }
func UpdatedEvent(cells []string) Event    { return Event{Kind: Updated, Cells: cells} }
func FailedEvent(lines []string) Event     { return Event{Kind: Failed, Lines: lines} }
func UndoEndEvent() Event                  { return Event{Kind: UndoEnd} }
func ConnectionClosedEvent() Event         { return Event{Kind: ConnectionClosed} }
func SocketErrorEvent(reason string) Event { return Event{Kind: SocketError, Reason: reason} }
func GenericErrorEvent() Event             { return Event{Kind: GenericError} }

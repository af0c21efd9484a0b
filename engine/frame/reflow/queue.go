package reflow

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"sync"

	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/npillmayer/weft/engine/frame/boxtree"
)

// EventKind discriminates the events a coordinator processes.
type EventKind int8

// Enum values for type EventKind
const (
	// EvResourceDone carries the bytes of a completed resource fetch for
	// a replaced box.
	EvResourceDone EventKind = iota

	// EvResourceFailed marks a failed fetch; the box keeps its fallback
	// geometry.
	EvResourceFailed

	// EvFontLoaded announces that a font family became available in the
	// font registry.
	EvFontLoaded
)

func (k EventKind) String() string {
	switch k {
	case EvResourceDone:
		return "resource-done"
	case EvResourceFailed:
		return "resource-failed"
	case EvFontLoaded:
		return "font-loaded"
	}
	return "<unknown event>"
}

// Event is one queued completion record. Resource events reference their
// box weakly; the reference is validated against the arena's generation
// when the event is applied, never when it is queued.
type Event struct {
	Kind   EventKind
	Box    boxtree.Ref // resource events only
	Data   []byte      // fetched bytes for EvResourceDone
	Err    error       // failure cause for EvResourceFailed
	Family string      // font family for EvFontLoaded
}

// Queue is the coordinator's event inbox. Fetch callbacks push from
// their goroutines; the content thread drains. The mutex covers only
// the queue, never the box tree.
type Queue struct {
	mu     sync.Mutex
	events *doublylinkedlist.List
}

// NewQueue creates an empty event queue.
func NewQueue() *Queue {
	return &Queue{events: doublylinkedlist.New()}
}

// Push appends an event, in arrival order.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events.Add(ev)
}

// Drain removes and returns all queued events, in arrival order.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.events.Size() == 0 {
		return nil
	}
	values := q.events.Values()
	q.events.Clear()
	events := make([]Event, len(values))
	for i, v := range values {
		events[i] = v.(Event)
	}
	return events
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.events.Size()
}

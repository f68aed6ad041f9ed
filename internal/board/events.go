package board

import (
	"sync/atomic"
	"time"
)

type EventKind string

const (
	EventTaskAdded        EventKind = "task_added"
	EventTaskUpdated      EventKind = "task_updated"
	EventTaskDeleted      EventKind = "task_deleted"
	EventTaskMoved        EventKind = "task_moved"
	EventSearchChanged    EventKind = "search_changed"
	EventFiltersChanged   EventKind = "filters_changed"
	EventColumnAdded      EventKind = "column_added"
	EventColumnRenamed    EventKind = "column_renamed"
	EventColumnDeleted    EventKind = "column_deleted"
	EventColumnsReordered EventKind = "columns_reordered"
)

// Event describes one applied state change. It is published after the
// derived view has been recomputed.
type Event struct {
	Seq      uint64
	Kind     EventKind
	TaskID   string
	ColumnID string
	Detail   string
	At       time.Time
}

// Subscribe returns a buffered channel that receives every subsequent event.
func (s *Store) Subscribe() <-chan Event {
	ch := make(chan Event, s.eventBuffer)
	s.subsMu.Lock()
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *Store) Unsubscribe(sub <-chan Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for ch := range s.subs {
		if ch == sub {
			delete(s.subs, ch)
			close(ch)
			return
		}
	}
}

// Dropped counts events discarded because a subscriber was behind.
func (s *Store) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

// publish must be called with s.mu held so events keep operation order.
func (s *Store) publish(kind EventKind, taskID, columnID, detail string) {
	s.seq++
	ev := Event{
		Seq:      s.seq,
		Kind:     kind,
		TaskID:   taskID,
		ColumnID: columnID,
		Detail:   detail,
		At:       s.now(),
	}
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			atomic.AddUint64(&s.dropped, 1)
		}
	}
}

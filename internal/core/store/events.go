package store

import "log"

// ------------------------------
// Event System
// ------------------------------
//
// The Store emits typed events when the cached bookmark list is replaced by
// a refetch, when a mark-read batch is committed, or when the last-update
// stamp moves. Register listeners to react to these changes; the daemon uses
// them to keep the tray badge current.
//
// Example usage:
//
//	st.RegisterEventListener(store.OnBookmarksReplacedEvent, func(event store.Event) error {
//	    ev := event.(store.BookmarksReplacedEvent)
//	    log.Printf("Cache refreshed: %d bookmarks", len(ev.Bookmarks))
//	    return nil
//	})
//
// Event is the common interface for all cache events.
type Event interface {
	Kind() EventKind
}

// EventKind represents all the kinds of events that can be emitted by the Store.
type EventKind int

const (
	// OnBookmarksReplacedEvent is emitted when a full refetch overwrites the list.
	OnBookmarksReplacedEvent EventKind = iota
	// OnBookmarksMarkedReadEvent is emitted when a mark-read batch is committed.
	OnBookmarksMarkedReadEvent
	// OnLastUpdateChangedEvent is emitted when the remote update stamp is stored.
	OnLastUpdateChangedEvent
)

func (k EventKind) String() string {
	switch k {
	case OnBookmarksReplacedEvent:
		return "bookmarks_replaced"
	case OnBookmarksMarkedReadEvent:
		return "bookmarks_marked_read"
	case OnLastUpdateChangedEvent:
		return "last_update_changed"
	default:
		return "unknown"
	}
}

// BookmarksReplacedEvent is emitted after a refetch overwrites the cached list.
type BookmarksReplacedEvent struct {
	Bookmarks []Bookmark
}

func (e BookmarksReplacedEvent) Kind() EventKind { return OnBookmarksReplacedEvent }

// BookmarksMarkedReadEvent is emitted after a mark-read batch is committed.
// Bookmarks is the full list after the flip.
type BookmarksMarkedReadEvent struct {
	Descriptions []string
	Bookmarks    []Bookmark
}

func (e BookmarksMarkedReadEvent) Kind() EventKind { return OnBookmarksMarkedReadEvent }

// LastUpdateChangedEvent is emitted after the remote update stamp is stored.
type LastUpdateChangedEvent struct {
	Previous string
	Current  string
}

func (e LastUpdateChangedEvent) Kind() EventKind { return OnLastUpdateChangedEvent }

// EventListener is a callback that handles events of a specific kind.
type EventListener func(event Event) error

// RegisterEventListener adds a listener for a specific event kind.
// Listeners are called synchronously in registration order after the cache write succeeds.
func (s *Store) RegisterEventListener(eventKind EventKind, listener EventListener) {
	if s.eventListeners == nil {
		s.eventListeners = make(map[EventKind][]EventListener)
	}
	s.eventListeners[eventKind] = append(s.eventListeners[eventKind], listener)
}

// emit dispatches an event to all registered listeners for that event kind.
func (s *Store) emit(event Event) {
	listeners := s.eventListeners[event.Kind()]
	for _, listener := range listeners {
		if err := listener(event); err != nil {
			log.Printf("Event listener error for %s: %v", event.Kind(), err)
		}
	}
}

package store

import (
	"errors"
	"testing"
)

// TestEventKindString tests the String method on EventKind.
func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind     EventKind
		expected string
	}{
		{OnBookmarksReplacedEvent, "bookmarks_replaced"},
		{OnBookmarksMarkedReadEvent, "bookmarks_marked_read"},
		{OnLastUpdateChangedEvent, "last_update_changed"},
		{EventKind(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestEventTypes tests that event types return correct Kind.
func TestEventTypes(t *testing.T) {
	t.Run("BookmarksReplacedEvent", func(t *testing.T) {
		e := BookmarksReplacedEvent{Bookmarks: sampleBookmarks()}
		if e.Kind() != OnBookmarksReplacedEvent {
			t.Errorf("expected OnBookmarksReplacedEvent, got %v", e.Kind())
		}
	})

	t.Run("BookmarksMarkedReadEvent", func(t *testing.T) {
		e := BookmarksMarkedReadEvent{Descriptions: []string{"One"}}
		if e.Kind() != OnBookmarksMarkedReadEvent {
			t.Errorf("expected OnBookmarksMarkedReadEvent, got %v", e.Kind())
		}
	})

	t.Run("LastUpdateChangedEvent", func(t *testing.T) {
		e := LastUpdateChangedEvent{Previous: "a", Current: "b"}
		if e.Kind() != OnLastUpdateChangedEvent {
			t.Errorf("expected OnLastUpdateChangedEvent, got %v", e.Kind())
		}
	})
}

// TestEventEmission tests that cache writes reach registered listeners.
func TestEventEmission(t *testing.T) {
	t.Run("replace emits with the new list", func(t *testing.T) {
		st := newTestStore(t)
		defer st.Close()

		var got []Bookmark
		st.RegisterEventListener(OnBookmarksReplacedEvent, func(event Event) error {
			got = event.(BookmarksReplacedEvent).Bookmarks
			return nil
		})

		if err := st.ReplaceBookmarks(sampleBookmarks()); err != nil {
			t.Fatalf("failed to replace bookmarks: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("expected listener to see 3 bookmarks, got %d", len(got))
		}
	})

	t.Run("mark-read emits the updated list", func(t *testing.T) {
		st := newTestStore(t)
		defer st.Close()

		if err := st.ReplaceBookmarks(sampleBookmarks()); err != nil {
			t.Fatalf("failed to seed bookmarks: %v", err)
		}

		var got BookmarksMarkedReadEvent
		st.RegisterEventListener(OnBookmarksMarkedReadEvent, func(event Event) error {
			got = event.(BookmarksMarkedReadEvent)
			return nil
		})

		if err := st.MarkBookmarksRead([]string{"One"}); err != nil {
			t.Fatalf("failed to mark read: %v", err)
		}
		if len(got.Descriptions) != 1 || got.Descriptions[0] != "One" {
			t.Errorf("expected descriptions [One], got %v", got.Descriptions)
		}
		if len(got.Bookmarks) != 3 || got.Bookmarks[0].ToRead != ToReadNo {
			t.Errorf("expected event to carry the flipped list, got %+v", got.Bookmarks)
		}
	})

	t.Run("stamp write emits previous and current", func(t *testing.T) {
		st := newTestStore(t)
		defer st.Close()

		if err := st.SetLastUpdate("a"); err != nil {
			t.Fatalf("failed to set stamp: %v", err)
		}

		var got LastUpdateChangedEvent
		st.RegisterEventListener(OnLastUpdateChangedEvent, func(event Event) error {
			got = event.(LastUpdateChangedEvent)
			return nil
		})

		if err := st.SetLastUpdate("b"); err != nil {
			t.Fatalf("failed to set stamp: %v", err)
		}
		if got.Previous != "a" || got.Current != "b" {
			t.Errorf("expected a -> b, got %q -> %q", got.Previous, got.Current)
		}
	})

	t.Run("multiple listeners run in registration order", func(t *testing.T) {
		st := newTestStore(t)
		defer st.Close()

		var order []int
		st.RegisterEventListener(OnBookmarksReplacedEvent, func(Event) error {
			order = append(order, 1)
			return nil
		})
		st.RegisterEventListener(OnBookmarksReplacedEvent, func(Event) error {
			order = append(order, 2)
			return nil
		})

		if err := st.ReplaceBookmarks(nil); err != nil {
			t.Fatalf("failed to replace bookmarks: %v", err)
		}
		if len(order) != 2 || order[0] != 1 || order[1] != 2 {
			t.Errorf("expected listeners in order [1 2], got %v", order)
		}
	})

	t.Run("listener errors do not fail the write", func(t *testing.T) {
		st := newTestStore(t)
		defer st.Close()

		st.RegisterEventListener(OnBookmarksReplacedEvent, func(Event) error {
			return errors.New("listener boom")
		})

		if err := st.ReplaceBookmarks(sampleBookmarks()); err != nil {
			t.Errorf("expected write to succeed despite listener error, got %v", err)
		}
	})
}

package core

import (
	"strconv"

	"github.com/pinwatch/pinwatch/internal/core/store"
)

// FilterUnread returns exactly the bookmarks still marked to-read,
// preserving their relative order.
func FilterUnread(bookmarks []store.Bookmark) []store.Bookmark {
	var out []store.Bookmark
	for _, b := range bookmarks {
		if b.Unread() {
			out = append(out, b)
		}
	}
	return out
}

// SelectForOpening caps the unread list at max, keeping the head of the
// list. No recency sort happens here; the order is whatever the remote
// API returned.
func SelectForOpening(unread []store.Bookmark, max int) []store.Bookmark {
	if max <= 0 || len(unread) <= max {
		return unread
	}
	return unread[:max]
}

// BadgeText renders an unread count the way the badge displays it:
// the count as a string, or "" when nothing is unread.
func BadgeText(count int) string {
	if count <= 0 {
		return ""
	}
	return strconv.Itoa(count)
}

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"
)

// Cache keys. Two logical values make up the cached record.
const (
	bookmarksKey  = "bookmarks"
	lastUpdateKey = "last_update"
)

// ErrInvalidURL is returned when a bookmark href fails validation.
var ErrInvalidURL = errors.New("invalid URL")

// ValidateBookmarkURL validates that an href is acceptable to hand to the
// browser. It requires an http or https scheme and a non-empty host.
func ValidateBookmarkURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return nil
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM cache WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cache key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO cache (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write cache key %q: %w", key, err)
	}
	return nil
}

// Bookmarks returns the cached bookmark list in stored order.
// An empty cache yields a nil slice, not an error.
func (s *Store) Bookmarks() ([]Bookmark, error) {
	raw, ok, err := s.get(bookmarksKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var out []Bookmark
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode cached bookmarks: %w", err)
	}
	return out, nil
}

// ReplaceBookmarks overwrites the cached list verbatim.
// Emits a BookmarksReplacedEvent after a successful write.
func (s *Store) ReplaceBookmarks(bookmarks []Bookmark) error {
	raw, err := json.Marshal(bookmarks)
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	if err := s.set(bookmarksKey, string(raw)); err != nil {
		return err
	}

	s.emit(BookmarksReplacedEvent{Bookmarks: bookmarks})

	return nil
}

// MarkBookmarksRead flips toread to "no" on every cached bookmark whose
// description appears in descriptions, in a single write. Descriptions that
// match nothing in the cache are logged and skipped.
// Emits a BookmarksMarkedReadEvent after a successful write.
func (s *Store) MarkBookmarksRead(descriptions []string) error {
	if len(descriptions) == 0 {
		return nil
	}

	bookmarks, err := s.Bookmarks()
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(descriptions))
	for _, d := range descriptions {
		wanted[d] = true
	}

	matched := make(map[string]bool, len(descriptions))
	for i := range bookmarks {
		if wanted[bookmarks[i].Description] {
			bookmarks[i].ToRead = ToReadNo
			matched[bookmarks[i].Description] = true
		}
	}
	for _, d := range descriptions {
		if !matched[d] {
			log.Printf("Mark-read: no cached bookmark matches description %q", d)
		}
	}

	raw, err := json.Marshal(bookmarks)
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	if err := s.set(bookmarksKey, string(raw)); err != nil {
		return err
	}

	s.emit(BookmarksMarkedReadEvent{
		Descriptions: descriptions,
		Bookmarks:    bookmarks,
	})

	return nil
}

// UnreadCount counts cached bookmarks still marked to-read.
func (s *Store) UnreadCount() (int, error) {
	bookmarks, err := s.Bookmarks()
	if err != nil {
		return 0, err
	}
	var n int
	for _, b := range bookmarks {
		if b.Unread() {
			n++
		}
	}
	return n, nil
}

// LastUpdate returns the cached remote update stamp, or "" if none is stored.
func (s *Store) LastUpdate() (string, error) {
	stamp, _, err := s.get(lastUpdateKey)
	return stamp, err
}

// SetLastUpdate stores the remote update stamp.
// Emits a LastUpdateChangedEvent after a successful write.
func (s *Store) SetLastUpdate(stamp string) error {
	previous, _, err := s.get(lastUpdateKey)
	if err != nil {
		return err
	}
	if err := s.set(lastUpdateKey, stamp); err != nil {
		return err
	}

	s.emit(LastUpdateChangedEvent{
		Previous: previous,
		Current:  stamp,
	})

	return nil
}

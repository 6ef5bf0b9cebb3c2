package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pinwatch/pinwatch/internal/core/store"
)

// RemoteAPI is the slice of the bookmarking service the workflows use.
// *pinboard.Client implements it.
type RemoteAPI interface {
	// LastUpdate returns the service's opaque last-modified marker.
	LastUpdate(ctx context.Context) (string, error)
	// AllPosts returns the complete bookmark list in service order.
	AllPosts(ctx context.Context) ([]store.Bookmark, error)
	// MarkRead flips a single bookmark to read on the remote side.
	MarkRead(ctx context.Context, b store.Bookmark) error
}

// TabOpener creates a background browser tab for a URL.
type TabOpener interface {
	OpenBackgroundTab(ctx context.Context, url string) error
}

// Notifier posts a user-visible notification.
type Notifier interface {
	Notify(title, body string) error
}

// Agent ties the cache, the remote API, and the browser together.
//
// The original extension let its timer tick and its click handler interleave
// freely over the shared cache; mu is the single-writer guard serializing
// the periodic sync against the open-and-mark-read workflow.
type Agent struct {
	store   *store.Store
	api     RemoteAPI
	tabs    TabOpener
	notif   Notifier
	maxTabs int

	mu sync.Mutex
}

// NewAgent builds an Agent. tabs and notif may be nil for workflows that
// never open tabs or notify (the one-shot sync command). maxTabs <= 0
// selects the default cap.
func NewAgent(st *store.Store, api RemoteAPI, tabs TabOpener, notif Notifier, maxTabs int) *Agent {
	if maxTabs <= 0 {
		maxTabs = DefaultMaxTabs
	}
	return &Agent{
		store:   st,
		api:     api,
		tabs:    tabs,
		notif:   notif,
		maxTabs: maxTabs,
	}
}

// checkForUpdates fetches the remote last-modified marker and compares it to
// the cached one. On a difference it persists the remote value and reports
// that a refresh is needed; on a match it reports false without writing.
//
// The stamp is persisted before the refetch runs. If the refetch then fails,
// the stamp has advanced past the cached data and the missed change is only
// picked up when the remote advances again. Kept from the original.
func (a *Agent) checkForUpdates(ctx context.Context) (bool, error) {
	remote, err := a.api.LastUpdate(ctx)
	if err != nil {
		return false, fmt.Errorf("fetch last update time: %w", err)
	}
	local, err := a.store.LastUpdate()
	if err != nil {
		return false, err
	}
	if remote == local {
		return false, nil
	}
	if err := a.store.SetLastUpdate(remote); err != nil {
		return false, err
	}
	return true, nil
}

// refresh fetches the complete bookmark list and overwrites the cache with
// it verbatim.
func (a *Agent) refresh(ctx context.Context) error {
	posts, err := a.api.AllPosts(ctx)
	if err != nil {
		return fmt.Errorf("fetch bookmark list: %w", err)
	}
	return a.store.ReplaceBookmarks(posts)
}

// Sync runs the periodic workflow: check the remote stamp, refetch the list
// when it moved. Reports whether a refetch happened.
func (a *Agent) Sync(ctx context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sync(ctx)
}

func (a *Agent) sync(ctx context.Context) (bool, error) {
	changed, err := a.checkForUpdates(ctx)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	if err := a.refresh(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// markRead issues one remote call per bookmark, concurrently, and joins all
// of them before inspecting results. Any failed call fails the batch and
// leaves the local cache untouched; remote calls that already succeeded are
// not rolled back (the next full refetch reconciles).
func (a *Agent) markRead(ctx context.Context, selected []store.Bookmark) error {
	if len(selected) == 0 {
		return nil
	}

	errs := make([]error, len(selected))
	var wg sync.WaitGroup
	for i, b := range selected {
		wg.Add(1)
		go func(i int, b store.Bookmark) {
			defer wg.Done()
			errs[i] = a.api.MarkRead(ctx, b)
		}(i, b)
	}
	wg.Wait()

	var failed int
	for i, err := range errs {
		if err != nil {
			failed++
			log.Printf("Mark-read failed for %s: %v", selected[i].Href, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("mark-read batch: %d of %d call(s) failed", failed, len(selected))
	}

	descriptions := make([]string, len(selected))
	for i, b := range selected {
		descriptions[i] = b.Description
	}
	return a.store.MarkBookmarksRead(descriptions)
}

// OpenUnread is the action-click workflow: sync if stale, pick up to
// maxTabs unread bookmarks in cache order, open each as a background tab,
// then mark exactly the opened subset read remotely and locally. Returns
// how many tabs were opened.
func (a *Agent) OpenUnread(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.sync(ctx); err != nil {
		return 0, err
	}

	bookmarks, err := a.store.Bookmarks()
	if err != nil {
		return 0, err
	}

	unread := FilterUnread(bookmarks)
	if len(unread) == 0 {
		a.notify("No unread bookmarks", "Nothing on the to-read list right now.")
		return 0, nil
	}

	selected := SelectForOpening(unread, a.maxTabs)
	a.notify("Opening bookmarks", fmt.Sprintf("Opening %d unread bookmark(s) in background tabs.", len(selected)))

	var opened []store.Bookmark
	for _, b := range selected {
		if err := store.ValidateBookmarkURL(b.Href); err != nil {
			log.Printf("Skipping bookmark with bad href %q: %v", b.Href, err)
			continue
		}
		if err := a.tabs.OpenBackgroundTab(ctx, b.Href); err != nil {
			return len(opened), fmt.Errorf("open tab for %s: %w", b.Href, err)
		}
		opened = append(opened, b)
	}

	if err := a.markRead(ctx, opened); err != nil {
		return len(opened), err
	}
	return len(opened), nil
}

// Poll runs Sync on a fixed cadence until ctx is cancelled.
func (a *Agent) Poll(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Printf("Background sync started with interval %v", interval)

	for {
		select {
		case <-ticker.C:
			refreshed, err := a.Sync(ctx)
			if err != nil {
				log.Printf("Periodic sync failed: %v", err)
				continue
			}
			if refreshed {
				log.Println("Cache refreshed from remote")
			}
		case <-ctx.Done():
			log.Println("Background sync stopped")
			return
		}
	}
}

func (a *Agent) notify(title, body string) {
	if a.notif == nil {
		return
	}
	if err := a.notif.Notify(title, body); err != nil {
		log.Printf("Notification failed: %v", err)
	}
}

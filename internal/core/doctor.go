package core

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pinwatch/pinwatch/internal/core/store"
)

// LinkStatus classifies the outcome of probing a bookmark's URL.
type LinkStatus int

const (
	LinkOK          LinkStatus = iota // 2xx or 3xx response
	LinkDead                          // 404 or 410 Gone
	LinkUnreachable                   // timeout, DNS failure, other 4xx/5xx, bad href
)

func (s LinkStatus) String() string {
	switch s {
	case LinkOK:
		return "ok"
	case LinkDead:
		return "dead"
	case LinkUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// LinkReport holds the check result for a single bookmark.
type LinkReport struct {
	Bookmark   store.Bookmark
	Status     LinkStatus
	StatusCode int    // HTTP status code (0 if the connection failed)
	PageTitle  string // <title> of reachable pages, best effort
	Err        string // error message for unreachable URLs
}

// CheckLinksOptions controls the doctor run.
type CheckLinksOptions struct {
	// Concurrency is the number of parallel probes. <= 0 selects the default.
	Concurrency int
	// Timeout is the per-URL deadline. <= 0 selects the default.
	Timeout time.Duration
}

// CheckLinks probes every bookmark's href with a bounded worker pool and a
// shared client, returning one report per bookmark in input order. It never
// mutates anything, locally or remotely.
func CheckLinks(ctx context.Context, bookmarks []store.Bookmark, opts CheckLinksOptions) []LinkReport {
	if len(bookmarks) == 0 {
		return nil
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultDoctorConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultDoctorTimeout
	}

	client := &http.Client{Timeout: opts.Timeout}

	reports := make([]LinkReport, len(bookmarks))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				reports[idx] = checkLink(ctx, client, bookmarks[idx])
			}
		}()
	}

feed:
	for i := range bookmarks {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return reports
}

func checkLink(ctx context.Context, client *http.Client, b store.Bookmark) LinkReport {
	rep := LinkReport{Bookmark: b}

	if err := store.ValidateBookmarkURL(b.Href); err != nil {
		rep.Status = LinkUnreachable
		rep.Err = err.Error()
		return rep
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.Href, nil)
	if err != nil {
		rep.Status = LinkUnreachable
		rep.Err = err.Error()
		return rep
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		rep.Status = LinkUnreachable
		rep.Err = err.Error()
		return rep
	}
	defer resp.Body.Close()

	rep.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		rep.Status = LinkDead
	case resp.StatusCode >= 400:
		rep.Status = LinkUnreachable
	default:
		rep.Status = LinkOK
		rep.PageTitle = extractTitle(resp.Body)
	}
	return rep
}

// extractTitle reads a bounded sample of the body and parses out <title>.
func extractTitle(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, MaxPageSample))
	if err != nil {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
